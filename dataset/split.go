package dataset

import (
	"math"
	"math/rand/v2"

	"github.com/YuminosukeSato/buildingml/pkg/errors"
)

// TrainTestSplit shuffles the rows with a PCG source seeded by seed and
// returns disjoint train and test datasets. The test split holds
// ceil(testSize·n) rows. Both splits must end up non-empty.
func TrainTestSplit(d *Dataset, testSize float64, seed uint64) (train, test *Dataset, err error) {
	if !(testSize > 0 && testSize < 1) {
		return nil, nil, errors.NewValidationError("testSize", "must be in (0, 1)", testSize)
	}
	n := d.NumRows()
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest < 1 || n-nTest < 1 {
		return nil, nil, errors.NewValidationError("testSize", "split leaves an empty train or test set", n)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	perm := rng.Perm(n)
	return d.Take(perm[nTest:]), d.Take(perm[:nTest]), nil
}
