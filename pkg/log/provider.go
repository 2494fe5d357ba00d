package log

import (
	"sync"

	"github.com/YuminosukeSato/buildingml/pkg/errors"
)

var (
	providerMu     sync.RWMutex
	globalProvider LoggerProvider
)

// SetProvider replaces the global provider. A *ZerologProvider is also
// installed as the sink for library warnings.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	globalProvider = p
	if zp, ok := p.(*ZerologProvider); ok {
		errors.SetZerologWarnFunc(zp.warnFunc)
	} else {
		errors.SetZerologWarnFunc(nil)
	}
}

func provider() LoggerProvider {
	providerMu.RLock()
	p := globalProvider
	providerMu.RUnlock()
	if p != nil {
		return p
	}

	providerMu.Lock()
	defer providerMu.Unlock()
	if globalProvider == nil {
		zp := NewZerologProvider(LevelInfo)
		errors.SetZerologWarnFunc(zp.warnFunc)
		globalProvider = zp
	}
	return globalProvider
}

// GetLogger returns the default logger of the global provider.
func GetLogger() Logger {
	return provider().GetLogger()
}

// GetLoggerWithName returns a component logger of the global provider.
func GetLoggerWithName(name string) Logger {
	return provider().GetLoggerWithName(name)
}
