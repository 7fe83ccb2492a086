package store

import (
	"sync"
)

var (
	defaultMu sync.Mutex
	defaultP  Persistence
)

// Default returns the process wide persistence, opening it from LoadConfig
// on first use. Later calls share the same handle.
func Default() (Persistence, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultP != nil {
		return defaultP, nil
	}
	p, err := Load(nil)
	if err != nil {
		return nil, err
	}
	defaultP = p
	return defaultP, nil
}

// CloseDefault closes the shared persistence, if it was opened.
func CloseDefault() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultP == nil {
		return nil
	}
	err := defaultP.Close()
	defaultP = nil
	return err
}
