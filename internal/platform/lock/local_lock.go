package lock

import (
	"context"
	"sync"
)

// LocalLease serialises sweeps within one process. Used when Redis is not configured.
type LocalLease struct {
	mu   sync.Mutex
	held bool
}

// NewLocalLease creates an unheld in-process lease.
func NewLocalLease() *LocalLease {
	return &LocalLease{}
}

func (l *LocalLease) TryLock(_ context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *LocalLease) Unlock(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held {
		return ErrNotHeld
	}
	l.held = false
	return nil
}
