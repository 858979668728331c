package aurender

import (
	"sync/atomic"

	"github.com/soypat/aurora"
)

// Live holds the live configuration. Writers replace whole snapshots and readers
// load one snapshot per frame so a frame never observes a partial update.
type Live struct {
	cfg atomic.Pointer[aurora.Config]
}

// NewLive returns a live configuration store holding cfg, which must be valid.
func NewLive(cfg aurora.Config) (*Live, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	l := &Live{}
	l.cfg.Store(&cfg)
	return l, nil
}

// Load returns the current snapshot.
func (l *Live) Load() aurora.Config {
	return *l.cfg.Load()
}

// Store validates cfg and makes it the current snapshot.
func (l *Live) Store(cfg aurora.Config) error {
	err := cfg.Validate()
	if err != nil {
		return err
	}
	l.cfg.Store(&cfg)
	return nil
}

// Patch applies a partial JSON configuration to the current snapshot. The
// snapshot is left unchanged if the patch is malformed or yields an invalid configuration.
func (l *Live) Patch(data []byte) (aurora.Config, error) {
	for {
		old := l.cfg.Load()
		next, err := old.Patch(data)
		if err != nil {
			return *old, err
		}
		err = next.Validate()
		if err != nil {
			return *old, err
		}
		if l.cfg.CompareAndSwap(old, &next) {
			return next, nil
		}
	}
}
