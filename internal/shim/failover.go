package shim

import (
	"context"
	"sync/atomic"
	"time"

	"touristhub/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverShim serves cache reads and writes from a primary backend,
// latching onto the fallback when the primary errors. The primary is
// retried after a minute.
type FailoverShim struct {
	primary   domain.Shim
	fallback  domain.Shim
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64 // unix nanos of the last failed primary call
}

func NewFailoverShim(primary, fallback domain.Shim, logger *zerolog.Logger) *FailoverShim {
	return &FailoverShim{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (s *FailoverShim) Get(ctx context.Context, key string) (string, bool, error) {
	if !s.isDown.Load() {
		val, ok, err := s.primary.Get(ctx, key)
		if err == nil {
			return val, ok, nil
		}
		s.markDown(err)
	}

	if s.shouldRetryPrimary() {
		val, ok, err := s.primary.Get(ctx, key)
		if err == nil {
			s.isDown.Store(false)
			return val, ok, nil
		}
		s.lastCheck.Store(time.Now().UnixNano())
	}

	return s.fallback.Get(ctx, key)
}

func (s *FailoverShim) Set(ctx context.Context, key, value string) error {
	if !s.isDown.Load() {
		if err := s.primary.Set(ctx, key, value); err == nil {
			// Mirror to the fallback so a later failover still sees
			// the freshest cache.
			_ = s.fallback.Set(ctx, key, value)
			return nil
		} else {
			s.markDown(err)
		}
	}

	return s.fallback.Set(ctx, key, value)
}

func (s *FailoverShim) Remove(ctx context.Context, key string) error {
	if !s.isDown.Load() {
		if err := s.primary.Remove(ctx, key); err == nil {
			_ = s.fallback.Remove(ctx, key)
			return nil
		} else {
			s.markDown(err)
		}
	}

	return s.fallback.Remove(ctx, key)
}

func (s *FailoverShim) markDown(err error) {
	s.logger.Error().Err(err).Msg("Primary shim failed, falling back")
	s.isDown.Store(true)
	s.lastCheck.Store(time.Now().UnixNano())
}

func (s *FailoverShim) shouldRetryPrimary() bool {
	return s.isDown.Load() && time.Since(time.Unix(0, s.lastCheck.Load())) > time.Minute
}
