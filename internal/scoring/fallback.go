package scoring

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/cupid-matcher/internal/logger"
	"github.com/spigell/cupid-matcher/internal/profile"
)

const DefaultTimeout = 10 * time.Second

// Fallback tries the primary scorer under a timeout and answers with the
// fallback scorer on any failure. The primary's error never reaches the caller.
type Fallback struct {
	primary  Scorer
	fallback Scorer
	timeout  time.Duration
	logger   *zap.Logger
}

func NewFallback(primary, fallback Scorer, timeout time.Duration, log *zap.Logger) *Fallback {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fallback{
		primary:  primary,
		fallback: fallback,
		timeout:  timeout,
		logger:   log,
	}
}

type scoreResult struct {
	score profile.CompatibilityScore
	err   error
}

func (f *Fallback) Score(ctx context.Context, a, b *profile.Profile) (profile.CompatibilityScore, error) {
	if f.primary != nil {
		score, err := f.tryPrimary(ctx, a, b)
		if err == nil {
			return score, nil
		}

		fields := append(logger.MatchFields(a.ID, b.ID), zap.Duration("timeout", f.timeout), zap.Error(err))
		f.logger.Warn("primary scoring failed, using local fallback", fields...)
	}

	return f.fallback.Score(ctx, a, b)
}

// tryPrimary bounds the primary call even when it ignores its context.
func (f *Fallback) tryPrimary(ctx context.Context, a, b *profile.Profile) (profile.CompatibilityScore, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	done := make(chan scoreResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- scoreResult{err: fmt.Errorf("primary scorer panicked: %v", r)}
			}
		}()
		score, err := f.primary.Score(ctx, a, b)
		done <- scoreResult{score: score, err: err}
	}()

	select {
	case res := <-done:
		return res.score, res.err
	case <-ctx.Done():
		return profile.CompatibilityScore{}, fmt.Errorf("primary scorer: %w", ctx.Err())
	}
}
