package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/ezbjus/bariwikiemerg/internal/domain"
)

// BatchOptions controls one batch generation run.
type BatchOptions struct {
	// BatchSize is the number of terms fetched per round.
	BatchSize int

	// Delay is the pause between API calls.
	Delay time.Duration

	// Continuous keeps running rounds until no term is missing a
	// description. Off, the run stops after one round.
	Continuous bool

	// DryRun reports the current stats without generating anything.
	DryRun bool
}

// BatchResult summarizes a batch generation run.
type BatchResult struct {
	Processed int
	Succeeded int
	Failed    int
	Stats     domain.Stats
}

// RunBatch generates descriptions for terms that have none. Individual
// failures are logged and counted, not fatal; the run aborts only on
// context cancellation or a storage error. In continuous mode a round in
// which every term failed stops the run, otherwise the same failing terms
// would be retried forever.
func (s *Service) RunBatch(ctx context.Context, opts BatchOptions) (BatchResult, error) {
	var res BatchResult

	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}

	stats, err := s.terms.Stats(ctx)
	if err != nil {
		return res, fmt.Errorf("fetch stats: %w", err)
	}
	res.Stats = stats

	if opts.DryRun {
		return res, nil
	}
	if s.gen == nil {
		return res, fmt.Errorf("generation backend: %w", domain.ErrNotConfigured)
	}

	for {
		batch, err := s.terms.FindWithoutDescription(ctx, opts.BatchSize)
		if err != nil {
			return res, fmt.Errorf("fetch batch: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		s.log.Info("processing batch", "size", len(batch))

		succeeded := 0
		for _, t := range batch {
			if err := ctx.Err(); err != nil {
				return res, err
			}

			res.Processed++
			if _, err := s.GenerateForTerm(ctx, t.ID); err != nil {
				res.Failed++
				s.log.Error("generation failed", "id", t.ID, "name", t.Name, "error", err)
			} else {
				res.Succeeded++
				succeeded++
			}

			if opts.Delay > 0 {
				select {
				case <-time.After(opts.Delay):
				case <-ctx.Done():
					return res, ctx.Err()
				}
			}
		}

		if !opts.Continuous || succeeded == 0 {
			break
		}
	}

	if stats, err := s.terms.Stats(ctx); err == nil {
		res.Stats = stats
	}
	return res, nil
}
