package app

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"refwatch/ingest"
	"refwatch/internal"
)

// BatchRunner analyzes multiple seasons concurrently. Seasons are disjoint
// partitions, so runs never share mutable state; the only coordination is
// the result map guard.
type BatchRunner struct {
	service     *AnalysisService
	concurrency int
	log         *internal.Logger
}

// NewBatchRunner creates a runner executing up to concurrency seasons at once
func NewBatchRunner(service *AnalysisService, concurrency int) *BatchRunner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BatchRunner{
		service:     service,
		concurrency: concurrency,
		log:         internal.DefaultLogger.WithPrefix("batch"),
	}
}

// RunAll analyzes every season and returns results keyed by season ID.
// The first season-level failure cancels the remaining runs.
func (b *BatchRunner) RunAll(ctx context.Context, seasons []ingest.RawSeason) (map[string]*RunResult, error) {
	results := make(map[string]*RunResult, len(seasons))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for _, season := range seasons {
		season := season
		g.Go(func() error {
			result, err := b.service.Run(gctx, season)
			if err != nil {
				b.log.Error("season %s failed: %v", season.SeasonID, err)
				return err
			}
			mu.Lock()
			results[season.SeasonID] = result
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	b.log.Info("batch complete: %d seasons analyzed", len(results))
	return results, nil
}
