package mutants

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/helix/internal/records"
	"github.com/JaimeStill/helix/pkg/dna"
)

// flightTimeout bounds one shared classification pass.
const flightTimeout = 30 * time.Second

type repo struct {
	store       records.Store
	logger      *slog.Logger
	metrics     *metrics
	flights     singleflight.Group
	maxBodySize int64
}

// New creates the mutant classification system over store. reg may be nil.
func New(
	store records.Store,
	logger *slog.Logger,
	reg prometheus.Registerer,
	maxBodySize int64,
) System {
	return &repo{
		store:       store,
		logger:      logger.With("system", "mutants"),
		metrics:     newMetrics(reg),
		maxBodySize: maxBodySize,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.maxBodySize)
}

// Analyze collapses concurrent requests for one fingerprint into a single
// lookup-detect-insert pass. Requests in other processes still race on the
// store's atomic insert.
//
// The shared pass runs detached from any one caller's cancellation, bounded
// by flightTimeout; each caller stops waiting when its own ctx ends.
func (r *repo) Analyze(ctx context.Context, grid dna.Grid) (bool, error) {
	fp := grid.Fingerprint()

	ch := r.flights.DoChan(fp.String(), func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		return r.classify(fctx, grid, fp)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return false, res.Err
	}

	mutant, ok := res.Val.(bool)
	if !ok {
		return false, fmt.Errorf("unexpected classification type %T", res.Val)
	}
	return mutant, nil
}

func (r *repo) classify(ctx context.Context, grid dna.Grid, fp dna.Fingerprint) (bool, error) {
	stored, found, err := r.store.Lookup(ctx, fp)
	if err != nil {
		r.metrics.storeFails.WithLabelValues("lookup").Inc()
		return false, fmt.Errorf("lookup %s: %w", fp, err)
	}
	if found {
		r.metrics.analyses.WithLabelValues(result(stored), sourceStore).Inc()
		r.logger.Debug("classification found", "dna_hash", fp, "mutant", stored)
		return stored, nil
	}

	mutant := dna.IsMutant(grid)

	inserted, err := r.store.InsertIfAbsent(ctx, fp, mutant)
	if err != nil {
		r.metrics.storeFails.WithLabelValues("insert").Inc()
		return false, fmt.Errorf("record %s: %w", fp, err)
	}

	// A lost race still answers with this caller's own result; the detector
	// is deterministic, so it equals the winner's stored value.
	if !inserted {
		r.metrics.lostRaces.Inc()
		r.logger.Debug("classification already recorded", "dna_hash", fp)
	}

	r.metrics.analyses.WithLabelValues(result(mutant), sourceDetector).Inc()
	r.logger.Info("dna classified", "dna_hash", fp, "mutant", mutant, "size", grid.Size())
	return mutant, nil
}

func (r *repo) Stats(ctx context.Context) (*Stats, error) {
	var mutants, humans int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := r.store.CountWhere(gctx, true)
		if err != nil {
			return fmt.Errorf("count mutants: %w", err)
		}
		mutants = n
		return nil
	})
	g.Go(func() error {
		n, err := r.store.CountWhere(gctx, false)
		if err != nil {
			return fmt.Errorf("count humans: %w", err)
		}
		humans = n
		return nil
	})

	if err := g.Wait(); err != nil {
		r.metrics.storeFails.WithLabelValues("count").Inc()
		return nil, err
	}

	stats := NewStats(mutants, humans)
	r.logger.Debug("statistics computed", "mutants", mutants, "humans", humans, "ratio", stats.Ratio)
	return &stats, nil
}
