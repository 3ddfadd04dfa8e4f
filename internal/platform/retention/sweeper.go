package retention

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// StaleImportAge is how old an import must be before it can be marked
// inactive. Imports are never deleted; the audit trail stays.
const StaleImportAge = 7 * 24 * time.Hour

// Store is the persistence surface the sweeper needs, per hospital system
// schema.
type Store interface {
	SystemSchemas(ctx context.Context) ([]string, error)
	// PurgeExpired deletes patient records and transfer events whose
	// expiry is strictly before now. A record expiring exactly at now is
	// retained.
	PurgeExpired(ctx context.Context, schema string, now time.Time) (patients, transfers int64, err error)
	// DeactivateStaleImports marks imports older than the cutoff inactive,
	// but only those no active patient still references.
	DeactivateStaleImports(ctx context.Context, schema string, cutoff time.Time) (int64, error)
}

// Result carries the counts of one sweep. A no-op run reports zeros.
type Result struct {
	PatientsPurged     int64 `json:"patients_purged"`
	TransfersPurged    int64 `json:"transfers_purged"`
	ImportsDeactivated int64 `json:"imports_deactivated"`
}

type Sweeper struct {
	store   Store
	log     zerolog.Logger
	running atomic.Bool
}

func NewSweeper(store Store, log zerolog.Logger) *Sweeper {
	return &Sweeper{store: store, log: log.With().Str("component", "retention").Logger()}
}

// Sweep purges expired records across every system schema and deactivates
// stale imports. Errors are logged per schema and never propagate; the sweep
// always returns counts. Overlapping invocations are rejected with a zero
// result.
func (s *Sweeper) Sweep(ctx context.Context) Result {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn().Msg("sweep already in progress, skipping")
		return Result{}
	}
	defer s.running.Store(false)

	now := time.Now().UTC()
	res := Result{}

	schemas, err := s.store.SystemSchemas(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("listing system schemas")
		return res
	}

	for _, schema := range schemas {
		patients, transfers, err := s.store.PurgeExpired(ctx, schema, now)
		if err != nil {
			s.log.Error().Err(err).Str("schema", schema).Msg("purging expired records")
			continue
		}
		res.PatientsPurged += patients
		res.TransfersPurged += transfers

		deactivated, err := s.store.DeactivateStaleImports(ctx, schema, now.Add(-StaleImportAge))
		if err != nil {
			s.log.Error().Err(err).Str("schema", schema).Msg("deactivating stale imports")
			continue
		}
		res.ImportsDeactivated += deactivated
	}

	s.log.Info().
		Int64("patients_purged", res.PatientsPurged).
		Int64("transfers_purged", res.TransfersPurged).
		Int64("imports_deactivated", res.ImportsDeactivated).
		Msg("retention sweep complete")
	return res
}

// Run sweeps on the given interval until the context is cancelled. One sweep
// runs immediately on start.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	s.Sweep(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("retention sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}
