package retention

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeRecord struct {
	expiresAt time.Time
}

type fakeImport struct {
	createdAt time.Time
	active    bool
	activeRef bool // a still-active patient references this import
}

type fakeStore struct {
	mu       sync.Mutex
	schemas  []string
	patients map[string][]fakeRecord
	events   map[string][]fakeRecord
	imports  map[string][]*fakeImport
	failOn   string
	slow     time.Duration
}

func (f *fakeStore) SystemSchemas(ctx context.Context) ([]string, error) {
	return f.schemas, nil
}

func purge(records []fakeRecord, now time.Time) ([]fakeRecord, int64) {
	var kept []fakeRecord
	var deleted int64
	for _, r := range records {
		if r.expiresAt.Before(now) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	return kept, deleted
}

func (f *fakeStore) PurgeExpired(ctx context.Context, schema string, now time.Time) (int64, int64, error) {
	if f.slow > 0 {
		time.Sleep(f.slow)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if schema == f.failOn {
		return 0, 0, fmt.Errorf("schema %s unavailable", schema)
	}
	var p, t int64
	f.patients[schema], p = purge(f.patients[schema], now)
	f.events[schema], t = purge(f.events[schema], now)
	return p, t, nil
}

func (f *fakeStore) DeactivateStaleImports(ctx context.Context, schema string, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, imp := range f.imports[schema] {
		if imp.active && imp.createdAt.Before(cutoff) && !imp.activeRef {
			imp.active = false
			n++
		}
	}
	return n, nil
}

func newFakeStore(schemas ...string) *fakeStore {
	return &fakeStore{
		schemas:  schemas,
		patients: make(map[string][]fakeRecord),
		events:   make(map[string][]fakeRecord),
		imports:  make(map[string][]*fakeImport),
	}
}

func TestSweepPurgesStrictlyExpired(t *testing.T) {
	store := newFakeStore("system_default")
	now := time.Now().UTC()
	store.patients["system_default"] = []fakeRecord{
		{expiresAt: now.Add(-time.Hour)},     // expired, purged
		{expiresAt: now.Add(72 * time.Hour)}, // live
	}
	store.events["system_default"] = []fakeRecord{
		{expiresAt: now.Add(-time.Minute)},
	}

	res := NewSweeper(store, zerolog.Nop()).Sweep(context.Background())
	if res.PatientsPurged != 1 {
		t.Errorf("patients purged = %d, want 1", res.PatientsPurged)
	}
	if res.TransfersPurged != 1 {
		t.Errorf("transfers purged = %d, want 1", res.TransfersPurged)
	}
	if len(store.patients["system_default"]) != 1 {
		t.Errorf("surviving patients = %d, want 1", len(store.patients["system_default"]))
	}
}

func TestSweepRetainsBoundaryExpiry(t *testing.T) {
	store := newFakeStore("system_default")
	// Expiring exactly "now" must be retained; only strictly-before goes.
	// The fake purges with Before(now), matching the store's `< $1`.
	now := time.Now().UTC().Add(time.Minute)
	store.patients["system_default"] = []fakeRecord{{expiresAt: now}}

	res := NewSweeper(store, zerolog.Nop()).Sweep(context.Background())
	if res.PatientsPurged != 0 {
		t.Errorf("patients purged = %d, want 0 at the boundary", res.PatientsPurged)
	}
}

func TestSweepDeactivatesOnlyUnreferencedStaleImports(t *testing.T) {
	store := newFakeStore("system_default")
	old := time.Now().UTC().Add(-8 * 24 * time.Hour)
	fresh := time.Now().UTC().Add(-time.Hour)
	store.imports["system_default"] = []*fakeImport{
		{createdAt: old, active: true},                  // stale, deactivated
		{createdAt: old, active: true, activeRef: true}, // stale but referenced
		{createdAt: fresh, active: true},                // too new
	}

	res := NewSweeper(store, zerolog.Nop()).Sweep(context.Background())
	if res.ImportsDeactivated != 1 {
		t.Errorf("imports deactivated = %d, want 1", res.ImportsDeactivated)
	}
	if !store.imports["system_default"][1].active {
		t.Error("referenced import was deactivated")
	}
	if !store.imports["system_default"][2].active {
		t.Error("fresh import was deactivated")
	}
}

func TestSweepSchemaFailureIsNotFatal(t *testing.T) {
	store := newFakeStore("system_a", "system_b")
	store.failOn = "system_a"
	now := time.Now().UTC()
	store.patients["system_b"] = []fakeRecord{{expiresAt: now.Add(-time.Hour)}}

	res := NewSweeper(store, zerolog.Nop()).Sweep(context.Background())
	if res.PatientsPurged != 1 {
		t.Errorf("patients purged = %d, want 1 from the healthy schema", res.PatientsPurged)
	}
}

func TestSweepNoOpReturnsZeroCounts(t *testing.T) {
	store := newFakeStore("system_default")
	res := NewSweeper(store, zerolog.Nop()).Sweep(context.Background())
	if res != (Result{}) {
		t.Errorf("result = %+v, want zeros", res)
	}
}

func TestSweepRejectsOverlap(t *testing.T) {
	store := newFakeStore("system_default")
	store.slow = 50 * time.Millisecond
	now := time.Now().UTC()
	store.patients["system_default"] = []fakeRecord{{expiresAt: now.Add(-time.Hour)}}

	sweeper := NewSweeper(store, zerolog.Nop())
	done := make(chan Result, 1)
	go func() { done <- sweeper.Sweep(context.Background()) }()
	time.Sleep(10 * time.Millisecond)

	overlapped := sweeper.Sweep(context.Background())
	if overlapped != (Result{}) {
		t.Errorf("overlapping sweep = %+v, want rejected with zeros", overlapped)
	}
	first := <-done
	if first.PatientsPurged != 1 {
		t.Errorf("first sweep purged = %d, want 1", first.PatientsPurged)
	}
}
