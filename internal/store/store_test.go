package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"scrawl/internal/render"
	"scrawl/internal/scheduler"
	"scrawl/internal/session"
	"scrawl/internal/stats"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()
	if _, ok, err := m.LoadStats(ctx, "a"); ok || err != nil {
		t.Fatalf("empty load = %v, %v", ok, err)
	}
	want := stats.Stats{Total: 3, Successful: 2, Difficulty: stats.Medium}
	if err := m.SaveStats(ctx, "a", want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := m.LoadStats(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("load = %v, %v", ok, err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	m.Delete("a")
	if _, ok, _ := m.LoadStats(ctx, "a"); ok {
		t.Fatal("delete kept the snapshot")
	}
}

func TestMemoryBacksSessionStats(t *testing.T) {
	m := NewMemory(time.Minute)
	a := stats.New("sess", nil, m)
	a.RecordAttempt(true)
	b := stats.New("sess", nil, m)
	if b.Snapshot().Total != 1 || b.Difficulty() != stats.Hard {
		t.Fatalf("restored = %+v", b.Snapshot())
	}
	n := stats.New("other", nil, Nop{})
	n.RecordAttempt(true)
	if stats.New("other", nil, Nop{}).Snapshot().Total != 0 {
		t.Fatal("Nop kept state")
	}
}

func testFactory(id string) *session.Session {
	return session.New(id, render.NewCanvas(60, 30), stats.New(id, nil, nil),
		session.Options{Scheduler: &scheduler.Manual{}})
}

func TestRegistryGetOrCreate(t *testing.T) {
	r := NewRegistry(time.Minute, testFactory)

	s, created := r.GetOrCreate("")
	if !created {
		t.Fatal("empty id should create")
	}
	if _, err := uuid.Parse(s.ID()); err != nil {
		t.Fatalf("id %q is not a uuid: %v", s.ID(), err)
	}
	again, created := r.GetOrCreate(s.ID())
	if created || again != s {
		t.Fatal("known id should return the same session")
	}
	if _, created := r.GetOrCreate("not-a-uuid"); !created {
		t.Fatal("malformed id should create")
	}
	unknown := uuid.New().String()
	fresh, created := r.GetOrCreate(unknown)
	if !created || fresh.ID() != unknown {
		t.Fatalf("unknown id: created=%v id=%q, want %q", created, fresh.ID(), unknown)
	}
	if r.Len() != 3 {
		t.Fatalf("len = %d", r.Len())
	}
}

func TestRegistrySweep(t *testing.T) {
	r := NewRegistry(time.Minute, testFactory)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	idle := r.Create()
	busy := r.Create()

	now = now.Add(50 * time.Second)
	if _, ok := r.Get(busy.ID()); !ok {
		t.Fatal("busy session missing")
	}
	now = now.Add(20 * time.Second)

	if n := r.Sweep(); n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
	if _, ok := r.Get(idle.ID()); ok {
		t.Fatal("idle session survived")
	}
	if _, ok := r.Get(busy.ID()); !ok {
		t.Fatal("busy session expired")
	}
}

func TestMemoryExpiresSnapshots(t *testing.T) {
	m := NewMemory(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	if err := m.SaveStats(ctx, "old", stats.Stats{Total: 1, Difficulty: stats.Medium}); err != nil {
		t.Fatal(err)
	}
	now = now.Add(30 * time.Second)
	if err := m.SaveStats(ctx, "new", stats.Stats{Total: 2, Difficulty: stats.Medium}); err != nil {
		t.Fatal(err)
	}
	now = now.Add(45 * time.Second)

	if _, ok, _ := m.LoadStats(ctx, "old"); ok {
		t.Fatal("expired snapshot was loaded")
	}
	if _, ok, _ := m.LoadStats(ctx, "new"); !ok {
		t.Fatal("live snapshot missing")
	}
	if n := m.Prune(); n != 1 || m.Len() != 1 {
		t.Fatalf("pruned %d, left %d", n, m.Len())
	}
}

func TestRegistryRestoresStatsAfterExpiry(t *testing.T) {
	m := NewMemory(time.Hour)
	r := NewRegistry(time.Minute, func(id string) *session.Session {
		return session.New(id, render.NewCanvas(60, 30), stats.New(id, nil, m),
			session.Options{Scheduler: &scheduler.Manual{}})
	})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	first, _ := r.GetOrCreate("")
	if _, err := first.Verify(first.Challenge()); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	if n := r.Sweep(); n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}

	again, created := r.GetOrCreate(first.ID())
	if !created || again == first || again.ID() != first.ID() {
		t.Fatalf("created=%v same=%v id=%q", created, again == first, again.ID())
	}
	want := stats.View{Total: 1, Successful: 1, SuccessRate: 100, Difficulty: stats.Hard}
	if diff := cmp.Diff(want, again.Stats()); diff != "" {
		t.Fatalf("restored stats mismatch (-want +got):\n%s", diff)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("SCRAWL_REDIS_ADDR")
	if addr == "" {
		t.Skip("SCRAWL_REDIS_ADDR not set")
	}
	r := New(addr, time.Minute)
	defer r.Close()
	ctx := context.Background()
	if err := r.Ping(ctx); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}

	key := uuid.New().String()
	want := stats.Stats{Total: 2, Successful: 1, StartTime: time.Now().UTC().Truncate(time.Second), Difficulty: stats.Medium}
	if err := r.SaveStats(ctx, key, want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := r.LoadStats(ctx, key)
	if err != nil || !ok {
		t.Fatalf("load = %v, %v", ok, err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	id := "test-" + key
	for i := 0; i < 3; i++ {
		limited, err := r.IsRateLimited(ctx, id, 3)
		if err != nil || limited {
			t.Fatalf("request %d limited=%v err=%v", i, limited, err)
		}
	}
	if limited, _ := r.IsRateLimited(ctx, id, 3); !limited {
		t.Fatal("fourth request was not limited")
	}
}
