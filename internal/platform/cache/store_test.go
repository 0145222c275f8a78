package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestStore_GetReturnsMissAfterTTL(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	store := NewStore(time.Hour, WithClock(clock))
	ctx := context.Background()

	store.Set(ctx, "standings:PL", "payload")

	if _, ok := store.Get(ctx, "standings:PL"); !ok {
		t.Fatalf("expected fresh entry to hit")
	}

	clock.Advance(time.Hour + time.Second)
	if _, ok := store.Get(ctx, "standings:PL"); ok {
		t.Fatalf("expected entry past TTL to miss")
	}
}

func TestStore_SetOverwritesExistingEntry(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "k", "old")
	store.Set(ctx, "k", "new")

	v, ok := store.Get(ctx, "k")
	if !ok {
		t.Fatalf("expected hit")
	}
	if got, _ := v.(string); got != "new" {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestStore_MaxEntriesEvictsOldestFirst(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	store := NewStore(time.Hour, WithClock(clock), WithMaxEntries(2))
	ctx := context.Background()

	store.Set(ctx, "first", 1)
	clock.Advance(time.Second)
	store.Set(ctx, "second", 2)
	clock.Advance(time.Second)
	store.Set(ctx, "third", 3)

	if _, ok := store.Get(ctx, "first"); ok {
		t.Fatalf("expected oldest entry to be evicted")
	}
	if _, ok := store.Get(ctx, "second"); !ok {
		t.Fatalf("expected second entry to survive")
	}
	if _, ok := store.Get(ctx, "third"); !ok {
		t.Fatalf("expected newest entry to be present")
	}
	if got := store.Len(); got != 2 {
		t.Fatalf("expected 2 entries, got %d", got)
	}
}

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	boom := errors.New("upstream down")

	failing := func(context.Context) (any, error) {
		calls.Add(1)
		return nil, boom
	}

	if _, err := store.GetOrLoad(context.Background(), "k", failing); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", failing); !errors.Is(err, boom) {
		t.Fatalf("expected loader error on retry, got %v", err)
	}

	if got := calls.Load(); got != 2 {
		t.Fatalf("failed loads must not be cached, loader called %d times", got)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
