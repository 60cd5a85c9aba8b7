package kv_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"lifedeck/internal/kv"
	"lifedeck/internal/kv/memory"
)

type countingStore struct {
	kv.Store
	gets   int
	setErr error
}

func (c *countingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.gets++
	return c.Store.Get(ctx, key)
}

func (c *countingStore) Set(ctx context.Context, key string, value []byte) error {
	if c.setErr != nil {
		return c.setErr
	}
	return c.Store.Set(ctx, key, value)
}

func TestCachedServesRepeatReadsFromCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{Store: memory.New()}
	c := kv.NewCached(inner, 8, time.Minute)

	_ = inner.Store.Set(ctx, "meals", []byte(`[]`))
	for i := 0; i < 3; i++ {
		v, ok, err := c.Get(ctx, "meals")
		if err != nil || !ok || string(v) != "[]" {
			t.Fatalf("get %d: %q %v %v", i, v, ok, err)
		}
	}
	if inner.gets != 1 {
		t.Fatalf("inner gets = %d, want 1", inner.gets)
	}

	// Absence is cached too.
	c.Get(ctx, "lastVisitedMeal")
	c.Get(ctx, "lastVisitedMeal")
	if inner.gets != 2 {
		t.Fatalf("inner gets = %d, want 2", inner.gets)
	}
}

func TestCachedInvalidatesOnWrite(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{Store: memory.New()}
	c := kv.NewCached(inner, 8, time.Minute)

	if err := c.Set(ctx, "todoTasks", []byte(`[1]`)); err != nil {
		t.Fatal(err)
	}
	c.Get(ctx, "todoTasks")
	if err := c.Set(ctx, "todoTasks", []byte(`[2]`)); err != nil {
		t.Fatal(err)
	}
	v, _, _ := c.Get(ctx, "todoTasks")
	if string(v) != "[2]" {
		t.Fatalf("stale read after write: %q", v)
	}

	if err := c.Delete(ctx, "todoTasks"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "todoTasks"); ok {
		t.Fatal("stale read after delete")
	}
}

func TestCachedPropagatesWriteFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	inner := &countingStore{Store: memory.New()}
	c := kv.NewCached(inner, 8, time.Minute)

	_ = c.Set(ctx, "transactions", []byte(`[]`))
	inner.setErr = boom
	if err := c.Set(ctx, "transactions", []byte(`[1]`)); !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
	v, _, _ := c.Get(ctx, "transactions")
	if string(v) != "[]" {
		t.Fatalf("failed write must leave last good value, got %q", v)
	}
}

// gatedStore pauses the next Get after it has read the inner value, until
// release is closed.
type gatedStore struct {
	kv.Store
	armed   atomic.Bool
	reached chan struct{}
	release chan struct{}
}

func newGatedStore() *gatedStore {
	return &gatedStore{
		Store:   memory.New(),
		reached: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok, err := g.Store.Get(ctx, key)
	if g.armed.CompareAndSwap(true, false) {
		close(g.reached)
		<-g.release
	}
	return v, ok, err
}

func TestCachedReadRacingWriteDoesNotCacheStaleValue(t *testing.T) {
	ctx := context.Background()
	inner := newGatedStore()
	c := kv.NewCached(inner, 8, time.Minute)

	_ = inner.Store.Set(ctx, "todoTasks", []byte(`[]`))
	inner.armed.Store(true)

	done := make(chan struct{})
	go func() {
		defer close(done)
		v, _, err := c.Get(ctx, "todoTasks")
		if err != nil || string(v) != "[]" {
			t.Errorf("slow read = %q, %v", v, err)
		}
	}()

	<-inner.reached
	if err := c.Set(ctx, "todoTasks", []byte(`["a"]`)); err != nil {
		t.Fatal(err)
	}
	close(inner.release)
	<-done

	v, _, err := c.Get(ctx, "todoTasks")
	if err != nil {
		t.Fatal(err)
	}
	if string(v) != `["a"]` {
		t.Fatalf("read after write = %q, want [\"a\"]", v)
	}
}
