package rediscache

import (
	"context"
	"reflect"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/example/taskboard/internal/ports/secondary"
)

func newTestCache(t *testing.T) (*BoardCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewBoardCache(client, ""), mr
}

func testSnapshot() *secondary.BoardSnapshot {
	return &secondary.BoardSnapshot{
		Columns: []*secondary.ColumnRecord{{ID: 1, Name: "To Do", Position: 1, Color: "#6b7280"}},
		Tasks: []*secondary.TaskRecord{{
			ID: 1, TaskID: "DEV-101", Title: "Write code", ColumnID: 1, Position: 1,
			Priority: "medium", Status: "active", ColumnName: "To Do", ColumnColor: "#6b7280",
		}},
	}
}

func TestBoardCache_MissThenHit(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	got, err := cache.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected miss, got %+v", got)
	}

	want := testSnapshot()
	stored, err := cache.Set(ctx, want, 0, time.Minute)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !stored {
		t.Fatal("expected snapshot to be stored")
	}
	if ttl := mr.TTL(DefaultKey); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected TTL: %v", ttl)
	}

	got, err = cache.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("snapshot = %#v, want %#v", got, want)
	}
}

func TestBoardCache_Invalidate(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	if _, err := cache.Set(ctx, testSnapshot(), 0, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists(DefaultKey) {
		t.Fatal("expected key to be evicted")
	}
}

func TestBoardCache_ExpiresWithTTL(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	if _, err := cache.Set(ctx, testSnapshot(), 0, 30*time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(31 * time.Second)

	got, err := cache.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatal("expected snapshot to expire")
	}
}

func TestBoardCache_CorruptEntryIsDropped(t *testing.T) {
	cache, mr := newTestCache(t)
	if err := mr.Set(DefaultKey, "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatal("expected miss on corrupt entry")
	}
	if mr.Exists(DefaultKey) {
		t.Fatal("expected corrupt entry to be deleted")
	}
}

func TestBoardCache_ZeroTTLSkipsWrite(t *testing.T) {
	cache, mr := newTestCache(t)

	stored, err := cache.Set(context.Background(), testSnapshot(), 0, 0)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if stored {
		t.Error("zero TTL reported a write")
	}
	if mr.Exists(DefaultKey) {
		t.Fatal("zero TTL must not write")
	}
}

func TestBoardCache_NilClient(t *testing.T) {
	cache := NewBoardCache(nil, "")
	ctx := context.Background()

	if got, err := cache.Get(ctx); got != nil || err != nil {
		t.Fatalf("get = %v, %v", got, err)
	}
	if _, err := cache.Set(ctx, testSnapshot(), 0, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
}

func TestBoardCache_FillAfterInvalidateIsDropped(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	gen, err := cache.Generation(ctx)
	if err != nil {
		t.Fatalf("generation: %v", err)
	}
	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	stored, err := cache.Set(ctx, testSnapshot(), gen, time.Minute)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if stored || mr.Exists(DefaultKey) {
		t.Fatal("fill read before the eviction must not be stored")
	}

	next, err := cache.Generation(ctx)
	if err != nil {
		t.Fatalf("generation: %v", err)
	}
	if next != gen+1 {
		t.Fatalf("generation = %d, want %d", next, gen+1)
	}
	stored, err = cache.Set(ctx, testSnapshot(), next, time.Minute)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !stored || !mr.Exists(DefaultKey) {
		t.Fatal("fill with the current generation should be stored")
	}
}
