package probecache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/iptvcheck/iptv-check/internal/probe"
)

func openTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "probes.db"), ttl)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPutGet_roundTrip(t *testing.T) {
	c := openTestCache(t, time.Hour)

	want := probe.Result{
		OK:           true,
		Streams:      []probe.Stream{{CodecType: "video", Width: 1920, Height: 1080}},
		RequestChain: []string{"http://a.example/s", "http://b.example/s"},
	}
	if err := c.Put("http://a.example/s", want); err != nil {
		t.Fatal(err)
	}

	got, ok := c.Get("http://a.example/s")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !got.OK || len(got.Streams) != 1 || got.Streams[0].Height != 1080 || len(got.RequestChain) != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestGet_missAndExpiry(t *testing.T) {
	c := openTestCache(t, time.Nanosecond)
	if _, ok := c.Get("http://never.example"); ok {
		t.Error("unexpected hit")
	}
	if err := c.Put("http://x.example", probe.Result{OK: true}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, ok := c.Get("http://x.example"); ok {
		t.Error("expired entry must miss")
	}
}

func TestPut_overwrite(t *testing.T) {
	c := openTestCache(t, time.Hour)
	if err := c.Put("http://x.example", probe.Result{OK: true}); err != nil {
		t.Fatal(err)
	}
	fail := probe.Result{Failure: &probe.Failure{Kind: probe.KindHTTPStatus, HTTPStatus: 403}}
	if err := c.Put("http://x.example", fail); err != nil {
		t.Fatal(err)
	}
	got, ok := c.Get("http://x.example")
	if !ok || got.OK || got.Failure == nil || got.Failure.HTTPStatus != 403 {
		t.Errorf("got %+v ok=%v", got, ok)
	}
}

func TestOpen_prunesStaleEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probes.db")
	c, err := Open(path, time.Nanosecond)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Put("http://old.example", probe.Result{OK: true}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	c.Close()

	// Reopening with the short TTL prunes the row for good.
	c2, err := Open(path, time.Nanosecond)
	if err != nil {
		t.Fatal(err)
	}
	c2.Close()

	c3, err := Open(path, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer c3.Close()
	if _, ok := c3.Get("http://old.example"); ok {
		t.Error("stale entry must be deleted, not just expired")
	}
}

func TestPrune(t *testing.T) {
	c := openTestCache(t, time.Nanosecond)
	c.Put("http://a.example", probe.Result{OK: true})
	time.Sleep(10 * time.Millisecond)
	n, err := c.Prune()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("pruned %d, want 1", n)
	}
}
