package server

import (
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/oarkflow/micromap/terms"
)

func TestLimiterPool_SharedBucketPerIP(t *testing.T) {
	pool := newLimiterPool(1, 1)
	now := time.Now()

	a := pool.get("10.0.0.1", now)
	b := pool.get("10.0.0.1", now)
	if a != b {
		t.Error("one IP must share one bucket")
	}
	if other := pool.get("10.0.0.2", now); other == a {
		t.Error("distinct IPs must not share a bucket")
	}
	if pool.clients.Size() != 2 {
		t.Errorf("expected 2 tracked clients, got %d", pool.clients.Size())
	}
}

func TestLimiterPool_ConcurrentFirstRequests(t *testing.T) {
	pool := newLimiterPool(100, 10)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.get("10.0.0.1", time.Now())
		}()
	}
	wg.Wait()

	if pool.clients.Size() != 1 {
		t.Errorf("simultaneous first requests must settle on one bucket, got %d", pool.clients.Size())
	}
}

func TestLimiterPool_PrunesIdleClients(t *testing.T) {
	pool := newLimiterPool(1, 1)
	now := time.Now()

	pool.get("10.0.0.1", now.Add(-2*pool.maxIdle))
	pool.get("10.0.0.2", now)

	pool.prune(now)

	if _, ok := pool.clients.Get("10.0.0.1"); ok {
		t.Error("idle client must be pruned")
	}
	if _, ok := pool.clients.Get("10.0.0.2"); !ok {
		t.Error("active client must survive the prune")
	}
}

func TestLimiterPool_SweepTriggeredByGrowth(t *testing.T) {
	pool := newLimiterPool(1, 1)
	pool.sweepAt = 2

	stale := time.Now().Add(-2 * pool.maxIdle)
	pool.get("10.0.0.1", stale)
	pool.get("10.0.0.2", stale)

	// The insert that grows the pool past sweepAt prunes the idle entries.
	pool.get("10.0.0.3", time.Now())

	if pool.clients.Size() != 1 {
		t.Errorf("expected only the fresh client after sweep, got %d", pool.clients.Size())
	}
	if _, ok := pool.clients.Get("10.0.0.3"); !ok {
		t.Error("the client that triggered the sweep must survive it")
	}
}

func TestServer_RateLimitRejects(t *testing.T) {
	s, err := New(Config{Addr: ":0", RatePerSecond: 1, RateBurst: 1}, terms.NewTaxonomy("test"), nil)
	if err != nil {
		t.Fatalf("failed to build server: %v", err)
	}

	resp, err := s.App().Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected first request to pass, got %d", resp.StatusCode)
	}

	resp, err = s.App().Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 429 {
		t.Errorf("expected 429 once the burst is spent, got %d", resp.StatusCode)
	}
}
