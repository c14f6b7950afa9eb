package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"nextbar/internal/pipeline"
)

type countingRunner struct {
	calls int
	err   error
}

func (r *countingRunner) Run(_ context.Context, ticker string) (*pipeline.Result, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &pipeline.Result{Ticker: ticker}, nil
}

func TestCacheHit(t *testing.T) {
	runner := &countingRunner{}
	c := Wrap(runner, time.Minute)

	for i := 0; i < 3; i++ {
		res, err := c.Run(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		if res.Ticker != "AAPL" {
			t.Errorf("Ticker = %q", res.Ticker)
		}
	}
	if runner.calls != 1 {
		t.Errorf("inner runner called %d times, want 1", runner.calls)
	}
}

func TestCacheKeyedByTicker(t *testing.T) {
	runner := &countingRunner{}
	c := Wrap(runner, time.Minute)

	c.Run(context.Background(), "AAPL")
	c.Run(context.Background(), "MSFT")
	if runner.calls != 2 {
		t.Errorf("inner runner called %d times, want 2", runner.calls)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestCacheNormalizesTickerKey(t *testing.T) {
	runner := &countingRunner{}
	c := Wrap(runner, time.Minute)

	c.Run(context.Background(), "AAPL")
	c.Run(context.Background(), "aapl")
	c.Run(context.Background(), " AAPL ")

	if runner.calls != 1 {
		t.Errorf("inner runner called %d times, want 1 across casings", runner.calls)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCacheExpiry(t *testing.T) {
	runner := &countingRunner{}
	c := Wrap(runner, time.Minute)

	var elapsed time.Duration
	c.since = func(time.Time) time.Duration { return elapsed }

	c.Run(context.Background(), "AAPL")
	elapsed = 2 * time.Minute
	c.Run(context.Background(), "AAPL")

	if runner.calls != 2 {
		t.Errorf("inner runner called %d times, want 2 after expiry", runner.calls)
	}
}

func TestCacheNeverCachesErrors(t *testing.T) {
	runner := &countingRunner{err: errors.New("boom")}
	c := Wrap(runner, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := c.Run(context.Background(), "AAPL"); err == nil {
			t.Fatal("expected error")
		}
	}
	if runner.calls != 2 {
		t.Errorf("inner runner called %d times, want 2 (errors not cached)", runner.calls)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestCacheDisabled(t *testing.T) {
	runner := &countingRunner{}
	c := Wrap(runner, 0)

	c.Run(context.Background(), "AAPL")
	c.Run(context.Background(), "AAPL")
	if runner.calls != 2 {
		t.Errorf("inner runner called %d times, want 2 with caching disabled", runner.calls)
	}
}

func TestCacheDiscardsAfterCancellation(t *testing.T) {
	runner := &countingRunner{}
	c := Wrap(runner, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Run(ctx, "AAPL"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if c.Len() != 0 {
		t.Error("cancelled run must not populate the cache")
	}
}
