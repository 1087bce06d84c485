package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"licenseflow/internal/tester"
)

// flakyClient fails a fixed number of times before succeeding.
type flakyClient struct {
	failures int
	calls    int
	permErr  bool
}

func (f *flakyClient) Name() string { return "flaky" }
func (f *flakyClient) Close() error { return nil }
func (f *flakyClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		if f.permErr {
			return "", NewPermanentError(errors.New("bad request"))
		}
		return "", errors.New("transient")
	}
	return "ok", nil
}

func TestRetryRecoversFromTransientErrors(t *testing.T) {
	inner := &flakyClient{failures: 2}
	cli := Wrap(inner, Retry(3, time.Millisecond))

	out, err := cli.Complete(context.Background(), "", "p")
	tester.NoErr(t, err)
	tester.Eq(t, out, "ok")
	tester.Eq(t, inner.calls, 3)
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	inner := &flakyClient{failures: 10}
	cli := Wrap(inner, Retry(3, time.Millisecond))

	_, err := cli.Complete(context.Background(), "", "p")
	tester.True(t, err != nil, "expected error after exhausted retries")
	tester.Eq(t, inner.calls, 3)
}

func TestRetryDoesNotRetryPermanentErrors(t *testing.T) {
	inner := &flakyClient{failures: 10, permErr: true}
	cli := Wrap(inner, Retry(3, time.Millisecond))

	_, err := cli.Complete(context.Background(), "", "p")
	var pErr *PermanentError
	tester.True(t, errors.As(err, &pErr), "expected a permanent error")
	tester.Eq(t, inner.calls, 1)
}

func TestRetryStopsOnCanceledContext(t *testing.T) {
	inner := &flakyClient{failures: 10}
	cli := Wrap(inner, Retry(5, time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cli.Complete(ctx, "", "p")
	tester.True(t, errors.Is(err, context.Canceled), "expected context.Canceled, got %v", err)
}

func TestRateLimitSpacing(t *testing.T) {
	// Expect ~>=450ms between calls when rps=2 and burst=1.
	inner := &flakyClient{}
	cli := Wrap(inner, RateLimit(2, 1))
	t.Cleanup(func() { _ = cli.Close() })

	ctx := context.Background()
	start := time.Now()
	if _, err := cli.Complete(ctx, "", "p"); err != nil {
		t.Fatal(err)
	}
	if _, err := cli.Complete(ctx, "", "p"); err != nil {
		t.Fatal(err)
	}
	elapsed := time.Since(start)

	tester.True(t, elapsed >= 450*time.Millisecond, "expected throttling >=450ms, got %v", elapsed)
	tester.Eq(t, inner.calls, 2)
}

func TestRateLimitDisabledWhenRPSZero(t *testing.T) {
	inner := &flakyClient{}
	cli := Wrap(inner, RateLimit(0, 0))

	start := time.Now()
	for i := 0; i < 5; i++ {
		if _, err := cli.Complete(context.Background(), "", "p"); err != nil {
			t.Fatal(err)
		}
	}
	tester.True(t, time.Since(start) < 100*time.Millisecond, "disabled limiter must not throttle")
}

func TestWrapOrder(t *testing.T) {
	// Wrap(inner, A, B) => A(B(inner)); the retry layer must sit outside
	// the limiter so retried attempts are throttled too.
	inner := &flakyClient{failures: 1}
	cli := Wrap(inner, Retry(2, time.Millisecond), RateLimit(0, 0))

	out, err := cli.Complete(context.Background(), "", "p")
	tester.NoErr(t, err)
	tester.Eq(t, out, "ok")
}
