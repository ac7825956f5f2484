package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoExhaustsRetriesOnRetryableError(t *testing.T) {
	calls := 0
	wantErr := errors.New("rate limit exceeded")

	_, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", wantErr
	}, Options{MaxRetries: 3, Delay: time.Millisecond})

	if calls != 4 {
		t.Fatalf("expected 4 invocations, got %d", calls)
	}
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected last error to surface, got %v", err)
	}
}

func TestDoShortCircuitsOnNonRetryableError(t *testing.T) {
	calls := 0
	wantErr := errors.New("invalid api key")

	start := time.Now()
	_, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 0, wantErr
	}, Options{MaxRetries: 3, Delay: 500 * time.Millisecond})

	if calls != 1 {
		t.Fatalf("expected 1 invocation, got %d", calls)
	}
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected original error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("non-retryable error should not wait, took %s", elapsed)
	}
}

func TestDoReturnsValueAfterTransientFailures(t *testing.T) {
	calls := 0

	out, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("model overloaded, try again")
		}
		return "ok", nil
	}, Options{MaxRetries: 3, Delay: time.Millisecond})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 invocations, got %d", calls)
	}
	if out != "ok" {
		t.Fatalf("expected success value, got %q", out)
	}
}

func TestDoHonorsCustomClassifier(t *testing.T) {
	calls := 0
	marked := errors.New("custom transient failure")

	_, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 0, marked
	}, Options{
		MaxRetries: 1,
		Delay:      time.Millisecond,
		Retryable:  func(err error) bool { return errors.Is(err, marked) },
	})

	if calls != 2 {
		t.Fatalf("expected 2 invocations with custom classifier, got %d", calls)
	}
	if !errors.Is(err, marked) {
		t.Fatalf("expected marked error, got %v", err)
	}
}

func TestDoStopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := Do(ctx, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("status 503")
	}, Options{MaxRetries: 3, Delay: 5 * time.Second})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 invocation before cancel, got %d", calls)
	}
}

func TestRetryableMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"overloaded", errors.New("the model is Overloaded"), true},
		{"rate limit", errors.New("rate limit hit"), true},
		{"status 503", errors.New("upstream returned 503"), true},
		{"status 429", errors.New("http 429 from api"), true},
		{"quota", errors.New("daily quota exceeded"), true},
		{"parse failure", errors.New("unexpected token in JSON"), false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RetryableMessage(tc.err); got != tc.want {
				t.Fatalf("RetryableMessage(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
