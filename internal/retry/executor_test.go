package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

// stubClassifier treats every error as transient or fatal.
type stubClassifier struct{ transient bool }

func (s stubClassifier) IsTransient(err error) bool { return s.transient }

func fastBackoff(maxAttempts int) *ExponentialBackoff {
	return NewExponentialBackoff(maxAttempts,
		WithInitialDelay(time.Millisecond),
		WithMaxDelay(2*time.Millisecond),
		WithJitter(0),
	)
}

func TestExecutor_SuccessOnFirstAttempt(t *testing.T) {
	e := NewExecutor(stubClassifier{transient: true}, fastBackoff(3))

	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestExecutor_RetriesTransientErrors(t *testing.T) {
	e := NewExecutor(stubClassifier{transient: true}, fastBackoff(5))

	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestExecutor_FatalErrorStopsImmediately(t *testing.T) {
	e := NewExecutor(stubClassifier{transient: false}, fastBackoff(5))

	fatal := errors.New("fatal")
	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("Execute() error = %v, want fatal error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retries for fatal errors)", calls)
	}
}

func TestExecutor_ExhaustsAttempts(t *testing.T) {
	e := NewExecutor(stubClassifier{transient: true}, fastBackoff(3))

	transient := errors.New("still down")
	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return transient
	})
	if !errors.Is(err, transient) {
		t.Fatalf("Execute() error = %v, want last transient error", err)
	}
	if calls != 4 { // initial + 3 retries
		t.Errorf("calls = %d, want 4", calls)
	}
}

func TestExecutor_ZeroAttemptsMeansNoRetries(t *testing.T) {
	e := NewExecutor(stubClassifier{transient: true}, fastBackoff(0))

	calls := 0
	_ = e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("transient")
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestExecutor_ContextCancellationStopsRetries(t *testing.T) {
	e := NewExecutor(stubClassifier{transient: true}, NewExponentialBackoff(10,
		WithInitialDelay(time.Hour), // would stall forever without cancellation
		WithJitter(0),
	))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := e.Execute(ctx, func(ctx context.Context) error {
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestExecutor_OnRetryCallback(t *testing.T) {
	var attempts []int
	e := NewExecutor(stubClassifier{transient: true}, fastBackoff(2)).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			attempts = append(attempts, attempt)
		})

	_ = e.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("transient")
	})
	if len(attempts) != 2 || attempts[0] != 0 || attempts[1] != 1 {
		t.Errorf("onRetry attempts = %v, want [0 1]", attempts)
	}
}

func TestExecutor_WithOnRetryDoesNotMutateReceiver(t *testing.T) {
	base := NewExecutor(stubClassifier{transient: true}, fastBackoff(1))
	derived := base.WithOnRetry(func(int, error, time.Duration) {})

	if base == derived {
		t.Error("WithOnRetry should return a new instance")
	}
	if base.onRetry != nil {
		t.Error("WithOnRetry must not modify the receiver")
	}
}
