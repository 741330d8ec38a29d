// Package retry provides automatic retry logic with exponential backoff
// for transient database connection failures.
//
// Error classification and backoff timing are pluggable through the
// pgextgate.ErrorClassifier and pgextgate.BackoffStrategy interfaces. The
// PostgreSQL classifier recognizes connection exceptions, resource
// exhaustion and operator-intervention error classes as transient; anything
// else is fatal and surfaces immediately.
//
//	classifier := retry.NewPostgreSQLErrorClassifier()
//	strategy := retry.NewExponentialBackoff(3)
//	executor := retry.NewExecutor(classifier, strategy)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return connect(ctx)
//	})
//
// Executor instances are safe for concurrent use. WithOnRetry returns an
// independent copy, so per-goroutine callbacks never share state.
package retry
