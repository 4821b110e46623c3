package services

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/logger"
)

// Retry bounds for transient store failures such as a busy database.
const (
	retryInitialInterval = 25 * time.Millisecond
	retryMaxInterval     = 500 * time.Millisecond
	retryMaxElapsed      = 3 * time.Second
)

// noopRecorder discards measurements.
type noopRecorder struct{}

func (noopRecorder) GetOrCreate(string, string) {}
func (noopRecorder) BatchRows(string, int)      {}
func (noopRecorder) StoreRetry(string)          {}

func recorderOrNoop(rec driven.Recorder) driven.Recorder {
	if rec == nil {
		return noopRecorder{}
	}
	return rec
}

// retry runs fn until it succeeds, fails with a non-retryable kind, or the
// backoff gives up. Callers pass whole transactions, never statements
// inside one.
func retry(ctx context.Context, rec driven.Recorder, op string, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval
	b.MaxInterval = retryMaxInterval
	b.MaxElapsedTime = retryMaxElapsed

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		if attempt > 1 {
			rec.StoreRetry(op)
			logger.Debug("%s: retry %d", op, attempt-1)
		}
		err := fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
			!domain.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx))
}

// getOrCreate returns the row find locates, or the row create inserts.
// When create loses a race to a concurrent caller the uniqueness violation
// is answered by looking the winner up, so both callers see the same row.
func getOrCreate[T any](
	ctx context.Context,
	rec driven.Recorder,
	entity string,
	find func(ctx context.Context) (*T, error),
	create func(ctx context.Context) (*T, error),
) (*T, error) {
	var out *T
	err := retry(ctx, rec, "get_or_create_"+entity, func() error {
		found, err := find(ctx)
		if err == nil {
			rec.GetOrCreate(entity, driven.OutcomeFound)
			out = found
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		created, err := create(ctx)
		if err == nil {
			rec.GetOrCreate(entity, driven.OutcomeCreated)
			out = created
			return nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return err
		}

		logger.Debug("get_or_create %s: lost insert race, looking up winner", entity)
		found, err = find(ctx)
		if err != nil {
			return err
		}
		rec.GetOrCreate(entity, driven.OutcomeRaceRecovered)
		out = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// optional converts a not-found error into (nil, nil) for lookups whose
// target may legitimately be absent.
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return v, err
}
