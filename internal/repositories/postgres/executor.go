package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jpillora/backoff"

	"github.com/chrisdamba/ridesim/internal/repositories"
)

const maxTxAttempts = 10

// serialization_failure, raised by CockroachDB and PostgreSQL when a
// serializable transaction must be restarted by the client.
const retrySQLState = "40001"

// executeTx runs fn inside a transaction and commits it, retrying the whole
// unit of work with exponential backoff when the engine asks for a restart.
// Exhausting the attempts surfaces as a TransactionError.
func executeTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	b := &backoff.Backoff{
		Min:    10 * time.Millisecond,
		Max:    time.Second,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		lastErr = runTx(ctx, pool, fn)
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			return lastErr
		}
		if attempt == maxTxAttempts {
			break
		}

		select {
		case <-time.After(b.Duration()):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return &repositories.TransactionError{Attempts: maxTxAttempts, Err: lastErr}
}

func runTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == retrySQLState
}
