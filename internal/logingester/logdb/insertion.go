package logdb

import (
	"context"
	"time"

	retry "github.com/avast/retry-go"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/princess-entrapta/logsearcher/internal/common/ingest/metrics"
	"github.com/princess-entrapta/logsearcher/internal/logingester/model"
)

// LogDb bulk-loads batches of log rows into the logs table using the
// postgres copy protocol.
type LogDb struct {
	db          *pgxpool.Pool
	metrics     *metrics.Metrics
	maxAttempts uint
	backoff     time.Duration
}

func NewLogDb(db *pgxpool.Pool, m *metrics.Metrics, maxAttempts uint, backoff time.Duration) *LogDb {
	return &LogDb{db: db, metrics: m, maxAttempts: maxAttempts, backoff: backoff}
}

// Store persists a batch inside one transaction: either every row in the
// batch becomes visible or none do. Failures are retried with exponential
// backoff; once attempts are exhausted the error is returned so the caller
// can drop the batch rather than kill the writer.
func (l *LogDb) Store(ctx context.Context, rows []model.LogRow) error {
	if len(rows) == 0 {
		return nil
	}
	return retry.Do(
		func() error { return l.storeBatch(ctx, rows) },
		retry.Attempts(l.maxAttempts),
		retry.Delay(l.backoff),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			log.WithError(err).Warnf("Inserting batch failed (attempt %d), retrying", n+1)
		}),
	)
}

func (l *LogDb) storeBatch(ctx context.Context, rows []model.LogRow) error {
	tx, err := l.db.Begin(ctx)
	if err != nil {
		l.metrics.RecordDBError(metrics.DBOperationConnect)
		return errors.WithStack(err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.WithError(err).Warn("Error rolling back transaction")
		}
	}()

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"logs"},
		[]string{"time", "data", "level", "words"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]interface{}, error) {
			return []interface{}{
				rows[i].Time,
				rows[i].Data,
				rows[i].Level,
				rows[i].Words,
			}, nil
		}),
	)
	if err != nil {
		l.metrics.RecordDBError(metrics.DBOperationInsert)
		return errors.WithStack(err)
	}

	if err := tx.Commit(ctx); err != nil {
		l.metrics.RecordDBError(metrics.DBOperationInsert)
		return errors.WithStack(err)
	}
	l.metrics.RecordRowsIngested(len(rows))
	return nil
}
