package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// Fixed page size of the logs endpoint.
const logsPageSize = 40

type LogRepository interface {
	GetLogs(ctx context.Context, table string, start time.Time, end time.Time, offset int64) ([][]any, error)
}

type SqlLogRepository struct {
	db *pgxpool.Pool
}

func NewSqlLogRepository(db *pgxpool.Pool) *SqlLogRepository {
	return &SqlLogRepository{db: db}
}

// GetLogs returns one page of rows matching the view's filter within
// [start, end]. Each row is [time, level, col...] with every projected column
// decoded through the fallback chain in decode.go.
func (r *SqlLogRepository) GetLogs(ctx context.Context, table string, start time.Time, end time.Time, offset int64) ([][]any, error) {
	if err := validateIdentifier("table", table); err != nil {
		return nil, err
	}
	view, err := resolveView(ctx, r.db, table)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, buildLogsSql(view), start, end, offset)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	result := [][]any{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		line := make([]any, 0, len(values))
		line = append(line, formatTimestamp(values[0]))
		line = append(line, values[1])
		for _, value := range values[2:] {
			line = append(line, decodeValue(value))
		}
		result = append(result, line)
	}
	return result, errors.WithStack(rows.Err())
}

// buildLogsSql assembles the page query. The filter predicate and column
// expressions come from the catalog and were validated when the view was
// written; the time range and offset are bound parameters.
func buildLogsSql(view *viewSpec) string {
	return fmt.Sprintf(
		"SELECT time, level, %s FROM logs WHERE %s AND time >= $1 AND time <= $2 LIMIT %d OFFSET $3",
		strings.Join(view.columnQueries, ", "), view.filterQuery, logsPageSize)
}

func formatTimestamp(value any) any {
	t, ok := value.(time.Time)
	if !ok {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05.999999")
}
