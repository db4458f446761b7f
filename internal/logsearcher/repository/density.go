package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/princess-entrapta/logsearcher/internal/common/apperrors"
)

// Density queries aim for roughly this many buckets across the requested span.
const targetBucketCount = 80

// Buckets never get narrower than this, so very short ranges cannot produce
// degenerate zero-width buckets.
const minBucketWidth = 10 * time.Millisecond

// densityTier names the source a density query reads from. Short spans scan
// the raw table; longer spans sum one of the two pre-aggregated count tiers.
type densityTier string

const (
	tierRaw    densityTier = "raw"
	tierSecond densityTier = "second"
	tierMinute densityTier = "minute"

	// Inclusive upper bounds on the span, per tier.
	rawTierMaxSpan    = 100_000 * time.Millisecond
	secondTierMaxSpan = 10_000_000 * time.Millisecond
)

type DensityRepository interface {
	GetDensity(ctx context.Context, table string, start time.Time, end time.Time) ([]int64, error)
}

// densityStore is the subset of pgx operations density queries need.
type densityStore interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type SqlDensityRepository struct {
	db densityStore
}

func NewSqlDensityRepository(db *pgxpool.Pool) *SqlDensityRepository {
	return &SqlDensityRepository{db: db}
}

// GetDensity returns a dense, equally spaced sequence of counts covering
// [start, end]. Buckets with no matching rows appear as zero.
func (r *SqlDensityRepository) GetDensity(ctx context.Context, table string, start time.Time, end time.Time) ([]int64, error) {
	if err := validateIdentifier("table", table); err != nil {
		return nil, err
	}
	span := end.Sub(start)
	if span < 0 {
		return nil, &apperrors.ErrInvalidArgument{Name: "end", Value: end, Message: "end must not precede start"}
	}

	// Resolving the filter on every tier also confirms the view exists, so an
	// unknown name is a client error regardless of span. The aggregate tiers
	// are already filtered; only the raw table applies the predicate itself.
	filterQuery, err := resolveFilter(ctx, r.db, table)
	if err != nil {
		return nil, err
	}
	tier := selectTier(span)

	rows, err := r.db.Query(ctx, buildDensitySql(tier, table, filterQuery, bucketWidth(span)), start, end)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	counts := []int64{}
	for rows.Next() {
		// Gap-filled buckets come back as NULL.
		var count *int64
		if err := rows.Scan(&count); err != nil {
			return nil, errors.WithStack(err)
		}
		if count != nil {
			counts = append(counts, *count)
		} else {
			counts = append(counts, 0)
		}
	}
	return counts, errors.WithStack(rows.Err())
}

func bucketWidth(span time.Duration) time.Duration {
	width := span / targetBucketCount
	if width < minBucketWidth {
		width = minBucketWidth
	}
	return width
}

// selectTier picks the data source by elapsed span. Both thresholds are
// inclusive: a span of exactly 100,000ms still scans the raw table and a
// span of exactly 10,000,000ms still reads the 1-second tier.
func selectTier(span time.Duration) densityTier {
	switch {
	case span <= rawTierMaxSpan:
		return tierRaw
	case span <= secondTierMaxSpan:
		return tierSecond
	default:
		return tierMinute
	}
}

// buildDensitySql assembles one tier's gap-filled count query. The gapfill
// bounds are passed explicitly as the range parameters: with bound parameters
// the planner cannot infer them from the WHERE clause alone.
func buildDensitySql(tier densityTier, table string, filterQuery string, width time.Duration) string {
	interval := fmt.Sprintf("%d microseconds", width.Microseconds())
	switch tier {
	case tierRaw:
		return fmt.Sprintf(
			`SELECT COUNT(*)::bigint FROM logs
			 WHERE %s AND time >= $1 AND time <= $2
			 GROUP BY time_bucket_gapfill('%s', time, $1, $2)
			 ORDER BY time_bucket_gapfill('%s', time, $1, $2)`,
			filterQuery, interval, interval)
	case tierSecond:
		return fmt.Sprintf(
			`SELECT SUM(count)::bigint FROM %s_sec_count
			 WHERE time_bucket >= $1 AND time_bucket <= $2
			 GROUP BY time_bucket_gapfill('%s', time_bucket, $1, $2)
			 ORDER BY time_bucket_gapfill('%s', time_bucket, $1, $2)`,
			table, interval, interval)
	default:
		return fmt.Sprintf(
			`SELECT SUM(count)::bigint FROM %s_min_count
			 WHERE time_bucket >= $1 AND time_bucket <= $2
			 GROUP BY time_bucket_gapfill('%s', time_bucket, $1, $2)
			 ORDER BY time_bucket_gapfill('%s', time_bucket, $1, $2)`,
			table, interval, interval)
	}
}
