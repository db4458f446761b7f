package repository

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/princess-entrapta/logsearcher/internal/common/apperrors"
	"github.com/princess-entrapta/logsearcher/internal/logsearcher/model"
)

var psql = goqu.Dialect("postgres")

type ViewRepository interface {
	CreateView(ctx context.Context, name string, columns []model.ColumnDef, filterQuery string) error
	ListViews(ctx context.Context) ([]model.ViewInfo, error)
}

// viewStore is the subset of pgx operations the registry needs.
type viewStore interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type SqlViewRepository struct {
	db viewStore
}

func NewSqlViewRepository(db *pgxpool.Pool) *SqlViewRepository {
	return &SqlViewRepository{db: db}
}

// CreateView upserts the view definition into the catalog tables and then
// rebuilds the view's two pre-aggregated count tiers.
func (r *SqlViewRepository) CreateView(ctx context.Context, name string, columns []model.ColumnDef, filterQuery string) error {
	if err := validateViewDefinition(name, columns, filterQuery); err != nil {
		return err
	}
	if err := r.upsertView(ctx, name, columns, filterQuery); err != nil {
		return err
	}
	return r.rebuildAggregates(ctx, name, filterQuery)
}

func validateViewDefinition(name string, columns []model.ColumnDef, filterQuery string) error {
	if err := validateIdentifier("filter.name", name); err != nil {
		return err
	}
	if err := validateExpression("filter.query", filterQuery); err != nil {
		return err
	}
	if len(columns) == 0 {
		return &apperrors.ErrInvalidArgument{Name: "columns", Value: columns, Message: "at least one column is required"}
	}
	for _, col := range columns {
		if err := validateIdentifier("columns.name", col.Name); err != nil {
			return err
		}
		if err := validateExpression("columns.query", col.Query); err != nil {
			return err
		}
	}
	return nil
}

// upsertView applies the four catalog updates inside one transaction so a
// concurrent upsert of the same view cannot interleave with it: upsert the
// column expressions, replace the view's column associations with a fresh
// 0-based contiguous ordering, then upsert the filter predicate.
func (r *SqlViewRepository) upsertView(ctx context.Context, name string, columns []model.ColumnDef, filterQuery string) error {
	colVals := make([][]interface{}, len(columns))
	assocVals := make([][]interface{}, len(columns))
	for i, col := range columns {
		colVals[i] = goqu.Vals{col.Name, col.Query}
		assocVals[i] = goqu.Vals{col.Name, name, i}
	}

	upsertCols, upsertColsArgs, err := psql.Insert("cols").
		Cols("name", "query").
		Vals(colVals...).
		OnConflict(goqu.DoUpdate("name", goqu.Record{"query": goqu.L("EXCLUDED.query")})).
		Prepared(true).ToSQL()
	if err != nil {
		return errors.WithStack(err)
	}
	deleteAssocs, deleteAssocsArgs, err := psql.Delete("column_filter").
		Where(goqu.C("filter_name").Eq(name)).
		Prepared(true).ToSQL()
	if err != nil {
		return errors.WithStack(err)
	}
	insertAssocs, insertAssocsArgs, err := psql.Insert("column_filter").
		Cols("column_name", "filter_name", "idx").
		Vals(assocVals...).
		Prepared(true).ToSQL()
	if err != nil {
		return errors.WithStack(err)
	}
	upsertFilter, upsertFilterArgs, err := psql.Insert("filters").
		Cols("name", "query").
		Vals(goqu.Vals{name, filterQuery}).
		OnConflict(goqu.DoUpdate("name", goqu.Record{"query": goqu.L("EXCLUDED.query")})).
		Prepared(true).ToSQL()
	if err != nil {
		return errors.WithStack(err)
	}

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsertCols, upsertColsArgs...); err != nil {
			return errors.WithStack(err)
		}
		// The filter row must exist before associations reference it.
		if _, err := tx.Exec(ctx, upsertFilter, upsertFilterArgs...); err != nil {
			return errors.WithStack(err)
		}
		if _, err := tx.Exec(ctx, deleteAssocs, deleteAssocsArgs...); err != nil {
			return errors.WithStack(err)
		}
		if _, err := tx.Exec(ctx, insertAssocs, insertAssocsArgs...); err != nil {
			return errors.WithStack(err)
		}
		return nil
	})
}

// aggregateStatements returns the DDL that drops and recreates a view's
// 1-second and 1-minute count aggregates and reinstalls their refresh
// schedules. Identifiers and the filter expression have been validated before
// this point.
func aggregateStatements(name string, filterQuery string) []string {
	return []string{
		fmt.Sprintf(`DROP MATERIALIZED VIEW IF EXISTS %s_sec_count`, name),
		fmt.Sprintf(`DROP MATERIALIZED VIEW IF EXISTS %s_min_count`, name),
		fmt.Sprintf(
			`CREATE MATERIALIZED VIEW %s_sec_count (time_bucket, count) WITH (timescaledb.continuous) AS
			 SELECT time_bucket('1 second', time), COUNT(*) FROM logs WHERE %s GROUP BY time_bucket('1 second', time)`,
			name, filterQuery),
		fmt.Sprintf(
			`CREATE MATERIALIZED VIEW %s_min_count (time_bucket, count) WITH (timescaledb.continuous) AS
			 SELECT time_bucket('1 minute', time), COUNT(*) FROM logs WHERE %s GROUP BY time_bucket('1 minute', time)`,
			name, filterQuery),
		fmt.Sprintf(
			`SELECT add_continuous_aggregate_policy('%s_sec_count',
			 start_offset => NULL, end_offset => NULL, schedule_interval => INTERVAL '10 seconds')`,
			name),
		fmt.Sprintf(
			`SELECT add_continuous_aggregate_policy('%s_min_count',
			 start_offset => NULL, end_offset => NULL, schedule_interval => INTERVAL '10 minutes')`,
			name),
	}
}

func (r *SqlViewRepository) rebuildAggregates(ctx context.Context, name string, filterQuery string) error {
	for _, statement := range aggregateStatements(name, filterQuery) {
		if _, err := r.db.Exec(ctx, statement); err != nil {
			return errors.WithStack(err)
		}
	}
	log.Infof("Rebuilt count aggregates for view %s", name)
	return nil
}

// EnsureDefaultAggregates provisions the default view's count tiers when they
// are missing, so density queries over long spans work on a fresh database
// before any view has been created. Continuous aggregates cannot be created
// inside the migration transaction, which is why this runs as a separate
// bootstrap step.
func (r *SqlViewRepository) EnsureDefaultAggregates(ctx context.Context) error {
	var exists bool
	err := r.db.QueryRow(ctx, fmt.Sprintf(
		`SELECT to_regclass('%s_sec_count') IS NOT NULL AND to_regclass('%s_min_count') IS NOT NULL`,
		model.DefaultTable, model.DefaultTable)).Scan(&exists)
	if err != nil {
		return errors.WithStack(err)
	}
	if exists {
		return nil
	}
	return r.rebuildAggregates(ctx, model.DefaultTable, model.DefaultFilterQuery)
}

func (r *SqlViewRepository) ListViews(ctx context.Context) ([]model.ViewInfo, error) {
	sql, _, err := psql.From("filters").
		Join(goqu.T("column_filter"), goqu.On(goqu.I("filters.name").Eq(goqu.I("column_filter.filter_name")))).
		Join(goqu.T("cols"), goqu.On(goqu.I("cols.name").Eq(goqu.I("column_filter.column_name")))).
		Select(goqu.I("filters.name"), goqu.L("array_agg(cols.name ORDER BY idx)")).
		GroupBy(goqu.I("filters.name")).
		ToSQL()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	views := []model.ViewInfo{}
	for rows.Next() {
		var view model.ViewInfo
		if err := rows.Scan(&view.Name, &view.Cols); err != nil {
			return nil, errors.WithStack(err)
		}
		views = append(views, view)
	}
	return views, errors.WithStack(rows.Err())
}
