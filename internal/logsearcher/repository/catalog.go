package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/princess-entrapta/logsearcher/internal/common/apperrors"
)

// catalogQuerier is the subset of pgx operations the catalog lookups need, so
// that both pools and test stubs can back them.
type catalogQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// viewSpec is a view definition resolved from the catalog tables: its filter
// predicate and its column extraction expressions in stored position order.
type viewSpec struct {
	filterQuery   string
	columnQueries []string
}

// resolveView reads the definition of one view from the catalog in a single
// query. An unknown view name is a client error.
func resolveView(ctx context.Context, db catalogQuerier, table string) (*viewSpec, error) {
	row := db.QueryRow(ctx,
		`SELECT filters.query, array_agg(cols.query ORDER BY idx)
		 FROM column_filter
		 JOIN filters ON filters.name = column_filter.filter_name
		 JOIN cols ON cols.name = column_filter.column_name
		 WHERE filters.name = $1
		 GROUP BY filters.name, filters.query`,
		table)

	spec := &viewSpec{}
	if err := row.Scan(&spec.filterQuery, &spec.columnQueries); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &apperrors.ErrInvalidArgument{Name: "table", Value: table, Message: "unknown view"}
		}
		return nil, errors.WithStack(err)
	}
	return spec, nil
}

// resolveFilter returns just the filter predicate of a view.
func resolveFilter(ctx context.Context, db catalogQuerier, table string) (string, error) {
	row := db.QueryRow(ctx, `SELECT query FROM filters WHERE name = $1`, table)
	var filterQuery string
	if err := row.Scan(&filterQuery); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", &apperrors.ErrInvalidArgument{Name: "table", Value: table, Message: "unknown view"}
		}
		return "", errors.WithStack(err)
	}
	return filterQuery, nil
}
