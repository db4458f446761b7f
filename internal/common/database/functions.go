package database

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig holds libpq-style connection values, e.g. host, port, user,
// password, dbname.
type PostgresConfig struct {
	Connection map[string]string
}

func CreateConnectionString(values map[string]string) string {
	// https://www.postgresql.org/docs/10/libpq-connect.html#id-1.7.3.8.3.5
	result := ""
	replacer := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	for k, v := range values {
		result += k + "='" + replacer.Replace(v) + "' "
	}
	return result
}

func OpenPgxPool(ctx context.Context, config PostgresConfig) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(ctx, CreateConnectionString(config.Connection))
	if err != nil {
		return nil, err
	}
	err = db.Ping(ctx)
	return db, err
}
