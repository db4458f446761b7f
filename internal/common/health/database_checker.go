package health

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DatabaseChecker reports healthy while the connection pool can reach postgres.
type DatabaseChecker struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewDatabaseChecker(db *pgxpool.Pool) *DatabaseChecker {
	return &DatabaseChecker{db: db, timeout: 5 * time.Second}
}

func (c *DatabaseChecker) Check() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	return c.db.Ping(ctx)
}
