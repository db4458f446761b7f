package logsearcher

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/princess-entrapta/logsearcher/internal/common/database"
	"github.com/princess-entrapta/logsearcher/internal/common/health"
	"github.com/princess-entrapta/logsearcher/internal/logsearcher/configuration"
	"github.com/princess-entrapta/logsearcher/internal/logsearcher/repository"
	"github.com/princess-entrapta/logsearcher/internal/logsearcher/schema"
	"github.com/princess-entrapta/logsearcher/internal/logsearcher/server"
)

// Serve bootstraps the store schema and runs the query API until ctx is
// cancelled.
func Serve(ctx context.Context, config *configuration.ServerConfiguration) error {
	if err := config.Validate(); err != nil {
		return err
	}

	log.Info("Opening connection pool to postgres")
	db, err := database.OpenPgxPool(ctx, config.Postgres)
	if err != nil {
		return errors.WithMessage(err, "Error opening connection to postgres")
	}
	defer db.Close()

	if err := schema.Migrate(ctx, db); err != nil {
		return errors.WithMessage(err, "Error bootstrapping the database schema")
	}

	views := repository.NewSqlViewRepository(db)
	if err := views.EnsureDefaultAggregates(ctx); err != nil {
		return errors.WithMessage(err, "Error provisioning the default view aggregates")
	}

	s := server.New(
		config,
		repository.NewSqlLogRepository(db),
		repository.NewSqlDensityRepository(db),
		views,
		health.NewMultiChecker(health.NewDatabaseChecker(db)),
	)
	return s.Run(ctx)
}
