package schema

import (
	"context"
	"embed"

	"github.com/princess-entrapta/logsearcher/internal/common/database"
)

//go:embed migrations/*.sql
var fs embed.FS

func Migrations() ([]database.Migration, error) {
	return database.ReadMigrations(fs, "migrations")
}

func Migrate(ctx context.Context, db database.Executor) error {
	migrations, err := Migrations()
	if err != nil {
		return err
	}
	return database.UpdateDatabase(ctx, db, migrations)
}
