package database

import (
	"context"
	"embed"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

type Migration struct {
	Id   int
	Name string
	Sql  string
}

func NewMigration(id int, name string, sql string) Migration {
	return Migration{Id: id, Name: name, Sql: sql}
}

// Executor is the subset of pgx operations needed to apply migrations, so
// that pools, connections and transactions can all be used.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// UpdateDatabase applies all migrations with an id greater than the current
// database version, in order, recording the new version after each one.
func UpdateDatabase(ctx context.Context, db Executor, migrations []Migration) error {
	log.Info("Updating postgres...")
	version, err := readVersion(ctx, db)
	if err != nil {
		return err
	}
	log.Infof("Current version %v", version)

	for _, m := range migrations {
		if m.Id > version {
			_, err := db.Exec(ctx, m.Sql)
			if err != nil {
				return err
			}

			version = m.Id
			err = setVersion(ctx, db, version)
			if err != nil {
				return err
			}
		}
	}
	log.Info("Database updated.")
	return nil
}

func readVersion(ctx context.Context, db Executor) (int, error) {
	_, err := db.Exec(ctx,
		`CREATE SEQUENCE IF NOT EXISTS database_version START WITH 0 MINVALUE 0;`)
	if err != nil {
		return 0, err
	}

	result, err := db.Query(ctx,
		`SELECT last_value FROM database_version`)
	if err != nil {
		return 0, err
	}
	defer result.Close()
	var version int
	result.Next()
	err = result.Scan(&version)

	return version, err
}

func setVersion(ctx context.Context, db Executor, version int) error {
	_, err := db.Exec(ctx, `SELECT setval('database_version', $1)`, version)
	return err
}

// ReadMigrations loads all .sql files under path in fs, ordered by file name.
// File names must begin with a numeric migration id, e.g. 001_initial.sql.
func ReadMigrations(fs embed.FS, path string) ([]Migration, error) {
	files, err := fs.ReadDir(path)
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })

	migrations := []Migration{}
	for _, f := range files {
		content, err := fs.ReadFile(path + "/" + f.Name())
		if err != nil {
			return nil, err
		}
		id, err := strconv.Atoi(strings.Split(f.Name(), "_")[0])
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, Migration{
			Id:   id,
			Name: f.Name(),
			Sql:  string(content),
		})
	}
	return migrations, nil
}
