package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrate applies pending schema migrations
func (db *DB) Migrate(ctx context.Context) error {
	src, err := migrationSource()
	if err != nil {
		return err
	}
	// own *sql.DB on top of the pool, m.Close closes it
	driver, err := migratepgx.WithInstance(stdlib.OpenDBFromPool(db.pool), &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("can't init migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("can't init migrate: %w", err)
	}
	defer m.Close()
	m.Log = &migrateLog{}

	done := make(chan error, 1)
	go func() { done <- m.Up() }()
	select {
	case err = <-done:
	case <-ctx.Done():
		m.GracefulStop <- true
		err = <-done
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("can't migrate: %w", err)
	}
	v, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("can't get schema version: %w", err)
	}
	goapp.Log.Info().Uint("version", v).Bool("dirty", dirty).Msg("schema migrated")
	return nil
}

func migrationSource() (source.Driver, error) {
	res, err := iofs.New(migrationsFS, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("can't init migrations source: %w", err)
	}
	return res, nil
}

type migrateLog struct{}

func (l *migrateLog) Printf(format string, v ...interface{}) {
	goapp.Log.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *migrateLog) Verbose() bool {
	return false
}
