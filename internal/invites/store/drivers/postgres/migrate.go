package postgres

import (
	"errors"

	"github.com/aussiebroadwan/invitedesk/internal/invites/store/drivers/postgres/migrations"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/stdlib"
)

// ApplyMigrations applies any pending database migrations using the embedded
// migration files.
func (s *Store) ApplyMigrations() error {
	// 1. Borrow a database/sql handle backed by the pool
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	// 2. Create the pgx migration driver
	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		return err
	}

	// 3. Create the iofs (embedded filesystem) source driver
	src, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return err
	}

	// 4. Create the migrate instance and apply all up migrations
	instance, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return err
	}
	defer func() { _, _ = instance.Close() }()

	err = instance.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}
