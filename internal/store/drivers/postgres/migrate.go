package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/quizdesk/internal/store/drivers/postgres/migrations"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// applyMigrations runs the embedded migrations on a dedicated connection
// pool. The pgx migrate driver pins a connection for its advisory lock and
// closes its pool on Close, so it never shares the store's pool.
func applyMigrations(dsn string) (err error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		_ = db.Close()
		return err
	}

	src, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		_ = driver.Close()
		return err
	}

	instance, err := migrate.NewWithInstance("iofs", src, DriverName, driver)
	if err != nil {
		_ = driver.Close()
		return err
	}
	defer func() {
		srcErr, dbErr := instance.Close()
		if err == nil && (srcErr != nil || dbErr != nil) {
			err = fmt.Errorf("close migrate: %w", errors.Join(srcErr, dbErr))
		}
	}()

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
