package database

import (
	"database/sql"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/stdlib"
	"github.com/pkg/errors"

	"github.com/camsops/supportdesk-app/log"
)

// Connect opens the application database described by DATABASE_URL and
// verifies it is reachable, retrying the initial ping with exponential
// backoff to ride out container startup races.
func Connect() (*sql.DB, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "could not load database config")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "could not open database")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMin) * time.Minute)
	db.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 30 * time.Second
	if err := backoff.RetryNotify(db.Ping, b,
		func(err error, d time.Duration) {
			log.API.Warnf("database not ready (%s); retrying in %s", err, d)
		}); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not reach database")
	}

	return db, nil
}
