// Package db opens the store database.
package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Attempts is how many times Open tries to reach postgres before giving up.
var Attempts = 5

// Open connects to the database. Postgres is retried to let the server start.
func Open(driver, dsn string, log *slog.Logger) (*gorm.DB, error) {
	if log == nil {
		log = slog.Default()
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch driver {
	case DriverSQLite, "":
		db, err := gorm.Open(sqlite.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite %q: %w", dsn, err)
		}
		return db, nil
	case DriverPostgres:
		dsn = postgresDSN(dsn)
		var db *gorm.DB
		var err error
		for i := 0; i < Attempts; i++ {
			db, err = gorm.Open(postgres.Open(dsn), cfg)
			if err == nil {
				return db, nil
			}
			log.Warn("database not reachable, retrying", "attempt", i+1, "of", Attempts, "error", err)
			time.Sleep(2 * time.Second)
		}
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return nil, fmt.Errorf("unknown database driver %q", driver)
}

// postgresDSN strips surrounding quotes and blanks from dsn. A key=value list gets
// its whitespace collapsed and sslmode=disable unless it names an sslmode.
func postgresDSN(dsn string) string {
	dsn = strings.Trim(strings.TrimSpace(dsn), `"'`)
	if strings.Contains(dsn, "://") || !strings.Contains(dsn, "=") {
		return dsn
	}
	dsn = strings.Join(strings.Fields(dsn), " ")
	if !strings.Contains(strings.ToLower(dsn), "sslmode=") {
		dsn += " sslmode=disable"
	}
	return dsn
}
