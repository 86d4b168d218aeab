package database

import (
	"database/sql"
	"regexp"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect captures the differences between the supported database backends
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// RewriteQuery converts placeholder syntax if needed (? to $1 for postgres)
	RewriteQuery(query string) string

	// SupportsLastInsertId reports whether the driver supports LastInsertId()
	SupportsLastInsertId() bool

	// ConfigureConnection applies backend-specific connection settings
	ConfigureConnection(db *sql.DB) error
}

// placeholderRegexp matches ? placeholders
var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
}

// SQLiteDialect implements Dialect for SQLite
type SQLiteDialect struct{}

func (SQLiteDialect) DriverName() string { return "sqlite3" }

func (SQLiteDialect) RewriteQuery(query string) string { return query }

func (SQLiteDialect) SupportsLastInsertId() bool { return true }

func (SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	configurePool(db)

	// WAL for concurrent readers; foreign keys are off by default in SQLite
	// and cascade deletes from families depend on them.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return err
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return err
	}
	return nil
}

// PostgresDialect implements Dialect for PostgreSQL
type PostgresDialect struct{}

func (PostgresDialect) DriverName() string { return "postgres" }

func (PostgresDialect) RewriteQuery(query string) string {
	return rewritePlaceholdersToNumbered(query)
}

func (PostgresDialect) SupportsLastInsertId() bool { return false }

func (PostgresDialect) ConfigureConnection(db *sql.DB) error {
	configurePool(db)
	return nil
}

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

func (MySQLDialect) DriverName() string { return "mysql" }

func (MySQLDialect) RewriteQuery(query string) string { return query }

func (MySQLDialect) SupportsLastInsertId() bool { return true }

func (MySQLDialect) ConfigureConnection(db *sql.DB) error {
	configurePool(db)

	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS = 1;"); err != nil {
		return err
	}
	return nil
}
