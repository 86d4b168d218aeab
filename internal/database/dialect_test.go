package database

import (
	"testing"
)

func TestSQLiteDialect(t *testing.T) {
	dialect := SQLiteDialect{}

	if got := dialect.DriverName(); got != "sqlite3" {
		t.Errorf("DriverName() = %v, want sqlite3", got)
	}
	if !dialect.SupportsLastInsertId() {
		t.Error("SupportsLastInsertId() should return true for SQLite")
	}
	if got := dialect.RewriteQuery("SELECT * FROM items WHERE id = ?"); got != "SELECT * FROM items WHERE id = ?" {
		t.Errorf("RewriteQuery() changed a SQLite query: %v", got)
	}
}

func TestPostgresDialect(t *testing.T) {
	dialect := PostgresDialect{}

	if got := dialect.DriverName(); got != "postgres" {
		t.Errorf("DriverName() = %v, want postgres", got)
	}
	if dialect.SupportsLastInsertId() {
		t.Error("SupportsLastInsertId() should return false for PostgreSQL")
	}

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "single placeholder",
			query: "SELECT * FROM notes WHERE id = ?",
			want:  "SELECT * FROM notes WHERE id = $1",
		},
		{
			name:  "multiple placeholders",
			query: "INSERT INTO items (text, done, list_id) VALUES (?, ?, ?)",
			want:  "INSERT INTO items (text, done, list_id) VALUES ($1, $2, $3)",
		},
		{
			name:  "no placeholders",
			query: "SELECT COUNT(*) FROM families",
			want:  "SELECT COUNT(*) FROM families",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dialect.RewriteQuery(tt.query); got != tt.want {
				t.Errorf("RewriteQuery() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMySQLDialect(t *testing.T) {
	dialect := MySQLDialect{}

	if got := dialect.DriverName(); got != "mysql" {
		t.Errorf("DriverName() = %v, want mysql", got)
	}
	if !dialect.SupportsLastInsertId() {
		t.Error("SupportsLastInsertId() should return true for MySQL")
	}
}
