package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

const (
	sqliteDriverName = "sqlite3"
	sqliteInMemory   = ":memory:"
)

// SQLiteDB opens and pings a SQLite database at path, creating its directory if necessary.
// In-memory databases are limited to one connection, so that all queries see the same database.
func SQLiteDB(ctx context.Context, path string) (*sql.DB, error) {
	if err := ensureSQLiteDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open(sqliteDriverName, sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if isSQLiteInMemory(path) {
		db.SetMaxOpenConns(1)
	}

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", pingErr)
	}

	return db, nil
}

// SQLiteSQLX is SQLiteDB wrapped into a *sqlx.DB.
func SQLiteSQLX(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := SQLiteDB(ctx, path)
	if err != nil {
		return nil, err
	}

	return sqlx.NewDb(db, sqliteDriverName), nil
}

func sqliteDSN(path string) string {
	if isSQLiteInMemory(path) {
		return path
	}

	if strings.Contains(path, "?") {
		return path
	}

	// writers wait up to 5s for a locked database
	return "file:" + path + "?_busy_timeout=5000&_foreign_keys=on"
}

func ensureSQLiteDir(path string) error {
	if isSQLiteInMemory(path) || strings.HasPrefix(path, "file:") {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create sqlite directory: %w", err)
	}

	return nil
}

func isSQLiteInMemory(path string) bool {
	return path == sqliteInMemory || strings.Contains(path, "mode=memory")
}
