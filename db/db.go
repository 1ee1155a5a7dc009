package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"kv-rentals/config"
)

// Driver names registered by the imported drivers.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// DB holds the database connection
var DB *sql.DB

// InitDB opens the SQL database selected by the storage backend and stores it in DB.
func InitDB(cfg config.Config) error {
	var err error
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		DB, err = OpenPostgres(cfg.Database)
	case config.StorageSQLite:
		DB, err = OpenSQLite(cfg.SQLitePath)
	default:
		return fmt.Errorf("storage backend %q does not use a SQL database", cfg.StorageBackend)
	}
	return err
}

// OpenPostgres connects through the pgx stdlib driver and pings the server.
func OpenPostgres(dbCfg config.DatabaseConfig) (*sql.DB, error) {
	connStr, err := dbCfg.DSN()
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(DriverPostgres, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Test the connection
	if err := conn.PingContext(context.Background()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("✓ Database connection established successfully")
	return conn, nil
}

// OpenSQLite opens (creating if needed) the SQLite file at path.
// ":memory:" opens a private in-memory database.
func OpenSQLite(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := path
	if path != ":memory:" {
		cleanPath := filepath.Clean(path)
		if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
		dsn = cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	conn, err := sql.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	logrus.WithField("path", path).Info("✓ SQLite database opened")
	return conn, nil
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
