package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/kilianp07/conflow/core/distribution"
	"github.com/kilianp07/conflow/core/schedule"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config selects the persistence backend.
type Config struct {
	Backend string `json:"backend" koanf:"backend"`
	// Path is the SQLite database file.
	Path string `json:"path" koanf:"path"`
	// DSN is the PostgreSQL connection string.
	DSN string `json:"dsn" koanf:"dsn"`
}

func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	if c.Backend == BackendSQLite && c.Path == "" {
		c.Path = "conflow.db"
	}
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.DSN == "" {
			return fmt.Errorf("store.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Backend)
	}
	return nil
}

// executor is implemented by both *sqlx.DB and *sqlx.Tx.
type executor interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

// SQLStore implements schedule.Repository and distribution.Store on a SQL database.
type SQLStore struct {
	db *sqlx.DB
}

var (
	_ schedule.Repository = (*SQLStore)(nil)
	_ distribution.Store  = (*SQLStore)(nil)
)

// Open connects to the backend named in cfg and migrates the schema. The
// memory backend has no SQL store and is rejected.
func Open(ctx context.Context, cfg Config) (*SQLStore, error) {
	switch cfg.Backend {
	case BackendSQLite:
		return NewSQLiteStore(ctx, cfg.Path)
	case BackendPostgres:
		return NewPostgresStore(ctx, cfg.DSN)
	default:
		return nil, newError("Open", "", "", fmt.Errorf("backend %q is not a SQL backend", cfg.Backend))
	}
}

// NewSQLiteStore opens (or creates) the SQLite database at path and runs the migrations.
func NewSQLiteStore(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, newError("NewSQLiteStore", "", "", fmt.Errorf("%w: %v", ErrConnectionFailed, err))
	}
	// SQLite allows a single writer; an in-memory database only lives on one connection.
	db.SetMaxOpenConns(1)
	return setup(ctx, db, "NewSQLiteStore", func(conn *sql.DB) (database.Driver, string, error) {
		drv, err := sqlite.WithInstance(conn, &sqlite.Config{})
		return drv, "migrations/sqlite", err
	})
}

// NewPostgresStore connects through the pgx stdlib driver and runs the migrations.
func NewPostgresStore(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, newError("NewPostgresStore", "", "", fmt.Errorf("%w: %v", ErrConnectionFailed, err))
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return setup(ctx, db, "NewPostgresStore", func(conn *sql.DB) (database.Driver, string, error) {
		drv, err := migratepgx.WithInstance(conn, &migratepgx.Config{})
		return drv, "migrations/postgres", err
	})
}

type driverFunc func(*sql.DB) (database.Driver, string, error)

func setup(ctx context.Context, db *sqlx.DB, op string, driver driverFunc) (*SQLStore, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, newError(op, "", "", fmt.Errorf("%w: %v", ErrConnectionFailed, err))
	}
	if err := runMigrations(db.DB, driver); err != nil {
		_ = db.Close()
		return nil, newError(op, "", "", fmt.Errorf("%w: %v", ErrMigrationFailed, err))
	}
	return &SQLStore{db: db}, nil
}

func runMigrations(db *sql.DB, driver driverFunc) error {
	drv, dir, err := driver(db)
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "conflow", drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// withTx runs fn in a transaction, rolling back if fn fails.
func (s *SQLStore) withTx(ctx context.Context, op string, fn func(executor) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return newError(op, "", "", fmt.Errorf("begin transaction: %w", err))
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return newError(op, "", "", fmt.Errorf("rollback after %v: %w", err, rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return newError(op, "", "", fmt.Errorf("commit: %w", err))
	}
	return nil
}
