package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/XSAM/otelsql"
	_ "github.com/lib/pq"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// PostgresStore keeps every collection as a single JSONB row in a key/value
// table. The access pattern is identical to the file backend: load the whole
// collection, replace the whole collection. Postgres buys shared storage
// across restarts, not row-level access.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects using the DB_* environment variables and ensures
// the collections table exists. The connection is instrumented with
// OpenTelemetry.
func NewPostgresStore() (*PostgresStore, error) {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	if host == "" || user == "" || password == "" || dbname == "" {
		return nil, fmt.Errorf("missing required database environment variables")
	}

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname,
	)

	db, err := otelsql.Open("postgres", connStr,
		otelsql.WithAttributes(
			semconv.DBSystemPostgreSQL,
			semconv.DBName(dbname),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := otelsql.RegisterDBStatsMetrics(db,
		otelsql.WithAttributes(
			semconv.DBSystemPostgreSQL,
			semconv.DBName(dbname),
		),
	); err != nil {
		log.Printf("Warning: failed to register database stats metrics: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS collections (
			key        TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return nil, fmt.Errorf("failed to ensure collections table: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Println("✓ Connected to PostgreSQL collection store (OpenTelemetry enabled)")
	return &PostgresStore{db: db}, nil
}

// Load reads the collection under key. A missing row or corrupt payload
// leaves dest at its zero value.
func (p *PostgresStore) Load(ctx context.Context, key string, dest interface{}) error {
	var raw []byte
	err := p.db.QueryRowContext(ctx, `SELECT data FROM collections WHERE key = $1`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		log.Printf("Warning: failed to read collection %q, starting empty: %v", key, err)
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Printf("Warning: collection %q is corrupt, starting empty: %v", key, err)
	}
	return nil
}

// Save upserts the whole collection under key in a single statement.
func (p *PostgresStore) Save(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: marshal collection %q: %v", ErrWriteFailed, key, err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO collections (key, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		key, b,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert %q: %v", ErrWriteFailed, key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}
