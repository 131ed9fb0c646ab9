package cache

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLCache is an ArtifactCache backed by database/sql, dispatching to
// postgres, mysql, or sqlite by DSN scheme.
type SQLCache struct {
	db     *sql.DB
	driver string
}

const createTableStmt = `CREATE TABLE IF NOT EXISTS huffc_artifacts (
	fingerprint TEXT PRIMARY KEY,
	bytecode    BLOB NOT NULL,
	expires_at  BIGINT NOT NULL
)`

// NewSQLCache opens dsn, whose scheme ("postgres://", "mysql://",
// "sqlite://" or a bare file path for sqlite) selects the driver.
func NewSQLCache(dsn string) (*SQLCache, error) {
	driver, open := driverAndDSN(dsn)
	db, err := sql.Open(driver, open)
	if err != nil {
		return nil, fmt.Errorf("cache: sql open %s: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("cache: sql ping %s: %w", driver, err)
	}
	if _, err := db.Exec(createTableStmt); err != nil {
		return nil, fmt.Errorf("cache: sql create table: %w", err)
	}
	return &SQLCache{db: db, driver: driver}, nil
}

func driverAndDSN(dsn string) (driver, open string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn
	case strings.HasPrefix(dsn, "mysql://"):
		return "mysql", strings.TrimPrefix(dsn, "mysql://")
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite", strings.TrimPrefix(dsn, "sqlite://")
	default:
		return "sqlite", dsn
	}
}

func (c *SQLCache) placeholder(n int) string {
	if c.driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (c *SQLCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := fmt.Sprintf("SELECT bytecode, expires_at FROM huffc_artifacts WHERE fingerprint = %s", c.placeholder(1))
	var bytecode []byte
	var expiresAt int64
	err := c.db.QueryRowContext(ctx, query, key).Scan(&bytecode, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: sql get: %w", err)
	}
	if expiresAt != 0 && time.Now().Unix() > expiresAt {
		return nil, false, nil
	}
	return bytecode, true, nil
}

func (c *SQLCache) Set(ctx context.Context, key string, bytecode []byte, ttl time.Duration) error {
	expiresAt := int64(0)
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).Unix()
	}

	var query string
	switch c.driver {
	case "postgres":
		query = "INSERT INTO huffc_artifacts (fingerprint, bytecode, expires_at) VALUES ($1, $2, $3) " +
			"ON CONFLICT (fingerprint) DO UPDATE SET bytecode = EXCLUDED.bytecode, expires_at = EXCLUDED.expires_at"
	default:
		query = "INSERT OR REPLACE INTO huffc_artifacts (fingerprint, bytecode, expires_at) VALUES (?, ?, ?)"
	}
	if _, err := c.db.ExecContext(ctx, query, key, bytecode, expiresAt); err != nil {
		return fmt.Errorf("cache: sql set: %w", err)
	}
	return nil
}

func (c *SQLCache) Close() error { return c.db.Close() }
