// Package inspector discovers relational structure at runtime: the tables of
// a schema, their columns in declaration order, and their primary keys. It is
// the only component that issues catalog queries, and the only owner of the
// database connection; everything else borrows the connection through it.
package inspector

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Column describes one table column. Order matters: a slice of Columns always
// follows the table's ordinal column positions.
type Column struct {
	Name     string `json:"column_name"`
	DataType string `json:"data_type"`
}

// TableSummary pairs a table with its ordered column list.
type TableSummary struct {
	Table   string   `json:"table"`
	Columns []Column `json:"columns"`
}

// ConnectionConfig holds everything needed to reach one database. It is not
// mutated after construction.
type ConnectionConfig struct {
	Driver           string
	DBName           string
	User             string
	Password         string
	Host             string
	Port             string
	SSLMode          string
	PoolMaxConns     int
	StatementTimeout time.Duration
}

// Defaults applied when the corresponding config field is zero.
const (
	DefaultPoolMaxConns     = 5
	DefaultStatementTimeout = 30 * time.Second
)

// ErrNotConnected is returned when a structural query or the connection
// accessor is used before Connect (or after Close).
var ErrNotConnected = errors.New("not connected to database")

// Inspector is the read-only structural contract over one live connection.
// Connect replaces (and releases) any previously held connection, Close is a
// no-op when already closed.
type Inspector interface {
	Connect() error
	Close() error

	// Driver reports the normalized driver name ("postgres", "sqlite").
	Driver() string

	// Tables lists the tables of schema, ordered by name.
	Tables(ctx context.Context, schema string) ([]string, error)

	// Columns lists the columns of table in ordinal declaration order.
	// A table that does not exist yields an empty list, not an error.
	Columns(ctx context.Context, table, schema string) ([]Column, error)

	// PrimaryKeyColumns lists the primary-key columns of table in key order.
	// Empty means the table has no primary key.
	PrimaryKeyColumns(ctx context.Context, table, schema string) ([]string, error)

	// DB exposes the held connection so statements built from this
	// inspector's metadata can run on it.
	DB() (*gorm.DB, error)
}

// Open returns an unconnected Inspector for the configured driver.
func Open(cfg ConnectionConfig) (Inspector, error) {
	switch NormalizeDriver(cfg.Driver) {
	case "postgres":
		return NewPostgres(cfg), nil
	case "sqlite":
		return NewSQLite(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// NormalizeDriver maps driver aliases to their canonical name.
func NormalizeDriver(driver string) string {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pgx":
		return "postgres"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return strings.ToLower(driver)
	}
}

// QuoteIdent quotes an identifier for statement text. Both supported dialects
// use double-quoted identifiers.
func QuoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdent reports whether s is safe to use as an unquoted SQL identifier.
func ValidIdent(s string) bool {
	return identRe.MatchString(s)
}

// conn holds the live gorm handle for a concrete inspector. The handle itself
// is a bounded connection pool; the mutex only guards replacing it.
type conn struct {
	mu      sync.RWMutex
	db      *gorm.DB
	timeout time.Duration
}

func (c *conn) set(db *gorm.DB) {
	c.mu.Lock()
	c.db = db
	c.mu.Unlock()
}

func (c *conn) get() (*gorm.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.db == nil {
		return nil, ErrNotConnected
	}
	return c.db, nil
}

// close releases the held connection if any. Safe to call repeatedly.
func (c *conn) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	c.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// opCtx bounds a single statement with the configured timeout.
func (c *conn) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	t := c.timeout
	if t <= 0 {
		t = DefaultStatementTimeout
	}
	return context.WithTimeout(ctx, t)
}

// stringList runs a query returning a single text column.
func stringList(ctx context.Context, db *gorm.DB, query string, args ...any) ([]string, error) {
	rows, err := db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		result = append(result, name)
	}
	return result, rows.Err()
}
