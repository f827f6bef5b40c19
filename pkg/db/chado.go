package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // local warehouse copies and fixtures
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Chado wraps a connection to a Chado warehouse. Queries are written with '?'
// placeholders and rebound for drivers that use positional '$n' markers.
type Chado struct {
	db     *sql.DB
	driver string
}

// Open connects to the warehouse with driver "pgx" (Postgres) or "sqlite".
func Open(ctx context.Context, driver, dsn string) (*Chado, error) {
	openMu.Lock()
	db, err := sqlOpen(driver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open warehouse: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping warehouse: %w", err)
	}
	return &Chado{db: db, driver: driver}, nil
}

// NewChado wraps an already opened database.
func NewChado(db *sql.DB, driver string) *Chado {
	return &Chado{db: db, driver: driver}
}

func (c *Chado) DB() *sql.DB { return c.db }

func (c *Chado) Close() error { return c.db.Close() }

func (c *Chado) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, Rebind(c.driver, q), args...)
}

func (c *Chado) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return c.db.QueryRowContext(ctx, Rebind(c.driver, q), args...)
}

// Rebind rewrites '?' placeholders to '$1..$n' for the pgx driver.
func Rebind(driver, q string) string {
	if driver != "pgx" {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// inClause returns "?,?,?" for n values plus the values as args.
func inClause(ids []int) (string, []any) {
	marks := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		marks[i] = "?"
		args[i] = id
	}
	return strings.Join(marks, ","), args
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
