package items

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/LegumeFederation/intermine-legfed/internal/util"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS items (
	id   TEXT PRIMARY KEY,
	kind TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS item_attributes (
	item_id TEXT NOT NULL REFERENCES items(id),
	name    TEXT NOT NULL,
	value   TEXT,
	PRIMARY KEY (item_id, name)
);
CREATE TABLE IF NOT EXISTS item_references (
	item_id TEXT NOT NULL REFERENCES items(id),
	name    TEXT NOT NULL,
	ref_id  TEXT NOT NULL,
	PRIMARY KEY (item_id, name)
);
CREATE TABLE IF NOT EXISTS item_collections (
	item_id  TEXT NOT NULL REFERENCES items(id),
	name     TEXT NOT NULL,
	position INTEGER NOT NULL,
	ref_id   TEXT NOT NULL,
	PRIMARY KEY (item_id, name, position)
);
CREATE INDEX IF NOT EXISTS idx_items_kind ON items(kind);
`

// SQLiteBackend writes items into a normalized SQLite target database.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	if err := util.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create item tables: %w", err)
	}
	return &SQLiteBackend{db: db, path: path}, nil
}

// DB exposes the underlying sql.DB for tests.
func (b *SQLiteBackend) DB() *sql.DB { return b.db }

func (b *SQLiteBackend) Path() string { return b.path }

func (b *SQLiteBackend) Write(ctx context.Context, records []Record) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, r := range records {
		if _, err := tx.ExecContext(ctx, `INSERT INTO items(id, kind) VALUES(?, ?)`, r.ID, string(r.Kind)); err != nil {
			return fmt.Errorf("insert item %s: %w", r.ID, err)
		}
		for _, name := range sortedKeys(r.Attributes) {
			if _, err := tx.ExecContext(ctx, `INSERT INTO item_attributes(item_id, name, value) VALUES(?, ?, ?)`,
				r.ID, name, r.Attributes[name]); err != nil {
				return fmt.Errorf("insert attribute %s.%s: %w", r.ID, name, err)
			}
		}
		for _, name := range sortedKeys(r.References) {
			if _, err := tx.ExecContext(ctx, `INSERT INTO item_references(item_id, name, ref_id) VALUES(?, ?, ?)`,
				r.ID, name, r.References[name]); err != nil {
				return fmt.Errorf("insert reference %s.%s: %w", r.ID, name, err)
			}
		}
		for _, name := range sortedKeys(r.Collections) {
			for pos, ref := range r.Collections[name] {
				if _, err := tx.ExecContext(ctx, `INSERT INTO item_collections(item_id, name, position, ref_id) VALUES(?, ?, ?, ?)`,
					r.ID, name, pos, ref); err != nil {
					return fmt.Errorf("insert collection %s.%s: %w", r.ID, name, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// CountByKind returns the number of stored items per kind.
func (b *SQLiteBackend) CountByKind(ctx context.Context) (map[Kind]int, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM items GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[Kind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[Kind(kind)] = n
	}
	return counts, rows.Err()
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
