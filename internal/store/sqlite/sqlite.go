// Package sqlite stores bookmarks in a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
	"github.com/MrSnakeDoc/tidymark/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS bookmarks (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	url         TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '[]',
	date_added  INTEGER NOT NULL DEFAULT 0,
	archived_at TEXT
);
CREATE INDEX IF NOT EXISTS bookmarks_archived_idx ON bookmarks (archived_at);
`

const columns = `id, title, url, content, category, tags, date_added, archived_at`

const upsert = `
INSERT INTO bookmarks (` + columns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	title = excluded.title,
	url = excluded.url,
	content = excluded.content,
	category = excluded.category,
	tags = excluded.tags,
	date_added = excluded.date_added,
	archived_at = excluded.archived_at`

// Store is a store.Store on top of database/sql.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the database at path and applies the schema.
// ":memory:" gives a private in-process database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// One connection: SQLite serialises writers anyway and ":memory:" is
	// per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: busy_timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func save(ctx context.Context, db execer, b domain.Bookmark) error {
	if b.ID == "" {
		return fmt.Errorf("sqlite: save bookmark: empty id")
	}
	tags, err := json.Marshal(b.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: encode tags of %s: %w", b.ID, err)
	}
	var archivedAt sql.NullString
	if b.ArchivedAt != nil {
		archivedAt = sql.NullString{String: b.ArchivedAt.UTC().Format(time.RFC3339Nano), Valid: true}
	}
	_, err = db.ExecContext(ctx, upsert,
		b.ID, b.Title, b.URL, b.Content, b.Category, string(tags), b.DateAdded, archivedAt)
	if err != nil {
		return fmt.Errorf("sqlite: save bookmark %s: %w", b.ID, err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, b domain.Bookmark) error {
	return save(ctx, s.db, b)
}

func (s *Store) SaveMany(ctx context.Context, bookmarks []domain.Bookmark) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, b := range bookmarks {
			if err := save(ctx, tx, b); err != nil {
				return err
			}
		}
		return nil
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBookmark(row scanner) (domain.Bookmark, error) {
	var (
		b          domain.Bookmark
		tags       string
		archivedAt sql.NullString
	)
	if err := row.Scan(&b.ID, &b.Title, &b.URL, &b.Content, &b.Category, &tags, &b.DateAdded, &archivedAt); err != nil {
		return domain.Bookmark{}, err
	}
	if err := json.Unmarshal([]byte(tags), &b.Tags); err != nil {
		return domain.Bookmark{}, fmt.Errorf("sqlite: decode tags of %s: %w", b.ID, err)
	}
	if archivedAt.Valid {
		at, err := time.Parse(time.RFC3339Nano, archivedAt.String)
		if err != nil {
			return domain.Bookmark{}, fmt.Errorf("sqlite: decode archived_at of %s: %w", b.ID, err)
		}
		b.ArchivedAt = &at
	}
	return b, nil
}

func (s *Store) Get(ctx context.Context, id string) (domain.Bookmark, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM bookmarks WHERE id = ?`, id)
	b, err := scanBookmark(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Bookmark{}, fmt.Errorf("get %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("sqlite: get %s: %w", id, err)
	}
	return b, nil
}

func (s *Store) List(ctx context.Context) ([]domain.Bookmark, error) {
	return s.query(ctx, `SELECT `+columns+` FROM bookmarks WHERE archived_at IS NULL ORDER BY date_added DESC, id ASC`)
}

func (s *Store) ListArchived(ctx context.Context) ([]domain.Bookmark, error) {
	return s.query(ctx, `SELECT `+columns+` FROM bookmarks WHERE archived_at IS NOT NULL ORDER BY date_added DESC, id ASC`)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]domain.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list bookmarks: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Bookmark, 0)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list bookmarks: %w", err)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func (s *Store) Archive(ctx context.Context, id string, at time.Time) (domain.Bookmark, error) {
	return s.transition(ctx, id, func(b domain.Bookmark) (domain.Bookmark, bool) {
		if b.IsArchived() {
			return b, false
		}
		return b.Archive(at), true
	})
}

func (s *Store) Restore(ctx context.Context, id string) (domain.Bookmark, error) {
	return s.transition(ctx, id, func(b domain.Bookmark) (domain.Bookmark, bool) {
		if !b.IsArchived() {
			return b, false
		}
		return b.Restore(), true
	})
}

// transition reads, changes and writes one bookmark in a transaction.
func (s *Store) transition(ctx context.Context, id string, change func(domain.Bookmark) (domain.Bookmark, bool)) (domain.Bookmark, error) {
	var out domain.Bookmark
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+columns+` FROM bookmarks WHERE id = ?`, id)
		b, err := scanBookmark(row)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", id, store.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("sqlite: read %s: %w", id, err)
		}
		next, changed := change(b)
		out = next
		if !changed {
			return nil
		}
		return save(ctx, tx, next)
	})
	if err != nil {
		return domain.Bookmark{}, err
	}
	return out, nil
}

func (s *Store) Replace(ctx context.Context, active, archived []domain.Bookmark) error {
	active, archived = store.Partition(active, archived, time.Now())
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM bookmarks`); err != nil {
			return fmt.Errorf("sqlite: clear bookmarks: %w", err)
		}
		for _, b := range append(active, archived...) {
			if err := save(ctx, tx, b); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks`); err != nil {
		return fmt.Errorf("sqlite: reset: %w", err)
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}
