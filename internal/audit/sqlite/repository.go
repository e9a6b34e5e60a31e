// Package sqlite provides a SQLite-backed implementation of audit.Repository.
//
// WAL mode is enabled on Open so concurrent request goroutines appending rows
// do not block readers.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/storefront-gateway/internal/audit"

	// Pure-Go driver, no CGO needed.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS checkout_audit (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    request_id   TEXT    NOT NULL DEFAULT '',
    user_id      TEXT    NOT NULL DEFAULT '',
    outcome      TEXT    NOT NULL,
    line_count   INTEGER NOT NULL,
    total_items  INTEGER NOT NULL,
    -- JSON array of product names that failed the check.
    unavailable  TEXT    NOT NULL DEFAULT '[]',
    trace_id     TEXT    NOT NULL DEFAULT '',
    span_id      TEXT    NOT NULL DEFAULT '',
    created_at   TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_checkout_audit_user ON checkout_audit(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_checkout_audit_trace ON checkout_audit(trace_id);
`

// Fixed-width fraction keeps lexical order equal to time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Repository is the SQLite implementation of audit.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/audit.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends an entry. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *audit.Entry) error {
	const q = `
		INSERT INTO checkout_audit
			(request_id, user_id, outcome, line_count, total_items, unavailable, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.RequestID,
		entry.UserID,
		string(entry.Outcome),
		entry.LineCount,
		entry.TotalItems,
		entry.Unavailable,
		entry.TraceID,
		entry.SpanID,
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save checkout audit for user %q: %w", entry.UserID, err)
	}
	return nil
}

// ListByUser returns a user's entries, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]audit.Entry, error) {
	const q = `
		SELECT request_id, user_id, outcome, line_count, total_items, unavailable,
		       trace_id, span_id, created_at
		FROM   checkout_audit
		WHERE  user_id = ?
		ORDER  BY created_at DESC, id DESC
		LIMIT  ?`

	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list audit for %q: %w", userID, err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		var createdAt string
		if err := rows.Scan(
			&e.RequestID,
			&e.UserID,
			&e.Outcome,
			&e.LineCount,
			&e.TotalItems,
			&e.Unavailable,
			&e.TraceID,
			&e.SpanID,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan audit row: %w", err)
		}
		if e.CreatedAt, err = parseRFC3339(createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate audit rows: %w", err)
	}
	return entries, nil
}
