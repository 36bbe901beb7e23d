// Package sqlite is a lexical memory store on SQLite FTS5 for single-node
// deployments without a vector database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"context-gateway/internal/memory"
	pkgLog "context-gateway/pkg/log"
)

const defaultLimit = 10

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA synchronous = NORMAL",
}

const schema = `
CREATE TABLE IF NOT EXISTS memories (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	uid        TEXT NOT NULL UNIQUE,
	owner_id   TEXT NOT NULL,
	content    TEXT NOT NULL,
	metadata   TEXT NOT NULL DEFAULT '{}',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_memories_owner ON memories(owner_id, created_at DESC);

CREATE VIRTUAL TABLE IF NOT EXISTS memories_fts USING fts5(
	content,
	content='memories',
	content_rowid='id'
);

CREATE TRIGGER IF NOT EXISTS memories_ai AFTER INSERT ON memories BEGIN
	INSERT INTO memories_fts(rowid, content) VALUES (new.id, new.content);
END;
CREATE TRIGGER IF NOT EXISTS memories_ad AFTER DELETE ON memories BEGIN
	INSERT INTO memories_fts(memories_fts, rowid, content) VALUES ('delete', old.id, old.content);
END;
CREATE TRIGGER IF NOT EXISTS memories_au AFTER UPDATE ON memories BEGIN
	INSERT INTO memories_fts(memories_fts, rowid, content) VALUES ('delete', old.id, old.content);
	INSERT INTO memories_fts(rowid, content) VALUES (new.id, new.content);
END;
`

type implRepository struct {
	l  pkgLog.Logger
	db *sql.DB
}

// New opens (creating if needed) the database at path and migrates it.
// Use ":memory:" for an ephemeral store.
func New(l pkgLog.Logger, path string) (*implRepository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("sqlite: create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	if path == ":memory:" {
		// each pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: pragma %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migration: %w", err)
	}

	return &implRepository{l: l, db: db}, nil
}

func (r *implRepository) Close() error {
	return r.db.Close()
}

func (r *implRepository) Add(ctx context.Context, in memory.AddInput) (string, error) {
	if err := memory.ValidateAdd(in); err != nil {
		return "", err
	}

	meta := in.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	rawMeta, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("sqlite: marshal metadata: %w", err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO memories (uid, owner_id, content, metadata, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, in.OwnerID, in.Text, string(rawMeta), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("sqlite: insert: %w", err)
	}
	return id, nil
}

// Search ranks by bm25. The threshold is ignored: bm25 has no fixed scale
// to compare a cosine-style cutoff against.
func (r *implRepository) Search(ctx context.Context, in memory.SearchInput) ([]memory.Item, error) {
	if in.OwnerID == "" {
		return nil, memory.ErrMissingOwner
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	ftsQuery := sanitizeFTS(in.Query)
	if ftsQuery == "" {
		return r.recent(ctx, in.OwnerID, limit)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT m.uid, m.content, m.metadata, m.created_at, bm25(memories_fts) AS bm
		FROM memories_fts
		JOIN memories m ON m.id = memories_fts.rowid
		WHERE memories_fts MATCH ? AND m.owner_id = ?
		ORDER BY bm
		LIMIT ?`, ftsQuery, in.OwnerID, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []memory.Item
	for rows.Next() {
		var (
			it       memory.Item
			meta, ts string
			rank     float64
		)
		if err := rows.Scan(&it.ID, &it.Content, &meta, &ts, &rank); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		it.Score = rankToScore(rank)
		it.Metadata = decodeMeta(meta)
		it.CreatedAt, _ = time.Parse(time.RFC3339Nano, ts)
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *implRepository) recent(ctx context.Context, owner string, limit int) ([]memory.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT uid, content, metadata, created_at
		FROM memories
		WHERE owner_id = ?
		ORDER BY id DESC
		LIMIT ?`, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []memory.Item
	for rows.Next() {
		var it memory.Item
		var meta, ts string
		if err := rows.Scan(&it.ID, &it.Content, &meta, &ts); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		it.Metadata = decodeMeta(meta)
		it.CreatedAt, _ = time.Parse(time.RFC3339Nano, ts)
		items = append(items, it)
	}
	return items, rows.Err()
}

// Export pages through all owners' memories in insertion order.
func (r *implRepository) Export(ctx context.Context, afterSeq int64, limit int) ([]memory.Record, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, uid, owner_id, content, metadata, created_at
		FROM memories
		WHERE id > ?
		ORDER BY id
		LIMIT ?`, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: export: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []memory.Record
	for rows.Next() {
		var rec memory.Record
		var meta, ts string
		if err := rows.Scan(&rec.Seq, &rec.ID, &rec.OwnerID, &rec.Content, &meta, &ts); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		rec.Metadata = decodeMeta(meta)
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// sanitizeFTS quotes every token so user text cannot inject FTS5 syntax,
// then ORs them so any shared word is a hit.
func sanitizeFTS(query string) string {
	words := strings.Fields(query)
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ReplaceAll(w, `"`, "")
		if w == "" {
			continue
		}
		quoted = append(quoted, `"`+w+`"`)
	}
	return strings.Join(quoted, " OR ")
}

// rankToScore maps bm25 (negative, lower is better) into (0, 1).
func rankToScore(rank float64) float64 {
	if rank >= 0 {
		return 0
	}
	r := -rank
	return r / (1 + r)
}

func decodeMeta(raw string) map[string]string {
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil || len(m) == 0 {
		return nil
	}
	return m
}
