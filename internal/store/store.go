// Package store persists interactions in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z"

const createTableSQL = `
CREATE TABLE IF NOT EXISTS interactions (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	stage TEXT NOT NULL,
	user_prompt TEXT NOT NULL,
	ai_response TEXT NOT NULL,
	self_scores TEXT NOT NULL DEFAULT '{}',
	patch_note TEXT NOT NULL DEFAULT '',
	is_meta INTEGER NOT NULL DEFAULT 0,
	emotion TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_interactions_created ON interactions(created_at);
`

// addedColumns are columns later schema versions appended; Migrate adds any
// that an existing table lacks.
var addedColumns = []struct {
	name string
	ddl  string
}{
	{"is_meta", "ALTER TABLE interactions ADD COLUMN is_meta INTEGER NOT NULL DEFAULT 0"},
	{"emotion", "ALTER TABLE interactions ADD COLUMN emotion TEXT NOT NULL DEFAULT ''"},
}

const selectColumns = `id, created_at, stage, user_prompt, ai_response, self_scores, patch_note, is_meta, emotion`

// Interaction is one recorded exchange.
type Interaction struct {
	ID         string         `json:"id" yaml:"id"`
	CreatedAt  time.Time      `json:"created_at" yaml:"created_at"`
	Stage      string         `json:"stage" yaml:"stage"`
	UserPrompt string         `json:"user_prompt" yaml:"user_prompt"`
	AIResponse string         `json:"ai_response" yaml:"ai_response"`
	SelfScores map[string]int `json:"self_scores" yaml:"self_scores"`
	PatchNote  string         `json:"patch_note" yaml:"patch_note"`
	IsMeta     bool           `json:"is_meta" yaml:"is_meta"`
	Emotion    string         `json:"emotion" yaml:"emotion"`
}

// Store is a SQLite-backed interaction log.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to timestamp saved interactions.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open opens or creates the database at path and migrates its schema.
func Open(path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open interactions db: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the interactions table and adds columns missing from
// tables written by older versions.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("init interactions schema: %w", err)
	}

	existing, err := s.columns(ctx)
	if err != nil {
		return err
	}
	for _, c := range addedColumns {
		if existing[c.name] {
			continue
		}
		if _, err := s.db.ExecContext(ctx, c.ddl); err != nil {
			return fmt.Errorf("add column %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *Store) columns(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `PRAGMA table_info(interactions)`)
	if err != nil {
		return nil, fmt.Errorf("read interactions schema: %w", err)
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan column info: %w", err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// Save records in and returns its generated ID. ID and CreatedAt on in are
// ignored.
func (s *Store) Save(ctx context.Context, in Interaction) (string, error) {
	scores := in.SelfScores
	if scores == nil {
		scores = map[string]int{}
	}
	raw, err := json.Marshal(scores)
	if err != nil {
		return "", fmt.Errorf("encode scores: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `INSERT INTO interactions (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, s.now().UTC().Format(timeLayout), in.Stage, in.UserPrompt, in.AIResponse,
		string(raw), in.PatchNote, boolToInt(in.IsMeta), in.Emotion,
	)
	if err != nil {
		return "", fmt.Errorf("save interaction: %w", err)
	}
	return id, nil
}

// Recent returns up to n interactions, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Interaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+`
		FROM interactions ORDER BY created_at DESC, rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query recent interactions: %w", err)
	}
	defer rows.Close()
	return scanInteractions(rows)
}

// Since returns interactions created at or after t, oldest first.
func (s *Store) Since(ctx context.Context, t time.Time) ([]Interaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+`
		FROM interactions WHERE created_at >= ? ORDER BY created_at, rowid`, t.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("query interactions since %s: %w", t.Format(time.RFC3339), err)
	}
	defer rows.Close()
	return scanInteractions(rows)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanInteractions(rows *sql.Rows) ([]Interaction, error) {
	var result []Interaction
	for rows.Next() {
		var (
			in        Interaction
			createdAt string
			scores    string
			isMeta    int
		)
		if err := rows.Scan(&in.ID, &createdAt, &in.Stage, &in.UserPrompt, &in.AIResponse,
			&scores, &in.PatchNote, &isMeta, &in.Emotion); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}

		t, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		in.CreatedAt = t

		in.SelfScores = map[string]int{}
		if scores != "" {
			if err := json.Unmarshal([]byte(scores), &in.SelfScores); err != nil {
				return nil, fmt.Errorf("decode scores for %s: %w", in.ID, err)
			}
		}
		in.IsMeta = isMeta != 0
		result = append(result, in)
	}
	return result, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
