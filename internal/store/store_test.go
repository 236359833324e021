package store_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/selfevo/internal/store"
)

// stepClock returns a clock that advances one minute per call.
func stepClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(time.Minute)
		return t
	}
}

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func openTest(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "db", "interactions.db"), store.WithClock(stepClock(t0)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// ---------------------------------------------------------------------------
// Save / Recent / Since
// ---------------------------------------------------------------------------

func TestSaveAndRecent(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	id, err := s.Save(ctx, store.Interaction{
		Stage:      "0",
		UserPrompt: "what matters today?",
		AIResponse: "Success Today: ship",
		SelfScores: map[string]int{"clarity": 8, "utility": 6},
		PatchNote:  "ok",
		Emotion:    "scattered",
	})
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	_, err = s.Save(ctx, store.Interaction{Stage: "meta", UserPrompt: "zoom out", AIResponse: "A.", IsMeta: true})
	require.NoError(t, err)

	got, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "meta", got[0].Stage, "newest first")
	assert.True(t, got[0].IsMeta)
	assert.Empty(t, got[0].SelfScores)
	assert.Equal(t, t0.Add(time.Minute), got[0].CreatedAt)

	assert.Equal(t, id, got[1].ID)
	assert.Equal(t, "what matters today?", got[1].UserPrompt)
	assert.Equal(t, map[string]int{"clarity": 8, "utility": 6}, got[1].SelfScores)
	assert.Equal(t, "scattered", got[1].Emotion)
	assert.False(t, got[1].IsMeta)
	assert.Equal(t, t0, got[1].CreatedAt)
}

func TestRecent_Limit(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := s.Save(ctx, store.Interaction{Stage: "1"})
		require.NoError(t, err)
	}

	got, err := s.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, t0.Add(4*time.Minute), got[0].CreatedAt)
}

func TestSince(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	for _, st := range []string{"0", "1", "2", "3"} {
		_, err := s.Save(ctx, store.Interaction{Stage: st})
		require.NoError(t, err)
	}

	got, err := s.Since(ctx, t0.Add(2*time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].Stage, "oldest first")
	assert.Equal(t, "3", got[1].Stage)

	none, err := s.Since(ctx, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, none)
}

// ---------------------------------------------------------------------------
// Migration
// ---------------------------------------------------------------------------

func TestOpen_MigratesOlderTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE interactions (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		stage TEXT NOT NULL,
		user_prompt TEXT NOT NULL,
		ai_response TEXT NOT NULL,
		self_scores TEXT NOT NULL DEFAULT '{}',
		patch_note TEXT NOT NULL DEFAULT ''
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO interactions VALUES ('legacy', '2026-03-01T08:00:00.000000Z', '2', 'p', 'r', '{"clarity":4}', 'n')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "legacy", got[0].ID)
	assert.False(t, got[0].IsMeta)
	assert.Empty(t, got[0].Emotion)
	assert.Equal(t, map[string]int{"clarity": 4}, got[0].SelfScores)

	// Running the migration again is a no-op.
	require.NoError(t, s.Migrate(context.Background()))
}
