/*
Package sqlite provides a SQLite-backed implementation of the engine's
ProgressStore.

PURPOSE:
  Persists engine snapshots: the user's progress record, per-type streak
  state, lifetime counters, unlocked rewards, and challenge progress.
  Raw activity events are never stored here; they belong to the external
  activity persistence layer, not this engine.

SNAPSHOT SEMANTICS:
  The engine is single-writer and snapshots after every admitted event
  and every rollover. Each table therefore holds the LATEST state only;
  writes are upserts inside one SQL transaction, so a snapshot is either
  fully applied or not at all.

KEY TABLES:
  progress            singleton row: level state
  streaks             one row per activity type
  lifetime_counters   one row per activity type
  unlocked_rewards    one row per unlocked reward id (insert-only)
  challenge_state     one row per challenge instance

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): readers don't block
  the single writer and crash recovery is cleaner.

USAGE:
  store, err := sqlite.New("./data/rewards.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  eng, err := engine.New(engine.Options{Store: store, ...})

SEE ALSO:
  - engine/engine.go: ProgressStore interface definition
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/rewards-engine/engine"
)

// Store implements engine.ProgressStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Singleton level state
	CREATE TABLE IF NOT EXISTS progress (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		current_level INTEGER NOT NULL,
		days_to_next_level INTEGER NOT NULL,
		level_progress REAL NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- One row per activity type
	CREATE TABLE IF NOT EXISTS streaks (
		activity_type TEXT PRIMARY KEY,
		current_streak INTEGER NOT NULL,
		longest_streak INTEGER NOT NULL,
		last_activity_date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS lifetime_counters (
		activity_type TEXT PRIMARY KEY,
		count INTEGER NOT NULL
	);

	-- Insert-only: a reward unlocks exactly once
	CREATE TABLE IF NOT EXISTS unlocked_rewards (
		reward_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		earned_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS challenge_state (
		challenge_id TEXT PRIMARY KEY,
		current_progress INTEGER NOT NULL,
		is_completed INTEGER NOT NULL,
		completed_at TEXT
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SAVE - One snapshot, one SQL transaction
// =============================================================================

// SaveSnapshot upserts the full engine snapshot atomically.
func (s *Store) SaveSnapshot(ctx context.Context, snap engine.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO progress (id, current_level, days_to_next_level, level_progress, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_level = excluded.current_level,
			days_to_next_level = excluded.days_to_next_level,
			level_progress = excluded.level_progress,
			updated_at = excluded.updated_at`,
		snap.Progress.CurrentLevel, snap.Progress.DaysToNextLevel,
		snap.Progress.LevelProgress, now)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}

	for _, streak := range snap.Streaks {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO streaks (activity_type, current_streak, longest_streak, last_activity_date)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(activity_type) DO UPDATE SET
				current_streak = excluded.current_streak,
				longest_streak = excluded.longest_streak,
				last_activity_date = excluded.last_activity_date`,
			string(streak.Type), streak.CurrentStreak, streak.LongestStreak,
			streak.LastActivityDate.String())
		if err != nil {
			return fmt.Errorf("save streak %s: %w", streak.Type, err)
		}
	}

	for at, count := range snap.Lifetime {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO lifetime_counters (activity_type, count)
			VALUES (?, ?)
			ON CONFLICT(activity_type) DO UPDATE SET count = excluded.count`,
			string(at), count)
		if err != nil {
			return fmt.Errorf("save counter %s: %w", at, err)
		}
	}

	for id, ur := range snap.Progress.Unlocked {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO unlocked_rewards (reward_id, title, earned_at)
			VALUES (?, ?, ?)
			ON CONFLICT(reward_id) DO NOTHING`,
			string(id), ur.Reward.Title, ur.EarnedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("save reward %s: %w", id, err)
		}
	}

	for _, cp := range snap.Challenges {
		var completedAt any
		if cp.CompletedAt != nil {
			completedAt = cp.CompletedAt.UTC().Format(time.RFC3339)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO challenge_state (challenge_id, current_progress, is_completed, completed_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(challenge_id) DO UPDATE SET
				current_progress = excluded.current_progress,
				is_completed = excluded.is_completed,
				completed_at = excluded.completed_at`,
			cp.Challenge.ID, cp.CurrentProgress, boolToInt(cp.IsCompleted), completedAt)
		if err != nil {
			return fmt.Errorf("save challenge %s: %w", cp.Challenge.ID, err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// LOAD - Reassemble the latest snapshot
// =============================================================================

// LoadSnapshot returns the persisted snapshot, or nil when the store is
// empty (first run).
func (s *Store) LoadSnapshot(ctx context.Context) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &engine.Snapshot{
		Progress: *engine.NewUserProgress(),
		Lifetime: make(map[engine.ActivityType]int),
	}

	var updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT current_level, days_to_next_level, level_progress, updated_at
		FROM progress WHERE id = 1`).Scan(
		&snap.Progress.CurrentLevel, &snap.Progress.DaysToNextLevel,
		&snap.Progress.LevelProgress, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	if err := s.loadStreaks(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadCounters(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadRewards(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadChallenges(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Store) loadStreaks(ctx context.Context, snap *engine.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT activity_type, current_streak, longest_streak, last_activity_date
		FROM streaks`)
	if err != nil {
		return fmt.Errorf("load streaks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var at, lastDate string
		var streak engine.ActivityStreak
		if err := rows.Scan(&at, &streak.CurrentStreak, &streak.LongestStreak, &lastDate); err != nil {
			return fmt.Errorf("scan streak: %w", err)
		}
		streak.Type = engine.ActivityType(at)
		day, err := time.Parse("2006-01-02", lastDate)
		if err != nil {
			return fmt.Errorf("parse streak date %q: %w", lastDate, err)
		}
		streak.LastActivityDate = engine.DayOf(day)
		snap.Streaks = append(snap.Streaks, streak)
	}
	return rows.Err()
}

func (s *Store) loadCounters(ctx context.Context, snap *engine.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `SELECT activity_type, count FROM lifetime_counters`)
	if err != nil {
		return fmt.Errorf("load counters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var at string
		var count int
		if err := rows.Scan(&at, &count); err != nil {
			return fmt.Errorf("scan counter: %w", err)
		}
		snap.Lifetime[engine.ActivityType(at)] = count
	}
	return rows.Err()
}

func (s *Store) loadRewards(ctx context.Context, snap *engine.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `SELECT reward_id, title, earned_at FROM unlocked_rewards`)
	if err != nil {
		return fmt.Errorf("load rewards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, title, earnedAt string
		if err := rows.Scan(&id, &title, &earnedAt); err != nil {
			return fmt.Errorf("scan reward: %w", err)
		}
		ts, err := time.Parse(time.RFC3339, earnedAt)
		if err != nil {
			return fmt.Errorf("parse reward time %q: %w", earnedAt, err)
		}
		rid := engine.RewardID(id)
		snap.Progress.Unlocked[rid] = engine.UserReward{
			Reward:   engine.Reward{ID: rid, Title: title},
			EarnedAt: ts,
		}
	}
	return rows.Err()
}

func (s *Store) loadChallenges(ctx context.Context, snap *engine.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT challenge_id, current_progress, is_completed, completed_at
		FROM challenge_state`)
	if err != nil {
		return fmt.Errorf("load challenges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cp engine.ChallengeProgress
		var completed int
		var completedAt sql.NullString
		if err := rows.Scan(&cp.Challenge.ID, &cp.CurrentProgress, &completed, &completedAt); err != nil {
			return fmt.Errorf("scan challenge: %w", err)
		}
		cp.IsCompleted = completed != 0
		if completedAt.Valid {
			ts, err := time.Parse(time.RFC3339, completedAt.String)
			if err != nil {
				return fmt.Errorf("parse challenge time %q: %w", completedAt.String, err)
			}
			cp.CompletedAt = &ts
		}
		snap.Challenges = append(snap.Challenges, cp)
	}
	return rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
