// Package store provides ProgressStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/rewards-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	snapshot *engine.Snapshot
	saves    int

	// FailSaves makes SaveSnapshot return this error, for testing the
	// engine's save-failure handling.
	FailSaves error
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) LoadSnapshot(_ context.Context) (*engine.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snapshot == nil {
		return nil, nil
	}
	copied := cloneSnapshot(*m.snapshot)
	return &copied, nil
}

func (m *Memory) SaveSnapshot(_ context.Context, snap engine.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves != nil {
		return m.FailSaves
	}
	copied := cloneSnapshot(snap)
	m.snapshot = &copied
	m.saves++
	return nil
}

// Saves reports how many snapshots were persisted.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Seed installs a snapshot as if it had been persisted earlier.
func (m *Memory) Seed(snap engine.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneSnapshot(snap)
	m.snapshot = &copied
}

func cloneSnapshot(snap engine.Snapshot) engine.Snapshot {
	out := snap
	out.Streaks = append([]engine.ActivityStreak(nil), snap.Streaks...)
	out.Challenges = append([]engine.ChallengeProgress(nil), snap.Challenges...)
	out.Lifetime = make(map[engine.ActivityType]int, len(snap.Lifetime))
	for at, n := range snap.Lifetime {
		out.Lifetime[at] = n
	}
	out.Progress.Unlocked = make(map[engine.RewardID]engine.UserReward, len(snap.Progress.Unlocked))
	for id, ur := range snap.Progress.Unlocked {
		out.Progress.Unlocked[id] = ur
	}
	return out
}
