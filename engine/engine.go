/*
engine.go - The serialized engine façade

PURPOSE:
  Wires the validator, streak tracker, XP calculator, progress ledger,
  reward evaluator and challenge tracker behind a single mutex. Exactly
  two actors mutate state: foreground SubmitActivity calls and the
  background rollover. Both take the same lock, so the prune/reset step
  can never race a read-modify-write on the shared maps.

CONTROL FLOW (per submission):
  validate -> streak advance -> XP -> ledger -> rewards -> challenges
  -> snapshot save -> result

  A rejected submission returns ActivityResult{Success:false} with zero
  XP and mutates nothing downstream. No admitted event is ever dropped:
  every one produces a deterministic state transition.

COLLABORATORS (injected, never implemented here):
  ProgressStore  durable snapshot load/save; a failed save is logged and
                 the in-memory state stays authoritative for the session
  LevelCurve     pure streak -> level lookup (leveling package)
  Clock          local wall clock (tests pin it)

SEE ALSO:
  - api/: HTTP surface and the cron-driven rollover
  - engine/store/: In-memory ProgressStore for tests and dev
*/
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// PROGRESS STORE - Durable snapshot collaborator
// =============================================================================

// Snapshot is the persistable slice of engine state. Raw activity events
// are never part of it; persistence of those is an external concern.
type Snapshot struct {
	Progress   UserProgress
	Streaks    []ActivityStreak
	Lifetime   map[ActivityType]int
	Challenges []ChallengeProgress
}

// ProgressStore loads and saves snapshots. Implementations: store/sqlite
// for production, engine/store for tests.
type ProgressStore interface {
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
	SaveSnapshot(ctx context.Context, snap Snapshot) error
}

// =============================================================================
// ENGINE
// =============================================================================

// Options bundles the collaborators and catalogs for New.
type Options struct {
	Store      ProgressStore
	Curve      LevelCurve
	Catalog    []Reward
	Challenges []Challenge
	Clock      Clock
	Logger     *zap.Logger
}

// Engine is one isolated instance of the rewards engine. Construct with
// New; the zero value is not usable.
type Engine struct {
	mu sync.Mutex

	store  ProgressStore
	clock  Clock
	logger *zap.Logger

	validator  *Validator
	streaks    *StreakTracker
	ledger     *ProgressLedger
	rewards    *RewardEvaluator
	challenges *ChallengeTracker
	progress   *UserProgress

	lastRollover Day
}

// New validates the configuration, restores persisted state, and returns
// a ready engine. Configuration problems (no store, no curve, empty
// catalog) abort construction; they are not recoverable at runtime.
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, ErrNoStore
	}
	if opts.Curve == nil {
		return nil, ErrNoCurve
	}
	if len(opts.Catalog) == 0 {
		return nil, ErrEmptyCatalog
	}
	for _, c := range opts.Challenges {
		if !c.RequiredActivity.Valid() {
			return nil, &UnknownActivityTypeError{Value: string(c.RequiredActivity)}
		}
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	progress := NewUserProgress()
	eng := &Engine{
		store:      opts.Store,
		clock:      opts.Clock,
		logger:     opts.Logger,
		validator:  NewValidator(),
		streaks:    NewStreakTracker(),
		ledger:     NewProgressLedger(progress, opts.Curve),
		rewards:    NewRewardEvaluator(opts.Catalog, progress),
		challenges: NewChallengeTracker(opts.Challenges),
		progress:   progress,
	}
	eng.lastRollover = DayOf(opts.Clock.Now())

	if err := eng.restore(); err != nil {
		return nil, err
	}
	return eng, nil
}

// restore loads the persisted snapshot, if any, into the live state.
func (e *Engine) restore() error {
	snap, err := e.store.LoadSnapshot(context.Background())
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}
	*e.progress = snap.Progress
	if e.progress.Unlocked == nil {
		e.progress.Unlocked = make(map[RewardID]UserReward)
	}
	e.streaks.Restore(snap.Streaks)
	e.ledger.Restore(snap.Lifetime)
	e.challenges.Restore(snap.Challenges)
	return nil
}

// =============================================================================
// SUBMISSION - The single public mutating entry point
// =============================================================================

// SubmitActivity processes one activity submission synchronously. A zero
// occurredAt defaults to the current time.
func (e *Engine) SubmitActivity(at ActivityType, payload Payload, occurredAt time.Time) ActivityResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	if occurredAt.IsZero() {
		occurredAt = now
	}
	event := ActivityEvent{Type: at, Payload: payload, OccurredAt: occurredAt}

	if reason := e.validator.Admit(event, now); reason != RejectNone {
		e.logger.Info("activity rejected",
			zap.String("activity_type", string(at)),
			zap.String("reason", string(reason)))
		return rejected(reason)
	}

	streak := e.streaks.Advance(at, occurredAt)
	xp := ComputeXP(at, streak)
	e.ledger.ApplyEvent(at, occurredAt)

	unlockCtx := UnlockContext{
		Event:         event,
		Streak:        streak,
		LifetimeCount: e.ledger.LifetimeCount,
	}
	newRewards := e.rewards.Evaluate(unlockCtx, now)
	completed := e.challenges.Advance(at, now)
	levelUp := e.ledger.CheckLevelUp(e.streaks.MaxCurrent())

	e.save()

	result := ActivityResult{
		Success:             true,
		Message:             "activity recorded",
		XPEarned:            xp,
		NewRewards:          newRewards,
		CompletedChallenges: completed,
		LevelUp:             levelUp,
	}
	e.logger.Info("activity recorded",
		zap.String("activity_type", string(at)),
		zap.Int("xp", xp),
		zap.Int("streak", streak.CurrentStreak),
		zap.Int("new_rewards", len(newRewards)))
	return result
}

// save snapshots state after a mutation. A failed save never fails the
// submission: in-memory state is authoritative for the session and the
// caller owns retry policy.
func (e *Engine) save() {
	snap := Snapshot{
		Progress:   *e.progress,
		Streaks:    e.streaks.All(),
		Lifetime:   e.ledger.LifetimeCounts(),
		Challenges: e.challenges.All(),
	}
	if err := e.store.SaveSnapshot(context.Background(), snap); err != nil {
		e.logger.Warn("snapshot save failed", zap.Error(err))
	}
}

// =============================================================================
// ROLLOVER - The only background-mutating actor
// =============================================================================

// RolloverStats summarizes what a rollover tick changed.
type RolloverStats struct {
	DailyReset   int
	WeeklyReset  int
	MonthlyReset int
	HistoryPruned int
}

// Rollover performs period-boundary work if the local clock crossed a
// boundary since the last call: daily challenge resets past midnight,
// weekly resets on a new ISO week, monthly resets on a new month, plus
// pruning of validator history older than 7 days. Safe to call at any
// cadence; a tick inside the same day is a no-op.
func (e *Engine) Rollover() RolloverStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	today := DayOf(now)
	if today.Equal(e.lastRollover) {
		return RolloverStats{}
	}

	stats := RolloverStats{
		DailyReset:    e.challenges.ResetPeriod(PeriodDaily),
		HistoryPruned: e.validator.PruneBefore(now.Add(-historyRetention)),
	}

	lastYear, lastWeek := e.lastRollover.ISOWeek()
	year, week := today.ISOWeek()
	if year != lastYear || week != lastWeek {
		stats.WeeklyReset = e.challenges.ResetPeriod(PeriodWeekly)
	}
	if today.Year != e.lastRollover.Year || today.Month != e.lastRollover.Month {
		stats.MonthlyReset = e.challenges.ResetPeriod(PeriodMonthly)
	}

	e.lastRollover = today
	e.save()

	e.logger.Info("rollover completed",
		zap.Int("daily_reset", stats.DailyReset),
		zap.Int("weekly_reset", stats.WeeklyReset),
		zap.Int("monthly_reset", stats.MonthlyReset),
		zap.Int("history_pruned", stats.HistoryPruned))
	return stats
}

// =============================================================================
// ACCESSORS - Read-only views for collaborators
// =============================================================================

// Progress returns a copy of the current progress state.
func (e *Engine) Progress() UserProgress {
	e.mu.Lock()
	defer e.mu.Unlock()
	copied := *e.progress
	copied.Unlocked = make(map[RewardID]UserReward, len(e.progress.Unlocked))
	for id, ur := range e.progress.Unlocked {
		copied.Unlocked[id] = ur
	}
	return copied
}

// StreakFor returns the streak state for one activity type.
func (e *Engine) StreakFor(at ActivityType) ActivityStreak {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.streaks.Get(at)
}

// Streaks returns every tracked streak.
func (e *Engine) Streaks() []ActivityStreak {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.streaks.All()
}

// UnlockedRewards returns unlocked rewards ordered by unlock time.
func (e *Engine) UnlockedRewards() []UserReward {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progress.UnlockedList()
}

// RewardCatalog returns the full static catalog.
func (e *Engine) RewardCatalog() []Reward {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rewards.Catalog()
}

// Challenges returns the live state of every challenge instance.
func (e *Engine) Challenges() []ChallengeProgress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.challenges.All()
}

// AvailableChallenges returns the static challenge definitions.
func (e *Engine) AvailableChallenges() []Challenge {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.challenges.Definitions()
}

// LifetimeCount reports the lifetime occurrence counter for a type.
func (e *Engine) LifetimeCount(at ActivityType) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.LifetimeCount(at)
}
