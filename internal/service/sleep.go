package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/storage"
)

// SleepStore owns the entry collection and the active goal. Every mutation
// writes the full snapshot to the repository before returning.
//
// Entries stay sorted by date, most recent first. Callers only ever receive
// copies; all changes go through the store's methods.
type SleepStore struct {
	mu      sync.RWMutex
	entries []internal.SleepEntry
	goal    internal.SleepGoal
	repo    storage.SnapshotRepository
	logger  internal.Logger
	now     func() time.Time
	newID   func() string
}

type Option func(*SleepStore)

// WithClock overrides the source of "today" used by streaks and trends.
func WithClock(now func() time.Time) Option {
	return func(s *SleepStore) { s.now = now }
}

// WithIDGenerator overrides entry id minting.
func WithIDGenerator(gen func() string) Option {
	return func(s *SleepStore) { s.newID = gen }
}

// NewSleepStore rehydrates the store from repo, falling back to an empty
// collection and the default goal when nothing was persisted.
func NewSleepStore(ctx context.Context, repo storage.SnapshotRepository, logger internal.Logger, opts ...Option) (*SleepStore, error) {
	s := &SleepStore{
		entries: []internal.SleepEntry{},
		goal:    internal.DefaultGoal(),
		repo:    repo,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := repo.Load(ctx)
	if err != nil {
		logger.Errorf("store: failed to load snapshot: %v", err)
		return nil, fmt.Errorf("store: load snapshot: %w", err)
	}
	if snap != nil {
		if snap.Entries != nil {
			s.entries = snap.Entries
		}
		s.goal = snap.Goal
		logger.Infof("store: loaded %d entries", len(s.entries))
	}
	return s, nil
}

// persist must be called with the write lock held.
func (s *SleepStore) persist(ctx context.Context) error {
	snap := &internal.Snapshot{
		Entries: s.entries,
		Goal:    s.goal,
	}
	if err := s.repo.Save(ctx, snap); err != nil {
		s.logger.Errorf("store: failed to persist snapshot: %v", err)
		return fmt.Errorf("store: persist: %w", err)
	}
	return nil
}

func (s *SleepStore) sortEntries() {
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].Date > s.entries[j].Date
	})
}

func (s *SleepStore) indexOf(id string) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// AddEntry computes the duration, assigns a fresh id and inserts the entry.
// The persisted error, if any, is returned after the in-memory insert.
func (s *SleepStore) AddEntry(ctx context.Context, in internal.EntryInput) (internal.SleepEntry, error) {
	duration, err := ComputeDuration(in.Bedtime, in.WakeTime)
	if err != nil {
		return internal.SleepEntry{}, fmt.Errorf("store: add entry: %w", err)
	}

	entry := internal.SleepEntry{
		ID:       s.newID(),
		Date:     in.Date,
		Bedtime:  in.Bedtime,
		WakeTime: in.WakeTime,
		Quality:  in.Quality,
		Mood:     in.Mood,
		Notes:    in.Notes,
		Duration: duration,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]internal.SleepEntry{entry}, s.entries...)
	s.sortEntries()
	s.logger.Debugf("store: added entry %s for %s", entry.ID, entry.Date)
	return entry, s.persist(ctx)
}

// UpdateEntry merges the supplied fields into the entry with the given id.
// It reports false without touching storage when the id is unknown.
func (s *SleepStore) UpdateEntry(ctx context.Context, id string, patch internal.EntryPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	updated := s.entries[i]
	if patch.Date != nil {
		updated.Date = *patch.Date
	}
	if patch.Bedtime != nil {
		updated.Bedtime = *patch.Bedtime
	}
	if patch.WakeTime != nil {
		updated.WakeTime = *patch.WakeTime
	}
	if patch.Quality != nil {
		updated.Quality = *patch.Quality
	}
	if patch.Mood != nil {
		updated.Mood = *patch.Mood
	}
	if patch.Notes != nil {
		updated.Notes = *patch.Notes
	}
	if patch.TouchesTimes() {
		duration, err := ComputeDuration(updated.Bedtime, updated.WakeTime)
		if err != nil {
			return true, fmt.Errorf("store: update entry %s: %w", id, err)
		}
		updated.Duration = duration
	}

	s.entries[i] = updated
	if patch.Date != nil {
		s.sortEntries()
	}
	return true, s.persist(ctx)
}

// DeleteEntry removes the entry with the given id, reporting whether it existed.
func (s *SleepStore) DeleteEntry(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
	return true, s.persist(ctx)
}

// SetGoal replaces the goal wholesale. Values are stored as given.
func (s *SleepStore) SetGoal(ctx context.Context, goal internal.SleepGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goal = goal
	return s.persist(ctx)
}

func (s *SleepStore) Goal() internal.SleepGoal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goal
}

// Entries returns a copy of the collection, most recent first.
func (s *SleepStore) Entries() []internal.SleepEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]internal.SleepEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *SleepStore) Entry(id string) (internal.SleepEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return internal.SleepEntry{}, false
	}
	return s.entries[i], true
}

// LastEntry is the most recent entry, if any.
func (s *SleepStore) LastEntry() (internal.SleepEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) == 0 {
		return internal.SleepEntry{}, false
	}
	return s.entries[0], true
}

// RecentEntries returns up to n of the most recent entries.
func (s *SleepStore) RecentEntries(n int) []internal.SleepEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recent := window(s.entries, n)
	out := make([]internal.SleepEntry, len(recent))
	copy(out, recent)
	return out
}

func normalizeWindow(size int) int {
	if size <= 0 {
		return DefaultWindow
	}
	return size
}

func (s *SleepStore) AverageQuality(size int) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return AverageQuality(s.entries, normalizeWindow(size))
}

func (s *SleepStore) AverageDuration(size int) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return AverageDuration(s.entries, normalizeWindow(size))
}

func (s *SleepStore) Streak() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeStreak(s.entries, s.now(), DefaultStreakLookback)
}

func (s *SleepStore) GoalProgress(size int) GoalProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CalculateGoalProgress(s.goal, s.entries, normalizeWindow(size))
}

func (s *SleepStore) WeeklyTrend() []TrendPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return WeeklyTrend(s.entries, s.now())
}

// Close releases the underlying repository.
func (s *SleepStore) Close() error {
	return s.repo.Close()
}
