package service

import "github.com/hrcadm/sleeptracker/internal"

// RecentCount is how many entries the dashboard lists.
const RecentCount = 5

// Summary bundles the derived values a dashboard shows.
type Summary struct {
	Window          int                   `json:"window"`
	AverageQuality  float64               `json:"averageQuality"`
	AverageDuration float64               `json:"averageDuration"`
	Streak          int                   `json:"streak"`
	GoalProgress    GoalProgress          `json:"goalProgress"`
	LastEntry       *internal.SleepEntry  `json:"lastEntry"`
	Recent          []internal.SleepEntry `json:"recent"`
}

func (s *SleepStore) Summary(size int) Summary {
	size = normalizeWindow(size)

	s.mu.RLock()
	defer s.mu.RUnlock()

	recent := make([]internal.SleepEntry, len(window(s.entries, RecentCount)))
	copy(recent, s.entries)

	sum := Summary{
		Window:          size,
		AverageQuality:  AverageQuality(s.entries, size),
		AverageDuration: AverageDuration(s.entries, size),
		Streak:          ComputeStreak(s.entries, s.now(), DefaultStreakLookback),
		GoalProgress:    CalculateGoalProgress(s.goal, s.entries, size),
		Recent:          recent,
	}
	if len(s.entries) > 0 {
		last := s.entries[0]
		sum.LastEntry = &last
	}
	return sum
}
