package service

import (
	"math"
	"time"

	"github.com/hrcadm/sleeptracker/internal"
)

const (
	// DefaultWindow is the number of most recent entries the averages look at.
	DefaultWindow = 7
	// DefaultStreakLookback bounds how many days back a streak is counted.
	DefaultStreakLookback = 30
	// TrendDays is the length of the weekly trend series.
	TrendDays = 7
)

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func window(entries []internal.SleepEntry, size int) []internal.SleepEntry {
	if size < 0 {
		size = 0
	}
	if size > len(entries) {
		size = len(entries)
	}
	return entries[:size]
}

// AverageQuality averages quality over the first size entries, which are the
// most recent ones when entries is in store order. Empty input yields 0.
func AverageQuality(entries []internal.SleepEntry, size int) float64 {
	recent := window(entries, size)
	if len(recent) == 0 {
		return 0
	}
	total := 0
	for _, e := range recent {
		total += e.Quality
	}
	return roundTenth(float64(total) / float64(len(recent)))
}

// AverageDuration is AverageQuality's counterpart for duration, in hours.
func AverageDuration(entries []internal.SleepEntry, size int) float64 {
	recent := window(entries, size)
	if len(recent) == 0 {
		return 0
	}
	total := 0
	for _, e := range recent {
		total += e.Duration
	}
	return roundTenth(float64(total) / float64(len(recent)) / 60)
}

// ComputeStreak counts consecutive calendar days, ending with today, that have
// at least one entry. It gives up after maxLookback days.
func ComputeStreak(entries []internal.SleepEntry, today time.Time, maxLookback int) int {
	dates := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		dates[e.Date] = struct{}{}
	}

	count := 0
	day := today
	for i := 0; i < maxLookback; i++ {
		if _, ok := dates[day.Format(dateLayout)]; !ok {
			break
		}
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}

type DayProgress struct {
	Date     string `json:"date"`
	Duration int    `json:"duration"`
	Met      bool   `json:"met"`
}

type GoalProgress struct {
	Goal            internal.SleepGoal `json:"goal"`
	AverageDuration float64            `json:"averageDuration"`
	Percent         float64            `json:"percent"`
	Progress        []DayProgress      `json:"progress"`
	MetDays         int                `json:"metDays"`
	TotalDays       int                `json:"totalDays"`
}

// CalculateGoalProgress compares the recent window against the target duration.
// Percent is capped at 100 and is 0 when the goal has no positive target.
func CalculateGoalProgress(goal internal.SleepGoal, entries []internal.SleepEntry, size int) GoalProgress {
	avg := AverageDuration(entries, size)
	target := goal.TargetDuration * 60

	days := []DayProgress{}
	metCount := 0
	for _, e := range window(entries, size) {
		met := target > 0 && float64(e.Duration) >= target
		if met {
			metCount++
		}
		days = append(days, DayProgress{Date: e.Date, Duration: e.Duration, Met: met})
	}

	percent := 0.0
	if goal.TargetDuration > 0 {
		percent = math.Min(avg/goal.TargetDuration*100, 100)
	}

	return GoalProgress{
		Goal:            goal,
		AverageDuration: avg,
		Percent:         percent,
		Progress:        days,
		MetDays:         metCount,
		TotalDays:       len(days),
	}
}

type TrendPoint struct {
	Date         string  `json:"date"`
	Duration     float64 `json:"duration"` // hours
	Quality      int     `json:"quality"`
	BedtimeHour  *int    `json:"bedtimeHour"`
	WakeTimeHour *int    `json:"wakeTimeHour"`
}

// WeeklyTrend builds one point per calendar day for the week ending today,
// oldest first. When a date has several entries the first one in store order wins.
func WeeklyTrend(entries []internal.SleepEntry, today time.Time) []TrendPoint {
	byDate := make(map[string]internal.SleepEntry, len(entries))
	for _, e := range entries {
		if _, seen := byDate[e.Date]; !seen {
			byDate[e.Date] = e
		}
	}

	points := make([]TrendPoint, 0, TrendDays)
	for i := TrendDays - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(dateLayout)
		p := TrendPoint{Date: date}
		if e, ok := byDate[date]; ok {
			p.Duration = float64(e.Duration) / 60
			p.Quality = e.Quality
			if h, err := ClockHour(e.Bedtime); err == nil {
				p.BedtimeHour = &h
			}
			if h, err := ClockHour(e.WakeTime); err == nil {
				p.WakeTimeHour = &h
			}
		}
		points = append(points, p)
	}
	return points
}
