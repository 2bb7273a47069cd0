package service

import (
	"errors"
	"fmt"
	"time"
)

const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"

	minutesPerDay = 24 * 60
)

var ErrInvalidClock = errors.New("invalid time of day")

// referenceDay anchors both clock times on the same nominal calendar day.
var referenceDay = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

func parseClock(s string) (time.Time, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return referenceDay.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}

// ComputeDuration returns the minutes slept between bedtime and wakeTime.
// A wake time at or before the bedtime is taken to fall on the following day,
// so equal times give a full 1440 minutes.
func ComputeDuration(bedtime, wakeTime string) (int, error) {
	bed, err := parseClock(bedtime)
	if err != nil {
		return 0, err
	}
	wake, err := parseClock(wakeTime)
	if err != nil {
		return 0, err
	}
	if !wake.After(bed) {
		wake = wake.AddDate(0, 0, 1)
	}
	return int(wake.Sub(bed).Round(time.Minute) / time.Minute), nil
}

// FormatDuration renders minutes as "7h 30m".
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// ClockHour returns the hour component of an HH:mm string.
func ClockHour(s string) (int, error) {
	t, err := parseClock(s)
	if err != nil {
		return 0, err
	}
	return t.Hour(), nil
}
