package internal

// Mood is the subjective feeling recorded after waking up.
type Mood string

const (
	MoodTerrible  Mood = "terrible"
	MoodPoor      Mood = "poor"
	MoodOkay      Mood = "okay"
	MoodGood      Mood = "good"
	MoodExcellent Mood = "excellent"
)

// Moods lists every accepted mood from worst to best.
var Moods = []Mood{MoodTerrible, MoodPoor, MoodOkay, MoodGood, MoodExcellent}

func (m Mood) Valid() bool {
	for _, v := range Moods {
		if m == v {
			return true
		}
	}
	return false
}

type SleepEntry struct {
	ID       string `json:"id" yaml:"id"`
	Date     string `json:"date" yaml:"date"`         // yyyy-MM-dd
	Bedtime  string `json:"bedtime" yaml:"bedtime"`   // HH:mm
	WakeTime string `json:"wakeTime" yaml:"wakeTime"` // HH:mm
	Quality  int    `json:"quality" yaml:"quality"`   // 1–5 scale
	Mood     Mood   `json:"mood" yaml:"mood"`
	Notes    string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Duration int    `json:"duration" yaml:"duration"` // minutes, derived from Bedtime and WakeTime
}

// EntryInput carries everything a new entry needs except the fields the store assigns.
type EntryInput struct {
	Date     string
	Bedtime  string
	WakeTime string
	Quality  int
	Mood     Mood
	Notes    string
}

// EntryPatch is a partial update. Nil fields are left untouched.
type EntryPatch struct {
	Date     *string
	Bedtime  *string
	WakeTime *string
	Quality  *int
	Mood     *Mood
	Notes    *string
}

func (p EntryPatch) TouchesTimes() bool {
	return p.Bedtime != nil || p.WakeTime != nil
}

type SleepGoal struct {
	TargetBedtime  string  `json:"targetBedtime" yaml:"targetBedtime"`
	TargetWakeTime string  `json:"targetWakeTime" yaml:"targetWakeTime"`
	TargetDuration float64 `json:"targetDuration" yaml:"targetDuration"` // hours
}

func DefaultGoal() SleepGoal {
	return SleepGoal{
		TargetBedtime:  "22:00",
		TargetWakeTime: "06:00",
		TargetDuration: 8,
	}
}

// Snapshot is the full persisted state: the entry collection plus the active goal.
type Snapshot struct {
	Entries []SleepEntry `json:"entries" yaml:"entries"`
	Goal    SleepGoal    `json:"goal" yaml:"goal"`
}
