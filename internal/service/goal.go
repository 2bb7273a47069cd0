package service

import (
	"github.com/hrcadm/sleeptracker/internal"
)

// GoalRequest is what the goal form submits. The target duration is limited to
// 4–12 hours in half hour steps.
type GoalRequest struct {
	TargetBedtime  string  `json:"targetBedtime" validate:"required,clock"`
	TargetWakeTime string  `json:"targetWakeTime" validate:"required,clock"`
	TargetDuration float64 `json:"targetDuration" validate:"required,gte=4,lte=12,halfstep"`
}

func ValidateGoalRequest(req *GoalRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	return nil
}

func (r *GoalRequest) Goal() internal.SleepGoal {
	return internal.SleepGoal{
		TargetBedtime:  r.TargetBedtime,
		TargetWakeTime: r.TargetWakeTime,
		TargetDuration: r.TargetDuration,
	}
}
