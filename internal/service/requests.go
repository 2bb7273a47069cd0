package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/hrcadm/sleeptracker/internal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("clock", validateClock)
	_ = v.RegisterValidation("halfstep", validateHalfStep)
	return v
}

func validateClock(fl validator.FieldLevel) bool {
	_, err := parseClock(fl.Field().String())
	return err == nil
}

func validateHalfStep(fl validator.FieldLevel) bool {
	v := fl.Field().Float() * 2
	return v == float64(int64(v))
}

type SleepEntryRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Bedtime  string `json:"bedtime" validate:"required,clock"`
	WakeTime string `json:"wakeTime" validate:"required,clock"`
	Quality  int    `json:"quality" validate:"required,gte=1,lte=5"`
	Mood     string `json:"mood" validate:"required,oneof=terrible poor okay good excellent"`
	Notes    string `json:"notes,omitempty" validate:"omitempty"`
}

func ValidateSleepEntryRequest(body *SleepEntryRequest) error {
	return validate.Struct(body)
}

func (r *SleepEntryRequest) Input() internal.EntryInput {
	return internal.EntryInput{
		Date:     r.Date,
		Bedtime:  r.Bedtime,
		WakeTime: r.WakeTime,
		Quality:  r.Quality,
		Mood:     internal.Mood(r.Mood),
		Notes:    r.Notes,
	}
}

// SleepEntryPatchRequest mirrors SleepEntryRequest with every field optional.
type SleepEntryPatchRequest struct {
	Date     *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Bedtime  *string `json:"bedtime,omitempty" validate:"omitempty,clock"`
	WakeTime *string `json:"wakeTime,omitempty" validate:"omitempty,clock"`
	Quality  *int    `json:"quality,omitempty" validate:"omitempty,gte=1,lte=5"`
	Mood     *string `json:"mood,omitempty" validate:"omitempty,oneof=terrible poor okay good excellent"`
	Notes    *string `json:"notes,omitempty"`
}

func ValidateSleepEntryPatchRequest(body *SleepEntryPatchRequest) error {
	return validate.Struct(body)
}

func (r *SleepEntryPatchRequest) Patch() internal.EntryPatch {
	p := internal.EntryPatch{
		Date:     r.Date,
		Bedtime:  r.Bedtime,
		WakeTime: r.WakeTime,
		Quality:  r.Quality,
		Notes:    r.Notes,
	}
	if r.Mood != nil {
		m := internal.Mood(*r.Mood)
		p.Mood = &m
	}
	return p
}
