package core

import (
	"math"
	"time"
)

// WorkLogEntry records the hours worked on one calendar date. The date is
// the entry's identity: a list holds at most one entry per date.
type WorkLogEntry struct {
	Date      Date      `json:"date"`
	Hours     float64   `json:"hours"`
	Jornada   float64   `json:"jornada"` // contracted hours for the day
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Key returns the identity key (YYYY-MM-DD).
func (e WorkLogEntry) Key() string {
	return e.Date.String()
}

// WorkedHours returns the hours between start and end, or 0 when end is not
// after start.
func WorkedHours(start, end time.Time) float64 {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return d.Hours()
}

// ExtraHours returns the hours worked beyond the contracted day, never negative.
func (e WorkLogEntry) ExtraHours() float64 {
	return math.Max(0, e.Hours-e.Jornada)
}

func (e WorkLogEntry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Jornada <= 0 || math.IsNaN(e.Jornada) || e.Jornada > 24 {
		return ErrInvalidJornada
	}
	if e.Hours <= 0 || math.IsNaN(e.Hours) {
		return ErrInvalidHours
	}
	return nil
}
