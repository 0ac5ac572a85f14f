package rushwindow

import (
	"fmt"
	"time"
)

// Category rush hour category of a trip
type Category string

const (
	AmRush  Category = "am_rush"
	PmRush  Category = "pm_rush"
	NotRush Category = "not_rush"
)

// sundayWeekday trips that begin on Sunday are never in rush hour. Saturday is eligible.
const sundayWeekday = 6

// Window time of day interval. Both bounds are excluded.
type Window struct {
	Start TimeOfDay `yaml:"start" envconfig:"START" validate:"gte=0,lt=86400000000000"`
	End   TimeOfDay `yaml:"end" envconfig:"END" validate:"gtfield=Start,lte=86400000000000"`
}

// Contains returns true if Start < timeOfDay < End
func (w Window) Contains(timeOfDay TimeOfDay) bool {
	return w.Start < timeOfDay && timeOfDay < w.End
}

func (w Window) String() string {
	return fmt.Sprintf("(%s, %s)", w.Start, w.End)
}

// Classifier assigns a rush Category to a timestamp
// + AM: morning window, evaluated first
// + PM: afternoon window
type Classifier struct {
	AM Window
	PM Window
}

// DefaultClassifier returns a Classifier with the windows 07:30:00-09:00:00 and 15:00:00-19:00:00
func DefaultClassifier() Classifier {
	return Classifier{
		AM: Window{Start: MustParseTimeOfDay("07:30:00"), End: MustParseTimeOfDay("09:00:00")},
		PM: Window{Start: MustParseTimeOfDay("15:00:00"), End: MustParseTimeOfDay("19:00:00")},
	}
}

// Classify returns the rush category of a trip that begins at timestamp. weekday must follow
// the convention 0=Monday...6=Sunday, see WeekdayOf
func (c Classifier) Classify(timestamp time.Time, weekday int) Category {
	if weekday >= sundayWeekday {
		return NotRush
	}

	timeOfDay := TimeOfDayOf(timestamp)
	if c.AM.Contains(timeOfDay) {
		return AmRush
	}

	if c.PM.Contains(timeOfDay) {
		return PmRush
	}

	return NotRush
}

// WeekdayOf returns the day of the week of t with Monday=0 and Sunday=6
func WeekdayOf(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
