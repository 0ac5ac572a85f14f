package rushwindow

import (
	"fmt"
	"time"
)

const timeOfDayLayout = "15:04:05"

// TimeOfDay wall clock time elapsed since midnight
type TimeOfDay time.Duration

// ParseTimeOfDay parses a HH:MM:SS string
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parsed, err := time.Parse(timeOfDayLayout, value)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:MM:SS: %w", value, err)
	}
	return TimeOfDayOf(parsed), nil
}

func MustParseTimeOfDay(value string) TimeOfDay {
	timeOfDay, err := ParseTimeOfDay(value)
	if err != nil {
		panic(err)
	}
	return timeOfDay
}

// TimeOfDayOf returns the wall clock time of t, including its fractional seconds
func TimeOfDayOf(t time.Time) TimeOfDay {
	hour, minute, second := t.Clock()
	elapsed := time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second +
		time.Duration(t.Nanosecond())
	return TimeOfDay(elapsed)
}

func (tod TimeOfDay) String() string {
	return time.Time{}.Add(time.Duration(tod)).Format(timeOfDayLayout)
}

// UnmarshalText allows setting a TimeOfDay from yaml files and environment variables
func (tod *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*tod = parsed
	return nil
}

func (tod TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(tod.String()), nil
}
