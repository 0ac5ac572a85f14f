package rushwindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2021-09-06 is a Monday
func mondayAt(hour, minute, second, nanosecond int) time.Time {
	return time.Date(2021, time.September, 6, hour, minute, second, nanosecond, time.UTC)
}

func TestClassify(t *testing.T) {
	classifier := DefaultClassifier()

	tests := []struct {
		name      string
		timestamp time.Time
		weekday   int
		expected  Category
	}{
		{"am rush start boundary is excluded", mondayAt(7, 30, 0, 0), 0, NotRush},
		{"just after am rush start", mondayAt(7, 30, 0, 1), 0, AmRush},
		{"am rush", mondayAt(8, 0, 0, 0), 0, AmRush},
		{"just before am rush end", mondayAt(8, 59, 59, 0), 0, AmRush},
		{"am rush end boundary is excluded", mondayAt(9, 0, 0, 0), 0, NotRush},
		{"midday", mondayAt(12, 0, 0, 0), 0, NotRush},
		{"pm rush start boundary is excluded", mondayAt(15, 0, 0, 0), 0, NotRush},
		{"pm rush", mondayAt(17, 45, 10, 0), 0, PmRush},
		{"pm rush end boundary is excluded", mondayAt(19, 0, 0, 0), 0, NotRush},
		{"night", mondayAt(23, 59, 59, 0), 0, NotRush},
		{"saturday is eligible", mondayAt(8, 0, 0, 0).AddDate(0, 0, 5), 5, AmRush},
		{"sunday am is never rush", mondayAt(8, 0, 0, 0).AddDate(0, 0, 6), 6, NotRush},
		{"sunday pm is never rush", mondayAt(17, 0, 0, 0).AddDate(0, 0, 6), 6, NotRush},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Classify(tt.timestamp, tt.weekday))
		})
	}
}

func TestClassifySundayIsNeverRush(t *testing.T) {
	classifier := DefaultClassifier()
	sunday := time.Date(2021, time.September, 5, 0, 0, 0, 0, time.UTC)

	for minute := 0; minute < 24*60; minute++ {
		timestamp := sunday.Add(time.Duration(minute) * time.Minute)
		assert.Equal(t, NotRush, classifier.Classify(timestamp, WeekdayOf(timestamp)))
	}
}

func TestClassifyAmTakesPriorityOnOverlappingWindows(t *testing.T) {
	classifier := Classifier{
		AM: Window{Start: MustParseTimeOfDay("07:00:00"), End: MustParseTimeOfDay("10:00:00")},
		PM: Window{Start: MustParseTimeOfDay("08:00:00"), End: MustParseTimeOfDay("11:00:00")},
	}

	assert.Equal(t, AmRush, classifier.Classify(mondayAt(9, 0, 0, 0), 0))
	assert.Equal(t, PmRush, classifier.Classify(mondayAt(10, 30, 0, 0), 0))
}

func TestWeekdayOf(t *testing.T) {
	monday := mondayAt(10, 0, 0, 0)
	for offset := 0; offset < 7; offset++ {
		assert.Equal(t, offset, WeekdayOf(monday.AddDate(0, 0, offset)))
	}
}

func TestParseTimeOfDay(t *testing.T) {
	timeOfDay, err := ParseTimeOfDay("07:30:00")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(7*time.Hour+30*time.Minute), timeOfDay)
	assert.Equal(t, "07:30:00", timeOfDay.String())

	_, err = ParseTimeOfDay("7h30")
	assert.Error(t, err)

	var fromText TimeOfDay
	require.NoError(t, fromText.UnmarshalText([]byte("19:00:00")))
	assert.Equal(t, TimeOfDay(19*time.Hour), fromText)
}
