package utils

import "time"

const DateLayout = "2006-01-02"

// DateOf returns the calendar date of t as midnight UTC, keeping t's wall clock date
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateKey returns the key used to index data by calendar date: YYYY-MM-DD
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

type DateSet map[string]bool

func (ds DateSet) Add(element time.Time) {
	ds[DateKey(element)] = true
}

func (ds DateSet) Contains(element time.Time) bool {
	return ds[DateKey(element)]
}
