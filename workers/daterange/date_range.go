package daterange

import (
	"fmt"
	"time"

	"bikeprep/domain/entities/trip"
	dataErrors "bikeprep/domain/errors"
	"bikeprep/utils"
)

// DateRange inclusive range of calendar dates
type DateRange struct {
	MinDate time.Time `json:"min_date"`
	MaxDate time.Time `json:"max_date"`
}

// Extract returns the range of dates of the trips. The date of a trip is the date in which it ends.
// If trips is empty ErrEmptyInput is returned
func Extract(trips []*trip.TripData) (DateRange, error) {
	if len(trips) == 0 {
		return DateRange{}, fmt.Errorf("%w: cannot extract date range of an empty trip table", dataErrors.ErrEmptyInput)
	}

	minDate := trips[0].GetDate()
	maxDate := minDate
	for _, tripData := range trips[1:] {
		date := tripData.GetDate()
		if date.Before(minDate) {
			minDate = date
		}
		if date.After(maxDate) {
			maxDate = date
		}
	}

	return DateRange{MinDate: minDate, MaxDate: maxDate}, nil
}

// Contains returns true if minDate <= date <= maxDate
func (dr DateRange) Contains(date time.Time) bool {
	day := utils.DateOf(date)
	return !day.Before(dr.MinDate) && !day.After(dr.MaxDate)
}

func (dr DateRange) String() string {
	return fmt.Sprintf("[%s, %s]", utils.DateKey(dr.MinDate), utils.DateKey(dr.MaxDate))
}
