package statistics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeprep/domain/business/rushwindow"
	"bikeprep/domain/entities/feature"
)

func newFeature(station string, memberCasual string, rush rushwindow.Category, weekday int, distance float64, minutes float64) *feature.FeatureData {
	membership := 0
	if memberCasual == "member" {
		membership = 1
	}
	return &feature.FeatureData{
		StartStationName:    station,
		MemberCasual:        memberCasual,
		Rush:                rush,
		Weekday:             weekday,
		Distance:            distance,
		TripTimeMinutes:     minutes,
		MembershipIndicator: membership,
	}
}

func TestAggregate(t *testing.T) {
	handler := NewStatisticsHandler("test", 10)
	features := []*feature.FeatureData{
		newFeature("B", "member", rushwindow.AmRush, 0, 2, 10),
		newFeature("A", "casual", rushwindow.NotRush, 6, 4, 30),
		newFeature("A", "member", rushwindow.PmRush, 10%7, 1, 5),
		newFeature("C", "member", rushwindow.AmRush, 0, 3, 20),
		newFeature("B", "casual", rushwindow.NotRush, 1, 0, 15),
	}

	report := handler.Aggregate(features)

	assert.Equal(t, 5, report.Trips)
	assert.Equal(t, "test", report.Metadata.GetRunID())
	assert.NotEmpty(t, report.Metadata.GetMessage())

	require.Len(t, report.TopMemberStations, 3)
	assert.Equal(t, StationMembership{StationName: "C", Trips: 1, MeanMembership: 1}, report.TopMemberStations[0])
	assert.Equal(t, StationMembership{StationName: "A", Trips: 2, MeanMembership: 0.5}, report.TopMemberStations[1])
	assert.Equal(t, StationMembership{StationName: "B", Trips: 2, MeanMembership: 0.5}, report.TopMemberStations[2])

	require.Len(t, report.ByRush, 3)
	assert.Equal(t, "am_rush", report.ByRush[0].Key)
	assert.Equal(t, 2.5, report.ByRush[0].MeanDistance)
	assert.Equal(t, 15.0, report.ByRush[0].MeanTripMinutes)
	require.NotNil(t, report.ByRush[0].MeanMembership)
	assert.Equal(t, 1.0, *report.ByRush[0].MeanMembership)
	assert.Equal(t, "not_rush", report.ByRush[1].Key)
	assert.Equal(t, 0.0, *report.ByRush[1].MeanMembership)
	assert.Equal(t, "pm_rush", report.ByRush[2].Key)

	require.Len(t, report.ByWeekday, 4)
	assert.Equal(t, []string{"0", "1", "3", "6"}, keys(report.ByWeekday))
	assert.Equal(t, 2, report.ByWeekday[0].Trips)

	require.Len(t, report.ByMembership, 2)
	assert.Equal(t, "casual", report.ByMembership[0].Key)
	assert.Equal(t, 2.0, report.ByMembership[0].MeanDistance)
	assert.Equal(t, 22.5, report.ByMembership[0].MeanTripMinutes)
	assert.Nil(t, report.ByMembership[0].MeanMembership)
	assert.Equal(t, "member", report.ByMembership[1].Key)
	assert.Equal(t, 2.0, report.ByMembership[1].MeanDistance)
}

func TestAggregateKeepsTopStations(t *testing.T) {
	handler := NewStatisticsHandler("test", 0)
	var features []*feature.FeatureData
	for idx := 0; idx < 15; idx++ {
		station := fmt.Sprintf("station %02d", idx)
		features = append(features, newFeature(station, "member", rushwindow.NotRush, 2, 1, 1))
		if idx%2 == 0 {
			features = append(features, newFeature(station, "casual", rushwindow.NotRush, 2, 1, 1))
		}
	}

	report := handler.Aggregate(features)

	require.Len(t, report.TopMemberStations, DefaultTopStations)
	for idx := 0; idx < 7; idx++ {
		assert.Equal(t, 1.0, report.TopMemberStations[idx].MeanMembership)
	}
	assert.Equal(t, "station 01", report.TopMemberStations[0].StationName)
	assert.Equal(t, 0.5, report.TopMemberStations[9].MeanMembership)
}

func TestAggregateEmpty(t *testing.T) {
	report := NewStatisticsHandler("test", 10).Aggregate(nil)

	assert.Equal(t, 0, report.Trips)
	assert.Empty(t, report.TopMemberStations)
	assert.Empty(t, report.ByRush)
}

func keys(groups []GroupMeans) []string {
	var result []string
	for _, group := range groups {
		result = append(result, group.Key)
	}
	return result
}
