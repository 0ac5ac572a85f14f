package statistics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"bikeprep/domain/business/meanaccumulator"
	"bikeprep/domain/entities"
	"bikeprep/domain/entities/feature"
)

const (
	handlerType        = "statistics-handler"
	reportType         = "statistics-report"
	DefaultTopStations = 10
)

// StationMembership share of members among the trips that begin in a station
type StationMembership struct {
	StationName    string  `json:"station_name"`
	Trips          int     `json:"trips"`
	MeanMembership float64 `json:"mean_membership"`
}

// GroupMeans mean values of a group of trips
// + Key: value of the grouping column
// + MeanMembership: only set for groupings where it is reported
type GroupMeans struct {
	Key             string   `json:"key"`
	Trips           int      `json:"trips"`
	MeanDistance    float64  `json:"mean_distance_km"`
	MeanTripMinutes float64  `json:"mean_trip_minutes"`
	MeanMembership  *float64 `json:"mean_membership,omitempty"`
}

// Report grouped statistics of the feature table. It is not part of the output table
type Report struct {
	Metadata          entities.Metadata   `json:"metadata"`
	Trips             int                 `json:"trips"`
	TopMemberStations []StationMembership `json:"top_member_stations"`
	ByRush            []GroupMeans        `json:"by_rush"`
	ByWeekday         []GroupMeans        `json:"by_weekday"`
	ByMembership      []GroupMeans        `json:"by_membership"`
}

func (r *Report) GetMetadata() entities.Metadata {
	return r.Metadata
}

// groupAccumulators accumulators of the columns averaged for each grouping
type groupAccumulators struct {
	distance   *meanaccumulator.Group
	tripTime   *meanaccumulator.Group
	membership *meanaccumulator.Group
}

func newGroupAccumulators() *groupAccumulators {
	return &groupAccumulators{
		distance:   meanaccumulator.NewGroup(),
		tripTime:   meanaccumulator.NewGroup(),
		membership: meanaccumulator.NewGroup(),
	}
}

func (ga *groupAccumulators) update(key string, featureData *feature.FeatureData) {
	ga.distance.Update(key, featureData.Distance)
	ga.tripTime.Update(key, featureData.TripTimeMinutes)
	ga.membership.Update(key, float64(featureData.MembershipIndicator))
}

// StatisticsHandler computes the grouped statistics reported after preparing the data
type StatisticsHandler struct {
	runID       string
	topStations int
}

func NewStatisticsHandler(runID string, topStations int) *StatisticsHandler {
	if topStations <= 0 {
		topStations = DefaultTopStations
	}
	return &StatisticsHandler{
		runID:       runID,
		topStations: topStations,
	}
}

func (sh *StatisticsHandler) getLogMessage(method string, message string) string {
	return fmt.Sprintf("[handler: %s][runID: %s][method: %s][status: OK] %s", handlerType, sh.runID, method, message)
}

// Aggregate groups the features and computes:
// 1. Stations with the highest percentage of members, sorted descending
// 2. Mean distance, trip time and membership by rush category
// 3. Mean distance, trip time and membership by weekday
// 4. Mean distance and trip time by member type
// Groups are sorted by key
func (sh *StatisticsHandler) Aggregate(features []*feature.FeatureData) *Report {
	stations := meanaccumulator.NewGroup()
	byRush := newGroupAccumulators()
	byWeekday := newGroupAccumulators()
	byMembership := newGroupAccumulators()

	for _, featureData := range features {
		stations.Update(featureData.StartStationName, float64(featureData.MembershipIndicator))
		byRush.update(string(featureData.Rush), featureData)
		byWeekday.update(strconv.Itoa(featureData.Weekday), featureData)
		byMembership.update(featureData.MemberCasual, featureData)
	}

	report := &Report{
		Metadata:          entities.NewMetadata(sh.runID, reportType, handlerType, ""),
		Trips:             len(features),
		TopMemberStations: sh.topMemberStations(stations),
		ByRush:            summarize(byRush, true, sortKeys),
		ByWeekday:         summarize(byWeekday, true, sortNumericKeys),
		ByMembership:      summarize(byMembership, false, sortKeys),
	}
	report.Metadata.Message = report.String()

	log.Info(sh.getLogMessage("Aggregate", fmt.Sprintf("statistics of %v trips\n%s", report.Trips, report.Metadata.Message)))
	return report
}

func (sh *StatisticsHandler) topMemberStations(stations *meanaccumulator.Group) []StationMembership {
	result := make([]StationMembership, 0, stations.Len())
	for _, name := range stations.Keys() {
		accumulator, _ := stations.Get(name)
		result = append(result, StationMembership{
			StationName:    name,
			Trips:          accumulator.Counter,
			MeanMembership: accumulator.GetAverage(),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].MeanMembership != result[j].MeanMembership {
			return result[i].MeanMembership > result[j].MeanMembership
		}
		return result[i].StationName < result[j].StationName
	})

	if len(result) > sh.topStations {
		result = result[:sh.topStations]
	}
	return result
}

func summarize(accumulators *groupAccumulators, withMembership bool, sortFunc func([]string)) []GroupMeans {
	keys := accumulators.distance.Keys()
	sortFunc(keys)

	result := make([]GroupMeans, 0, len(keys))
	for _, key := range keys {
		distance, _ := accumulators.distance.Get(key)
		tripTime, _ := accumulators.tripTime.Get(key)
		groupMeans := GroupMeans{
			Key:             key,
			Trips:           distance.Counter,
			MeanDistance:    distance.GetAverage(),
			MeanTripMinutes: tripTime.GetAverage(),
		}
		if withMembership {
			membership, _ := accumulators.membership.Get(key)
			meanMembership := membership.GetAverage()
			groupMeans.MeanMembership = &meanMembership
		}
		result = append(result, groupMeans)
	}
	return result
}

func sortKeys(keys []string) {
	sort.Strings(keys)
}

// sortNumericKeys sorts keys that hold integers, like weekdays
func sortNumericKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})
}

// String returns the report as the text printed at the end of a run
func (r *Report) String() string {
	var builder strings.Builder

	builder.WriteString("Stations with the highest percentage of members\n")
	for _, station := range r.TopMemberStations {
		builder.WriteString(fmt.Sprintf("\t%s: %.4f (%v trips)\n", station.StationName, station.MeanMembership, station.Trips))
	}

	writeGroups(&builder, "Rush Hour: Mean Distance (km), Trip Duration (minutes), and Membership", r.ByRush)
	writeGroups(&builder, "Day: Mean Distance (km), Trip Duration (minutes), and Membership", r.ByWeekday)
	writeGroups(&builder, "Membership Type: Mean Distance (km) and Trip Time (minutes)", r.ByMembership)
	return builder.String()
}

func writeGroups(builder *strings.Builder, title string, groups []GroupMeans) {
	builder.WriteString(title + "\n")
	for _, group := range groups {
		line := fmt.Sprintf("\t%s: distance %.4f, trip time %.4f", group.Key, group.MeanDistance, group.MeanTripMinutes)
		if group.MeanMembership != nil {
			line += fmt.Sprintf(", membership %.4f", *group.MeanMembership)
		}
		builder.WriteString(line + "\n")
	}
}
