package geodistance

import (
	"math"

	"github.com/umahmood/haversine"
)

// EarthRadiusKm radius of the earth at 40.68 degrees north, the latitude of the study area.
// It is not the mean earth radius.
const EarthRadiusKm = 6369.092

// Distance returns the great-circle distance in km between p and q using the haversine formula
// with EarthRadiusKm
func Distance(p haversine.Coord, q haversine.Coord) float64 {
	return DistanceWithRadius(p, q, EarthRadiusKm)
}

// DistanceWithRadius returns the great-circle distance between p and q on a sphere of the given
// radius. The result has the same unit as radius.
// d = 2R * asin(sqrt(sin²(Δlat/2) + cos(lat1) * cos(lat2) * sin²(Δlng/2)))
func DistanceWithRadius(p haversine.Coord, q haversine.Coord, radius float64) float64 {
	lat1 := toRadians(p.Lat)
	lng1 := toRadians(p.Lon)
	lat2 := toRadians(q.Lat)
	lng2 := toRadians(q.Lon)

	sinLat := math.Sin((lat2 - lat1) / 2)
	sinLng := math.Sin((lng2 - lng1) / 2)
	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	// rounding can leave a slightly above 1 for antipodal points
	if a > 1 {
		a = 1
	}
	return 2 * radius * math.Asin(math.Sqrt(a))
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
