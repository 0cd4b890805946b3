package geo

import (
	"fmt"
	"math"
	"strings"
)

// DefaultMaxDistanceKm is the distance at which the proximity score
// reaches zero. Criteria may override it per request.
const DefaultMaxDistanceKm = 5000

const earthRadiusKm = 6371

// Proximity is the outcome of a geographic comparison. DistanceKm is -1
// when either location is unknown to the gazetteer.
type Proximity struct {
	Score       float64 `json:"score"`
	DistanceKm  float64 `json:"distanceKm"`
	Explanation string  `json:"explanation"`
}

// DistanceKm computes the great-circle distance between two points
// using the Haversine formula.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func radians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// ProximityScore converts the distance between two locations into a
// 0-100 score with linear decay: 100 at 0 km, 0 at maxDistanceKm and
// beyond. maxDistanceKm <= 0 selects the default cutoff. Unknown
// locations never error; they score 0 with an explanation naming the
// unknown side.
func ProximityScore(locationA, locationB string, maxDistanceKm float64) Proximity {
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultMaxDistanceKm
	}

	normA := Normalize(locationA)
	normB := Normalize(locationB)

	if normA != "" && strings.EqualFold(normA, normB) {
		return Proximity{
			Score:       100,
			DistanceKm:  0,
			Explanation: fmt.Sprintf("Exact match: %s", normA),
		}
	}

	coordsA, okA := Lookup(locationA)
	if !okA {
		return Proximity{
			Score:       0,
			DistanceKm:  -1,
			Explanation: fmt.Sprintf("Unknown country: %s", locationA),
		}
	}
	coordsB, okB := Lookup(locationB)
	if !okB {
		return Proximity{
			Score:       0,
			DistanceKm:  -1,
			Explanation: fmt.Sprintf("Unknown country: %s", locationB),
		}
	}

	distance := DistanceKm(coordsA.Lat, coordsA.Lng, coordsB.Lat, coordsB.Lng)

	// Linear decay, deliberately not inverse-square: downstream
	// consumers depend on these exact values.
	score := math.Max(0, math.Round(100-(distance/maxDistanceKm)*100))

	return Proximity{
		Score:      score,
		DistanceKm: math.Round(distance),
		Explanation: fmt.Sprintf("%s to %s: %.0f km (%.0f%% match)",
			normA, normB, math.Round(distance), score),
	}
}
