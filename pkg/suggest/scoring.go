package suggest

import "math"

const (
	// MaxSuggestions caps every response.
	MaxSuggestions = 10

	// MaxDistanceKM bounds the proximity signal: a place this far from
	// the caller scores zero, and in the coordinates-only path is
	// excluded outright.
	MaxDistanceKM = 1000.0

	// ProximityWeight and PopulationWeight set how much the secondary
	// signal pulls against the text score. An explicit caller location
	// is a stronger relevance signal than static place importance,
	// hence the asymmetry.
	ProximityWeight  = 0.4
	PopulationWeight = 0.15

	earthRadiusKM = 6371.0
)

// HaversineKM computes the great-circle distance between two
// coordinates in kilometers.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// proximityScore maps a distance to [0, 1] linearly, zero at
// MaxDistanceKM and beyond.
func proximityScore(distanceKM float64) float64 {
	score := 1 - distanceKM/MaxDistanceKM
	if score < 0 {
		return 0
	}
	return score
}

// populationScore normalizes log-population against the catalog's
// most populous place. The ceil on the denominator means the top place
// can score slightly under 1.0; that rounding is accepted.
func populationScore(pop, maxPop int64) float64 {
	if pop <= 0 || maxPop <= 0 {
		return 0
	}
	denom := math.Ceil(math.Log10(float64(maxPop)))
	if denom <= 0 {
		return 1
	}
	score := math.Log10(float64(pop)) / denom
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// combineScore blends the text-match score with a secondary signal.
func combineScore(text, secondary, w float64) float64 {
	return text*(1-w) + secondary*w
}
