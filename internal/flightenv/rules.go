package flightenv

import (
	"fmt"
	"strings"
)

const (
	minVisibilityMiles = 3.0
	maxWindSpeedKt     = 35.0
)

// SuitableForFlight evaluates whether one airport's weather permits normal
// flight operations. The reason string lists every violated rule, not just
// the first, so operators see the full picture at a glance.
func SuitableForFlight(w *WeatherRecord) (bool, string) {
	if w == nil {
		return false, "weather unknown"
	}

	var reasons []string
	if w.VisibilityMiles < minVisibilityMiles {
		reasons = append(reasons, fmt.Sprintf("low visibility (%.1f mi)", w.VisibilityMiles))
	}
	if w.WindSpeedKt > maxWindSpeedKt {
		reasons = append(reasons, fmt.Sprintf("high wind speed (%.0f kt)", w.WindSpeedKt))
	}
	if w.Category == CategoryLIFR || w.Category == CategoryIFR {
		reasons = append(reasons, fmt.Sprintf("poor flight category (%s)", w.Category))
	}

	if len(reasons) == 0 {
		return true, "weather conditions suitable for flight"
	}
	return false, "unsuitable: " + strings.Join(reasons, ", ")
}

// DeriveCategory maps visibility to a METAR-style flight category.
func DeriveCategory(visibilityMiles float64) FlightCategory {
	switch {
	case visibilityMiles < 1:
		return CategoryLIFR
	case visibilityMiles < 3:
		return CategoryIFR
	case visibilityMiles < 5:
		return CategoryMVFR
	default:
		return CategoryVFR
	}
}

// EfficiencyScore normalizes CO2 burn per km to a 0-100 score. Around 6 kg
// CO2 per km is excellent for a narrow-body, 9 kg or worse scores zero.
func EfficiencyScore(co2TotalKg, distanceKM float64) float64 {
	if distanceKM <= 0 {
		return 0
	}
	perKm := co2TotalKg / distanceKM
	score := 100 * (9.0 - perKm) / 3.0
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
