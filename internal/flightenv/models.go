package flightenv

import (
	"time"
)

// GeoPoint represents a geographical position.
type GeoPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// AircraftRecord describes one aircraft with its current kinematics.
// Records are regenerated per request and never persisted.
type AircraftRecord struct {
	ID           string    `json:"id"`
	Registration string    `json:"registration"`
	Model        string    `json:"model"`
	ICAOHex      string    `json:"icao_hex"`
	Position     GeoPoint  `json:"position"`
	AltitudeFt   int       `json:"altitude_ft"`
	SpeedKt      int       `json:"speed_kt"`
	HeadingDeg   int       `json:"heading_deg"`
	Status       string    `json:"status"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FlightStatus is a normalized flight lifecycle state.
type FlightStatus string

const (
	FlightScheduled FlightStatus = "scheduled"
	FlightBoarding  FlightStatus = "boarding"
	FlightDeparted  FlightStatus = "departed"
	FlightEnRoute   FlightStatus = "en-route"
	FlightLanded    FlightStatus = "landed"
	FlightCancelled FlightStatus = "cancelled"
	FlightDelayed   FlightStatus = "delayed"
)

// FlightRecord describes one scheduled or airborne flight. AircraftID is a
// weak reference into the aircraft sequence, resolved by lookup only.
type FlightRecord struct {
	FlightNumber       string       `json:"flight_number"`
	Airline            string       `json:"airline"`
	Origin             string       `json:"origin"`
	Destination        string       `json:"destination"`
	ScheduledDeparture time.Time    `json:"scheduled_departure"`
	EstimatedArrival   time.Time    `json:"estimated_arrival"`
	Status             FlightStatus `json:"status"`
	AircraftID         string       `json:"aircraft_id"`
}

// FlightCategory is the METAR-style categorical flight condition.
type FlightCategory string

const (
	CategoryVFR  FlightCategory = "VFR"
	CategoryMVFR FlightCategory = "MVFR"
	CategoryIFR  FlightCategory = "IFR"
	CategoryLIFR FlightCategory = "LIFR"
)

// WeatherRecord is a per-airport weather snapshot. A nil entry in the
// environment map means that airport's fetch failed; callers must treat a
// missing or nil entry as unknown, not as calm conditions.
type WeatherRecord struct {
	Airport          string         `json:"airport"`
	TemperatureC     float64        `json:"temperature_c"`
	WindDirectionDeg int            `json:"wind_direction_deg"`
	WindSpeedKt      float64        `json:"wind_speed_kt"`
	VisibilityMiles  float64        `json:"visibility_miles"`
	PressureHPa      float64        `json:"pressure_hpa"`
	HumidityPct      int            `json:"humidity_pct"`
	Condition        string         `json:"condition"`
	Category         FlightCategory `json:"category"`
	PrecipitationMM  float64        `json:"precipitation_mm"`
	CapturedAt       time.Time      `json:"captured_at"`
}

// RiskRecord is a per-country geopolitical risk assessment.
type RiskRecord struct {
	Country   string    `json:"country"`
	Level     int       `json:"risk_level"` // 0-10
	Factors   []string  `json:"risk_factors"`
	Advisory  string    `json:"travel_advisory"`
	UpdatedAt time.Time `json:"last_updated"`
}

// Burn holds a fuel or CO2 quantity broken down per km and per seat.
type Burn struct {
	TotalKg float64 `json:"total_kg"`
	PerKm   float64 `json:"per_km"`
	PerSeat float64 `json:"per_seat"`
}

// EmissionsRecord holds sustainability metrics for one route.
type EmissionsRecord struct {
	Route           string  `json:"route"`
	DistanceKM      float64 `json:"distance_km"`
	Fuel            Burn    `json:"fuel"`
	CO2             Burn    `json:"co2"`
	EfficiencyScore float64 `json:"efficiency_score"` // 0-100
}

// NewsArticle is one article of the geopolitical news corpus.
type NewsArticle struct {
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"published_at"`
	Relevance   int       `json:"relevance"`
}

// NewsCorpus is an ordered sequence of articles.
type NewsCorpus []NewsArticle

// Origin records where a snapshot field's data came from.
type Origin string

const (
	OriginLive      Origin = "live"
	OriginSynthetic Origin = "synthetic"
	OriginNone      Origin = "none"
)

// Provenance marks, per domain, whether the data is authoritative upstream
// data, a synthetic fallback, or absent after a failed fetch. Each
// aggregation task writes only its own field.
type Provenance struct {
	Aircraft       Origin `json:"aircraft"`
	Flights        Origin `json:"flights"`
	Weather        Origin `json:"weather"`
	News           Origin `json:"news"`
	Geopolitical   Origin `json:"geopolitical"`
	Sustainability Origin `json:"sustainability"`
}

// EnvironmentSnapshot is the merged result of one aggregation request. It is
// always structurally complete: every collection is initialized even when
// every domain fails.
type EnvironmentSnapshot struct {
	Aircraft       []AircraftRecord           `json:"aircraft"`
	Flights        []FlightRecord             `json:"flights"`
	Weather        map[string]*WeatherRecord  `json:"weather"`
	News           NewsCorpus                 `json:"news"`
	Geopolitical   map[string]RiskRecord      `json:"geopolitical"`
	Sustainability map[string]EmissionsRecord `json:"sustainability"`
	NoFlyZones     []string                   `json:"no_fly_zones"`
	Provenance     Provenance                 `json:"provenance"`
	Timestamp      time.Time                  `json:"timestamp"`
}

// NewEnvironmentSnapshot returns a structurally complete, empty snapshot.
func NewEnvironmentSnapshot() *EnvironmentSnapshot {
	return &EnvironmentSnapshot{
		Aircraft:       []AircraftRecord{},
		Flights:        []FlightRecord{},
		Weather:        make(map[string]*WeatherRecord),
		News:           NewsCorpus{},
		Geopolitical:   make(map[string]RiskRecord),
		Sustainability: make(map[string]EmissionsRecord),
		NoFlyZones:     []string{},
		Provenance: Provenance{
			Aircraft:       OriginNone,
			Flights:        OriginNone,
			Weather:        OriginNone,
			News:           OriginNone,
			Geopolitical:   OriginNone,
			Sustainability: OriginNone,
		},
	}
}

// ReferenceAirports is the fixed airport set weather is gathered for.
// Iteration order is fixed so map population is deterministic per run.
var ReferenceAirports = []string{"JFK", "LAX", "LHR", "CDG", "DXB"}

// ReferenceCountries is the fixed country set risk is assessed for.
var ReferenceCountries = []string{"US", "UK", "DE", "FR", "RU", "CN", "IR"}

// NewsTopics are the subjects the news corpus is queried for.
var NewsTopics = []string{"Iran", "Russia", "North Korea"}
