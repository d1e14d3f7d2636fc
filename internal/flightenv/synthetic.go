package flightenv

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// SyntheticProvider builds snapshots purely from parameter-seeded generated
// data. It always succeeds and exists so the service stays useful with zero
// credentials configured; the same generators back the per-domain fallbacks
// of the live fetchers.
type SyntheticProvider struct {
	log zerolog.Logger
}

func NewSyntheticProvider(log zerolog.Logger) *SyntheticProvider {
	return &SyntheticProvider{log: log.With().Str("provider", "mock").Logger()}
}

func (p *SyntheticProvider) Name() string { return "mock" }

func (p *SyntheticProvider) Ping() bool { return true }

// FetchEnvironment generates one complete snapshot. Results are plausible
// and parameter-seeded, not byte-for-byte reproducible.
func (p *SyntheticProvider) FetchEnvironment(ctx context.Context, params map[string]string) (*EnvironmentSnapshot, error) {
	count := AircraftCount(params)
	seed := seedFrom(params["route"])

	// One generator per domain task; rand.Rand is not safe for
	// concurrent use.
	tasks := environmentTasks{
		aircraft: func(context.Context) ([]AircraftRecord, Origin, error) {
			return SyntheticAircraft(newRand(seed), count), OriginSynthetic, nil
		},
		flights: func(context.Context) ([]FlightRecord, Origin, error) {
			return SyntheticFlights(newRand(seed+1), count), OriginSynthetic, nil
		},
		weather: func(_ context.Context, airport string) (*WeatherRecord, Origin, error) {
			return SyntheticWeather(newRand(seed+2+seedFrom(airport)), airport), OriginSynthetic, nil
		},
		news: func(context.Context) (NewsCorpus, Origin, error) {
			return SyntheticNews(newRand(seed + 3)), OriginSynthetic, nil
		},
		risk: func(_ context.Context, country string) (RiskRecord, Origin, error) {
			record, ok := ReferenceRisk(country)
			if !ok {
				return RiskRecord{}, OriginNone, fmt.Errorf("no reference assessment for %s", country)
			}
			return record, OriginSynthetic, nil
		},
		emissions: func(_ context.Context, origin, destination string) (EmissionsRecord, Origin, error) {
			return SyntheticEmissions(newRand(seed+4), origin, destination), OriginSynthetic, nil
		},
	}

	return assembleEnvironment(ctx, params, tasks, p.log)
}

// seedFrom hashes a parameter into seed material so different requests get
// different, but plausibly related, generated worlds.
func seedFrom(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed ^ time.Now().UnixNano()))
}

var (
	aircraftModels     = []string{"747-800", "A380", "E195", "Global 7500", "A320neo", "787-9"}
	aircraftStatuses   = []string{"In Flight", "Scheduled", "Delayed", "Landed"}
	airlines           = []string{"United", "Delta", "British Airways", "Lufthansa", "Emirates"}
	flightDestinations = []string{"ORD", "SFO", "FRA", "AMS", "SIN"}
	flightStatuses     = []FlightStatus{
		FlightScheduled, FlightBoarding, FlightDeparted,
		FlightEnRoute, FlightLanded, FlightCancelled, FlightDelayed,
	}
	weatherConditions = []string{
		"Clear", "Partly Cloudy", "Cloudy", "Light Rain",
		"Heavy Rain", "Thunderstorm", "Snow", "Fog",
	}
	newsSources = []string{"Reuters", "BBC", "CNN", "Al Jazeera", "Aviation Weekly"}
)

// SyntheticAircraft generates n plausible aircraft records.
func SyntheticAircraft(rng *rand.Rand, n int) []AircraftRecord {
	now := time.Now().UTC()
	records := make([]AircraftRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, AircraftRecord{
			ID:           fmt.Sprintf("AC%04d", 1000+i),
			Registration: fmt.Sprintf("N%d%c%c", 100+i, 'A'+rng.Intn(26), 'A'+rng.Intn(26)),
			Model:        aircraftModels[rng.Intn(len(aircraftModels))],
			ICAOHex:      fmt.Sprintf("%06X", rng.Intn(0xFFFFFF)),
			Position: GeoPoint{
				Latitude:  rng.Float64()*170 - 85,
				Longitude: rng.Float64()*360 - 180,
			},
			AltitudeFt: 30000 + rng.Intn(10000),
			SpeedKt:    400 + rng.Intn(200),
			HeadingDeg: rng.Intn(360),
			Status:     aircraftStatuses[rng.Intn(len(aircraftStatuses))],
			UpdatedAt:  now.Add(-time.Duration(rng.Intn(60)) * time.Minute),
		})
	}
	return records
}

// SyntheticFlights generates n plausible flight records. Aircraft references
// point into the same AC-number space SyntheticAircraft uses, so lookups can
// resolve but are never guaranteed to.
func SyntheticFlights(rng *rand.Rand, n int) []FlightRecord {
	now := time.Now().UTC()
	records := make([]FlightRecord, 0, n)
	for i := 0; i < n; i++ {
		airline := airlines[rng.Intn(len(airlines))]
		origin := ReferenceAirports[rng.Intn(len(ReferenceAirports))]
		destination := flightDestinations[rng.Intn(len(flightDestinations))]
		for destination == origin {
			destination = flightDestinations[rng.Intn(len(flightDestinations))]
		}

		departure := now.Add(time.Duration(rng.Intn(24)) * time.Hour)
		duration := time.Duration(120+rng.Intn(600)) * time.Minute

		records = append(records, FlightRecord{
			FlightNumber:       fmt.Sprintf("%s%d", airline[:2], 1000+i),
			Airline:            airline,
			Origin:             origin,
			Destination:        destination,
			ScheduledDeparture: departure,
			EstimatedArrival:   departure.Add(duration),
			Status:             flightStatuses[rng.Intn(len(flightStatuses))],
			AircraftID:         fmt.Sprintf("AC%04d", 1000+rng.Intn(20)),
		})
	}
	return records
}

// SyntheticWeather generates one plausible airport weather record.
func SyntheticWeather(rng *rand.Rand, airport string) *WeatherRecord {
	visibility := rng.Float64() * 10
	return &WeatherRecord{
		Airport:          airport,
		TemperatureC:     rng.Float64()*50 - 10,
		WindDirectionDeg: rng.Intn(360),
		WindSpeedKt:      rng.Float64() * 40,
		VisibilityMiles:  visibility,
		PressureHPa:      980 + rng.Float64()*50,
		HumidityPct:      rng.Intn(100),
		Condition:        weatherConditions[rng.Intn(len(weatherConditions))],
		Category:         DeriveCategory(visibility),
		PrecipitationMM:  rng.Float64() * 20,
		CapturedAt:       time.Now().UTC(),
	}
}

// syntheticHeadlines mirrors the article mix the upstream query returns for
// each monitored topic.
var syntheticHeadlines = map[string][]string{
	"Iran": {
		"Iran restricts airspace access in northern region",
		"Airlines advised to avoid Iranian airspace amid tensions",
		"New diplomatic efforts to ease tensions in Iranian airspace",
	},
	"Russia": {
		"Russia declares no-fly zone over parts of its western border",
		"Commercial flights diverted around Russian military exercises",
		"Negotiations ongoing to reopen eastern Russian airspace",
	},
	"North Korea": {
		"North Korea missile tests prompt airspace concerns",
		"Airlines avoid North Korean airspace after recent activity",
		"ICAO issues advisory for DPRK flight information region",
	},
}

// SyntheticNews generates a corpus covering every monitored topic.
func SyntheticNews(rng *rand.Rand) NewsCorpus {
	now := time.Now().UTC()
	corpus := NewsCorpus{}
	for _, topic := range NewsTopics {
		for _, title := range syntheticHeadlines[topic] {
			corpus = append(corpus, NewsArticle{
				Source:      newsSources[rng.Intn(len(newsSources))],
				Title:       title,
				Description: fmt.Sprintf("Details about %s and its impact on international aviation.", title),
				PublishedAt: now.Add(-time.Duration(rng.Intn(72)) * time.Hour),
				Relevance:   6 + rng.Intn(5),
			})
		}
	}
	return corpus
}

// referenceRisk is the static assessment table served when no live risk
// upstream is configured or reachable.
var referenceRisk = map[string]struct {
	level    int
	factors  []string
	advisory string
}{
	"US": {2, []string{"Severe weather in some regions", "Occasional civil unrest"}, "Exercise normal precautions"},
	"UK": {2, []string{"Transportation strikes", "Heightened security at airports"}, "Exercise normal precautions"},
	"DE": {2, []string{"Border control issues", "Environmental protests"}, "Exercise normal precautions"},
	"FR": {3, []string{"Labor strikes", "Occasional protests"}, "Exercise increased caution"},
	"RU": {7, []string{"Military activities", "Airspace restrictions", "Sanctions impact"}, "Reconsider travel"},
	"CN": {5, []string{"Airspace congestion", "Regional tensions", "Strict overflight regulations"}, "Exercise increased caution"},
	"IR": {8, []string{"Military activity", "Political tensions", "International sanctions"}, "Do not travel"},
}

// ReferenceRisk returns the static assessment for a country, if known.
func ReferenceRisk(country string) (RiskRecord, bool) {
	entry, ok := referenceRisk[country]
	if !ok {
		return RiskRecord{}, false
	}
	return RiskRecord{
		Country:   country,
		Level:     entry.level,
		Factors:   entry.factors,
		Advisory:  entry.advisory,
		UpdatedAt: time.Now().UTC(),
	}, true
}

// knownRouteDistances holds great-circle distances for common routes; other
// routes get a generated plausible distance.
var knownRouteDistances = map[string]float64{
	"JFK-LAX": 3983, "LAX-JFK": 3983,
	"LHR-JFK": 5541, "JFK-LHR": 5541,
	"CDG-DXB": 5246, "DXB-CDG": 5246,
	"SIN-SYD": 6293, "SYD-SIN": 6293,
}

// SyntheticEmissions generates a plausible emissions record for a route.
func SyntheticEmissions(rng *rand.Rand, origin, destination string) EmissionsRecord {
	route := fmt.Sprintf("%s-%s", origin, destination)
	distance, ok := knownRouteDistances[route]
	if !ok {
		distance = float64(1000 + rng.Intn(9000))
	}

	// Jet fuel burns to CO2 at roughly 3.16 kg per kg of fuel.
	fuelPerKm := 2.2 + rng.Float64()*0.6
	fuelTotal := fuelPerKm * distance
	co2Total := fuelTotal * 3.16

	return EmissionsRecord{
		Route:      route,
		DistanceKM: distance,
		Fuel: Burn{
			TotalKg: fuelTotal,
			PerKm:   fuelPerKm,
			PerSeat: fuelTotal / averageSeatCount,
		},
		CO2: Burn{
			TotalKg: co2Total,
			PerKm:   co2Total / distance,
			PerSeat: co2Total / averageSeatCount,
		},
		EfficiencyScore: EfficiencyScore(co2Total, distance),
	}
}

// averageSeatCount is the assumed cabin size for per-seat figures.
const averageSeatCount = 150
