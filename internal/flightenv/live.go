package flightenv

import (
	"context"

	"github.com/rs/zerolog"
)

// Per-domain fetcher contracts the live provider drives. Implementations
// own one upstream integration each and report the origin of what they
// return, since a fetcher may substitute its fallback without erroring.
type (
	AircraftFetcher interface {
		FetchAircraft(ctx context.Context, limit int) ([]AircraftRecord, Origin, error)
	}
	FlightsFetcher interface {
		FetchFlights(ctx context.Context, limit int) ([]FlightRecord, Origin, error)
	}
	WeatherFetcher interface {
		FetchAirportWeather(ctx context.Context, airport string) (*WeatherRecord, Origin, error)
	}
	NewsFetcher interface {
		FetchGeopoliticalNews(ctx context.Context, topics []string) (NewsCorpus, Origin, error)
	}
	RiskFetcher interface {
		FetchCountryRisk(ctx context.Context, country string) (RiskRecord, Origin, error)
	}
	EmissionsFetcher interface {
		FetchRouteEmissions(ctx context.Context, origin, destination string) (EmissionsRecord, Origin, error)
	}
)

// LiveProvider assembles snapshots from the real per-domain fetchers. Any
// single domain failing degrades that field only; the snapshot stays
// structurally complete and the request succeeds unless the context itself
// is done.
type LiveProvider struct {
	aircraft  AircraftFetcher
	flights   FlightsFetcher
	weather   WeatherFetcher
	news      NewsFetcher
	risk      RiskFetcher
	emissions EmissionsFetcher
	log       zerolog.Logger
}

func NewLiveProvider(
	aircraft AircraftFetcher,
	flights FlightsFetcher,
	weather WeatherFetcher,
	news NewsFetcher,
	risk RiskFetcher,
	emissions EmissionsFetcher,
	log zerolog.Logger,
) *LiveProvider {
	return &LiveProvider{
		aircraft:  aircraft,
		flights:   flights,
		weather:   weather,
		news:      news,
		risk:      risk,
		emissions: emissions,
		log:       log.With().Str("provider", "live").Logger(),
	}
}

func (p *LiveProvider) Name() string { return "live" }

// Ping reports whether the provider is wired. Upstream reachability is
// probed per request, never here: the health check must stay cheap.
func (p *LiveProvider) Ping() bool {
	return p.aircraft != nil && p.flights != nil && p.weather != nil &&
		p.news != nil && p.risk != nil && p.emissions != nil
}

func (p *LiveProvider) FetchEnvironment(ctx context.Context, params map[string]string) (*EnvironmentSnapshot, error) {
	count := AircraftCount(params)

	tasks := environmentTasks{
		aircraft: func(ctx context.Context) ([]AircraftRecord, Origin, error) {
			return p.aircraft.FetchAircraft(ctx, count)
		},
		flights: func(ctx context.Context) ([]FlightRecord, Origin, error) {
			return p.flights.FetchFlights(ctx, count)
		},
		weather: func(ctx context.Context, airport string) (*WeatherRecord, Origin, error) {
			return p.weather.FetchAirportWeather(ctx, airport)
		},
		news: func(ctx context.Context) (NewsCorpus, Origin, error) {
			return p.news.FetchGeopoliticalNews(ctx, NewsTopics)
		},
		risk: func(ctx context.Context, country string) (RiskRecord, Origin, error) {
			return p.risk.FetchCountryRisk(ctx, country)
		},
		emissions: func(ctx context.Context, origin, destination string) (EmissionsRecord, Origin, error) {
			return p.emissions.FetchRouteEmissions(ctx, origin, destination)
		},
	}

	return assembleEnvironment(ctx, params, tasks, p.log)
}
