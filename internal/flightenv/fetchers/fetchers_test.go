package fetchers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightnet/envbridge/internal/flightenv"
)

func TestAircraftFallsBackWithoutCredential(t *testing.T) {
	c := NewAircraftClient(http.DefaultClient, "", zerolog.Nop())

	records, origin, err := c.FetchAircraft(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, flightenv.OriginSynthetic, origin)
	assert.Len(t, records, 4)
}

func TestAircraftParsesUpstreamPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		w.Write([]byte(`[
			{"airplaneId":"1","numberRegistration":"N100AB","planeModel":"A320neo","hexIcaoAirplane":"A1B2C3","planeStatus":"active"},
			{"airplaneId":"2","numberRegistration":"N200CD","planeModel":"787-9","hexIcaoAirplane":"D4E5F6","planeStatus":"active"}
		]`))
	}))
	defer server.Close()

	c := NewAircraftClient(server.Client(), "secret", zerolog.Nop())
	c.baseURL = server.URL

	records, origin, err := c.FetchAircraft(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, flightenv.OriginLive, origin)
	require.Len(t, records, 1, "limit truncates the payload")
	assert.Equal(t, "N100AB", records[0].Registration)
	assert.Equal(t, "A320neo", records[0].Model)
}

func TestAircraftUpstreamErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewAircraftClient(server.Client(), "bad", zerolog.Nop())
	c.baseURL = server.URL
	c.httpCfg.Backoff.MaxRetries = 0

	_, origin, err := c.FetchAircraft(context.Background(), 3)
	require.Error(t, err)
	assert.Equal(t, flightenv.OriginNone, origin)
}

func TestFlightsParsesSingleObjectBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"departure":{"iataCode":"JFK","scheduledTime":"2026-08-27T10:00:00.000"},
			"arrival":{"iataCode":"LAX","scheduledTime":"2026-08-27T16:00:00.000"},
			"aircraft":{"regNumber":"N100AB"},
			"flight":{"iataNumber":"UA1000"},
			"airline":{"name":"United"},
			"status":"active"
		}`))
	}))
	defer server.Close()

	c := NewFlightsClient(server.Client(), "secret", zerolog.Nop())
	c.baseURL = server.URL

	records, origin, err := c.FetchFlights(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, flightenv.OriginLive, origin)
	require.Len(t, records, 1)
	assert.Equal(t, "UA1000", records[0].FlightNumber)
	assert.Equal(t, "JFK", records[0].Origin)
	assert.Equal(t, flightenv.FlightEnRoute, records[0].Status)
	assert.False(t, records[0].ScheduledDeparture.IsZero())
}

func TestFlightsFallsBackWithoutCredential(t *testing.T) {
	c := NewFlightsClient(http.DefaultClient, "", zerolog.Nop())

	records, origin, err := c.FetchFlights(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, flightenv.OriginSynthetic, origin)
	assert.Len(t, records, 2)
}

func TestNormalizeFlightStatus(t *testing.T) {
	assert.Equal(t, flightenv.FlightEnRoute, normalizeFlightStatus("active"))
	assert.Equal(t, flightenv.FlightCancelled, normalizeFlightStatus("canceled"))
	assert.Equal(t, flightenv.FlightLanded, normalizeFlightStatus("arrived"))
	assert.Equal(t, flightenv.FlightScheduled, normalizeFlightStatus("unknown"))
}

func TestWeatherFallsBackWithoutCredentials(t *testing.T) {
	c := NewWeatherClient(http.DefaultClient, "", "", zerolog.Nop())

	record, origin, err := c.FetchAirportWeather(context.Background(), "JFK")
	require.NoError(t, err)
	assert.Equal(t, flightenv.OriginSynthetic, origin)
	require.NotNil(t, record)
	assert.Equal(t, "JFK", record.Airport)
}

func TestWeatherFallsBackOnUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := NewWeatherClient(server.Client(), "bad", "", zerolog.Nop())
	c.baseURL = server.URL
	c.httpCfg.Backoff.MaxRetries = 0

	record, origin, err := c.FetchAirportWeather(context.Background(), "LHR")
	require.NoError(t, err, "weather degrades silently")
	assert.Equal(t, flightenv.OriginSynthetic, origin)
	require.NotNil(t, record)
	assert.Equal(t, "LHR", record.Airport)
}

func TestWeatherParsesAviationEdgePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "CDG", r.URL.Query().Get("iataCode"))
		w.Write([]byte(`{
			"temperature":{"celsius":18.5},
			"wind":{"direction":270,"speed":12},
			"visibility":{"miles":2.5},
			"pressure":{"hPa":1013},
			"humidity":65,
			"conditions":"Light Rain",
			"weather_category":"",
			"precipitation_mm":1.2
		}`))
	}))
	defer server.Close()

	c := NewWeatherClient(server.Client(), "secret", "", zerolog.Nop())
	c.baseURL = server.URL

	record, origin, err := c.FetchAirportWeather(context.Background(), "CDG")
	require.NoError(t, err)
	assert.Equal(t, flightenv.OriginLive, origin)
	assert.Equal(t, 18.5, record.TemperatureC)
	// Missing category is derived from visibility.
	assert.Equal(t, flightenv.CategoryIFR, record.Category)
}

func TestNewsFallsBackWithoutCredential(t *testing.T) {
	c := NewNewsClient(http.DefaultClient, "", zerolog.Nop())

	corpus, origin, err := c.FetchGeopoliticalNews(context.Background(), flightenv.NewsTopics)
	require.NoError(t, err)
	assert.Equal(t, flightenv.OriginSynthetic, origin)
	assert.NotEmpty(t, corpus)
}

func TestNewsRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","articles":[]}`))
	}))
	defer server.Close()

	c := NewNewsClient(server.Client(), "secret", zerolog.Nop())
	c.baseURL = server.URL

	_, origin, err := c.FetchGeopoliticalNews(context.Background(), flightenv.NewsTopics)
	require.Error(t, err)
	assert.Equal(t, flightenv.OriginNone, origin)
}

func TestNewsParsesArticles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status":"ok",
			"articles":[{
				"source":{"name":"Reuters"},
				"title":"Iranian airspace closed amid conflict",
				"description":"Military activity reported",
				"publishedAt":"2026-08-26T12:00:00Z"
			}]
		}`))
	}))
	defer server.Close()

	c := NewNewsClient(server.Client(), "secret", zerolog.Nop())
	c.baseURL = server.URL

	corpus, origin, err := c.FetchGeopoliticalNews(context.Background(), flightenv.NewsTopics)
	require.NoError(t, err)
	assert.Equal(t, flightenv.OriginLive, origin)
	require.Len(t, corpus, 1)
	assert.Equal(t, "Reuters", corpus[0].Source)
	assert.Greater(t, corpus[0].Relevance, 5, "alert vocabulary raises relevance")
}

func TestRiskServesReferenceWithoutCredential(t *testing.T) {
	c := NewRiskClient(http.DefaultClient, "", zerolog.Nop())

	record, origin, err := c.FetchCountryRisk(context.Background(), "RU")
	require.NoError(t, err)
	assert.Equal(t, flightenv.OriginSynthetic, origin)
	assert.Equal(t, 7, record.Level)
}

func TestRiskFallsBackOnUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewRiskClient(server.Client(), "bad", zerolog.Nop())
	c.baseURL = server.URL
	c.httpCfg.Backoff.MaxRetries = 0

	record, origin, err := c.FetchCountryRisk(context.Background(), "IR")
	require.NoError(t, err)
	assert.Equal(t, flightenv.OriginSynthetic, origin)
	assert.Equal(t, 8, record.Level)
}

func TestRiskUnknownCountry(t *testing.T) {
	c := NewRiskClient(http.DefaultClient, "", zerolog.Nop())

	_, origin, err := c.FetchCountryRisk(context.Background(), "ZZ")
	require.Error(t, err)
	assert.Equal(t, flightenv.OriginNone, origin)
}

func TestEmissionsFallsBackWithoutCredential(t *testing.T) {
	c := NewEmissionsClient(http.DefaultClient, "", zerolog.Nop())

	record, origin, err := c.FetchRouteEmissions(context.Background(), "JFK", "LAX")
	require.NoError(t, err)
	assert.Equal(t, flightenv.OriginSynthetic, origin)
	assert.Equal(t, "JFK-LAX", record.Route)
	assert.Equal(t, 3983.0, record.DistanceKM)
}

func TestEmissionsParsesUpstreamPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"co2_emissions":{"total":28000},
			"distance":{"value":4000},
			"fuel_burn":{"value":9000}
		}`))
	}))
	defer server.Close()

	c := NewEmissionsClient(server.Client(), "secret", zerolog.Nop())
	c.baseURL = server.URL

	record, origin, err := c.FetchRouteEmissions(context.Background(), "JFK", "LAX")
	require.NoError(t, err)
	assert.Equal(t, flightenv.OriginLive, origin)
	assert.Equal(t, 4000.0, record.DistanceKM)
	assert.Equal(t, 28000.0, record.CO2.TotalKg)
	assert.InDelta(t, 7.0, record.CO2.PerKm, 0.001)
	assert.Greater(t, record.EfficiencyScore, 0.0)
}

func TestResilienceRequiresClient(t *testing.T) {
	cfg := HTTPClientConfig{}
	_, err := doRequestWithResilience(context.Background(), cfg, newBreaker("test"), nil)
	assert.ErrorIs(t, err, errNoHTTPClient)
}

func TestResilienceRetriesServerErrors(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	cfg := defaultHTTPConfig(server.Client())
	cfg.Backoff.InitialInterval = time.Millisecond

	var out map[string]interface{}
	err := getJSON(context.Background(), cfg, newBreaker("retry"), server.URL, &out)
	require.NoError(t, err)
	assert.Equal(t, 3, hits)
}
