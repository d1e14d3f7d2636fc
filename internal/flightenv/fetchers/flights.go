package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/flightnet/envbridge/internal/flightenv"
)

// FlightsClient fetches live flight data from Aviation Edge.
type FlightsClient struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

func NewFlightsClient(client *http.Client, apiKey string, log zerolog.Logger) *FlightsClient {
	return &FlightsClient{
		apiKey:  apiKey,
		baseURL: "https://aviation-edge.com/v2/public/flights",
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("flights"),
		log:     log.With().Str("fetcher", "flights").Logger(),
	}
}

type aviationFlight struct {
	Departure struct {
		IataCode      string `json:"iataCode"`
		ScheduledTime string `json:"scheduledTime"`
	} `json:"departure"`
	Arrival struct {
		IataCode      string `json:"iataCode"`
		ScheduledTime string `json:"scheduledTime"`
	} `json:"arrival"`
	Aircraft struct {
		RegNumber string `json:"regNumber"`
	} `json:"aircraft"`
	Flight struct {
		IataNumber string `json:"iataNumber"`
	} `json:"flight"`
	Airline struct {
		Name string `json:"name"`
	} `json:"airline"`
	Status string `json:"status"`
}

// FetchFlights returns up to limit flight records, falling back to the
// synthetic generator when no credential is configured. The upstream body is
// either an array or a bare object depending on the result size.
func (c *FlightsClient) FetchFlights(ctx context.Context, limit int) ([]flightenv.FlightRecord, flightenv.Origin, error) {
	if c.apiKey == "" {
		c.log.Debug().Msg("no credential configured, serving synthetic flights")
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		return flightenv.SyntheticFlights(rng, limit), flightenv.OriginSynthetic, nil
	}

	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("limit", fmt.Sprintf("%d", limit))

	var raw json.RawMessage
	if err := getJSON(ctx, c.httpCfg, c.circuit, c.baseURL+"?"+values.Encode(), &raw); err != nil {
		return nil, flightenv.OriginNone, fmt.Errorf("flights upstream: %w", err)
	}

	var payload []aviationFlight
	if err := json.Unmarshal(raw, &payload); err != nil {
		var single aviationFlight
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, flightenv.OriginNone, fmt.Errorf("flights upstream: body is neither array nor object")
		}
		payload = []aviationFlight{single}
	}

	records := make([]flightenv.FlightRecord, 0, limit)
	for _, f := range payload {
		if len(records) >= limit {
			break
		}
		records = append(records, flightenv.FlightRecord{
			FlightNumber:       f.Flight.IataNumber,
			Airline:            f.Airline.Name,
			Origin:             f.Departure.IataCode,
			Destination:        f.Arrival.IataCode,
			ScheduledDeparture: parseScheduleTime(f.Departure.ScheduledTime),
			EstimatedArrival:   parseScheduleTime(f.Arrival.ScheduledTime),
			Status:             normalizeFlightStatus(f.Status),
			AircraftID:         f.Aircraft.RegNumber,
		})
	}
	return records, flightenv.OriginLive, nil
}

// parseScheduleTime accepts RFC3339 or the upstream's fractional local form.
func parseScheduleTime(s string) time.Time {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC()
	}
	if ts, err := time.Parse("2006-01-02T15:04:05.000", s); err == nil {
		return ts.UTC()
	}
	return time.Time{}
}

func normalizeFlightStatus(s string) flightenv.FlightStatus {
	switch s {
	case "scheduled":
		return flightenv.FlightScheduled
	case "boarding":
		return flightenv.FlightBoarding
	case "started", "departed":
		return flightenv.FlightDeparted
	case "active", "en-route":
		return flightenv.FlightEnRoute
	case "landed", "arrived":
		return flightenv.FlightLanded
	case "cancelled", "canceled":
		return flightenv.FlightCancelled
	case "delayed", "incident":
		return flightenv.FlightDelayed
	default:
		return flightenv.FlightScheduled
	}
}
