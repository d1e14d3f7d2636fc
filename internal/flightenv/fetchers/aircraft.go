package fetchers

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/flightnet/envbridge/internal/flightenv"
)

// AircraftClient fetches aircraft registry data from Aviation Edge.
type AircraftClient struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

func NewAircraftClient(client *http.Client, apiKey string, log zerolog.Logger) *AircraftClient {
	return &AircraftClient{
		apiKey:  apiKey,
		baseURL: "https://aviation-edge.com/v2/public/airplaneDatabase",
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("aircraft"),
		log:     log.With().Str("fetcher", "aircraft").Logger(),
	}
}

type aviationAircraft struct {
	AirplaneID         string `json:"airplaneId"`
	NumberRegistration string `json:"numberRegistration"`
	PlaneModel         string `json:"planeModel"`
	HexIcaoAirplane    string `json:"hexIcaoAirplane"`
	PlaneStatus        string `json:"planeStatus"`
}

// FetchAircraft returns up to limit registry records. With no credential
// configured it serves the synthetic fallback immediately; an upstream
// failure is reported so the caller can degrade the field.
func (c *AircraftClient) FetchAircraft(ctx context.Context, limit int) ([]flightenv.AircraftRecord, flightenv.Origin, error) {
	if c.apiKey == "" {
		c.log.Debug().Msg("no credential configured, serving synthetic aircraft")
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		return flightenv.SyntheticAircraft(rng, limit), flightenv.OriginSynthetic, nil
	}

	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("limit", fmt.Sprintf("%d", limit))

	var payload []aviationAircraft
	if err := getJSON(ctx, c.httpCfg, c.circuit, c.baseURL+"?"+values.Encode(), &payload); err != nil {
		return nil, flightenv.OriginNone, fmt.Errorf("aircraft upstream: %w", err)
	}

	now := time.Now().UTC()
	records := make([]flightenv.AircraftRecord, 0, limit)
	for _, a := range payload {
		if len(records) >= limit {
			break
		}
		records = append(records, flightenv.AircraftRecord{
			ID:           a.AirplaneID,
			Registration: a.NumberRegistration,
			Model:        a.PlaneModel,
			ICAOHex:      a.HexIcaoAirplane,
			Status:       a.PlaneStatus,
			UpdatedAt:    now,
		})
	}
	return records, flightenv.OriginLive, nil
}
