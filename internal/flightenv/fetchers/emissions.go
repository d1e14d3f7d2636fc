package fetchers

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/flightnet/envbridge/internal/flightenv"
)

// EmissionsClient fetches route emissions from the ICAO carbon calculator.
// Sustainability is a low-stakes domain: failures fall back silently to the
// synthetic generator.
type EmissionsClient struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

func NewEmissionsClient(client *http.Client, apiKey string, log zerolog.Logger) *EmissionsClient {
	return &EmissionsClient{
		apiKey:  apiKey,
		baseURL: "https://applications.icao.int/icec/api/carbonemission",
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("emissions"),
		log:     log.With().Str("fetcher", "emissions").Logger(),
	}
}

func (c *EmissionsClient) FetchRouteEmissions(ctx context.Context, origin, destination string) (flightenv.EmissionsRecord, flightenv.Origin, error) {
	if c.apiKey == "" {
		c.log.Debug().Msg("no credential configured, serving synthetic emissions")
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		return flightenv.SyntheticEmissions(rng, origin, destination), flightenv.OriginSynthetic, nil
	}

	record, err := c.fetchUpstream(ctx, origin, destination)
	if err != nil {
		c.log.Warn().Err(err).Str("route", origin+"-"+destination).Msg("emissions upstream failed, serving synthetic data")
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		return flightenv.SyntheticEmissions(rng, origin, destination), flightenv.OriginSynthetic, nil
	}
	return record, flightenv.OriginLive, nil
}

func (c *EmissionsClient) fetchUpstream(ctx context.Context, origin, destination string) (flightenv.EmissionsRecord, error) {
	body, err := json.Marshal(map[string]string{
		"origin":      origin,
		"destination": destination,
		"cabin_class": "economy",
	})
	if err != nil {
		return flightenv.EmissionsRecord{}, err
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, c.baseURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		return req, nil
	})
	if err != nil {
		return flightenv.EmissionsRecord{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		CO2Emissions struct {
			Total float64 `json:"total"`
		} `json:"co2_emissions"`
		Distance struct {
			Value float64 `json:"value"`
		} `json:"distance"`
		FuelBurn struct {
			Value float64 `json:"value"`
		} `json:"fuel_burn"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return flightenv.EmissionsRecord{}, err
	}

	route := origin + "-" + destination
	distance := payload.Distance.Value
	if distance <= 0 {
		distance = 1
	}
	return flightenv.EmissionsRecord{
		Route:      route,
		DistanceKM: distance,
		Fuel: flightenv.Burn{
			TotalKg: payload.FuelBurn.Value,
			PerKm:   payload.FuelBurn.Value / distance,
			PerSeat: payload.FuelBurn.Value / 150,
		},
		CO2: flightenv.Burn{
			TotalKg: payload.CO2Emissions.Total,
			PerKm:   payload.CO2Emissions.Total / distance,
			PerSeat: payload.CO2Emissions.Total / 150,
		},
		EfficiencyScore: flightenv.EfficiencyScore(payload.CO2Emissions.Total, distance),
	}, nil
}
