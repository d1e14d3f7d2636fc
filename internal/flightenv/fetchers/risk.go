package fetchers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/flightnet/envbridge/internal/flightenv"
)

// RiskClient fetches country risk assessments. The assessment upstream is
// credential-gated; without one, or when it fails, the reference table is
// served as synthetic data.
type RiskClient struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

func NewRiskClient(client *http.Client, apiKey string, log zerolog.Logger) *RiskClient {
	return &RiskClient{
		apiKey:  apiKey,
		baseURL: "https://api.ranenetwork.com/v1/country-risk",
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("risk"),
		log:     log.With().Str("fetcher", "risk").Logger(),
	}
}

func (c *RiskClient) FetchCountryRisk(ctx context.Context, country string) (flightenv.RiskRecord, flightenv.Origin, error) {
	if c.apiKey != "" {
		record, err := c.fetchUpstream(ctx, country)
		if err == nil {
			return record, flightenv.OriginLive, nil
		}
		c.log.Warn().Err(err).Str("country", country).Msg("risk upstream failed, serving reference assessment")
	}

	record, ok := flightenv.ReferenceRisk(country)
	if !ok {
		return flightenv.RiskRecord{}, flightenv.OriginNone, fmt.Errorf("no assessment for country %s", country)
	}
	return record, flightenv.OriginSynthetic, nil
}

func (c *RiskClient) fetchUpstream(ctx context.Context, country string) (flightenv.RiskRecord, error) {
	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("country", country)

	var payload struct {
		Country     string   `json:"country"`
		RiskLevel   int      `json:"risk_level"`
		Factors     []string `json:"risk_factors"`
		Advisory    string   `json:"travel_advisory"`
		LastUpdated string   `json:"last_updated"`
	}
	if err := getJSON(ctx, c.httpCfg, c.circuit, c.baseURL+"?"+values.Encode(), &payload); err != nil {
		return flightenv.RiskRecord{}, err
	}

	updated, err := time.Parse(time.RFC3339, payload.LastUpdated)
	if err != nil {
		updated = time.Now().UTC()
	}
	return flightenv.RiskRecord{
		Country:   payload.Country,
		Level:     payload.RiskLevel,
		Factors:   payload.Factors,
		Advisory:  payload.Advisory,
		UpdatedAt: updated.UTC(),
	}, nil
}
