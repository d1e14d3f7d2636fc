package fetchers

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/flightnet/envbridge/internal/flightenv"
)

// NewsClient fetches geopolitical news from NewsAPI.org.
type NewsClient struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

func NewNewsClient(client *http.Client, apiKey string, log zerolog.Logger) *NewsClient {
	return &NewsClient{
		apiKey:  apiKey,
		baseURL: "https://newsapi.org/v2/everything",
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("news"),
		log:     log.With().Str("fetcher", "news").Logger(),
	}
}

// geopoliticalTerms widen the topic query to aviation-relevant unrest.
var geopoliticalTerms = []string{
	"conflict", "war", "sanctions", "diplomacy", "military",
	"terrorism", "security", "crisis", "airspace",
}

// FetchGeopoliticalNews queries the everything endpoint for the monitored
// topics. Without a credential it serves the synthetic corpus immediately.
func (c *NewsClient) FetchGeopoliticalNews(ctx context.Context, topics []string) (flightenv.NewsCorpus, flightenv.Origin, error) {
	if c.apiKey == "" {
		c.log.Debug().Msg("no credential configured, serving synthetic news")
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		return flightenv.SyntheticNews(rng), flightenv.OriginSynthetic, nil
	}

	query := strings.Join(append(append([]string{}, geopoliticalTerms...), topics...), " OR ")

	values := url.Values{}
	values.Set("q", query)
	values.Set("language", "en")
	values.Set("sortBy", "publishedAt")
	values.Set("pageSize", "20")
	values.Set("apiKey", c.apiKey)

	var payload struct {
		Status   string `json:"status"`
		Articles []struct {
			Source struct {
				Name string `json:"name"`
			} `json:"source"`
			Title       string `json:"title"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
		} `json:"articles"`
	}
	if err := getJSON(ctx, c.httpCfg, c.circuit, c.baseURL+"?"+values.Encode(), &payload); err != nil {
		return nil, flightenv.OriginNone, fmt.Errorf("news upstream: %w", err)
	}
	if payload.Status != "ok" {
		return nil, flightenv.OriginNone, fmt.Errorf("news upstream: status %q", payload.Status)
	}

	corpus := make(flightenv.NewsCorpus, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		published, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			published = time.Now().UTC()
		}
		corpus = append(corpus, flightenv.NewsArticle{
			Source:      a.Source.Name,
			Title:       a.Title,
			Description: a.Description,
			PublishedAt: published.UTC(),
			Relevance:   relevanceOf(a.Title + " " + a.Description),
		})
	}
	return corpus, flightenv.OriginLive, nil
}

// relevanceOf scores an article 5-10 by how many airspace-alert terms it
// carries. Same vocabulary the zone classifier keys on.
func relevanceOf(text string) int {
	score := 5
	for _, term := range []string{"airspace", "closed", "restricted", "military", "conflict"} {
		if strings.Contains(text, term) {
			score++
		}
	}
	if score > 10 {
		score = 10
	}
	return score
}
