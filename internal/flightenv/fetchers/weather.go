package fetchers

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/flightnet/envbridge/internal/flightenv"
)

// WeatherClient fetches airport weather. With an Aviation Edge credential it
// uses the airportWeather endpoint; with only a geocoder credential it
// resolves the airport's city and queries Open-Meteo, which needs no key.
// Weather is a low-stakes domain: any failure falls back silently to the
// synthetic generator, observable through the provenance flag and logs.
type WeatherClient struct {
	apiKey       string
	geocoderKey  string
	baseURL      string
	meteoBaseURL string
	httpCfg      HTTPClientConfig
	circuit      *gobreaker.CircuitBreaker
	meteoCircuit *gobreaker.CircuitBreaker
	log          zerolog.Logger
}

func NewWeatherClient(client *http.Client, apiKey, geocoderKey string, log zerolog.Logger) *WeatherClient {
	if geocoderKey != "" {
		geocoder.ApiKey = geocoderKey
	}
	return &WeatherClient{
		apiKey:       apiKey,
		geocoderKey:  geocoderKey,
		baseURL:      "https://aviation-edge.com/v2/public/airportWeather",
		meteoBaseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg:      defaultHTTPConfig(client),
		circuit:      newBreaker("weather"),
		meteoCircuit: newBreaker("openmeteo"),
		log:          log.With().Str("fetcher", "weather").Logger(),
	}
}

// airportCities backs the geocoded Open-Meteo path for the reference set.
var airportCities = map[string]geocoder.Address{
	"JFK": {City: "New York", Country: "United States"},
	"LAX": {City: "Los Angeles", Country: "United States"},
	"LHR": {City: "London", Country: "United Kingdom"},
	"CDG": {City: "Paris", Country: "France"},
	"DXB": {City: "Dubai", Country: "United Arab Emirates"},
}

func (c *WeatherClient) FetchAirportWeather(ctx context.Context, airport string) (*flightenv.WeatherRecord, flightenv.Origin, error) {
	if c.apiKey != "" {
		record, err := c.fetchAviationEdge(ctx, airport)
		if err == nil {
			return record, flightenv.OriginLive, nil
		}
		c.log.Warn().Err(err).Str("airport", airport).Msg("upstream failed, serving synthetic weather")
	} else if c.geocoderKey != "" {
		record, err := c.fetchOpenMeteo(ctx, airport)
		if err == nil {
			return record, flightenv.OriginLive, nil
		}
		c.log.Warn().Err(err).Str("airport", airport).Msg("open-meteo failed, serving synthetic weather")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return flightenv.SyntheticWeather(rng, airport), flightenv.OriginSynthetic, nil
}

func (c *WeatherClient) fetchAviationEdge(ctx context.Context, airport string) (*flightenv.WeatherRecord, error) {
	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("iataCode", airport)

	var payload struct {
		Temperature struct {
			Celsius float64 `json:"celsius"`
		} `json:"temperature"`
		Wind struct {
			Direction int     `json:"direction"`
			Speed     float64 `json:"speed"`
		} `json:"wind"`
		Visibility struct {
			Miles float64 `json:"miles"`
		} `json:"visibility"`
		Pressure struct {
			HPa float64 `json:"hPa"`
		} `json:"pressure"`
		Humidity        float64 `json:"humidity"`
		Conditions      string  `json:"conditions"`
		WeatherCategory string  `json:"weather_category"`
		PrecipMM        float64 `json:"precipitation_mm"`
	}
	if err := getJSON(ctx, c.httpCfg, c.circuit, c.baseURL+"?"+values.Encode(), &payload); err != nil {
		return nil, err
	}

	category := flightenv.FlightCategory(payload.WeatherCategory)
	switch category {
	case flightenv.CategoryVFR, flightenv.CategoryMVFR, flightenv.CategoryIFR, flightenv.CategoryLIFR:
	default:
		category = flightenv.DeriveCategory(payload.Visibility.Miles)
	}

	return &flightenv.WeatherRecord{
		Airport:          airport,
		TemperatureC:     payload.Temperature.Celsius,
		WindDirectionDeg: payload.Wind.Direction,
		WindSpeedKt:      payload.Wind.Speed,
		VisibilityMiles:  payload.Visibility.Miles,
		PressureHPa:      payload.Pressure.HPa,
		HumidityPct:      int(payload.Humidity),
		Condition:        payload.Conditions,
		Category:         category,
		PrecipitationMM:  payload.PrecipMM,
		CapturedAt:       time.Now().UTC(),
	}, nil
}

func (c *WeatherClient) fetchOpenMeteo(ctx context.Context, airport string) (*flightenv.WeatherRecord, error) {
	address, ok := airportCities[airport]
	if !ok {
		return nil, fmt.Errorf("no geocoding reference for airport %s", airport)
	}
	location, err := geocoder.Geocoding(address)
	if err != nil {
		return nil, fmt.Errorf("geocode %s: %w", address.City, err)
	}

	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", location.Latitude))
	values.Set("longitude", fmt.Sprintf("%f", location.Longitude))
	values.Set("current_weather", "true")

	var payload struct {
		CurrentWeather struct {
			Temperature   float64 `json:"temperature"`
			WindSpeed     float64 `json:"windspeed"`
			WindDirection float64 `json:"winddirection"`
			WeatherCode   int     `json:"weathercode"`
			Time          string  `json:"time"`
		} `json:"current_weather"`
	}
	if err := getJSON(ctx, c.httpCfg, c.meteoCircuit, c.meteoBaseURL+"?"+values.Encode(), &payload); err != nil {
		return nil, err
	}

	captured, err := time.Parse(time.RFC3339, payload.CurrentWeather.Time)
	if err != nil {
		captured = time.Now().UTC()
	}

	// Open-Meteo's current_weather block has no visibility; assume clear
	// 10 statute miles so the category stays VFR unless the code says
	// otherwise.
	visibility := 10.0
	condition := mapWeatherCode(payload.CurrentWeather.WeatherCode)
	if condition == "Fog" {
		visibility = 1.0
	}

	return &flightenv.WeatherRecord{
		Airport:          airport,
		TemperatureC:     payload.CurrentWeather.Temperature,
		WindDirectionDeg: int(payload.CurrentWeather.WindDirection),
		WindSpeedKt:      payload.CurrentWeather.WindSpeed / 1.852,
		VisibilityMiles:  visibility,
		Condition:        condition,
		Category:         flightenv.DeriveCategory(visibility),
		CapturedAt:       captured.UTC(),
	}, nil
}

// mapWeatherCode reduces Open-Meteo weather codes to the normalized
// condition vocabulary (simplified).
func mapWeatherCode(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code >= 1 && code <= 3:
		return "Cloudy"
	case code >= 45 && code <= 48:
		return "Fog"
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return "Light Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 95:
		return "Thunderstorm"
	default:
		return "Cloudy"
	}
}
