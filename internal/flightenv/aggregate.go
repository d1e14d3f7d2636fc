package flightenv

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// FetchTimeout bounds one whole aggregation pass.
const FetchTimeout = 30 * time.Second

// environmentTasks is the set of per-domain fetch closures one provider
// supplies to the shared assembly loop. Weather and risk are per-key calls
// so the loop can check cancellation between airports and countries.
// A nil emissions task skips the sustainability domain.
type environmentTasks struct {
	aircraft  func(ctx context.Context) ([]AircraftRecord, Origin, error)
	flights   func(ctx context.Context) ([]FlightRecord, Origin, error)
	weather   func(ctx context.Context, airport string) (*WeatherRecord, Origin, error)
	news      func(ctx context.Context) (NewsCorpus, Origin, error)
	risk      func(ctx context.Context, country string) (RiskRecord, Origin, error)
	emissions func(ctx context.Context, origin, destination string) (EmissionsRecord, Origin, error)
}

// assembleEnvironment runs every domain task concurrently under a shared
// deadline and merges the results into one snapshot. Each task writes a
// disjoint set of snapshot fields, so the snapshot itself needs no locking;
// only the fan-in join is synchronized. Per-domain failures degrade that one
// field and are logged; a done context is the sole fatal condition.
func assembleEnvironment(ctx context.Context, params map[string]string, t environmentTasks, log zerolog.Logger) (*EnvironmentSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	snap := NewEnvironmentSnapshot()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if ctx.Err() != nil {
			return
		}
		records, origin, err := t.aircraft(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("aircraft fetch degraded")
			return
		}
		snap.Aircraft = records
		snap.Provenance.Aircraft = origin
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if ctx.Err() != nil {
			return
		}
		records, origin, err := t.flights(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("flights fetch degraded")
			return
		}
		snap.Flights = records
		snap.Provenance.Flights = origin
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		synthetic, failed := 0, 0
		for _, airport := range ReferenceAirports {
			if ctx.Err() != nil {
				return
			}
			record, origin, err := t.weather(ctx, airport)
			if err != nil {
				log.Warn().Err(err).Str("airport", airport).Msg("airport weather degraded")
				snap.Weather[airport] = nil
				failed++
				continue
			}
			snap.Weather[airport] = record
			if origin == OriginSynthetic {
				synthetic++
			}
		}
		switch {
		case failed == len(ReferenceAirports):
			snap.Provenance.Weather = OriginNone
		case synthetic > 0:
			snap.Provenance.Weather = OriginSynthetic
		default:
			snap.Provenance.Weather = OriginLive
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if ctx.Err() != nil {
			return
		}
		corpus, origin, err := t.news(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("news fetch degraded")
			return
		}
		snap.News = corpus
		snap.NoFlyZones = ExtractNoFlyZones(corpus)
		snap.Provenance.News = origin
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		synthetic, failed := 0, 0
		for _, country := range ReferenceCountries {
			if ctx.Err() != nil {
				return
			}
			record, origin, err := t.risk(ctx, country)
			if err != nil {
				log.Warn().Err(err).Str("country", country).Msg("country risk degraded")
				failed++
				continue
			}
			snap.Geopolitical[country] = record
			if origin == OriginSynthetic {
				synthetic++
			}
		}
		switch {
		case failed == len(ReferenceCountries):
			snap.Provenance.Geopolitical = OriginNone
		case synthetic > 0:
			snap.Provenance.Geopolitical = OriginSynthetic
		default:
			snap.Provenance.Geopolitical = OriginLive
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		origin, destination, ok := RouteParam(params)
		if !ok || t.emissions == nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		record, source, err := t.emissions(ctx, origin, destination)
		if err != nil {
			log.Warn().Err(err).Str("route", origin+"-"+destination).Msg("emissions fetch degraded")
			return
		}
		snap.Sustainability[fmt.Sprintf("%s-%s", origin, destination)] = record
		snap.Provenance.Sustainability = source
	}()

	wg.Wait()

	snap.Timestamp = time.Now().UTC()

	if err := ctx.Err(); err != nil {
		return snap, err
	}
	return snap, nil
}
