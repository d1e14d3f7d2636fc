// Package watch runs the periodic airspace sweep: it re-fetches the flight
// environment for a configured set of routes, derives no-fly zones and
// weather unsuitability, and retains a bounded alert history.
package watch

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/flightnet/envbridge/internal/flightenv"
)

// Alert is one sweep observation for one route.
type Alert struct {
	Route              string    `json:"route"`
	NoFlyZones         []string  `json:"no_fly_zones"`
	UnsuitableAirports []string  `json:"unsuitable_airports"`
	ObservedAt         time.Time `json:"observed_at"`
}

// History is a concurrency-safe bounded alert buffer with count and age
// retention.
type History struct {
	mu       sync.RWMutex
	alerts   []Alert
	maxCount int
	maxAge   time.Duration
}

// NewHistory creates a History. maxCount <= 0 means unlimited; maxAge 0
// disables age-based eviction.
func NewHistory(maxCount int, maxAge time.Duration) *History {
	return &History{maxCount: maxCount, maxAge: maxAge}
}

// Add appends an alert and enforces retention.
func (h *History) Add(a Alert) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.alerts = append(h.alerts, a)

	if h.maxCount > 0 && len(h.alerts) > h.maxCount {
		over := len(h.alerts) - h.maxCount
		h.alerts = h.alerts[over:]
	}
	if h.maxAge > 0 {
		cutoff := time.Now().Add(-h.maxAge)
		i := 0
		for ; i < len(h.alerts); i++ {
			if !h.alerts[i].ObservedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			h.alerts = h.alerts[i:]
		}
	}
}

// Recent returns the retained alerts, newest last. The result is a copy.
func (h *History) Recent() []Alert {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Alert, len(h.alerts))
	copy(out, h.alerts)
	return out
}

// Watcher schedules periodic sweeps over the configured routes.
type Watcher struct {
	scheduler *gocron.Scheduler
	provider  flightenv.DataProvider
	routes    []string
	interval  time.Duration
	history   *History
	log       zerolog.Logger
}

func New(provider flightenv.DataProvider, routes []string, interval time.Duration, history *History, log zerolog.Logger) *Watcher {
	return &Watcher{
		scheduler: gocron.NewScheduler(time.UTC),
		provider:  provider,
		routes:    routes,
		interval:  interval,
		history:   history,
		log:       log.With().Str("component", "watch").Logger(),
	}
}

// Start schedules the periodic sweep. No routes means nothing to watch.
func (w *Watcher) Start() error {
	if len(w.routes) == 0 {
		w.log.Info().Msg("no routes configured, airspace watch disabled")
		return nil
	}

	interval := w.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := w.scheduler.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), flightenv.FetchTimeout)
		defer cancel()
		w.Sweep(ctx)
	})
	if err != nil {
		return err
	}

	w.scheduler.StartAsync()
	return nil
}

// Stop cancels future sweeps.
func (w *Watcher) Stop() {
	if w.scheduler != nil {
		w.scheduler.Stop()
	}
}

// Recent exposes the retained alerts.
func (w *Watcher) Recent() []Alert {
	return w.history.Recent()
}

// Sweep fetches the environment once per route and records an alert for
// every route with airspace or weather findings. Routes sweep concurrently,
// the way the source scheduler fans out over locations.
func (w *Watcher) Sweep(ctx context.Context) {
	var wg sync.WaitGroup
	for _, route := range w.routes {
		route := route
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.sweepRoute(ctx, route)
		}()
	}
	wg.Wait()
}

func (w *Watcher) sweepRoute(ctx context.Context, route string) {
	snap, err := w.provider.FetchEnvironment(ctx, map[string]string{"route": route})
	if err != nil {
		w.log.Warn().Err(err).Str("route", route).Msg("sweep fetch failed")
		return
	}

	var unsuitable []string
	for _, airport := range flightenv.ReferenceAirports {
		record, ok := snap.Weather[airport]
		if !ok || record == nil {
			continue
		}
		if suitable, reason := flightenv.SuitableForFlight(record); !suitable {
			unsuitable = append(unsuitable, airport)
			w.log.Info().Str("airport", airport).Str("reason", reason).Msg("weather unsuitable")
		}
	}

	if len(snap.NoFlyZones) == 0 && len(unsuitable) == 0 {
		return
	}

	alert := Alert{
		Route:              route,
		NoFlyZones:         snap.NoFlyZones,
		UnsuitableAirports: unsuitable,
		ObservedAt:         time.Now().UTC(),
	}
	w.history.Add(alert)
	w.log.Info().
		Str("route", route).
		Strs("no_fly_zones", snap.NoFlyZones).
		Strs("unsuitable_airports", unsuitable).
		Msg("airspace alert recorded")
}
