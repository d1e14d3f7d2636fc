package watch

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightnet/envbridge/internal/flightenv"
)

type sweepProvider struct {
	snap func(route string) *flightenv.EnvironmentSnapshot
}

func (p *sweepProvider) Name() string { return "sweep" }
func (p *sweepProvider) Ping() bool   { return true }

func (p *sweepProvider) FetchEnvironment(_ context.Context, params map[string]string) (*flightenv.EnvironmentSnapshot, error) {
	return p.snap(params["route"]), nil
}

func alertingSnapshot(zones []string, badAirport string) *flightenv.EnvironmentSnapshot {
	snap := flightenv.NewEnvironmentSnapshot()
	snap.NoFlyZones = zones
	if badAirport != "" {
		snap.Weather[badAirport] = &flightenv.WeatherRecord{
			Airport:         badAirport,
			VisibilityMiles: 1.5,
			Category:        flightenv.CategoryIFR,
		}
	}
	return snap
}

func TestSweepRecordsAlerts(t *testing.T) {
	provider := &sweepProvider{
		snap: func(string) *flightenv.EnvironmentSnapshot {
			return alertingSnapshot([]string{"IR", "RU"}, "JFK")
		},
	}

	history := NewHistory(10, 0)
	w := New(provider, []string{"JFK-LAX", "LHR-JFK"}, time.Minute, history, zerolog.Nop())

	w.Sweep(context.Background())

	alerts := w.Recent()
	require.Len(t, alerts, 2)
	routes := map[string]bool{}
	for _, a := range alerts {
		routes[a.Route] = true
		assert.Equal(t, []string{"IR", "RU"}, a.NoFlyZones)
		assert.Equal(t, []string{"JFK"}, a.UnsuitableAirports)
		assert.False(t, a.ObservedAt.IsZero())
	}
	assert.True(t, routes["JFK-LAX"])
	assert.True(t, routes["LHR-JFK"])
}

func TestSweepSkipsQuietRoutes(t *testing.T) {
	provider := &sweepProvider{
		snap: func(string) *flightenv.EnvironmentSnapshot {
			snap := flightenv.NewEnvironmentSnapshot()
			snap.Weather["JFK"] = &flightenv.WeatherRecord{
				Airport:         "JFK",
				VisibilityMiles: 10,
				Category:        flightenv.CategoryVFR,
			}
			return snap
		},
	}

	history := NewHistory(10, 0)
	w := New(provider, []string{"JFK-LAX"}, time.Minute, history, zerolog.Nop())

	w.Sweep(context.Background())
	assert.Empty(t, w.Recent())
}

func TestHistoryCountRetention(t *testing.T) {
	h := NewHistory(3, 0)
	for i := 0; i < 5; i++ {
		h.Add(Alert{Route: "JFK-LAX", ObservedAt: time.Now().Add(time.Duration(i) * time.Second)})
	}

	alerts := h.Recent()
	require.Len(t, alerts, 3)
	// Oldest entries are evicted first.
	assert.True(t, alerts[0].ObservedAt.Before(alerts[2].ObservedAt))
}

func TestHistoryAgeRetention(t *testing.T) {
	h := NewHistory(0, time.Hour)
	h.Add(Alert{Route: "old", ObservedAt: time.Now().Add(-2 * time.Hour)})
	h.Add(Alert{Route: "fresh", ObservedAt: time.Now()})

	alerts := h.Recent()
	require.Len(t, alerts, 1)
	assert.Equal(t, "fresh", alerts[0].Route)
}

func TestStartWithoutRoutesIsNoop(t *testing.T) {
	w := New(nil, nil, time.Minute, NewHistory(1, 0), zerolog.Nop())
	require.NoError(t, w.Start())
	w.Stop()
}
