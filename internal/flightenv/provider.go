package flightenv

import (
	"context"
	"strconv"
	"strings"
)

// DataProvider abstracts a flight-environment data backend. The HTTP layer
// binds either variant to the same handler; the dispatch difference lives
// entirely behind this interface.
type DataProvider interface {
	// FetchEnvironment assembles one snapshot from the request parameters.
	// The returned snapshot is structurally complete even on partial
	// failure; only context cancellation or expiry is returned as an error.
	FetchEnvironment(ctx context.Context, params map[string]string) (*EnvironmentSnapshot, error)
	Name() string
	// Ping reports liveness. It has no side effects and must not block on
	// the network beyond a short bound.
	Ping() bool
}

// DefaultAircraftCount is used when aircraft_count is absent or malformed.
const DefaultAircraftCount = 5

// AircraftCount extracts the requested record count from the parameter map.
// Missing, unparseable or negative values fall back to the default; zero is
// honored.
func AircraftCount(params map[string]string) int {
	raw, ok := params["aircraft_count"]
	if !ok {
		return DefaultAircraftCount
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return DefaultAircraftCount
	}
	return n
}

// RouteParam parses a route parameter of the form "JFK-LAX". ok is false
// when the parameter is absent or malformed; malformed routes are tolerated,
// they just yield no sustainability data.
func RouteParam(params map[string]string) (origin, destination string, ok bool) {
	route := params["route"]
	if len(route) < 7 || route[3] != '-' {
		return "", "", false
	}
	return route[:3], route[4:7], true
}
