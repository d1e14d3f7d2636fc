package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/flightnet/envbridge/internal/flightenv"
	"github.com/flightnet/envbridge/internal/watch"
)

var validate = validator.New()

// Deps carries everything the handlers need.
type Deps struct {
	Mock    flightenv.DataProvider
	Live    flightenv.DataProvider
	Watcher *watch.Watcher
	Timeout time.Duration
	Log     zerolog.Logger
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	app.Get("/health", healthHandler(deps))

	app.Get("/flight-environment/sample", environmentHandler(deps, deps.Mock))
	app.Get("/flight-environment/live", environmentHandler(deps, deps.Live))

	// Bare path redirects to the sample source, query string preserved.
	app.Get("/flight-environment", func(c *fiber.Ctx) error {
		target := "/flight-environment/sample"
		if q := string(c.Request().URI().QueryString()); q != "" {
			target += "?" + q
		}
		return c.Redirect(target, fiber.StatusMovedPermanently)
	})

	app.Get("/no-fly-zones", func(c *fiber.Ctx) error {
		alerts := []watch.Alert{}
		if deps.Watcher != nil {
			alerts = deps.Watcher.Recent()
		}
		return c.JSON(fiber.Map{
			"alerts":    alerts,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
}

// environmentQuery holds the recognized query parameters. Violations never
// reject the request; offending fields reset to their defaults.
type environmentQuery struct {
	Route         string `validate:"omitempty,len=7"`
	AircraftCount string `validate:"omitempty,number"`
}

func parseEnvironmentQuery(c *fiber.Ctx) map[string]string {
	q := environmentQuery{
		Route:         c.Query("route"),
		AircraftCount: c.Query("aircraft_count"),
	}
	if err := validate.Struct(q); err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			for _, fe := range verr {
				switch fe.Field() {
				case "Route":
					q.Route = ""
				case "AircraftCount":
					q.AircraftCount = ""
				}
			}
		}
	}

	params := map[string]string{}
	if q.Route != "" {
		params["route"] = q.Route
	}
	if q.AircraftCount != "" {
		params["aircraft_count"] = q.AircraftCount
	}
	return params
}

func environmentHandler(deps Deps, provider flightenv.DataProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := uuid.NewString()
		c.Set("X-Request-ID", requestID)

		params := parseEnvironmentQuery(c)

		timeout := deps.Timeout
		if timeout <= 0 {
			timeout = flightenv.FetchTimeout
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()

		log := deps.Log.With().
			Str("request_id", requestID).
			Str("provider", provider.Name()).
			Logger()

		snapshot, err := provider.FetchEnvironment(ctx, params)
		if err != nil {
			log.Error().Err(err).Msg("environment fetch failed")
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return fiber.NewError(fiber.StatusGatewayTimeout, "environment fetch timed out")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to assemble flight environment")
		}

		log.Info().
			Int("aircraft", len(snapshot.Aircraft)).
			Int("flights", len(snapshot.Flights)).
			Strs("no_fly_zones", snapshot.NoFlyZones).
			Msg("environment assembled")
		return c.JSON(snapshot)
	}
}

// providerStatus is one provider's entry in the health report.
type providerStatus struct {
	Status string `json:"status"`
}

func healthHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		providers := map[string]providerStatus{}
		healthy := true

		for _, p := range []flightenv.DataProvider{deps.Mock, deps.Live} {
			if p == nil {
				continue
			}
			if p.Ping() {
				providers[p.Name()] = providerStatus{Status: "ok"}
			} else {
				providers[p.Name()] = providerStatus{Status: "error"}
				healthy = false
			}
		}

		status := "healthy"
		code := fiber.StatusOK
		if !healthy {
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status":    status,
			"providers": providers,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
