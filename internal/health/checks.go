package health

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront-bff/internal/backend"
	"github.com/aaravmahajanofficial/storefront-bff/internal/config"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

const version = "1.0.0"

type Endpoints struct {
	Gateway *backend.Gateway
}

func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    cfg.Otel.ServiceName,
			Version: version,
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			// Only order history lives in postgres; the storefront keeps working without it.
			health.Config{
				Name:      "database",
				Timeout:   3 * time.Second,
				SkipOnErr: true,
				Check: postgres.New(postgres.Config{
					DSN: cfg.Database.GetDSN(),
				}),
			},
			health.Config{
				Name:      "redis",
				Timeout:   2 * time.Second,
				SkipOnErr: false,
				Check: healthRedis.New(
					healthRedis.Config{
						DSN: cfg.RedisConnect.GetDSN(),
					},
				),
			},
			health.Config{
				Name:      "storefront-backend",
				Timeout:   5 * time.Second,
				SkipOnErr: false,
				Check:     BackendCheck(endpoints.Gateway),
			},
		),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

// BackendCheck reports the storefront API as down when it cannot be reached.
func BackendCheck(gateway *backend.Gateway) func(ctx context.Context) error {
	return func(ctx context.Context) error {

		if gateway == nil {
			return fmt.Errorf("backend gateway is not initialized")
		}

		if err := gateway.Ping(ctx); err != nil {
			return fmt.Errorf("failed to reach storefront backend: %w", err)
		}

		return nil
	}
}
