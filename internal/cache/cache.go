package cache

import (
	"context"
	"time"

	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
)

// ReportCache cachea el resumen del tablero (solo lectura, TTL corto).
// Nunca se usa para cantidades que alimenten mutaciones de stock.
type ReportCache interface {
	Get(ctx context.Context, key string) (*dto.DashboardResponse, bool, error)
	Set(ctx context.Context, key string, value *dto.DashboardResponse, ttl time.Duration) error
}

// NoopReportCache implementación nula para entornos sin Redis.
type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string) (*dto.DashboardResponse, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ *dto.DashboardResponse, _ time.Duration) error {
	return nil
}
