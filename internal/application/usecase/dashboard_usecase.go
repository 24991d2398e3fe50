package usecase

import (
	"context"
	"time"

	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
	"github.com/tu-usuario/farmacia-pro/internal/cache"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

const (
	dashboardCacheKey = "dashboard:summary"
	dashboardCacheTTL = time.Minute

	lowStockThreshold  = 10
	expiringWithinDays = 30
	dashboardListLimit = 20
)

// DashboardUseCase arma el resumen del tablero: bajo stock, lotes por
// vencer, movimientos recientes y pendientes. El resultado se cachea con
// TTL corto; es solo informativo y nunca alimenta decisiones de
// mutación de stock (esas leen siempre la fila bloqueada en la tx).
type DashboardUseCase struct {
	repo         repository.DashboardRepository
	movementRepo repository.MovementRepository
	cache        cache.ReportCache
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository, movementRepo repository.MovementRepository, reportCache cache.ReportCache) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, movementRepo: movementRepo, cache: reportCache}
}

// Summary devuelve el resumen, de cache si está fresco.
func (uc *DashboardUseCase) Summary(ctx context.Context) (*dto.DashboardResponse, error) {
	if cached, ok, err := uc.cache.Get(ctx, dashboardCacheKey); err == nil && ok {
		return cached, nil
	}

	lowStock, err := uc.repo.LowStock(lowStockThreshold, dashboardListLimit)
	if err != nil {
		return nil, err
	}
	deadline := time.Now().AddDate(0, 0, expiringWithinDays)
	expiring, err := uc.repo.ExpiringBefore(deadline, dashboardListLimit)
	if err != nil {
		return nil, err
	}
	recent, err := uc.movementRepo.ListRecent(dashboardListLimit)
	if err != nil {
		return nil, err
	}
	pedidos, recetas, err := uc.repo.CountsByStatus()
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		LowStock:          make([]dto.LowStockItemDTO, 0, len(lowStock)),
		Expiring:          make([]dto.ExpiringItemDTO, 0, len(expiring)),
		RecentMovements:   make([]dto.MovementResponse, 0, len(recent)),
		PedidosPendientes: pedidos,
		RecetasPendientes: recetas,
		GeneratedAt:       time.Now(),
	}
	for _, p := range lowStock {
		resp.LowStock = append(resp.LowStock, dto.LowStockItemDTO{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  p.Quantity,
		})
	}
	for _, p := range expiring {
		resp.Expiring = append(resp.Expiring, dto.ExpiringItemDTO{
			ProductID:      p.ID,
			Name:           p.Name,
			LotNumber:      p.LotNumber,
			ExpirationDate: p.ExpirationDate,
			Quantity:       p.Quantity,
		})
	}
	for _, m := range recent {
		resp.RecentMovements = append(resp.RecentMovements, ToMovementResponse(m))
	}

	// Cache best-effort: un fallo de Redis no tumba el tablero.
	_ = uc.cache.Set(ctx, dashboardCacheKey, resp, dashboardCacheTTL)
	return resp, nil
}

// ToMovementResponse mapea un movimiento de dominio al DTO.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		LotNumber:   m.LotNumber,
		Kind:        m.Kind,
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Note:        m.Note,
		CreatedAt:   m.CreatedAt,
		CreatedBy:   m.CreatedBy,
	}
}
