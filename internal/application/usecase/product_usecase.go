package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
	"github.com/tu-usuario/farmacia-pro/internal/application/ledger"
	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. La existencia nunca se
// escribe directo: el alta pasa por CreateWithInitialStock y la edición de
// cantidad por RegisterAdjustment, así todo cambio queda en el log.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	ledger       *ledger.Ledger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, ldg *ledger.Ledger) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo, ledger: ldg}
}

// Create crea un producto; si trae existencia inicial registra el
// movimiento INITIAL en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.CategoryID == "" || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.DiscountPct.LessThan(decimal.Zero) || in.DiscountPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, domain.ErrInvalidInput
	}
	category, err := uc.categoryRepo.GetByID(in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.repo.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	var expiration time.Time
	if in.ExpirationDate != "" {
		expiration, err = time.Parse("2006-01-02", in.ExpirationDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		Name:           in.Name,
		CategoryID:     in.CategoryID,
		SupplierID:     in.SupplierID,
		Cost:           in.Cost,
		Price:          in.Price,
		DiscountPct:    in.DiscountPct,
		Quantity:       in.Quantity,
		ExpirationDate: expiration,
		LotNumber:      in.LotNumber,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.ledger.CreateWithInitialStock(ctx, product, entity.MovementKindInitial, "alta de producto", actorID); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza metadatos del producto. Si Quantity viene en el
// request se despacha como ajuste al Ledger: cantidad igual a la actual
// no genera movimiento (no-op deliberado). El costo no se edita aquí:
// es el promedio ponderado que mantiene el Ledger con cada entrada.
func (uc *ProductUseCase) Update(ctx context.Context, id, actorID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.CategoryID != nil {
		category, err := uc.categoryRepo.GetByID(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.ErrNotFound
		}
		product.CategoryID = *in.CategoryID
	}
	if in.SupplierID != nil {
		product.SupplierID = *in.SupplierID
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.DiscountPct != nil {
		if in.DiscountPct.LessThan(decimal.Zero) || in.DiscountPct.GreaterThan(decimal.NewFromInt(100)) {
			return nil, domain.ErrInvalidInput
		}
		product.DiscountPct = *in.DiscountPct
	}
	if in.ExpirationDate != nil {
		expiration, err := time.Parse("2006-01-02", *in.ExpirationDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		product.ExpirationDate = expiration
	}
	if in.LotNumber != nil {
		product.LotNumber = *in.LotNumber
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}

	if in.Quantity != nil {
		note := in.Note
		if note == "" {
			note = "ajuste por edición de producto"
		}
		if _, err := uc.ledger.RegisterAdjustment(ctx, id, *in.Quantity, note, actorID); err != nil {
			return nil, err
		}
		product.Quantity = *in.Quantity
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un producto. Sus movimientos permanecen en el log.
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		CategoryID:     p.CategoryID,
		SupplierID:     p.SupplierID,
		Cost:           p.Cost,
		Price:          p.Price,
		DiscountPct:    p.DiscountPct,
		Quantity:       p.Quantity,
		ExpirationDate: p.ExpirationDate,
		LotNumber:      p.LotNumber,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
