package usecase

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
	"github.com/tu-usuario/farmacia-pro/internal/application/ledger"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

// Columnas esperadas del CSV de productos:
// name,category,cost,price,quantity,expiration_date,lot,supplier
// category y supplier van por nombre; expiration_date en YYYY-MM-DD.
const csvColumns = 8

// ImportUseCase importa productos desde CSV. Cada fila válida crea el
// producto y su movimiento CSV_IMPORT en una transacción propia; las
// filas inválidas se omiten y se reportan sin abortar el lote.
type ImportUseCase struct {
	ledger       *ledger.Ledger
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(
	ldg *ledger.Ledger,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
) *ImportUseCase {
	return &ImportUseCase{
		ledger:       ldg,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
	}
}

// ImportProducts lee el CSV (con header) y da de alta los productos.
func (uc *ImportUseCase) ImportProducts(ctx context.Context, r io.Reader, actorID string) (*dto.ImportResultResponse, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // la validación de columnas es por fila

	// Header: se descarta; si falta, el archivo está vacío.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return &dto.ImportResultResponse{}, nil
		}
		return nil, err
	}

	result := &dto.ImportResultResponse{}
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			// Fila malformada (comillas rotas, etc.): se omite.
			result.Skipped++
			result.SkippedRows = append(result.SkippedRows, row)
			continue
		}
		product, ok := uc.parseRow(record)
		if !ok {
			result.Skipped++
			result.SkippedRows = append(result.SkippedRows, row)
			continue
		}
		if err := uc.ledger.CreateWithInitialStock(ctx, product, entity.MovementKindCSVImport, "importación CSV", actorID); err != nil {
			// Duplicado u otro fallo de la fila: se omite, el lote sigue.
			result.Skipped++
			result.SkippedRows = append(result.SkippedRows, row)
			continue
		}
		result.Imported++
	}
	return result, nil
}

// parseRow valida y convierte una fila del CSV en un producto.
func (uc *ImportUseCase) parseRow(record []string) (*entity.Product, bool) {
	if len(record) < csvColumns {
		return nil, false
	}
	name := strings.TrimSpace(record[0])
	categoryName := strings.TrimSpace(record[1])
	if name == "" || categoryName == "" {
		return nil, false
	}
	category, err := uc.categoryRepo.GetByName(categoryName)
	if err != nil || category == nil {
		return nil, false
	}
	cost, err := decimal.NewFromString(strings.TrimSpace(record[2]))
	if err != nil || cost.LessThan(decimal.Zero) {
		return nil, false
	}
	price, err := decimal.NewFromString(strings.TrimSpace(record[3]))
	if err != nil || price.LessThan(decimal.Zero) {
		return nil, false
	}
	quantity, err := strconv.ParseInt(strings.TrimSpace(record[4]), 10, 64)
	if err != nil || quantity < 0 {
		return nil, false
	}
	var expiration time.Time
	if s := strings.TrimSpace(record[5]); s != "" {
		expiration, err = time.Parse("2006-01-02", s)
		if err != nil {
			return nil, false
		}
	}
	supplierID := ""
	if s := strings.TrimSpace(record[7]); s != "" {
		supplier, err := uc.supplierRepo.GetByName(s)
		if err != nil || supplier == nil {
			return nil, false
		}
		supplierID = supplier.ID
	}
	now := time.Now()
	return &entity.Product{
		ID:             uuid.New().String(),
		Name:           name,
		CategoryID:     category.ID,
		SupplierID:     supplierID,
		Cost:           cost,
		Price:          price,
		Quantity:       quantity,
		ExpirationDate: expiration,
		LotNumber:      strings.TrimSpace(record[6]),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, true
}
