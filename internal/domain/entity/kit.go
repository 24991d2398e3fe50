package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kit agrupa productos que se venden juntos (botiquín, kit posoperatorio).
// Vender un kit descuenta cada componente vía el Ledger en una sola
// transacción.
type Kit struct {
	ID         string
	Name       string // único
	Price      decimal.Decimal
	Components []KitComponent
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// KitComponent es un componente del kit (fila hija).
type KitComponent struct {
	ID        string
	KitID     string
	ProductID string
	Quantity  int64 // unidades del producto por kit
}
