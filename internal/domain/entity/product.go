package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un medicamento o producto de la farmacia.
// Quantity es el stock autoritativo; solo el Ledger lo modifica y
// cada cambio queda registrado en movements.
type Product struct {
	ID             string
	Name           string
	CategoryID     string
	SupplierID     string          // vacío si no tiene proveedor asignado
	Cost           decimal.Decimal // costo promedio ponderado
	Price          decimal.Decimal // precio de lista
	DiscountPct    decimal.Decimal // 0-100, opcional
	Quantity       int64           // unidades en existencia, nunca negativo
	ExpirationDate time.Time
	LotNumber      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
