package entity

import "time"

// Devolucion representa una devolución de mercancía a un proveedor.
// Crearla registra la salida de stock en el mismo acto; eliminarla
// después NO revierte el movimiento (el historial de auditoría
// prevalece sobre la conveniencia).
type Devolucion struct {
	ID         string
	SupplierID string
	ProductID  string
	Quantity   int64
	Reason     string
	CreatedAt  time.Time
	CreatedBy  string
}
