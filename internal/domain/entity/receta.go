package entity

import "time"

// Estados de una receta. PENDIENTE → DISPENSADA o CANCELADA.
// Solo la dispensación muta inventario.
const (
	RecetaStatusPendiente  = "PENDIENTE"
	RecetaStatusDispensada = "DISPENSADA"
	RecetaStatusCancelada  = "CANCELADA"
)

// Receta representa una prescripción médica a dispensar.
type Receta struct {
	ID        string
	Patient   string
	Doctor    string
	Status    string
	Note      string
	Items     []RecetaItem
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
}

// RecetaItem es un medicamento de la receta (fila hija).
type RecetaItem struct {
	ID        string
	RecetaID  string
	ProductID string
	Quantity  int64
	Dosage    string // indicación de dosificación, texto libre
}
