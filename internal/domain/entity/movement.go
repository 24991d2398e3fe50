package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementKindInitial        = "INITIAL"         // alta inicial del producto
	MovementKindCSVImport      = "CSV_IMPORT"      // alta vía importación CSV
	MovementKindManualExit     = "MANUAL_EXIT"     // salida manual (venta mostrador)
	MovementKindAdjustIn       = "ADJUST_IN"       // ajuste positivo
	MovementKindAdjustOut      = "ADJUST_OUT"      // ajuste negativo
	MovementKindOrderReceipt   = "ORDER_RECEIPT"   // recepción de pedido a proveedor
	MovementKindSupplierReturn = "SUPPLIER_RETURN" // devolución a proveedor
	MovementKindPrescription   = "PRESCRIPTION"    // dispensación de receta
	MovementKindKitSale        = "KIT_SALE"        // venta de kit
)

// IsEntryKind indica si el tipo suma stock; el resto resta.
func IsEntryKind(kind string) bool {
	switch kind {
	case MovementKindInitial, MovementKindCSVImport, MovementKindAdjustIn, MovementKindOrderReceipt:
		return true
	}
	return false
}

// IsValidMovementKind valida el tag de tipo de movimiento.
func IsValidMovementKind(kind string) bool {
	switch kind {
	case MovementKindInitial, MovementKindCSVImport, MovementKindManualExit,
		MovementKindAdjustIn, MovementKindAdjustOut, MovementKindOrderReceipt,
		MovementKindSupplierReturn, MovementKindPrescription, MovementKindKitSale:
		return true
	}
	return false
}

// Movement es el registro inmutable de un cambio de stock (append-only).
// Invariante: StockAfter - StockBefore == +Quantity para entradas y
// -Quantity para salidas. Nunca se actualiza ni se borra; eliminar un
// agregado de negocio (ej. una devolución) no toca sus movimientos.
type Movement struct {
	ID          string
	ProductID   string
	LotNumber   string // desnormalizado al momento de escribir, para trazabilidad por lote
	Kind        string
	Quantity    int64 // magnitud, siempre positiva
	StockBefore int64
	StockAfter  int64
	Note        string
	CreatedAt   time.Time
	CreatedBy   string // EmployeeID
}
