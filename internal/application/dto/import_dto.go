package dto

// ImportResultResponse resultado de una importación CSV de productos.
// Las filas inválidas se omiten sin abortar el lote.
type ImportResultResponse struct {
	Imported    int   `json:"imported"`
	Skipped     int   `json:"skipped"`
	SkippedRows []int `json:"skipped_rows,omitempty"` // números de fila (1-based, sin contar el header)
}
