package inventory

import "github.com/tu-usuario/backoffice-api/internal/domain/entity"

// DefaultLowStockThreshold es el umbral cuando la variante no tiene ninguno configurado.
const DefaultLowStockThreshold = 10

// EffectiveThreshold resuelve el umbral de stock bajo con precedencia explícita:
// LowStockThreshold si está configurado, si no ReorderLevel (campo legado),
// si no el default del sistema.
func EffectiveThreshold(v *entity.Variant) int64 {
	if v == nil {
		return DefaultLowStockThreshold
	}
	if v.LowStockThreshold > 0 {
		return v.LowStockThreshold
	}
	if v.ReorderLevel > 0 {
		return v.ReorderLevel
	}
	return DefaultLowStockThreshold
}

// StockStatus clasifica una cantidad frente a un umbral (servicio de dominio).
type StockStatus string

const (
	StatusOutOfStock StockStatus = "OutOfStock"
	StatusLowStock   StockStatus = "LowStock"
	StatusGood       StockStatus = "Good"
)

// DeriveStatus calcula el estado de stock para una cantidad dada. En el feed
// histórico se evalúa contra NewQuantity del propio movimiento, no contra la
// cantidad viva de la variante: cada fila muestra el estado tal como era entonces.
func DeriveStatus(quantity, threshold int64) StockStatus {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= threshold:
		return StatusLowStock
	default:
		return StatusGood
	}
}
