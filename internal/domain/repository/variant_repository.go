package repository

import (
	"time"

	"github.com/tu-usuario/backoffice-api/internal/domain/entity"
)

// VariantRepository define el puerto de lectura/catálogo de variantes.
// No expone ningún mutador de StockQuantity: la cantidad solo cambia vía
// VariantStockWriter dentro de la transacción del motor de ajustes.
type VariantRepository interface {
	Create(v *entity.Variant) error
	GetByID(id string) (*entity.Variant, error)
	GetBySKU(sku string) (*entity.Variant, error)
	List(limit, offset int) ([]*entity.Variant, error)
	// ListLowStock devuelve variantes activas cuyo stock está en o por debajo
	// de su umbral efectivo (LowStockThreshold > ReorderLevel > default).
	ListLowStock(defaultThreshold int64) ([]*entity.Variant, error)
	Update(v *entity.Variant) error
	// Deactivate hace baja lógica; la fila nunca se borra mientras existan movimientos.
	Deactivate(id string, at time.Time) error
}

// VariantStockWriter es el mutador interno de StockQuantity. Solo lo entrega
// el TxRunner dentro de una transacción; mantenerlo separado de
// VariantRepository impide actualizar stock saltándose el libro de movimientos.
type VariantStockWriter interface {
	// GetForUpdate lee la variante bloqueando la fila (SELECT ... FOR UPDATE)
	// para serializar ajustes concurrentes sobre la misma variante.
	GetForUpdate(id string) (*entity.Variant, error)
	UpdateQuantity(id string, quantity int64, at time.Time) error
}
