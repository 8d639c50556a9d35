package repository

import (
	"time"

	"github.com/tu-usuario/backoffice-api/internal/domain/entity"
)

// MovementFilter filtros del feed global de movimientos.
type MovementFilter struct {
	MovementType string     // exacto; vacío = todos
	From         *time.Time // sobre CreatedAt
	To           *time.Time
	Search       string // ILIKE sobre SKU, nombre de variante y reason
}

// MovementWithVariant fila del feed: movimiento + identidad de la variante y
// sus umbrales, para derivar el estado de stock histórico sin otra consulta.
type MovementWithVariant struct {
	entity.StockMovement
	SKU               string
	VariantName       string
	LowStockThreshold int64
	ReorderLevel      int64
}

// StockMovementRepository define el puerto de persistencia del libro de
// movimientos. Solo inserta y lee: las filas son inmutables por contrato.
type StockMovementRepository interface {
	Create(m *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// ListByVariant devuelve el historial de una variante, más reciente primero
	// (created_at DESC, seq DESC para desempates y retrofechados).
	ListByVariant(variantID string, limit, offset int) ([]*entity.StockMovement, error)
	// Latest devuelve el movimiento más reciente de la variante, o nil si no hay.
	Latest(variantID string) (*entity.StockMovement, error)
	// ListBySeq devuelve los movimientos de una variante en orden de inserción
	// (seq ASC): el orden total determinista usado para reconstruir cantidades.
	ListBySeq(variantID string) ([]*entity.StockMovement, error)
	// ListFeed feed global paginado con filtros; devuelve también el total para paginación.
	ListFeed(filter MovementFilter, limit, offset int) ([]*MovementWithVariant, int, error)
}
