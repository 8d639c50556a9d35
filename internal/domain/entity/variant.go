package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant representa una variante vendible de un producto (un SKU concreto,
// ej. talla/color). StockQuantity solo se muta a través del motor de ajustes;
// nunca directamente desde handlers ni casos de uso de catálogo.
type Variant struct {
	ID                string
	SKU               string // código único visible para humanos
	Name              string
	Price             decimal.Decimal // precio de venta (para valorización de stock)
	StockQuantity     int64           // invariante: siempre >= 0
	LowStockThreshold int64           // 0 = no configurado
	ReorderLevel      int64           // 0 = no configurado (campo legado, fallback del umbral)
	IsActive          bool            // baja lógica; nunca se borra mientras tenga movimientos
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
