package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateVariantRequest entrada para crear una variante.
type CreateVariantRequest struct {
	SKU               string          `json:"sku" validate:"required,min=1,max=100"`
	Name              string          `json:"name" validate:"required,min=1,max=200"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
	ReorderLevel      int64           `json:"reorder_level"`
}

// UpdateVariantRequest entrada para actualizar una variante (nunca el stock:
// el stock solo cambia vía ajustes).
type UpdateVariantRequest struct {
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Price             *decimal.Decimal `json:"price"`
	LowStockThreshold *int64           `json:"low_stock_threshold"`
	ReorderLevel      *int64           `json:"reorder_level"`
}

// VariantResponse salida de una variante.
type VariantResponse struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	StockQuantity     int64           `json:"stock_quantity"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
	ReorderLevel      int64           `json:"reorder_level"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// VariantListResponse lista paginada de variantes.
type VariantListResponse struct {
	Items []VariantResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
