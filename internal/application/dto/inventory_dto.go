package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/adjustments.
// QuantityChange se interpreta como magnitud; IsStockIncreasing fija la
// dirección aunque el caller mande el signo implícito en la cantidad.
type AdjustStockRequest struct {
	VariantID         string     `json:"variant_id"`
	QuantityChange    int64      `json:"quantity_change"`
	IsStockIncreasing bool       `json:"is_stock_increasing"`
	MovementType      string     `json:"movement_type,omitempty"`
	Reason            string     `json:"reason"`
	ReferenceID       string     `json:"reference_id,omitempty"`
	BackdatedAt       *time.Time `json:"backdated_at,omitempty"`
}

// AdjustStockResponse resultado de un ajuste aplicado.
type AdjustStockResponse struct {
	PreviousQuantity int64  `json:"previous_quantity"`
	NewQuantity      int64  `json:"new_quantity"`
	ChangeQuantity   int64  `json:"change_quantity"`
	MovementID       string `json:"movement_id"`
	ReferenceID      string `json:"reference_id"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID                string    `json:"id"`
	VariantID         string    `json:"variant_id"`
	PreviousQuantity  int64     `json:"previous_quantity"`
	NewQuantity       int64     `json:"new_quantity"`
	ChangeQuantity    int64     `json:"change_quantity"`
	IsStockIncreasing bool      `json:"is_stock_increasing"`
	MovementType      string    `json:"movement_type"`
	Reason            string    `json:"reason"`
	ReferenceID       string    `json:"reference_id"`
	PerformedBy       string    `json:"performed_by"`
	CreatedAt         time.Time `json:"created_at"`
}

// MovementHistoryResponse historial paginado de una variante.
type MovementHistoryResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// FeedItemResponse fila del feed global: movimiento + identidad de la variante
// + estado de stock derivado del NewQuantity del propio movimiento.
type FeedItemResponse struct {
	MovementResponse
	SKU         string `json:"sku"`
	VariantName string `json:"variant_name"`
	StockStatus string `json:"stock_status"`
}

// FeedResponse feed global paginado.
type FeedResponse struct {
	Items []FeedItemResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// VariantStockResponse cantidad actual + identidad (GET /variants/:id/stock).
type VariantStockResponse struct {
	VariantID     string `json:"variant_id"`
	SKU           string `json:"sku"`
	StockQuantity int64  `json:"stock_quantity"`
}

// LowStockItemDTO fila del reporte de stock bajo.
type LowStockItemDTO struct {
	VariantID          string          `json:"variant_id"`
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	StockQuantity      int64           `json:"stock_quantity"`
	EffectiveThreshold int64           `json:"effective_threshold"`
	StockStatus        string          `json:"stock_status"`
	StockValue         decimal.Decimal `json:"stock_value"` // cantidad * precio
}
