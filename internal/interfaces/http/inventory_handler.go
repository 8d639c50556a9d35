package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/backoffice-api/internal/application/dto"
	"github.com/tu-usuario/backoffice-api/internal/application/inventory"
	"github.com/tu-usuario/backoffice-api/internal/domain"
	"github.com/tu-usuario/backoffice-api/internal/domain/repository"
)

// InventoryHandler maneja ajustes de stock y consultas del libro de movimientos (protegido).
type InventoryHandler struct {
	adjust *inventory.AdjustStockUseCase
	query  *inventory.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(adjust *inventory.AdjustStockUseCase, query *inventory.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{adjust: adjust, query: query}
}

// AdjustStock godoc
// @Summary      Aplicar un ajuste de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "variant_id, quantity_change, is_stock_increasing, reason"
// @Success      201   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.adjust.AdjustStock(c.Context(), inventory.AdjustmentInput{
		VariantID:         in.VariantID,
		QuantityChange:    in.QuantityChange,
		IsStockIncreasing: in.IsStockIncreasing,
		MovementType:      in.MovementType,
		Reason:            in.Reason,
		ReferenceID:       in.ReferenceID,
		BackdatedAt:       in.BackdatedAt,
		PerformedBy:       userID,
	})
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos: cantidad distinta de cero y reason son requeridos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "variante no encontrada"})
		}
		if err == domain.ErrInsufficientStock {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
		}
		if err == domain.ErrConflict {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustStockResponse{
		PreviousQuantity: result.PreviousQuantity,
		NewQuantity:      result.NewQuantity,
		ChangeQuantity:   result.ChangeQuantity,
		MovementID:       result.MovementID,
		ReferenceID:      result.ReferenceID,
	})
}

// GetHistory godoc
// @Summary      Historial de movimientos de una variante
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "Variant ID"
// @Param        limit   query  int     false  "Tamaño de página (default 20)"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {object}  dto.MovementHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/variants/{id}/movements [get]
func (h *InventoryHandler) GetHistory(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	out, err := h.query.GetHistory(c.Context(), c.Params("id"), page)
	if err != nil {
		return mapQueryError(c, err)
	}
	return c.JSON(out)
}

// GetLatest godoc
// @Summary      Último movimiento de una variante
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Variant ID"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/variants/{id}/movements/latest [get]
func (h *InventoryHandler) GetLatest(c *fiber.Ctx) error {
	out, err := h.query.GetLatest(c.Context(), c.Params("id"))
	if err != nil {
		return mapQueryError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "la variante no tiene movimientos"})
	}
	return c.JSON(out)
}

// GetMovementDetail godoc
// @Summary      Detalle de un movimiento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Movement ID"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovementDetail(c *fiber.Ctx) error {
	out, err := h.query.GetMovementDetail(c.Context(), c.Params("id"))
	if err != nil {
		return mapQueryError(c, err)
	}
	return c.JSON(out)
}

// ListFeed godoc
// @Summary      Feed global de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        movement_type  query  string  false  "Filtrar por tipo exacto"
// @Param        from           query  string  false  "Desde (RFC3339)"
// @Param        to             query  string  false  "Hasta (RFC3339)"
// @Param        search         query  string  false  "Busca en SKU, nombre y reason"
// @Param        limit          query  int     false  "Tamaño de página (default 20)"
// @Param        offset         query  int     false  "Offset"
// @Success      200  {object}  dto.FeedResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListFeed(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	filter := repository.MovementFilter{
		MovementType: c.Query("movement_type"),
		Search:       c.Query("search"),
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from debe ser RFC3339"})
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to debe ser RFC3339"})
		}
		filter.To = &t
	}
	out, err := h.query.ListFeed(c.Context(), filter, page)
	if err != nil {
		return mapQueryError(c, err)
	}
	return c.JSON(out)
}

// ListLowStock godoc
// @Summary      Variantes con stock bajo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItemDTO
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) ListLowStock(c *fiber.Ctx) error {
	items, err := h.query.ListLowStock(c.Context())
	if err != nil {
		return mapQueryError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// LowStockPDF godoc
// @Summary      Reporte de stock bajo en PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/inventory/low-stock/pdf [get]
func (h *InventoryHandler) LowStockPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.query.LowStockPDF(c.Context())
	if err != nil {
		return mapQueryError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="low-stock.pdf"`)
	return c.Send(pdfBytes)
}

// mapQueryError traduce errores de dominio de las consultas a HTTP.
func mapQueryError(c *fiber.Ctx, err error) error {
	if err == domain.ErrInvalidInput {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if err == domain.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
