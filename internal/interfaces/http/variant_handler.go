package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/backoffice-api/internal/application/catalog"
	"github.com/tu-usuario/backoffice-api/internal/application/dto"
	"github.com/tu-usuario/backoffice-api/internal/application/inventory"
	"github.com/tu-usuario/backoffice-api/internal/domain"
)

// VariantHandler maneja el catálogo de variantes (protegido).
type VariantHandler struct {
	uc    *catalog.VariantUseCase
	query *inventory.QueryUseCase
}

// NewVariantHandler construye el handler.
func NewVariantHandler(uc *catalog.VariantUseCase, query *inventory.QueryUseCase) *VariantHandler {
	return &VariantHandler{uc: uc, query: query}
}

// Create godoc
// @Summary      Crear variante
// @Tags         variants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVariantRequest  true  "sku, name, price, umbrales"
// @Success      201   {object}  dto.VariantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/variants [post]
func (h *VariantHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateVariantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sku y name son requeridos; precio y umbrales no negativos"})
		}
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SKU_EXISTS", Message: "el SKU ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar variantes
// @Tags         variants
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 20)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  dto.VariantListResponse
// @Router       /api/variants [get]
func (h *VariantHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	out, err := h.uc.List(c.Context(), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener variante
// @Tags         variants
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Variant ID"
// @Success      200  {object}  dto.VariantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/variants/{id} [get]
func (h *VariantHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapQueryError(c, err)
	}
	return c.JSON(out)
}

// GetStock godoc
// @Summary      Cantidad actual + SKU de una variante
// @Tags         variants
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Variant ID"
// @Success      200  {object}  dto.VariantStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/variants/{id}/stock [get]
func (h *VariantHandler) GetStock(c *fiber.Ctx) error {
	out, err := h.query.GetVariantCurrent(c.Context(), c.Params("id"))
	if err != nil {
		return mapQueryError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar variante (sin stock)
// @Tags         variants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "Variant ID"
// @Param        body  body  dto.UpdateVariantRequest  true  "campos de catálogo"
// @Success      200   {object}  dto.VariantResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/variants/{id} [put]
func (h *VariantHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateVariantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return mapQueryError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Baja lógica de una variante
// @Tags         variants
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Variant ID"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/variants/{id} [delete]
func (h *VariantHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Context(), c.Params("id")); err != nil {
		return mapQueryError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
