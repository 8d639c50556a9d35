package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/backoffice-api/internal/application/dto"
	"github.com/tu-usuario/backoffice-api/internal/domain"
	"github.com/tu-usuario/backoffice-api/internal/domain/entity"
	"github.com/tu-usuario/backoffice-api/internal/domain/repository"
)

// VariantUseCase CRUD de variantes del catálogo. Nunca toca StockQuantity:
// las variantes nacen con stock 0 y de ahí en adelante solo el motor de
// ajustes la muta.
type VariantUseCase struct {
	variantRepo repository.VariantRepository
}

// NewVariantUseCase construye el caso de uso de catálogo.
func NewVariantUseCase(variantRepo repository.VariantRepository) *VariantUseCase {
	return &VariantUseCase{variantRepo: variantRepo}
}

// Create crea una variante con stock inicial 0. SKU duplicado -> ErrDuplicate.
func (uc *VariantUseCase) Create(ctx context.Context, in dto.CreateVariantRequest) (*dto.VariantResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) || in.LowStockThreshold < 0 || in.ReorderLevel < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	v := &entity.Variant{
		ID:                uuid.New().String(),
		SKU:               sku,
		Name:              name,
		Price:             in.Price,
		StockQuantity:     0,
		LowStockThreshold: in.LowStockThreshold,
		ReorderLevel:      in.ReorderLevel,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.variantRepo.Create(v); err != nil {
		return nil, err
	}
	resp := toVariantResponse(v)
	return &resp, nil
}

// GetByID obtiene una variante por id.
func (uc *VariantUseCase) GetByID(ctx context.Context, id string) (*dto.VariantResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	v, err := uc.variantRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	resp := toVariantResponse(v)
	return &resp, nil
}

// List lista variantes paginadas.
func (uc *VariantUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.VariantListResponse, error) {
	page.DefaultPage()
	variants, err := uc.variantRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VariantResponse, 0, len(variants))
	for _, v := range variants {
		items = append(items, toVariantResponse(v))
	}
	return &dto.VariantListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update actualiza campos de catálogo (nombre, precio, umbrales). El stock no
// es actualizable por esta vía.
func (uc *VariantUseCase) Update(ctx context.Context, id string, in dto.UpdateVariantRequest) (*dto.VariantResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	v, err := uc.variantRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		v.Name = name
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		v.Price = *in.Price
	}
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return nil, domain.ErrInvalidInput
		}
		v.LowStockThreshold = *in.LowStockThreshold
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		v.ReorderLevel = *in.ReorderLevel
	}
	v.UpdatedAt = time.Now()
	if err := uc.variantRepo.Update(v); err != nil {
		return nil, err
	}
	resp := toVariantResponse(v)
	return &resp, nil
}

// Deactivate baja lógica de la variante. La fila y sus movimientos persisten.
func (uc *VariantUseCase) Deactivate(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	v, err := uc.variantRepo.GetByID(id)
	if err != nil {
		return err
	}
	if v == nil {
		return domain.ErrNotFound
	}
	return uc.variantRepo.Deactivate(id, time.Now())
}

func toVariantResponse(v *entity.Variant) dto.VariantResponse {
	return dto.VariantResponse{
		ID:                v.ID,
		SKU:               v.SKU,
		Name:              v.Name,
		Price:             v.Price,
		StockQuantity:     v.StockQuantity,
		LowStockThreshold: v.LowStockThreshold,
		ReorderLevel:      v.ReorderLevel,
		IsActive:          v.IsActive,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}
