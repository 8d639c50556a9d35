package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/backoffice-api/internal/application/dto"
	"github.com/tu-usuario/backoffice-api/internal/domain"
	"github.com/tu-usuario/backoffice-api/internal/domain/entity"
	domaininv "github.com/tu-usuario/backoffice-api/internal/domain/inventory"
	"github.com/tu-usuario/backoffice-api/internal/domain/repository"
)

// QueryUseCase vistas de solo lectura sobre variantes y el libro de
// movimientos: historial, feed global, detalle y reporte de stock bajo.
// Nunca muta nada; puede correr concurrente con ajustes sin coordinar locks.
type QueryUseCase struct {
	variantRepo repository.VariantRepository
	movRepo     repository.StockMovementRepository
	pdfGen      ReportPDFGenerator
	storeName   string
}

// NewQueryUseCase construye la capa de consultas. pdfGen puede ser nil si el
// export PDF no está habilitado.
func NewQueryUseCase(
	variantRepo repository.VariantRepository,
	movRepo repository.StockMovementRepository,
	pdfGen ReportPDFGenerator,
	storeName string,
) *QueryUseCase {
	return &QueryUseCase{variantRepo: variantRepo, movRepo: movRepo, pdfGen: pdfGen, storeName: storeName}
}

// GetVariantCurrent devuelve cantidad actual + SKU. La cantidad viva de la
// variante es la fuente de verdad, no el último movimiento.
func (uc *QueryUseCase) GetVariantCurrent(ctx context.Context, variantID string) (*dto.VariantStockResponse, error) {
	if variantID == "" {
		return nil, domain.ErrInvalidInput
	}
	v, err := uc.variantRepo.GetByID(variantID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.VariantStockResponse{
		VariantID:     v.ID,
		SKU:           v.SKU,
		StockQuantity: v.StockQuantity,
	}, nil
}

// GetHistory devuelve el historial de movimientos de una variante, más
// reciente primero.
func (uc *QueryUseCase) GetHistory(ctx context.Context, variantID string, page dto.PageRequest) (*dto.MovementHistoryResponse, error) {
	if variantID == "" {
		return nil, domain.ErrInvalidInput
	}
	v, err := uc.variantRepo.GetByID(variantID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	page.DefaultPage()
	movs, err := uc.movRepo.ListByVariant(variantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementHistoryResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// GetLatest devuelve el movimiento más reciente de la variante, o nil si el
// libro está vacío para ella. Es una vista de conveniencia para "estado al
// último movimiento conocido"; la cantidad actual sigue siendo la de la variante.
func (uc *QueryUseCase) GetLatest(ctx context.Context, variantID string) (*dto.MovementResponse, error) {
	if variantID == "" {
		return nil, domain.ErrInvalidInput
	}
	m, err := uc.movRepo.Latest(variantID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	resp := toMovementResponse(m)
	return &resp, nil
}

// GetMovementDetail devuelve un movimiento por su propio id. Lookup separado
// de GetVariantCurrent: un id de movimiento nunca se acepta donde se espera
// un id de variante ni al revés.
func (uc *QueryUseCase) GetMovementDetail(ctx context.Context, movementID string) (*dto.MovementResponse, error) {
	if movementID == "" {
		return nil, domain.ErrInvalidInput
	}
	m, err := uc.movRepo.GetByID(movementID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	resp := toMovementResponse(m)
	return &resp, nil
}

// ListFeed feed global paginado y filtrable, con estado de stock derivado del
// NewQuantity de cada movimiento (snapshot histórico, no la cantidad viva).
func (uc *QueryUseCase) ListFeed(ctx context.Context, filter repository.MovementFilter, page dto.PageRequest) (*dto.FeedResponse, error) {
	page.DefaultPage()
	rows, total, err := uc.movRepo.ListFeed(filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.FeedItemResponse, 0, len(rows))
	for _, r := range rows {
		threshold := domaininv.EffectiveThreshold(&entity.Variant{
			LowStockThreshold: r.LowStockThreshold,
			ReorderLevel:      r.ReorderLevel,
		})
		items = append(items, dto.FeedItemResponse{
			MovementResponse: toMovementResponse(&r.StockMovement),
			SKU:              r.SKU,
			VariantName:      r.VariantName,
			StockStatus:      string(domaininv.DeriveStatus(r.NewQuantity, threshold)),
		})
	}
	return &dto.FeedResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ListLowStock reporte de variantes en o por debajo de su umbral efectivo,
// con valorización (cantidad * precio).
func (uc *QueryUseCase) ListLowStock(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	variants, err := uc.variantRepo.ListLowStock(domaininv.DefaultLowStockThreshold)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItemDTO, 0, len(variants))
	for _, v := range variants {
		threshold := domaininv.EffectiveThreshold(v)
		items = append(items, dto.LowStockItemDTO{
			VariantID:          v.ID,
			SKU:                v.SKU,
			Name:               v.Name,
			StockQuantity:      v.StockQuantity,
			EffectiveThreshold: threshold,
			StockStatus:        string(domaininv.DeriveStatus(v.StockQuantity, threshold)),
			StockValue:         v.Price.Mul(decimal.NewFromInt(v.StockQuantity)),
		})
	}
	return items, nil
}

// LowStockPDF genera el reporte de stock bajo en PDF.
func (uc *QueryUseCase) LowStockPDF(ctx context.Context) ([]byte, error) {
	if uc.pdfGen == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.GenerateLowStockPDF(ctx, uc.storeName, items)
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                m.ID,
		VariantID:         m.VariantID,
		PreviousQuantity:  m.PreviousQuantity,
		NewQuantity:       m.NewQuantity,
		ChangeQuantity:    m.ChangeQuantity,
		IsStockIncreasing: m.IsStockIncreasing,
		MovementType:      m.MovementType,
		Reason:            m.Reason,
		ReferenceID:       m.ReferenceID,
		PerformedBy:       m.PerformedBy,
		CreatedAt:         m.CreatedAt,
	}
}
