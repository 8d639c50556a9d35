package inventory

import (
	"context"

	"github.com/tu-usuario/backoffice-api/internal/application/dto"
	"github.com/tu-usuario/backoffice-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de ajustes:
// la actualización de la variante y la inserción del movimiento se confirman
// juntas o no se confirma ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		stockWriter repository.VariantStockWriter,
	) error) error
}

// ReportPDFGenerator genera la representación PDF del reporte de stock bajo.
type ReportPDFGenerator interface {
	GenerateLowStockPDF(ctx context.Context, storeName string, items []dto.LowStockItemDTO) ([]byte, error)
}
