package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/backoffice-api/internal/domain"
	"github.com/tu-usuario/backoffice-api/internal/domain/entity"
	"github.com/tu-usuario/backoffice-api/internal/domain/repository"
	"github.com/tu-usuario/backoffice-api/pkg/refid"
)

// AdjustStockUseCase aplica un delta con signo sobre exactamente una variante,
// de forma transaccional: lee la cantidad actual con bloqueo de fila
// (SELECT FOR UPDATE), rechaza transiciones a negativo, escribe la nueva
// cantidad y agrega el movimiento al libro — todo o nada.
type AdjustStockUseCase struct {
	txRunner    TxRunner
	variantRepo repository.VariantRepository
	systemActor string
}

// NewAdjustStockUseCase construye el motor de ajustes. systemActor es el
// sentinela usado como PerformedBy cuando no hay usuario autenticado.
func NewAdjustStockUseCase(txRunner TxRunner, variantRepo repository.VariantRepository, systemActor string) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		txRunner:    txRunner,
		variantRepo: variantRepo,
		systemActor: systemActor,
	}
}

// AdjustmentInput entrada para un ajuste de stock.
// QuantityChange es magnitud (el valor absoluto se usa); IsStockIncreasing
// fija la dirección. La redundancia es intencional: la intención queda
// inequívoca aunque el caller pase la magnitud con signo implícito.
type AdjustmentInput struct {
	VariantID         string
	QuantityChange    int64
	IsStockIncreasing bool
	MovementType      string     // vacío = "Manual Adjustment"
	Reason            string     // obligatorio, no vacío tras trim
	ReferenceID       string     // vacío = autogenerado ADJ-<epochms>-<rand4>
	BackdatedAt       *time.Time // permite retrofechar correcciones; no se rechaza
	PerformedBy       string     // vacío = actor de sistema
}

// AdjustmentResult resultado de un ajuste aplicado.
type AdjustmentResult struct {
	PreviousQuantity int64
	NewQuantity      int64
	ChangeQuantity   int64
	MovementID       string
	ReferenceID      string
}

// AdjustStock valida la entrada, resuelve defaults y ejecuta el paso atómico.
//
// Toda la validación ocurre antes de cualquier escritura; dentro de la
// transacción solo pueden fallar ErrNotFound (variante borrada entre la
// verificación y el lock), ErrInsufficientStock o el propio storage, y en los
// tres casos el rollback deja cero efectos observables.
func (uc *AdjustStockUseCase) AdjustStock(ctx context.Context, input AdjustmentInput) (*AdjustmentResult, error) {
	if input.VariantID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.QuantityChange == 0 {
		return nil, domain.ErrInvalidInput
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	movementType := strings.TrimSpace(input.MovementType)
	if movementType == "" {
		movementType = entity.MovementTypeManualAdjustment
	}

	// Verificar existencia antes de abrir la transacción (falla rápida).
	variant, err := uc.variantRepo.GetByID(input.VariantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, domain.ErrNotFound
	}

	magnitude := input.QuantityChange
	if magnitude < 0 {
		magnitude = -magnitude
	}
	effectiveDelta := magnitude
	if !input.IsStockIncreasing {
		effectiveDelta = -magnitude
	}

	referenceID := strings.TrimSpace(input.ReferenceID)
	if referenceID == "" {
		referenceID = refid.New()
	}
	performedBy := input.PerformedBy
	if performedBy == "" {
		performedBy = uc.systemActor
	}
	now := time.Now()
	createdAt := now
	if input.BackdatedAt != nil {
		createdAt = *input.BackdatedAt
	}

	var result *AdjustmentResult
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockWriter repository.VariantStockWriter,
	) error {
		// Bloquea la fila de la variante: ajustes concurrentes sobre la misma
		// variante quedan serializados por el lock.
		locked, err := stockWriter.GetForUpdate(input.VariantID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}

		previous := locked.StockQuantity
		next := previous + effectiveDelta
		if next < 0 {
			// El stock nunca se conduce a negativo: se aborta la transacción
			// completa, sin actualizar la variante ni tocar el libro.
			return domain.ErrInsufficientStock
		}

		if err := stockWriter.UpdateQuantity(input.VariantID, next, now); err != nil {
			return err
		}

		mov := &entity.StockMovement{
			ID:                uuid.New().String(),
			VariantID:         input.VariantID,
			PreviousQuantity:  previous,
			NewQuantity:       next,
			ChangeQuantity:    effectiveDelta,
			IsStockIncreasing: input.IsStockIncreasing,
			MovementType:      movementType,
			Reason:            reason,
			ReferenceID:       referenceID,
			PerformedBy:       performedBy,
			CreatedAt:         createdAt,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}

		result = &AdjustmentResult{
			PreviousQuantity: previous,
			NewQuantity:      next,
			ChangeQuantity:   effectiveDelta,
			MovementID:       mov.ID,
			ReferenceID:      referenceID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
