package entity

import "time"

// Tipos de movimiento más comunes. La taxonomía es abierta: cualquier string
// no vacío es aceptado, estos son solo los valores que usa el propio sistema.
const (
	MovementTypeManualAdjustment = "Manual Adjustment"
	MovementTypeSale             = "Sale"
	MovementTypeReturn           = "Return"
	MovementTypeReceipt          = "Receipt"
)

// StockMovement es un registro inmutable del libro de movimientos: un hecho
// sobre un cambio de stock (quién, cuándo, por qué, cuánto, antes/después).
// Una vez escrito nunca se edita ni se borra; una corrección es un movimiento
// nuevo en sentido contrario.
type StockMovement struct {
	ID                string
	Seq               int64  // orden total del libro (BIGSERIAL); CreatedAt puede venir retrofechado
	VariantID         string
	PreviousQuantity  int64
	NewQuantity       int64 // NewQuantity = PreviousQuantity + ChangeQuantity
	ChangeQuantity    int64 // con signo; el signo coincide con IsStockIncreasing
	IsStockIncreasing bool  // flag de intención explícito, redundante con el signo a propósito
	MovementType      string
	Reason            string
	ReferenceID       string // etiqueta de correlación, no única (ver ajuste de referencia)
	PerformedBy       string // UserID o el actor de sistema
	CreatedAt         time.Time
}
