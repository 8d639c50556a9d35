package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/backoffice-api/internal/application/inventory"
	"github.com/tu-usuario/backoffice-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Es la única
// vía por la que el motor de ajustes obtiene el mutador de stock: la escritura
// de cantidad y la inserción del movimiento comparten Commit o Rollback.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockWriter repository.VariantStockWriter,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewStockMovementRepository(tx)
	variantRepo := NewVariantRepository(tx)

	if err := fn(movRepo, variantRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
