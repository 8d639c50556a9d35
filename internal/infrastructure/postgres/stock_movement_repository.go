package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/backoffice-api/internal/domain/entity"
	"github.com/tu-usuario/backoffice-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, seq, variant_id, previous_quantity, new_quantity, change_quantity, is_stock_increasing, movement_type, reason, reference_id, performed_by, created_at`

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// El libro es append-only: este adaptador no tiene UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento. seq lo asigna la base (BIGSERIAL) y se
// devuelve al entity: es el orden total del libro.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, variant_id, previous_quantity, new_quantity, change_quantity, is_stock_increasing, movement_type, reason, reference_id, performed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq`
	performedBy := (*string)(nil)
	if m.PerformedBy != "" {
		performedBy = &m.PerformedBy
	}
	err := r.q.QueryRow(context.Background(), query,
		m.ID, m.VariantID, m.PreviousQuantity, m.NewQuantity, m.ChangeQuantity,
		m.IsStockIncreasing, m.MovementType, m.Reason, m.ReferenceID,
		performedBy, m.CreatedAt,
	).Scan(&m.Seq)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	var m entity.StockMovement
	var performedBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.Seq, &m.VariantID, &m.PreviousQuantity, &m.NewQuantity, &m.ChangeQuantity,
		&m.IsStockIncreasing, &m.MovementType, &m.Reason, &m.ReferenceID, &performedBy, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if performedBy != nil {
		m.PerformedBy = *performedBy
	}
	return &m, nil
}

// ListByVariant historial de una variante, más reciente primero. Los
// retrofechados ordenan por created_at donde el caller los situó; seq desempata.
func (r *StockMovementRepo) ListByVariant(variantID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE variant_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, variantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list by variant: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// Latest devuelve el movimiento más reciente de la variante, o nil si no hay.
func (r *StockMovementRepo) Latest(variantID string) (*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE variant_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT 1`
	var m entity.StockMovement
	var performedBy *string
	err := r.q.QueryRow(context.Background(), query, variantID).Scan(
		&m.ID, &m.Seq, &m.VariantID, &m.PreviousQuantity, &m.NewQuantity, &m.ChangeQuantity,
		&m.IsStockIncreasing, &m.MovementType, &m.Reason, &m.ReferenceID, &performedBy, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest movement: %w", err)
	}
	if performedBy != nil {
		m.PerformedBy = *performedBy
	}
	return &m, nil
}

// ListBySeq movimientos de una variante en orden de inserción (seq ASC): el
// orden determinista para reconstruir la cantidad, inmune a retrofechados.
func (r *StockMovementRepo) ListBySeq(variantID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE variant_id = $1
		ORDER BY seq ASC`
	rows, err := r.q.Query(context.Background(), query, variantID)
	if err != nil {
		return nil, fmt.Errorf("list by seq: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListFeed feed global con filtros dinámicos, unido con la identidad de la
// variante. Devuelve además el total (para paginación) con los mismos filtros.
func (r *StockMovementRepo) ListFeed(f repository.MovementFilter, limit, offset int) ([]*repository.MovementWithVariant, int, error) {
	base := `
		FROM stock_movements m
		JOIN variants v ON v.id = m.variant_id
		WHERE 1=1`
	var args []any
	pos := 1
	if f.MovementType != "" {
		base += fmt.Sprintf(" AND m.movement_type = $%d", pos)
		args = append(args, f.MovementType)
		pos++
	}
	if f.From != nil {
		base += fmt.Sprintf(" AND m.created_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		base += fmt.Sprintf(" AND m.created_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	if f.Search != "" {
		base += fmt.Sprintf(" AND (v.sku ILIKE $%d OR v.name ILIKE $%d OR m.reason ILIKE $%d)", pos, pos, pos)
		args = append(args, "%"+f.Search+"%")
		pos++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), "SELECT count(*) "+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count feed: %w", err)
	}

	query := `
		SELECT m.id, m.seq, m.variant_id, m.previous_quantity, m.new_quantity, m.change_quantity,
		       m.is_stock_increasing, m.movement_type, m.reason, m.reference_id, m.performed_by, m.created_at,
		       v.sku, v.name, v.low_stock_threshold, v.reorder_level ` + base +
		fmt.Sprintf(" ORDER BY m.created_at DESC, m.seq DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list feed: %w", err)
	}
	defer rows.Close()

	var list []*repository.MovementWithVariant
	for rows.Next() {
		var row repository.MovementWithVariant
		var performedBy *string
		if err := rows.Scan(
			&row.ID, &row.Seq, &row.VariantID, &row.PreviousQuantity, &row.NewQuantity, &row.ChangeQuantity,
			&row.IsStockIncreasing, &row.MovementType, &row.Reason, &row.ReferenceID, &performedBy, &row.CreatedAt,
			&row.SKU, &row.VariantName, &row.LowStockThreshold, &row.ReorderLevel,
		); err != nil {
			return nil, 0, fmt.Errorf("scan feed row: %w", err)
		}
		if performedBy != nil {
			row.PerformedBy = *performedBy
		}
		list = append(list, &row)
	}
	return list, total, rows.Err()
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var performedBy *string
		if err := rows.Scan(
			&m.ID, &m.Seq, &m.VariantID, &m.PreviousQuantity, &m.NewQuantity, &m.ChangeQuantity,
			&m.IsStockIncreasing, &m.MovementType, &m.Reason, &m.ReferenceID, &performedBy, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if performedBy != nil {
			m.PerformedBy = *performedBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
