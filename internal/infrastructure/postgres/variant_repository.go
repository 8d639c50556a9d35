package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/backoffice-api/internal/domain"
	"github.com/tu-usuario/backoffice-api/internal/domain/entity"
	"github.com/tu-usuario/backoffice-api/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)
var _ repository.VariantStockWriter = (*VariantRepo)(nil)

const variantColumns = `id, sku, name, price, stock_quantity, low_stock_threshold, reorder_level, is_active, created_at, updated_at`

// VariantRepo implementación de VariantRepository y VariantStockWriter sobre
// PostgreSQL (usable con pool o tx). El mutador de stock (GetForUpdate +
// UpdateQuantity) solo tiene sentido dentro de una tx del TxRunner.
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador de variantes. Pasar pool o tx (Querier).
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

// Create persiste una variante nueva. SKU duplicado -> domain.ErrDuplicate.
func (r *VariantRepo) Create(v *entity.Variant) error {
	query := `
		INSERT INTO variants (id, sku, name, price, stock_quantity, low_stock_threshold, reorder_level, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.SKU, v.Name, v.Price, v.StockQuantity,
		v.LowStockThreshold, v.ReorderLevel, v.IsActive, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

// GetByID obtiene una variante por ID.
func (r *VariantRepo) GetByID(id string) (*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get variant")
}

// GetBySKU obtiene una variante por SKU.
func (r *VariantRepo) GetBySKU(sku string) (*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants WHERE sku = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, sku), "get variant by sku")
}

// List lista variantes activas paginadas.
func (r *VariantRepo) List(limit, offset int) ([]*entity.Variant, error) {
	query := `
		SELECT ` + variantColumns + `
		FROM variants WHERE is_active
		ORDER BY sku LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListLowStock lista variantes activas en o por debajo de su umbral efectivo.
// La precedencia del umbral (low_stock_threshold > reorder_level > default)
// se replica en SQL; espeja inventory.EffectiveThreshold.
func (r *VariantRepo) ListLowStock(defaultThreshold int64) ([]*entity.Variant, error) {
	query := `
		SELECT ` + variantColumns + `
		FROM variants
		WHERE is_active
		  AND stock_quantity <= CASE
			WHEN low_stock_threshold > 0 THEN low_stock_threshold
			WHEN reorder_level > 0 THEN reorder_level
			ELSE $1
		  END
		ORDER BY stock_quantity ASC, sku`
	rows, err := r.q.Query(context.Background(), query, defaultThreshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// Update actualiza campos de catálogo. stock_quantity se excluye a propósito:
// solo UpdateQuantity (dentro de la tx del motor de ajustes) lo escribe.
func (r *VariantRepo) Update(v *entity.Variant) error {
	query := `
		UPDATE variants
		SET name = $2, price = $3, low_stock_threshold = $4, reorder_level = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.Name, v.Price, v.LowStockThreshold, v.ReorderLevel, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update variant: %w", err)
	}
	return nil
}

// Deactivate baja lógica: la fila queda para resolver movimientos históricos.
func (r *VariantRepo) Deactivate(id string, at time.Time) error {
	query := `UPDATE variants SET is_active = false, updated_at = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, at)
	if err != nil {
		return fmt.Errorf("deactivate variant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetForUpdate lee la variante bloqueando la fila (SELECT ... FOR UPDATE).
// Dos ajustes concurrentes sobre la misma variante se serializan aquí: el
// segundo espera el lock y lee la cantidad ya confirmada por el primero.
func (r *VariantRepo) GetForUpdate(id string) (*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get variant for update")
}

// UpdateQuantity escribe la nueva cantidad. Caller (el motor de ajustes, con
// la fila ya bloqueada) garantiza quantity >= 0.
func (r *VariantRepo) UpdateQuantity(id string, quantity int64, at time.Time) error {
	query := `UPDATE variants SET stock_quantity = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, quantity, at)
	if err != nil {
		return fmt.Errorf("update variant quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *VariantRepo) scanOne(row pgx.Row, op string) (*entity.Variant, error) {
	var v entity.Variant
	err := row.Scan(
		&v.ID, &v.SKU, &v.Name, &v.Price, &v.StockQuantity,
		&v.LowStockThreshold, &v.ReorderLevel, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &v, nil
}

func (r *VariantRepo) scanMany(rows pgx.Rows) ([]*entity.Variant, error) {
	var list []*entity.Variant
	for rows.Next() {
		var v entity.Variant
		if err := rows.Scan(
			&v.ID, &v.SKU, &v.Name, &v.Price, &v.StockQuantity,
			&v.LowStockThreshold, &v.ReorderLevel, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
