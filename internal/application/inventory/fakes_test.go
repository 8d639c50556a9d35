package inventory_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tu-usuario/backoffice-api/internal/application/inventory"
	"github.com/tu-usuario/backoffice-api/internal/domain/entity"
	domaininv "github.com/tu-usuario/backoffice-api/internal/domain/inventory"
	"github.com/tu-usuario/backoffice-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: emulan PostgreSQL para los casos de uso.
//
// memStore es el estado compartido. fakeTxRunner serializa cada "transacción"
// con el mutex del store (equivalente al row lock de SELECT FOR UPDATE, con
// granularidad más gruesa) y hace rollback por snapshot si el callback falla,
// reproduciendo la semántica todo-o-nada del TxRunner real.
// ──────────────────────────────────────────────────────────────────────────────

var errStorageDown = errors.New("storage no disponible")

type memStore struct {
	mu        sync.Mutex
	variants  map[string]*entity.Variant
	movements []*entity.StockMovement
	seq       int64
}

func newMemStore() *memStore {
	return &memStore{variants: make(map[string]*entity.Variant)}
}

func (s *memStore) addVariant(v *entity.Variant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *v
	s.variants[v.ID] = &cp
}

// quantityOf lee la cantidad actual (para asserts).
func (s *memStore) quantityOf(id string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.variants[id]; ok {
		return v.StockQuantity
	}
	return -1
}

// movementCount número de filas del libro (para asserts).
func (s *memStore) movementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

// ── internos sin lock: solo llamar con s.mu tomado ───────────────────────────

func (s *memStore) getVariantLocked(id string) *entity.Variant {
	v, ok := s.variants[id]
	if !ok {
		return nil
	}
	cp := *v
	return &cp
}

func (s *memStore) insertMovementLocked(m *entity.StockMovement) {
	s.seq++
	cp := *m
	cp.Seq = s.seq
	s.movements = append(s.movements, &cp)
}

func (s *memStore) movementsOfLocked(variantID string) []*entity.StockMovement {
	var out []*entity.StockMovement
	for _, m := range s.movements {
		if m.VariantID == variantID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out
}

// ── fakeTxRunner ──────────────────────────────────────────────────────────────

type fakeTxRunner struct {
	store *memStore
	// failCreateMovement simula una caída del storage justo al insertar el
	// movimiento, después de haber escrito la cantidad: el rollback debe
	// dejar cero efectos observables.
	failCreateMovement bool
}

var _ inventory.TxRunner = (*fakeTxRunner)(nil)

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockWriter repository.VariantStockWriter,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Snapshot para rollback
	snapVariants := make(map[string]*entity.Variant, len(r.store.variants))
	for id, v := range r.store.variants {
		cp := *v
		snapVariants[id] = &cp
	}
	snapMovLen := len(r.store.movements)
	snapSeq := r.store.seq

	movRepo := &txMovementRepo{store: r.store, failCreate: r.failCreateMovement}
	writer := &txStockWriter{store: r.store}

	if err := fn(movRepo, writer); err != nil {
		r.store.variants = snapVariants
		r.store.movements = r.store.movements[:snapMovLen]
		r.store.seq = snapSeq
		return err
	}
	return nil
}

// ── txStockWriter: mutador atado a la "transacción" (sin lock propio) ────────

type txStockWriter struct {
	store *memStore
}

func (w *txStockWriter) GetForUpdate(id string) (*entity.Variant, error) {
	return w.store.getVariantLocked(id), nil
}

func (w *txStockWriter) UpdateQuantity(id string, quantity int64, at time.Time) error {
	v, ok := w.store.variants[id]
	if !ok {
		return errStorageDown
	}
	v.StockQuantity = quantity
	v.UpdatedAt = at
	return nil
}

// ── txMovementRepo: repo del libro atado a la "transacción" ──────────────────

type txMovementRepo struct {
	store      *memStore
	failCreate bool
}

func (r *txMovementRepo) Create(m *entity.StockMovement) error {
	if r.failCreate {
		return errStorageDown
	}
	r.store.insertMovementLocked(m)
	return nil
}

func (r *txMovementRepo) GetByID(string) (*entity.StockMovement, error) { return nil, nil }
func (r *txMovementRepo) ListByVariant(string, int, int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (r *txMovementRepo) Latest(string) (*entity.StockMovement, error)      { return nil, nil }
func (r *txMovementRepo) ListBySeq(string) ([]*entity.StockMovement, error) { return nil, nil }
func (r *txMovementRepo) ListFeed(repository.MovementFilter, int, int) ([]*repository.MovementWithVariant, int, error) {
	return nil, 0, nil
}

// ── fakeVariantRepo: puerto de catálogo/lectura (con lock) ────────────────────

type fakeVariantRepo struct {
	store *memStore
}

var _ repository.VariantRepository = (*fakeVariantRepo)(nil)

func (r *fakeVariantRepo) Create(v *entity.Variant) error {
	r.store.addVariant(v)
	return nil
}

func (r *fakeVariantRepo) GetByID(id string) (*entity.Variant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.getVariantLocked(id), nil
}

func (r *fakeVariantRepo) GetBySKU(sku string) (*entity.Variant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, v := range r.store.variants {
		if v.SKU == sku {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeVariantRepo) List(limit, offset int) ([]*entity.Variant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Variant
	for _, v := range r.store.variants {
		if v.IsActive {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return paginate(out, limit, offset), nil
}

func (r *fakeVariantRepo) ListLowStock(defaultThreshold int64) ([]*entity.Variant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Variant
	for _, v := range r.store.variants {
		if !v.IsActive {
			continue
		}
		if v.StockQuantity <= domaininv.EffectiveThreshold(v) {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StockQuantity != out[j].StockQuantity {
			return out[i].StockQuantity < out[j].StockQuantity
		}
		return out[i].SKU < out[j].SKU
	})
	return out, nil
}

func (r *fakeVariantRepo) Update(v *entity.Variant) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.variants[v.ID]
	if !ok {
		return errStorageDown
	}
	// El fake replica el contrato del adaptador real: stock_quantity no se toca.
	existing.Name = v.Name
	existing.Price = v.Price
	existing.LowStockThreshold = v.LowStockThreshold
	existing.ReorderLevel = v.ReorderLevel
	existing.UpdatedAt = v.UpdatedAt
	return nil
}

func (r *fakeVariantRepo) Deactivate(id string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	v, ok := r.store.variants[id]
	if !ok {
		return errStorageDown
	}
	v.IsActive = false
	v.UpdatedAt = at
	return nil
}

// ── fakeMovementRepo: lecturas del libro fuera de transacción (con lock) ─────

type fakeMovementRepo struct {
	store *memStore
}

var _ repository.StockMovementRepository = (*fakeMovementRepo)(nil)

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.insertMovementLocked(m)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, m := range r.store.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ListByVariant(variantID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := r.store.movementsOfLocked(variantID)
	sortRecentFirst(out)
	return paginate(out, limit, offset), nil
}

func (r *fakeMovementRepo) Latest(variantID string) (*entity.StockMovement, error) {
	list, err := r.ListByVariant(variantID, 1, 0)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

func (r *fakeMovementRepo) ListBySeq(variantID string) ([]*entity.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := r.store.movementsOfLocked(variantID)
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *fakeMovementRepo) ListFeed(f repository.MovementFilter, limit, offset int) ([]*repository.MovementWithVariant, int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var rows []*repository.MovementWithVariant
	for _, m := range r.store.movements {
		v := r.store.variants[m.VariantID]
		if v == nil {
			continue
		}
		if f.MovementType != "" && m.MovementType != f.MovementType {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(v.SKU), needle) &&
				!strings.Contains(strings.ToLower(v.Name), needle) &&
				!strings.Contains(strings.ToLower(m.Reason), needle) {
				continue
			}
		}
		cp := *m
		rows = append(rows, &repository.MovementWithVariant{
			StockMovement:     cp,
			SKU:               v.SKU,
			VariantName:       v.Name,
			LowStockThreshold: v.LowStockThreshold,
			ReorderLevel:      v.ReorderLevel,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].Seq > rows[j].Seq
	})
	total := len(rows)
	return paginate(rows, limit, offset), total, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func sortRecentFirst(list []*entity.StockMovement) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].Seq > list[j].Seq
	})
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
