package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/backoffice-api/internal/application/dto"
	"github.com/tu-usuario/backoffice-api/internal/application/inventory"
	"github.com/tu-usuario/backoffice-api/internal/domain"
	"github.com/tu-usuario/backoffice-api/internal/domain/entity"
	domaininv "github.com/tu-usuario/backoffice-api/internal/domain/inventory"
	"github.com/tu-usuario/backoffice-api/internal/domain/repository"
)

func newQueryFixture(store *memStore) *inventory.QueryUseCase {
	return inventory.NewQueryUseCase(
		&fakeVariantRepo{store: store},
		&fakeMovementRepo{store: store},
		nil,
		"Tienda de Prueba",
	)
}

func seedMovement(store *memStore, id, variantID string, prev, change int64, createdAt time.Time) {
	repo := &fakeMovementRepo{store: store}
	_ = repo.Create(&entity.StockMovement{
		ID:                id,
		VariantID:         variantID,
		PreviousQuantity:  prev,
		NewQuantity:       prev + change,
		ChangeQuantity:    change,
		IsStockIncreasing: change > 0,
		MovementType:      entity.MovementTypeManualAdjustment,
		Reason:            "seed",
		ReferenceID:       "ADJ-" + id,
		PerformedBy:       "system",
		CreatedAt:         createdAt,
	})
}

func TestGetVariantCurrent(t *testing.T) {
	store := newMemStore()
	store.addVariant(newTestVariant("var-1", 7))
	uc := newQueryFixture(store)

	res, err := uc.GetVariantCurrent(context.Background(), "var-1")

	require.NoError(t, err)
	assert.Equal(t, "var-1", res.VariantID)
	assert.Equal(t, "SKU-var-1", res.SKU)
	assert.Equal(t, int64(7), res.StockQuantity)
}

func TestGetVariantCurrent_NoExiste(t *testing.T) {
	uc := newQueryFixture(newMemStore())

	res, err := uc.GetVariantCurrent(context.Background(), "fantasma")

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, res)
}

// El historial sale más reciente primero; con CreatedAt empatado (o
// retrofechado) desempata el orden de inserción.
func TestGetHistory_OrdenMasRecientePrimero(t *testing.T) {
	store := newMemStore()
	store.addVariant(newTestVariant("var-1", 10))
	base := time.Now().Truncate(time.Second)
	seedMovement(store, "m1", "var-1", 0, 5, base.Add(-2*time.Hour))
	seedMovement(store, "m2", "var-1", 5, 3, base.Add(-1*time.Hour))
	// Retrofechado: insertado al final pero con fecha más vieja que todos.
	seedMovement(store, "m3", "var-1", 8, 2, base.Add(-3*time.Hour))
	uc := newQueryFixture(store)

	res, err := uc.GetHistory(context.Background(), "var-1", dto.PageRequest{})

	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	assert.Equal(t, "m2", res.Items[0].ID)
	assert.Equal(t, "m1", res.Items[1].ID)
	assert.Equal(t, "m3", res.Items[2].ID)
}

func TestGetHistory_Paginado(t *testing.T) {
	store := newMemStore()
	store.addVariant(newTestVariant("var-1", 10))
	base := time.Now().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		seedMovement(store, "m"+string(rune('a'+i)), "var-1", int64(i), 1, base.Add(time.Duration(i)*time.Minute))
	}
	uc := newQueryFixture(store)

	res, err := uc.GetHistory(context.Background(), "var-1", dto.PageRequest{Limit: 2, Offset: 2})

	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, 2, res.Page.Limit)
	assert.Equal(t, 2, res.Page.Offset)
	// Más reciente primero: me, md | mc, mb | ma
	assert.Equal(t, "mc", res.Items[0].ID)
	assert.Equal(t, "mb", res.Items[1].ID)
}

func TestGetHistory_VarianteInexistente(t *testing.T) {
	uc := newQueryFixture(newMemStore())

	res, err := uc.GetHistory(context.Background(), "fantasma", dto.PageRequest{})

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, res)
}

// Variante sin movimientos: GetLatest devuelve nil sin error, no es un 404.
func TestGetLatest_SinMovimientos(t *testing.T) {
	store := newMemStore()
	store.addVariant(newTestVariant("var-1", 0))
	uc := newQueryFixture(store)

	res, err := uc.GetLatest(context.Background(), "var-1")

	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestGetLatest(t *testing.T) {
	store := newMemStore()
	store.addVariant(newTestVariant("var-1", 8))
	base := time.Now().Truncate(time.Second)
	seedMovement(store, "m1", "var-1", 0, 5, base.Add(-time.Hour))
	seedMovement(store, "m2", "var-1", 5, 3, base)
	uc := newQueryFixture(store)

	res, err := uc.GetLatest(context.Background(), "var-1")

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "m2", res.ID)
	assert.Equal(t, int64(8), res.NewQuantity)
}

func TestGetMovementDetail(t *testing.T) {
	store := newMemStore()
	store.addVariant(newTestVariant("var-1", 5))
	seedMovement(store, "m1", "var-1", 0, 5, time.Now())
	uc := newQueryFixture(store)

	res, err := uc.GetMovementDetail(context.Background(), "m1")

	require.NoError(t, err)
	assert.Equal(t, "m1", res.ID)
	assert.Equal(t, "var-1", res.VariantID)
	assert.Equal(t, "ADJ-m1", res.ReferenceID)
}

// Un id de variante no se acepta donde va un id de movimiento.
func TestGetMovementDetail_IDDeVarianteNoSirve(t *testing.T) {
	store := newMemStore()
	store.addVariant(newTestVariant("var-1", 5))
	seedMovement(store, "m1", "var-1", 0, 5, time.Now())
	uc := newQueryFixture(store)

	res, err := uc.GetMovementDetail(context.Background(), "var-1")

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, res)
}

// El estado de stock de cada fila del feed es el snapshot histórico
// (NewQuantity del movimiento contra el umbral efectivo), no la cantidad viva.
func TestListFeed_EstadoHistoricoPorFila(t *testing.T) {
	store := newMemStore()
	v := newTestVariant("var-1", 50)
	v.LowStockThreshold = 5
	store.addVariant(v)
	base := time.Now().Truncate(time.Second)
	seedMovement(store, "m1", "var-1", 3, -3, base.Add(-2*time.Hour)) // quedó en 0
	seedMovement(store, "m2", "var-1", 0, 4, base.Add(-1*time.Hour))  // quedó en 4 (<= 5)
	seedMovement(store, "m3", "var-1", 4, 46, base)                   // quedó en 50
	uc := newQueryFixture(store)

	res, err := uc.ListFeed(context.Background(), repository.MovementFilter{}, dto.PageRequest{})

	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	// Más reciente primero.
	assert.Equal(t, string(domaininv.StatusGood), res.Items[0].StockStatus)
	assert.Equal(t, string(domaininv.StatusLowStock), res.Items[1].StockStatus)
	assert.Equal(t, string(domaininv.StatusOutOfStock), res.Items[2].StockStatus)
	assert.Equal(t, "SKU-var-1", res.Items[0].SKU)
	assert.Equal(t, 3, res.Page.Total)
}

func TestListFeed_Filtros(t *testing.T) {
	store := newMemStore()
	store.addVariant(newTestVariant("var-1", 10))
	base := time.Now().Truncate(time.Second)
	seedMovement(store, "m1", "var-1", 0, 5, base.Add(-3*time.Hour))
	seedMovement(store, "m2", "var-1", 5, 5, base.Add(-1*time.Hour))
	repo := &fakeMovementRepo{store: store}
	_ = repo.Create(&entity.StockMovement{
		ID: "m3", VariantID: "var-1",
		PreviousQuantity: 10, NewQuantity: 8, ChangeQuantity: -2,
		MovementType: entity.MovementTypeSale,
		Reason:       "venta mostrador", ReferenceID: "V-1", PerformedBy: "u1",
		CreatedAt: base,
	})
	uc := newQueryFixture(store)

	t.Run("por tipo de movimiento", func(t *testing.T) {
		res, err := uc.ListFeed(context.Background(), repository.MovementFilter{
			MovementType: entity.MovementTypeSale,
		}, dto.PageRequest{})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "m3", res.Items[0].ID)
	})

	t.Run("por rango de fechas", func(t *testing.T) {
		from := base.Add(-2 * time.Hour)
		to := base.Add(-30 * time.Minute)
		res, err := uc.ListFeed(context.Background(), repository.MovementFilter{
			From: &from, To: &to,
		}, dto.PageRequest{})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "m2", res.Items[0].ID)
	})

	t.Run("por texto sobre reason", func(t *testing.T) {
		res, err := uc.ListFeed(context.Background(), repository.MovementFilter{
			Search: "MOSTRADOR",
		}, dto.PageRequest{})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "m3", res.Items[0].ID)
	})
}

// El reporte de stock bajo usa el umbral efectivo de cada variante y valoriza
// cantidad * precio.
func TestListLowStock(t *testing.T) {
	store := newMemStore()

	low := newTestVariant("v-low", 4)
	low.LowStockThreshold = 5
	low.Price = decimal.NewFromFloat(10.50)
	store.addVariant(low)

	legacy := newTestVariant("v-legacy", 8)
	legacy.ReorderLevel = 9 // sin LowStockThreshold, manda el campo legado
	store.addVariant(legacy)

	healthy := newTestVariant("v-ok", 100)
	healthy.LowStockThreshold = 5
	store.addVariant(healthy)

	empty := newTestVariant("v-out", 0)
	store.addVariant(empty)

	inactive := newTestVariant("v-inactiva", 0)
	inactive.IsActive = false
	store.addVariant(inactive)

	uc := newQueryFixture(store)

	items, err := uc.ListLowStock(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 3)

	byID := make(map[string]dto.LowStockItemDTO, len(items))
	for _, it := range items {
		byID[it.VariantID] = it
	}

	require.Contains(t, byID, "v-low")
	assert.Equal(t, int64(5), byID["v-low"].EffectiveThreshold)
	assert.Equal(t, string(domaininv.StatusLowStock), byID["v-low"].StockStatus)
	assert.True(t, byID["v-low"].StockValue.Equal(decimal.NewFromFloat(42.00)),
		"valorización = 4 * 10.50, obtuve %s", byID["v-low"].StockValue)

	require.Contains(t, byID, "v-legacy")
	assert.Equal(t, int64(9), byID["v-legacy"].EffectiveThreshold)

	require.Contains(t, byID, "v-out")
	assert.Equal(t, string(domaininv.StatusOutOfStock), byID["v-out"].StockStatus)

	assert.NotContains(t, byID, "v-ok")
	assert.NotContains(t, byID, "v-inactiva")
}

// Sin generador configurado el export PDF no está disponible.
func TestLowStockPDF_SinGenerador(t *testing.T) {
	uc := newQueryFixture(newMemStore())

	pdf, err := uc.LowStockPDF(context.Background())

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, pdf)
}
