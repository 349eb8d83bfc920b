package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/jurko22/xml-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	products map[int64]models.Product
	sizes    map[models.VariantKey]models.ProductSize
	legacy   map[models.VariantKey]models.LegacyProduct

	productInserts int
	sizeInserts    int
	sizeUpdates    int
	legacyInserts  int
	legacyUpdates  int

	failSizeInsert map[models.VariantKey]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:       map[int64]models.Product{},
		sizes:          map[models.VariantKey]models.ProductSize{},
		legacy:         map[models.VariantKey]models.LegacyProduct{},
		failSizeInsert: map[models.VariantKey]bool{},
	}
}

func (f *fakeStore) ListProductIDs(ctx context.Context) (map[int64]struct{}, error) {
	ids := make(map[int64]struct{}, len(f.products))
	for id := range f.products {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (f *fakeStore) ListProductSizes(ctx context.Context) ([]models.ProductSize, error) {
	rows := make([]models.ProductSize, 0, len(f.sizes))
	for _, row := range f.sizes {
		rows = append(rows, row)
	}
	return rows, nil
}

func (f *fakeStore) InsertProduct(ctx context.Context, product *models.Product) error {
	f.productInserts++
	f.products[product.ID] = *product
	return nil
}

func (f *fakeStore) InsertProductSize(ctx context.Context, size *models.ProductSize) error {
	key := models.VariantKey{ProductID: size.ProductID, Size: size.Size}
	if f.failSizeInsert[key] {
		return errors.New("insert failed")
	}
	f.sizeInserts++
	stored := *size
	stored.OriginalPrice = decimal.NewNullDecimal(size.Price)
	f.sizes[key] = stored
	return nil
}

func (f *fakeStore) UpdateProductSize(ctx context.Context, key models.VariantKey, price decimal.Decimal, status string) error {
	f.sizeUpdates++
	row := f.sizes[key]
	row.Price = price
	row.Status = status
	f.sizes[key] = row
	return nil
}

func (f *fakeStore) ListLegacyProducts(ctx context.Context) ([]models.LegacyProduct, error) {
	rows := make([]models.LegacyProduct, 0, len(f.legacy))
	for _, row := range f.legacy {
		rows = append(rows, row)
	}
	return rows, nil
}

func (f *fakeStore) InsertLegacyProduct(ctx context.Context, p *models.LegacyProduct) error {
	f.legacyInserts++
	f.legacy[models.VariantKey{ProductID: p.ID, Size: p.Size}] = *p
	return nil
}

func (f *fakeStore) UpdateLegacyProduct(ctx context.Context, key models.VariantKey, price decimal.Decimal, status string) error {
	f.legacyUpdates++
	row := f.legacy[key]
	row.Price = price
	row.Status = status
	f.legacy[key] = row
	return nil
}

func feedVariant(productID int64, size, price, status string) models.FeedVariant {
	return models.FeedVariant{
		ProductID: productID,
		Name:      "Sneaker Shields",
		Size:      size,
		Price:     decimal.RequireFromString(price),
		Status:    status,
	}
}

func TestReconcileInsertsNewVariant(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store, Config{})

	summary, err := r.Reconcile(context.Background(),
		[]models.FeedVariant{feedVariant(10, "42", "29.9", models.StatusInStock)})
	require.NoError(t, err)

	assert.Equal(t, Summary{Inserted: 1}, summary)
	assert.Equal(t, 1, store.productInserts)
	assert.Equal(t, 1, store.sizeInserts)

	row, ok := store.sizes[models.VariantKey{ProductID: 10, Size: "42"}]
	require.True(t, ok)
	assert.True(t, row.Price.Equal(decimal.RequireFromString("29.9")))
	assert.Equal(t, models.StatusInStock, row.Status)

	product, ok := store.products[10]
	require.True(t, ok)
	assert.Equal(t, "Sneaker Shields", product.Name)
}

func TestReconcileIdempotent(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store, Config{})
	variants := []models.FeedVariant{
		feedVariant(10, "42", "29.9", models.StatusInStock),
		feedVariant(10, "43", "31.5", models.StatusInStockExpress),
	}

	first, err := r.Reconcile(context.Background(), variants)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Inserted)

	second, err := r.Reconcile(context.Background(), variants)
	require.NoError(t, err)

	assert.Equal(t, Summary{Unchanged: 2}, second)
	assert.Equal(t, 2, store.sizeInserts)
	assert.Zero(t, store.sizeUpdates)
}

func TestReconcileUpdatesChangedFieldsOnly(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store, Config{})

	_, err := r.Reconcile(context.Background(),
		[]models.FeedVariant{feedVariant(10, "42", "29.9", models.StatusInStock)})
	require.NoError(t, err)

	summary, err := r.Reconcile(context.Background(),
		[]models.FeedVariant{feedVariant(10, "42", "35.0", models.StatusUnknown)})
	require.NoError(t, err)

	assert.Equal(t, Summary{Updated: 1}, summary)
	assert.Equal(t, 1, store.productInserts, "product rows are immutable after first insert")

	row := store.sizes[models.VariantKey{ProductID: 10, Size: "42"}]
	assert.True(t, row.Price.Equal(decimal.RequireFromString("35.0")))
	assert.Equal(t, models.StatusUnknown, row.Status)
	require.True(t, row.OriginalPrice.Valid)
	assert.True(t, row.OriginalPrice.Decimal.Equal(decimal.RequireFromString("29.9")),
		"original price must survive updates")
}

func TestReconcileContinuesAfterRowFailure(t *testing.T) {
	store := newFakeStore()
	store.failSizeInsert[models.VariantKey{ProductID: 10, Size: "42"}] = true
	r := NewReconciler(store, Config{})

	summary, err := r.Reconcile(context.Background(), []models.FeedVariant{
		feedVariant(10, "42", "29.9", models.StatusInStock),
		feedVariant(10, "43", "31.5", models.StatusInStock),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Inserted)
	_, ok := store.sizes[models.VariantKey{ProductID: 10, Size: "43"}]
	assert.True(t, ok)
}

func TestReconcileSingleTable(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store, Config{SingleTable: true})
	variants := []models.FeedVariant{feedVariant(10, "42", "29.9", models.StatusInStock)}

	first, err := r.Reconcile(context.Background(), variants)
	require.NoError(t, err)
	assert.Equal(t, Summary{Inserted: 1}, first)
	assert.Zero(t, store.sizeInserts, "single-table mode must not touch product_sizes")

	second, err := r.Reconcile(context.Background(), variants)
	require.NoError(t, err)
	assert.Equal(t, Summary{Unchanged: 1}, second)

	third, err := r.Reconcile(context.Background(),
		[]models.FeedVariant{feedVariant(10, "42", "19.0", models.StatusInStock)})
	require.NoError(t, err)
	assert.Equal(t, Summary{Updated: 1}, third)
	assert.True(t, store.legacy[models.VariantKey{ProductID: 10, Size: "42"}].Price.
		Equal(decimal.RequireFromString("19.0")))
}
