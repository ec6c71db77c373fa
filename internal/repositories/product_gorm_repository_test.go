package repositories_test

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"inventory/internal/models"
	"inventory/internal/repositories"
)

var dbSeq atomic.Int64

// setupRepo opens a fresh in-memory SQLite database per test. A uniquely
// named shared-cache DSN keeps GORM's connection pool on one database
// without leaking state between tests. TranslateError mirrors production
// so unique violations come back as gorm.ErrDuplicatedKey and map onto
// ErrDuplicateSKU.
func setupRepo(t *testing.T) *repositories.GORMProductRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to open in-memory database")
	require.NoError(t, db.AutoMigrate(&models.Product{}))

	return repositories.NewGORMProductRepository(db)
}

// sampleProducts is the canonical catalog used by the aggregate tests.
func sampleProducts() []models.Product {
	return []models.Product{
		{Name: "Wireless Headphones", SKU: "WH-001", Category: "Electronics", Price: 79.99, Quantity: 45, MinStock: 10, Supplier: "TechCorp"},
		{Name: "Cotton T-Shirt", SKU: "TS-002", Category: "Clothing", Price: 24.99, Quantity: 8, MinStock: 15, Supplier: "FashionHub"},
		{Name: "Smart Water Bottle", SKU: "WB-003", Category: "Lifestyle", Price: 34.99, Quantity: 0, MinStock: 5, Supplier: "LifeStyle Inc"},
		{Name: "Laptop Stand", SKU: "LS-004", Category: "Office", Price: 49.99, Quantity: 23, MinStock: 8, Supplier: "OfficeMax"},
		{Name: "Yoga Mat", SKU: "YM-005", Category: "Fitness", Price: 39.99, Quantity: 12, MinStock: 10, Supplier: "FitGear"},
	}
}

func TestGORMProductRepository_CreateAndGetByID(t *testing.T) {
	repo := setupRepo(t)

	product := models.Product{
		Name:     "Wireless Headphones",
		SKU:      "WH-001",
		Category: "Electronics",
		Price:    79.99,
		Quantity: 45,
		MinStock: 10,
		Supplier: "TechCorp",
	}

	require.NoError(t, repo.Create(&product))
	assert.NotZero(t, product.ID, "Create must assign an id")

	fetched, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wireless Headphones", fetched.Name)
	assert.Equal(t, "WH-001", fetched.SKU)
	assert.Equal(t, "Electronics", fetched.Category)
	assert.InDelta(t, 79.99, fetched.Price, 0.001)
	assert.Equal(t, 45, fetched.Quantity)
	assert.Equal(t, 10, fetched.MinStock)
	assert.Equal(t, "TechCorp", fetched.Supplier)
	assert.False(t, fetched.UpdatedAt.IsZero())
	assert.Equal(t, models.StatusInStock, fetched.StockStatus())
}

func TestGORMProductRepository_GetByID_NotFound(t *testing.T) {
	repo := setupRepo(t)

	product, err := repo.GetByID(99)

	assert.Nil(t, product)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMProductRepository_Create_DuplicateSKU(t *testing.T) {
	repo := setupRepo(t)

	first := models.Product{Name: "Wireless Headphones", SKU: "WH-001", Category: "Electronics", Price: 79.99, Quantity: 45}
	require.NoError(t, repo.Create(&first))

	second := models.Product{Name: "Other Headphones", SKU: "WH-001", Category: "Electronics", Price: 59.99, Quantity: 3}
	err := repo.Create(&second)

	assert.ErrorIs(t, err, repositories.ErrDuplicateSKU)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "failed create must not change the row count")
}

func TestGORMProductRepository_Create_SKUIsCaseSensitive(t *testing.T) {
	repo := setupRepo(t)

	first := models.Product{Name: "A", SKU: "WH-001", Category: "Electronics", Price: 1, Quantity: 1}
	require.NoError(t, repo.Create(&first))

	// Exact-match uniqueness only: a differently cased SKU is a new identity.
	second := models.Product{Name: "B", SKU: "wh-001", Category: "Electronics", Price: 1, Quantity: 1}
	assert.NoError(t, repo.Create(&second))
}

func TestGORMProductRepository_Update(t *testing.T) {
	repo := setupRepo(t)

	product := models.Product{Name: "Yoga Mat", SKU: "YM-005", Category: "Fitness", Price: 39.99, Quantity: 12, MinStock: 10, Supplier: "FitGear"}
	require.NoError(t, repo.Create(&product))

	created, err := repo.GetByID(product.ID)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	replacement := models.Product{
		Name:     "Premium Yoga Mat",
		SKU:      "YM-005",
		Category: "Fitness",
		Price:    44.99,
		Quantity: 0,
		MinStock: 10,
		Supplier: "FitGear",
	}
	require.NoError(t, repo.Update(product.ID, &replacement))

	fetched, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Premium Yoga Mat", fetched.Name)
	assert.InDelta(t, 44.99, fetched.Price, 0.001)
	assert.Equal(t, 0, fetched.Quantity, "zero values must be written on full replace")
	assert.True(t, fetched.UpdatedAt.After(created.UpdatedAt), "updated_at must be refreshed")
	assert.Equal(t, created.CreatedAt.Unix(), fetched.CreatedAt.Unix(), "created_at must not change")
}

// Re-submitting a record's own fields is a no-op except for updated_at,
// which must strictly increase.
func TestGORMProductRepository_Update_RoundTrip(t *testing.T) {
	repo := setupRepo(t)

	product := models.Product{Name: "Laptop Stand", SKU: "LS-004", Category: "Office", Price: 49.99, Quantity: 23, MinStock: 8, Supplier: "OfficeMax"}
	require.NoError(t, repo.Create(&product))

	before, err := repo.GetByID(product.ID)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Update(product.ID, before))

	after, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, before.SKU, after.SKU)
	assert.Equal(t, before.Category, after.Category)
	assert.InDelta(t, before.Price, after.Price, 0.001)
	assert.Equal(t, before.Quantity, after.Quantity)
	assert.Equal(t, before.MinStock, after.MinStock)
	assert.Equal(t, before.Supplier, after.Supplier)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestGORMProductRepository_Update_NotFound(t *testing.T) {
	repo := setupRepo(t)

	product := models.Product{Name: "Yoga Mat", SKU: "YM-005", Category: "Fitness", Price: 39.99, Quantity: 12}
	require.NoError(t, repo.Create(&product))

	all, err := repo.GetAll()
	require.NoError(t, err)

	ghost := models.Product{Name: "Ghost", SKU: "GH-000", Category: "None", Price: 1, Quantity: 1}
	assert.ErrorIs(t, repo.Update(99, &ghost), repositories.ErrNotFound)

	// The collection is unchanged in length and content.
	allAfter, err := repo.GetAll()
	require.NoError(t, err)
	assert.Equal(t, all, allAfter)
}

func TestGORMProductRepository_Update_DuplicateSKU(t *testing.T) {
	repo := setupRepo(t)

	first := models.Product{Name: "A", SKU: "WH-001", Category: "Electronics", Price: 1, Quantity: 1}
	second := models.Product{Name: "B", SKU: "TS-002", Category: "Clothing", Price: 1, Quantity: 1}
	require.NoError(t, repo.Create(&first))
	require.NoError(t, repo.Create(&second))

	// Colliding with a different row's SKU is a conflict.
	steal := models.Product{Name: "B", SKU: "WH-001", Category: "Clothing", Price: 1, Quantity: 1}
	assert.ErrorIs(t, repo.Update(second.ID, &steal), repositories.ErrDuplicateSKU)

	// Keeping your own SKU is not.
	keep := models.Product{Name: "B2", SKU: "TS-002", Category: "Clothing", Price: 2, Quantity: 2}
	assert.NoError(t, repo.Update(second.ID, &keep))
}

func TestGORMProductRepository_Delete_Twice(t *testing.T) {
	repo := setupRepo(t)

	product := models.Product{Name: "Yoga Mat", SKU: "YM-005", Category: "Fitness", Price: 39.99, Quantity: 12}
	require.NoError(t, repo.Create(&product))

	assert.NoError(t, repo.Delete(product.ID))
	assert.ErrorIs(t, repo.Delete(product.ID), repositories.ErrNotFound)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGORMProductRepository_GetAll_OrderedByRecency(t *testing.T) {
	repo := setupRepo(t)

	for i := range sampleProducts() {
		p := sampleProducts()[i]
		require.NoError(t, repo.Create(&p))
		time.Sleep(5 * time.Millisecond)
	}

	products, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, products, 5)
	assert.Equal(t, "YM-005", products[0].SKU, "most recently written row comes first")

	// Touching the oldest row moves it to the front.
	time.Sleep(5 * time.Millisecond)
	oldest := products[4]
	require.NoError(t, repo.Update(oldest.ID, &oldest))

	products, err = repo.GetAll()
	require.NoError(t, err)
	assert.Equal(t, oldest.ID, products[0].ID)
}

func TestGORMProductRepository_Aggregates_Empty(t *testing.T) {
	repo := setupRepo(t)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	total, err := repo.TotalValue()
	require.NoError(t, err)
	assert.Zero(t, total, "empty table must sum to zero, not NULL")

	low, err := repo.CountLowStock()
	require.NoError(t, err)
	assert.Zero(t, low)

	out, err := repo.CountOutOfStock()
	require.NoError(t, err)
	assert.Zero(t, out)
}

func TestGORMProductRepository_Aggregates_SampleCatalog(t *testing.T) {
	repo := setupRepo(t)

	var expectedValue float64
	for i := range sampleProducts() {
		p := sampleProducts()[i]
		expectedValue += p.Price * float64(p.Quantity)
		require.NoError(t, repo.Create(&p))
	}

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	total, err := repo.TotalValue()
	require.NoError(t, err)
	assert.InDelta(t, expectedValue, total, 0.01)

	// Only the T-shirt row (quantity 8, threshold 15) is low; the
	// zero-quantity bottle counts as out of stock, not low.
	low, err := repo.CountLowStock()
	require.NoError(t, err)
	assert.Equal(t, int64(1), low)

	out, err := repo.CountOutOfStock()
	require.NoError(t, err)
	assert.Equal(t, int64(1), out)
}

// The mock repository must honor the same contract as the GORM one; run
// the shared behaviors against it too.
func TestMockProductRepository_Contract(t *testing.T) {
	repo := repositories.NewMockProductRepository()

	first := models.Product{Name: "A", SKU: "WH-001", Category: "Electronics", Price: 10, Quantity: 0, MinStock: 5}
	require.NoError(t, repo.Create(&first))
	assert.NotZero(t, first.ID)

	dup := models.Product{Name: "B", SKU: "WH-001", Category: "Electronics", Price: 10, Quantity: 1}
	assert.ErrorIs(t, repo.Create(&dup), repositories.ErrDuplicateSKU)

	second := models.Product{Name: "B", SKU: "TS-002", Category: "Clothing", Price: 5, Quantity: 2, MinStock: 2}
	require.NoError(t, repo.Create(&second))

	steal := second
	steal.SKU = "WH-001"
	assert.ErrorIs(t, repo.Update(second.ID, &steal), repositories.ErrDuplicateSKU)

	assert.ErrorIs(t, repo.Update(99, &second), repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(99), repositories.ErrNotFound)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	total, err := repo.TotalValue()
	require.NoError(t, err)
	assert.InDelta(t, 10.0, total, 0.001)

	low, err := repo.CountLowStock()
	require.NoError(t, err)
	assert.Equal(t, int64(1), low)

	out, err := repo.CountOutOfStock()
	require.NoError(t, err)
	assert.Equal(t, int64(1), out)
}
