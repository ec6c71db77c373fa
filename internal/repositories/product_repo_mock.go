package repositories

import (
	"sort"
	"sync"
	"time"

	"inventory/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It enforces the same contract as the GORM implementation — assigned ids,
// SKU uniqueness, recency ordering — so the service layer cannot tell them
// apart.
type MockProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// GetAll returns all products, most recently updated first.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool {
		if productList[i].UpdatedAt.Equal(productList[j].UpdatedAt) {
			return productList[i].ID > productList[j].ID
		}
		return productList[i].UpdatedAt.After(productList[j].UpdatedAt)
	})
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

// Create adds a new product, assigning its ID.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.SKU == product.SKU {
			return ErrDuplicateSKU
		}
	}

	product.ID = r.nextID
	r.nextID++
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

// Update replaces the mutable fields of an existing product.
func (r *MockProductRepository) Update(id uint, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[id]
	if !ok {
		return ErrNotFound
	}
	for _, p := range r.products {
		if p.ID != id && p.SKU == product.SKU {
			return ErrDuplicateSKU
		}
	}

	existing.Name = product.Name
	existing.SKU = product.SKU
	existing.Category = product.Category
	existing.Price = product.Price
	existing.Quantity = product.Quantity
	existing.MinStock = product.MinStock
	existing.Supplier = product.Supplier
	existing.UpdatedAt = time.Now()
	r.products[id] = existing
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// Count returns the number of stored products.
func (r *MockProductRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

// TotalValue returns the sum of price*quantity over all products.
func (r *MockProductRepository) TotalValue() (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total float64
	for _, p := range r.products {
		total += p.Price * float64(p.Quantity)
	}
	return total, nil
}

// CountLowStock counts products with 0 < quantity <= min_stock.
func (r *MockProductRepository) CountLowStock() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, p := range r.products {
		if p.Quantity > 0 && p.Quantity <= p.MinStock {
			count++
		}
	}
	return count, nil
}

// CountOutOfStock counts products with zero quantity.
func (r *MockProductRepository) CountOutOfStock() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, p := range r.products {
		if p.Quantity == 0 {
			count++
		}
	}
	return count, nil
}
