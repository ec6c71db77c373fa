package repositories

import (
	"errors"

	"inventory/internal/models"
)

// Sentinel errors the repository reports back to the service layer. The
// repository never attaches business meaning; it only distinguishes a
// missing row, a SKU collision, and everything else (storage failure,
// surfaced wrapped).
var (
	ErrNotFound     = errors.New("product not found")
	ErrDuplicateSKU = errors.New("sku already exists")
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// GetAll returns every product ordered by updated_at descending.
	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	// Create inserts the product and assigns its ID.
	Create(product *models.Product) error
	// Update replaces every mutable field of the row with the given id.
	Update(id uint, product *models.Product) error
	Delete(id uint) error

	// Aggregate reads for the dashboard. Each reflects the persisted
	// state at the time of the call; there is no caching layer.
	Count() (int64, error)
	TotalValue() (float64, error)
	CountLowStock() (int64, error)
	CountOutOfStock() (int64, error)
}
