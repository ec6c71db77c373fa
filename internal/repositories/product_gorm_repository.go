package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"inventory/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// The *gorm.DB must be opened with TranslateError enabled so that unique
// constraint violations surface as gorm.ErrDuplicatedKey on every driver.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products, most recently updated first.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Order("updated_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product and assigns its ID.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSKU
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces every mutable field of the row with the given id.
// A map is used so zero values (quantity 0, empty supplier) are written;
// GORM refreshes updated_at on its own.
func (r *GORMProductRepository) Update(id uint, product *models.Product) error {
	res := r.db.Model(&models.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":      product.Name,
		"sku":       product.SKU,
		"category":  product.Category,
		"price":     product.Price,
		"quantity":  product.Quantity,
		"min_stock": product.MinStock,
		"supplier":  product.Supplier,
	})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSKU
		}
		return fmt.Errorf("failed to update product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a product by its ID. The model carries no soft-delete
// column, so this is a hard delete.
func (r *GORMProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of product rows.
func (r *GORMProductRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// TotalValue returns the sum of price*quantity over all rows, zero when
// the table is empty.
func (r *GORMProductRepository) TotalValue() (float64, error) {
	var total float64
	err := r.db.Model(&models.Product{}).
		Select("COALESCE(SUM(price * quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum inventory value: %w", err)
	}
	return total, nil
}

// CountLowStock counts rows with stock on hand at or below their reorder
// threshold, excluding rows that are out of stock entirely.
func (r *GORMProductRepository) CountLowStock() (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("quantity > 0 AND quantity <= min_stock").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count low stock products: %w", err)
	}
	return count, nil
}

// CountOutOfStock counts rows with zero stock on hand.
func (r *GORMProductRepository) CountOutOfStock() (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("quantity = 0").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count out of stock products: %w", err)
	}
	return count, nil
}
