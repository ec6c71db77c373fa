package models

import "time"

// Stock status labels as the consuming UI displays them.
const (
	StatusInStock    = "In Stock"
	StatusLowStock   = "Low Stock"
	StatusOutOfStock = "Out of Stock"
)

// Product represents a single inventory record. The SKU is the external
// identity and is unique across the whole table; status is never stored,
// it is always derived from quantity and min_stock.
type Product struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	SKU       string    `json:"sku" gorm:"column:sku;type:varchar(100);uniqueIndex;not null"`
	Category  string    `json:"category" gorm:"type:varchar(100);not null"`
	Price     float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity  int       `json:"quantity" gorm:"not null;default:0"`
	MinStock  int       `json:"minStock" gorm:"column:min_stock;not null;default:0"`
	Supplier  string    `json:"supplier" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"lastUpdated"`
}

// StockStatus classifies the record's stock level. Out of stock wins over
// low stock, so a zero-quantity row is never reported as low.
func (p *Product) StockStatus() string {
	switch {
	case p.Quantity == 0:
		return StatusOutOfStock
	case p.Quantity <= p.MinStock:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// ProductInput is the validated payload for create and update operations.
// Numeric fields are pointers so that an absent field can be told apart
// from an explicit zero (price 0.00 and quantity 0 are both legal values).
type ProductInput struct {
	Name     string   `json:"name" validate:"required"`
	SKU      string   `json:"sku" validate:"required"`
	Category string   `json:"category" validate:"required"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Quantity *int     `json:"quantity" validate:"required,gte=0"`
	MinStock *int     `json:"minStock" validate:"omitempty,gte=0"`
	Supplier *string  `json:"supplier"`
}

// ProductResponse is the list-view shape: the stored fields plus the
// derived status.
type ProductResponse struct {
	Product
	Status string `json:"status"`
}

// NewProductResponse derives the status for a stored record.
func NewProductResponse(p Product) ProductResponse {
	return ProductResponse{Product: p, Status: p.StockStatus()}
}

// DashboardStats holds the collection-wide counters shown on the dashboard.
// TotalValue is the sum of price*quantity over all rows, zero for an empty
// table.
type DashboardStats struct {
	TotalProducts   int64   `json:"totalProducts"`
	TotalValue      float64 `json:"totalValue"`
	LowStockItems   int64   `json:"lowStockItems"`
	OutOfStockItems int64   `json:"outOfStockItems"`
}
