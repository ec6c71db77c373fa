package models_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"inventory/internal/models"
)

func TestProduct_StockStatus(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		minStock int
		expected string
	}{
		{"zero quantity is out of stock", 0, 10, models.StatusOutOfStock},
		{"zero quantity with zero threshold is out of stock", 0, 0, models.StatusOutOfStock},
		{"quantity below threshold is low stock", 3, 10, models.StatusLowStock},
		{"quantity equal to threshold is low stock", 10, 10, models.StatusLowStock},
		{"quantity just above threshold is in stock", 11, 10, models.StatusInStock},
		{"positive quantity with zero threshold is in stock", 1, 0, models.StatusInStock},
		{"large quantity is in stock", 500, 10, models.StatusInStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.Product{Quantity: tt.quantity, MinStock: tt.minStock}
			assert.Equal(t, tt.expected, p.StockStatus())
		})
	}
}

// Sweep a grid of quantity/minStock pairs and check the classification
// formula holds everywhere, including the q == m boundary.
func TestProduct_StockStatus_Formula(t *testing.T) {
	for quantity := 0; quantity <= 20; quantity++ {
		for minStock := 0; minStock <= 20; minStock++ {
			p := models.Product{Quantity: quantity, MinStock: minStock}

			var expected string
			switch {
			case quantity == 0:
				expected = models.StatusOutOfStock
			case quantity <= minStock:
				expected = models.StatusLowStock
			default:
				expected = models.StatusInStock
			}

			assert.Equal(t, expected, p.StockStatus(),
				fmt.Sprintf("quantity=%d minStock=%d", quantity, minStock))
		}
	}
}

func TestNewProductResponse(t *testing.T) {
	p := models.Product{ID: 7, Name: "Yoga Mat", SKU: "YM-005", Quantity: 8, MinStock: 10}

	resp := models.NewProductResponse(p)

	assert.Equal(t, p, resp.Product)
	assert.Equal(t, models.StatusLowStock, resp.Status)
}
