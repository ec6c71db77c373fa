package services

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"inventory/internal/models"
	"inventory/internal/repositories"
)

// EventPublisher publishes domain events to a message broker. A nil
// publisher disables event publishing entirely.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// Routing keys for stock alert events.
const (
	alertExchange = "inventory"
	lowStockKey   = "inventory.low_stock"
	outOfStockKey = "inventory.out_of_stock"
)

// InventoryService owns the domain rules for product records: input
// validation, stock status derivation, SKU uniqueness conflicts, and the
// dashboard aggregates. It holds no state of its own beyond the injected
// repository handle.
type InventoryService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
	events   EventPublisher
}

// NewInventoryService creates a new InventoryService. The publisher may be
// nil, in which case stock alerts are not emitted.
func NewInventoryService(repo repositories.ProductRepository, events EventPublisher) *InventoryService {
	v := validator.New()
	// Report offending fields under their JSON names, matching what the
	// caller actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &InventoryService{
		repo:     repo,
		validate: v,
		events:   events,
	}
}

// ListProducts retrieves all products, most recently updated first, each
// with its derived stock status.
func (s *InventoryService) ListProducts() ([]models.ProductResponse, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, &StorageError{Err: err}
	}

	responses := make([]models.ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, models.NewProductResponse(p))
	}
	return responses, nil
}

// GetProduct retrieves a single product by its ID.
func (s *InventoryService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, &StorageError{Err: err}
	}
	return product, nil
}

// CreateProduct validates the input, applies create-time defaults
// (minStock 0, empty supplier) and inserts the record. It returns the
// newly assigned id.
func (s *InventoryService) CreateProduct(input models.ProductInput) (uint, error) {
	if err := s.validateInput(input); err != nil {
		return 0, err
	}

	product := models.Product{
		Name:     input.Name,
		SKU:      input.SKU,
		Category: input.Category,
		Price:    roundToCents(*input.Price),
		Quantity: *input.Quantity,
	}
	if input.MinStock != nil {
		product.MinStock = *input.MinStock
	}
	if input.Supplier != nil {
		product.Supplier = *input.Supplier
	}

	if err := s.repo.Create(&product); err != nil {
		if errors.Is(err, repositories.ErrDuplicateSKU) {
			return 0, &DuplicateSKUError{SKU: input.SKU}
		}
		return 0, &StorageError{Err: err}
	}

	s.publishStockAlert(&product)
	return product.ID, nil
}

// UpdateProduct validates the input and replaces every mutable field of
// the record. Updates are full replacements: unlike create, minStock and
// supplier must be re-supplied, there are no defaults on this path.
func (s *InventoryService) UpdateProduct(id uint, input models.ProductInput) error {
	if err := s.validateInput(input); err != nil {
		return err
	}
	if input.MinStock == nil {
		return &ValidationError{Field: "minStock"}
	}
	if input.Supplier == nil {
		return &ValidationError{Field: "supplier"}
	}

	product := models.Product{
		ID:       id,
		Name:     input.Name,
		SKU:      input.SKU,
		Category: input.Category,
		Price:    roundToCents(*input.Price),
		Quantity: *input.Quantity,
		MinStock: *input.MinStock,
		Supplier: *input.Supplier,
	}

	if err := s.repo.Update(id, &product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &NotFoundError{ID: id}
		}
		if errors.Is(err, repositories.ErrDuplicateSKU) {
			return &DuplicateSKUError{SKU: input.SKU}
		}
		return &StorageError{Err: err}
	}

	s.publishStockAlert(&product)
	return nil
}

// DeleteProduct removes a product by its ID.
func (s *InventoryService) DeleteProduct(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &NotFoundError{ID: id}
		}
		return &StorageError{Err: err}
	}
	return nil
}

// GetDashboardStats computes the dashboard counters. The four aggregate
// reads are independent, so they run concurrently and join before
// returning; each branch writes its own field and the first failure
// cancels the result as a whole.
func (s *InventoryService) GetDashboardStats() (*models.DashboardStats, error) {
	var stats models.DashboardStats
	var g errgroup.Group

	g.Go(func() error {
		n, err := s.repo.Count()
		stats.TotalProducts = n
		return err
	})
	g.Go(func() error {
		v, err := s.repo.TotalValue()
		stats.TotalValue = v
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountLowStock()
		stats.LowStockItems = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountOutOfStock()
		stats.OutOfStockItems = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, &StorageError{Err: err}
	}
	return &stats, nil
}

// validateInput runs the struct-level checks shared by create and update
// and reports the first offending field by its JSON name.
func (s *InventoryService) validateInput(input models.ProductInput) error {
	if err := s.validate.Struct(input); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return &ValidationError{Field: validationErrors[0].Field()}
		}
		return &ValidationError{Field: "input"}
	}
	return nil
}

// publishStockAlert emits a low-stock or out-of-stock event after a
// successful write. Publishing is best effort: a broker failure is logged
// and never fails the operation that triggered it.
func (s *InventoryService) publishStockAlert(product *models.Product) {
	if s.events == nil {
		return
	}

	var routingKey string
	switch product.StockStatus() {
	case models.StatusLowStock:
		routingKey = lowStockKey
	case models.StatusOutOfStock:
		routingKey = outOfStockKey
	default:
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"eventId":   uuid.New().String(),
		"productId": product.ID,
		"sku":       product.SKU,
		"name":      product.Name,
		"quantity":  product.Quantity,
		"minStock":  product.MinStock,
		"status":    product.StockStatus(),
	})
	if err != nil {
		log.Printf("Failed to marshal stock alert for product %d: %v", product.ID, err)
		return
	}

	if err := s.events.Publish(alertExchange, routingKey, body); err != nil {
		log.Printf("Warning: failed to publish stock alert for product %d: %v", product.ID, err)
	}
}

// roundToCents normalizes a price to 2-digit cent precision before it is
// persisted.
func roundToCents(price float64) float64 {
	return math.Round(price*100) / 100
}
