package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"inventory/internal/handlers"
	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":5000")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "inventory.db")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables stock alerts
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Database ---
	db, err := openDatabase(viper.GetString("DB_DRIVER"), viper.GetString("DATABASE_DSN"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	productRepo := repositories.NewGORMProductRepository(db)
	seedProducts(productRepo)

	// --- Stock alert publisher (optional) ---
	var events services.EventPublisher
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient
	} else {
		log.Println("RABBITMQ_URL not set, stock alerts disabled.")
	}

	app := NewApp(productRepo, events)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// NewApp assembles the service and handlers into a Fiber app. The events
// publisher may be nil.
func NewApp(productRepo repositories.ProductRepository, events services.EventPublisher) *fiber.App {
	inventoryService := services.NewInventoryService(productRepo, events)

	productHandler := handlers.NewProductHandler(inventoryService)
	dashboardHandler := handlers.NewDashboardHandler(inventoryService)

	app := fiber.New()

	// The management UI is served from another origin.
	app.Use(cors.New())
	app.Use(logger.New())

	api := app.Group("/api")
	productHandler.RegisterRoutes(api)
	dashboardHandler.RegisterRoutes(api)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "OK",
			"message": "Server is running",
		})
	})

	return app
}

// openDatabase opens the configured driver. TranslateError is on so unique
// constraint violations surface as gorm.ErrDuplicatedKey regardless of the
// driver in use.
func openDatabase(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}

	switch driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), cfg)
	case "postgres":
		return gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// seedProducts inserts the sample catalog on first run so the dashboard has
// something to show. An already populated table is left alone.
func seedProducts(repo repositories.ProductRepository) {
	count, err := repo.Count()
	if err != nil {
		log.Printf("Error checking product count for seeding: %v", err)
		return
	}
	if count > 0 {
		return
	}

	products := []models.Product{
		{Name: "Wireless Headphones", SKU: "WH-001", Category: "Electronics", Price: 79.99, Quantity: 45, MinStock: 10, Supplier: "TechCorp"},
		{Name: "Cotton T-Shirt", SKU: "TS-002", Category: "Clothing", Price: 24.99, Quantity: 8, MinStock: 15, Supplier: "FashionHub"},
		{Name: "Smart Water Bottle", SKU: "WB-003", Category: "Lifestyle", Price: 34.99, Quantity: 0, MinStock: 5, Supplier: "LifeStyle Inc"},
		{Name: "Laptop Stand", SKU: "LS-004", Category: "Office", Price: 49.99, Quantity: 23, MinStock: 8, Supplier: "OfficeMax"},
		{Name: "Yoga Mat", SKU: "YM-005", Category: "Fitness", Price: 39.99, Quantity: 12, MinStock: 10, Supplier: "FitGear"},
	}

	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (ID: %d)", products[i].Name, products[i].ID)
		}
	}
}
