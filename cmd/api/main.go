package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/robfig/cron/v3"

	"github.com/ordena-app/ordena-backend/internal/core/auth"
	"github.com/ordena-app/ordena-backend/internal/core/session"
	"github.com/ordena-app/ordena-backend/internal/core/upload"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/handlers"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/repositories"
	"github.com/ordena-app/ordena-backend/internal/modules/orders/services"
	"github.com/ordena-app/ordena-backend/internal/shared/config"
	"github.com/ordena-app/ordena-backend/internal/shared/database"
	"github.com/ordena-app/ordena-backend/internal/shared/utils"
)

// @title Ordena API
// @version 1.0
// @description Manual order entry backend for restaurant dashboards
// @contact.name API Support
// @contact.email support@ordena.app
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)
	log.Printf("🚀 Starting ordena-api on port %s", cfg.Port)

	// Init database
	db := database.NewDB(cfg.DatabaseURL)
	defer db.Close()

	// Init draft session store (local sqlite mirror for crash recovery)
	draftStore, err := session.NewStore(cfg.DraftStorePath)
	if err != nil {
		log.Fatalf("Failed to open draft store: %v", err)
	}
	defer draftStore.Close()

	// Init repositories (use GORM instance)
	customerRepo := repositories.NewCustomerRepo(db.GORM)
	locationRepo := repositories.NewLocationRepo(db.GORM)
	productRepo := repositories.NewProductRepo(db.GORM)
	orderRepo := repositories.NewOrderRepo(db.GORM)
	orderEventRepo := repositories.NewOrderEventRepo(db.GORM)
	zoneRepo := repositories.NewZoneRepo(db.GORM)
	businessRepo := repositories.NewBusinessRepo(db.GORM)

	// Init auth service
	authService := auth.NewService(db.GORM, cfg.JWTSecret)

	// Init upload service (multi-provider support)
	var uploadProvider upload.Provider
	switch cfg.UploadProvider {
	case "cloudinary":
		uploadProvider, err = upload.NewCloudinaryProvider(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Fatalf("Failed to initialize Cloudinary provider: %v", err)
		}
	case "s3":
		uploadProvider, err = upload.NewS3Provider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.AWSRegion, cfg.AWSBucketName)
		if err != nil {
			log.Fatalf("Failed to initialize S3 provider: %v", err)
		}
	default:
		uploadProvider = upload.NewLocalProvider(cfg.UploadLocalPath, cfg.UploadBaseURL)
	}
	uploadService := upload.NewService(uploadProvider)
	log.Printf("📦 Using upload provider: %s", uploadService.GetProviderName())

	// Init services
	customerService := services.NewCustomerService(customerRepo, orderRepo)
	locationService := services.NewLocationService(locationRepo, customerRepo, zoneRepo)
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, orderEventRepo)
	zoneService := services.NewZoneService(zoneRepo)
	businessService := services.NewBusinessService(businessRepo)
	draftService := services.NewDraftService(draftStore, customerService, customerRepo, locationRepo, productRepo, orderService)

	// Init handlers
	authHandler := auth.NewHandler(authService)
	uploadHandler := upload.NewHandler(uploadService)
	healthHandler := handlers.NewHealthHandler(uploadService)
	draftHandler := handlers.NewDraftHandler(draftService)
	customerHandler := handlers.NewCustomerHandler(customerService, locationService)
	locationHandler := handlers.NewLocationHandler(locationService, draftService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	businessHandler := handlers.NewBusinessHandler(businessService, zoneService)

	// Background jobs
	scheduler := cron.New()
	scheduler.AddFunc("@every 1m", func() {
		orderService.PromoteDueScheduled(time.Now())
	})
	scheduler.AddFunc("@hourly", func() {
		ttl := time.Duration(cfg.DraftTTLHours) * time.Hour
		if expired := draftService.ExpireStale(ttl); expired > 0 {
			log.Printf("🧹 Expired %d stale draft(s)", expired)
		}
	})
	scheduler.Start()
	defer scheduler.Stop()

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Ordena API",
	})

	// Middleware
	app.Use(cors.New())

	// Health check
	app.Get("/health", healthHandler.GetHealth)

	// Static files for the local upload provider
	if cfg.UploadProvider == "" || cfg.UploadProvider == "local" {
		app.Static("/uploads", cfg.UploadLocalPath)
	}

	// Public onboarding and storefront directory
	app.Post("/businesses", businessHandler.CreateBusiness)
	app.Get("/businesses", businessHandler.ListBusinesses)

	// Auth routes (public)
	app.Post("/auth/register", authHandler.Register)
	app.Post("/auth/login", authHandler.Login)
	app.Post("/auth/refresh", authHandler.RefreshToken)

	// Everything below requires a valid access token
	api := app.Group("", auth.AuthMiddleware(authService))

	api.Post("/auth/logout", authHandler.Logout)
	api.Get("/auth/me", authHandler.Me)

	// Draft routes (the order-taking workflow)
	api.Post("/drafts", draftHandler.CreateDraft)
	api.Get("/drafts/:id", draftHandler.GetDraft)
	api.Delete("/drafts/:id", draftHandler.DeleteDraft)
	api.Post("/drafts/:id/customer/resolve", draftHandler.ResolveCustomer)
	api.Put("/drafts/:id/customer", draftHandler.SelectCustomer)
	api.Post("/drafts/:id/customer", draftHandler.CreateCustomer)
	api.Post("/drafts/:id/items", draftHandler.AddItem)
	api.Put("/drafts/:id/items/:index", draftHandler.SetQuantity)
	api.Delete("/drafts/:id/items/:index", draftHandler.RemoveItem)
	api.Put("/drafts/:id/delivery", draftHandler.SetDeliveryType)
	api.Put("/drafts/:id/location", draftHandler.SelectLocation)
	api.Delete("/drafts/:id/location", draftHandler.ClearLocation)
	api.Put("/drafts/:id/timing", draftHandler.SetTiming)
	api.Put("/drafts/:id/payment", draftHandler.SetPaymentMethod)
	api.Put("/drafts/:id/payment/amount", draftHandler.SetPaymentAmount)
	api.Put("/drafts/:id/notes", draftHandler.SetNotes)
	api.Post("/drafts/:id/submit", draftHandler.Submit)

	// Customer routes
	api.Get("/customers/search", customerHandler.SearchCustomers)
	api.Post("/customers", customerHandler.CreateCustomer)
	api.Get("/customers/orders", customerHandler.OrderHistory)
	api.Get("/customers/:id", customerHandler.GetCustomer)
	api.Put("/customers/:id", customerHandler.UpdateCustomer)
	api.Get("/customers/:id/locations", customerHandler.ListLocations)
	api.Post("/customers/:id/locations", customerHandler.CreateLocation)

	// Location routes
	api.Put("/locations/:id", locationHandler.UpdateLocation)
	api.Delete("/locations/:id", locationHandler.DeleteLocation)
	api.Put("/locations/:id/favorite", locationHandler.SetFavorite)

	// Product routes
	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Post("/products", productHandler.CreateProduct)
	api.Put("/products/:id", productHandler.UpdateProduct)
	api.Delete("/products/:id", productHandler.DeleteProduct)

	// Order routes
	api.Get("/orders", orderHandler.ListOrders)
	api.Get("/orders/number/:number", orderHandler.GetOrderByNumber)
	api.Get("/orders/:id", orderHandler.GetOrder)
	api.Patch("/orders/:id/status", orderHandler.UpdateOrderStatus)
	api.Get("/orders/:id/qr", orderHandler.PickupQR)
	api.Get("/orders/:id/timeline", orderHandler.OrderTimeline)
	api.Post("/orders/:id/edit", draftHandler.EditOrder)

	// Business routes (zone management is owner/admin only)
	api.Get("/business", businessHandler.GetBusiness)
	api.Put("/business", businessHandler.UpdateBusiness)
	api.Get("/business/zones", businessHandler.ListZones)
	api.Post("/business/zones", auth.RequireRole(auth.RoleOwner, auth.RoleAdmin), businessHandler.CreateZone)
	api.Put("/business/zones/:id", auth.RequireRole(auth.RoleOwner, auth.RoleAdmin), businessHandler.UpdateZone)
	api.Delete("/business/zones/:id", auth.RequireRole(auth.RoleOwner, auth.RoleAdmin), businessHandler.DeleteZone)

	// Upload routes
	api.Post("/upload/product", uploadHandler.UploadProductImage)
	api.Post("/upload/location", uploadHandler.UploadLocationPhoto)
	api.Post("/upload/business", uploadHandler.UploadBusinessImage)
	api.Delete("/upload", uploadHandler.DeleteFile)
	api.Get("/upload/info", uploadHandler.GetProviderInfo)

	// Start server
	log.Printf("✅ ordena-api running at :%s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
