package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"octagon-oracle/handlers"
	"octagon-oracle/models"
	"octagon-oracle/services"
	"octagon-oracle/utils"
	"octagon-oracle/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024, // 32MB, fighter/event images only
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	origins := strings.Split(allowedOriginsEnv, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Fight{},
		&models.Pick{},
		&models.BonusPick{},
		&models.Payment{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Bootstrap: promote the configured account so at least one admin exists.
	if adminEmail := strings.ToLower(os.Getenv("ADMIN_EMAIL")); adminEmail != "" {
		if err := db.Model(&models.User{}).
			Where("email = ?", adminEmail).
			Update("is_admin", true).Error; err != nil {
			log.Printf("failed to promote admin %s: %v", adminEmail, err)
		}
	}

	paymentService := services.NewPaymentService(db)
	authService := services.NewAuthService(db, []byte(jwtSecret))
	eventService := services.NewEventService(db, paymentService)
	pickService := services.NewPickService(db)
	settlementService := services.NewSettlementService(db)
	rankingService := services.NewRankingService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paymentFeed := workers.NewPaymentFeedClient(db)
	go workers.PollPayments(ctx, paymentFeed, 15*time.Second)

	eventService.StartStatusScheduler()

	handlers.SetupAuthRoutes(app, authService)
	handlers.SetupEventRoutes(app, eventService, []byte(jwtSecret))
	handlers.SetupPickRoutes(app, pickService, paymentService, []byte(jwtSecret))
	handlers.SetupRankingRoutes(app, rankingService)
	handlers.SetupAdminRoutes(app, eventService, settlementService, []byte(jwtSecret))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("<h1>Octagon Oracle API is up!</h1>")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server running on http://localhost:%s", port)
	log.Println("Payment feed polling running (every 15s)")
	log.Println("Event status scheduler running (every 1m)")

	<-ctx.Done()
	log.Println("Shutting down server...")
}
