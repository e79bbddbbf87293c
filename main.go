package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"gitwork/db"
	"gitwork/handlers"
	"gitwork/middleware"
	"gitwork/models"
	"gitwork/services"
	"gitwork/utils"
	"gitwork/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		AppName: "GitWork",
	})

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-GitHub-Login",
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// TranslateError turns driver duplicate-key failures into
	// gorm.ErrDuplicatedKey, which the lifecycle engine relies on to detect
	// concurrent bounty creation for the same issue.
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := gdb.AutoMigrate(
		&models.Bounty{},
		&models.Installation{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	store := db.NewStore(gdb)

	notifier, err := services.NewGitHubNotifier()
	if err != nil {
		log.Fatal("failed to initialize GitHub App client:", err)
	}

	oracle := services.NewSolanaOracle()

	// The wallet provider must be an explicit choice. Falling back to the
	// simulator silently would mean real bounties with fake escrow.
	var wallets services.WalletProvisioner
	switch provider := os.Getenv("WALLET_PROVIDER"); provider {
	case "privy":
		wallets, err = services.NewPrivyProvisioner()
		if err != nil {
			log.Fatal("failed to initialize Privy wallet provider:", err)
		}
	case "simulator":
		wallets = services.NewSimulatedProvisioner()
	default:
		log.Fatalf("WALLET_PROVIDER must be 'privy' or 'simulator', got %q", provider)
	}

	claimBaseURL := strings.TrimRight(os.Getenv("CLAIM_BASE_URL"), "/")
	if claimBaseURL == "" {
		claimBaseURL = "http://localhost:3000"
	}
	refundAddress := os.Getenv("REFUND_WALLET_ADDRESS")
	if refundAddress == "" {
		log.Println("⚠️  REFUND_WALLET_ADDRESS not set, cancelled funded bounties cannot be refunded")
	}

	bountyService := services.NewBountyService(store, wallets, oracle, notifier, claimBaseURL, refundAddress)

	webhookSecret := os.Getenv("GITHUB_WEBHOOK_SECRET")
	if webhookSecret == "" {
		log.Fatal("GITHUB_WEBHOOK_SECRET environment variable not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitor := workers.NewDepositMonitor(bountyService, depositCheckInterval())
	if err := monitor.Start(ctx); err != nil {
		log.Fatal("failed to start deposit monitor:", err)
	}
	defer monitor.Stop()

	// Archiving is optional: without R2 credentials the activity log simply
	// stays in Postgres.
	if r2, err := utils.NewR2Client(); err != nil {
		log.Printf("⚠️  Activity archiver disabled: %v", err)
	} else {
		archiver := workers.NewActivityArchiver(store, r2)
		if err := archiver.Start(ctx); err != nil {
			log.Fatal("failed to start activity archiver:", err)
		}
		defer archiver.Stop()
	}

	handlers.SetupWebhookRoutes(app, handlers.NewWebhookHandler(bountyService, webhookSecret))

	// Gateway-authenticated surface. The gateway verifies the user's GitHub
	// OAuth session and forwards the login, so these routes trust both layers.
	authed := app.Group("/s", middleware.GatewayAuthMiddleware(), middleware.UserContextMiddleware())
	handlers.SetupClaimRoutes(authed, handlers.NewClaimHandler(bountyService))
	handlers.SetupBountyRoutes(app, authed, handlers.NewBountyHandler(store))

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ GitWork running on http://localhost:%s", port)
	log.Println("✅ Deposit monitor running")
	log.Println("✅ Webhook endpoint: POST /api/webhooks/github")

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func depositCheckInterval() time.Duration {
	raw := os.Getenv("DEPOSIT_CHECK_INTERVAL_SECONDS")
	if raw == "" {
		return 30 * time.Second
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		log.Printf("⚠️  Invalid DEPOSIT_CHECK_INTERVAL_SECONDS=%q, using 30s", raw)
		return 30 * time.Second
	}
	return time.Duration(secs) * time.Second
}
