package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"recycle-backend/internal/auth"
	"recycle-backend/internal/cache"
	"recycle-backend/internal/config"
	"recycle-backend/internal/database"
	"recycle-backend/internal/db"
	"recycle-backend/internal/handlers"
	"recycle-backend/internal/health"
	apihttp "recycle-backend/internal/http"
	"recycle-backend/internal/middleware"
	"recycle-backend/internal/monitoring"
	"recycle-backend/internal/otp"
	"recycle-backend/internal/repositories"
	"recycle-backend/internal/services"
	"recycle-backend/internal/sms"
	"recycle-backend/migrations"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pool, err := db.Connect(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("[Startup] database connection failed: %v", err)
	}
	defer pool.Close()
	log.Printf("[Startup] connected to %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	migrator := database.NewMigratorWithFS(pool, migrations.Files)
	migrateCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	err = migrator.RunMigrations(migrateCtx)
	cancel()
	if err != nil {
		log.Fatalf("[Startup] migrations failed: %v", err)
	}

	// Challenge store: redis when configured and reachable, else in-process.
	var store otp.Store
	if cfg.OTP.Store == "redis" {
		if err := cache.Init(); err != nil {
			log.Printf("[Startup] redis unavailable, falling back to memory store: %v", err)
		}
	}
	if c := cache.GetClient(); c != nil {
		store = otp.NewRedisStore(c)
		log.Println("[Startup] OTP challenges in redis")
	} else {
		store = otp.NewMemoryStore()
		log.Println("[Startup] OTP challenges in memory")
	}
	sessions := otp.NewSessions(store)

	// SMS provider: PRP when a key is configured, mock otherwise.
	var provider sms.Provider
	if cfg.SMS.APIKey != "" {
		provider = sms.NewPRPService(
			cfg.SMS.APIKey,
			cfg.SMS.BaseURL,
			cfg.SMS.SenderID,
			cfg.SMS.TemplateName,
			time.Duration(cfg.SMS.TimeoutSeconds)*time.Second,
		)
		log.Println("[Startup] SMS provider: PRP")
	} else {
		provider = sms.NewMockService()
		log.Println("[Startup] SMS provider: mock (no PRP_API_KEY)")
	}
	provider.SetLogRepository(repositories.NewSMSLogRepository(pool))

	customerRepo := repositories.NewCustomerRepository(pool)
	notificationRepo := repositories.NewNotificationRepository(pool)
	deviceTokenRepo := repositories.NewDeviceTokenRepository(pool)

	jwtManager := auth.NewJWTManager(cfg)

	customerService := services.NewCustomerService(customerRepo)
	otpService := services.NewOTPService(customerService, sessions, provider, jwtManager, cfg.Server.Debug)
	notificationService := services.NewNotificationService(notificationRepo, deviceTokenRepo)

	healthChecker := health.NewChecker(pool)

	authHandler := handlers.NewAuthHandler(otpService)
	customerHandler := handlers.NewCustomerHandler(customerService, notificationService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := apihttp.NewRouter(authHandler, customerHandler, notificationHandler, healthHandler)

	corsHandler := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(corsHandler(router))

	monitor := monitoring.NewServer(pool, sessions, cfg.Monitor.Port)
	go monitor.Start()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[Startup] listening on %s (debug=%v)", addr, cfg.Server.Debug)
	log.Fatal(http.ListenAndServe(addr, handler))
}
