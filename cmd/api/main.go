package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobspace-backend/config"
	_ "jobspace-backend/docs" // Important for Swagger
	"jobspace-backend/internal/delivery/http/middleware"
	v1 "jobspace-backend/internal/delivery/http/v1"
	"jobspace-backend/internal/domain"
	"jobspace-backend/internal/repository/jsonfile"
	"jobspace-backend/internal/repository/postgres"
	"jobspace-backend/internal/storage"
	"jobspace-backend/internal/usecase"
	"jobspace-backend/pkg/audit"
	"jobspace-backend/pkg/auth"
	"jobspace-backend/pkg/database"
	"jobspace-backend/pkg/email"
	"jobspace-backend/pkg/logger"
	"jobspace-backend/pkg/redis"
	"jobspace-backend/pkg/security"
	"jobspace-backend/pkg/security/antivirus"
	"jobspace-backend/pkg/validation"
)

// @title           JobSpace API
// @version         1.0
// @description     Candidacies, job offers and recruiters of the JobSpace job board.
// @host            localhost:3001
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting jobspace backend", "port", cfg.Port, "storage", cfg.StorageDriver, "uploads", cfg.UploadDriver)
	auditLog := audit.Init("jobspace-backend", audit.Environment())
	defer auditLog.Sync()

	ctx := context.Background()
	var checkers []domain.HealthChecker

	// 3. Setup Redis (optional)
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
		} else {
			defer redis.Close()
			checkers = append(checkers, redis.Checker{})
		}
	}

	// 4. Setup Repositories
	var repos repositories
	switch cfg.StorageDriver {
	case "postgres":
		dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()
		if err := postgres.EnsureSchema(ctx, dbPool); err != nil {
			logger.Log.Error("Failed to prepare database schema", "error", err)
			os.Exit(1)
		}
		repos = repositories{
			candidates: postgres.NewCandidateRepository(dbPool),
			offers:     postgres.NewOfferRepository(dbPool),
			recruiters: postgres.NewRecruiterRepository(dbPool),
			stats:      postgres.NewStatsRepository(dbPool),
		}
		checkers = append(checkers, postgres.NewHealthChecker(dbPool))
	default:
		store := jsonfile.NewStore(cfg.DBPath)
		repos = repositories{
			candidates: jsonfile.NewCandidateRepository(store),
			offers:     jsonfile.NewOfferRepository(store),
			recruiters: jsonfile.NewRecruiterRepository(store),
			stats:      jsonfile.NewStatsRepository(store),
		}
		checkers = append(checkers, store)
	}

	// 5. Setup File Storage
	var files domain.FileStorage
	uploadDir := ""
	switch cfg.UploadDriver {
	case "s3":
		s3Store, err := storage.NewS3Storage(ctx, storage.S3Config{
			Provider:        storage.S3Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			logger.Log.Error("Failed to create S3 client", "error", err)
			os.Exit(1)
		}
		files = s3Store
		checkers = append(checkers, s3Store)
	default:
		local := storage.NewLocalStorage(cfg.UploadDir)
		files = local
		uploadDir = local.Dir()
	}

	var scanner antivirus.Scanner = antivirus.NewNoOpScanner()
	if cfg.ClamAVAddress != "" {
		clam := antivirus.NewClamAVScanner(cfg.ClamAVAddress, 30*time.Second)
		scanner = clam
		checkers = append(checkers, clam)
	}

	// 6. Setup Email Service
	var notifier domain.StatusNotifier
	emailService := email.NewEmailService(cfg)
	if emailService.IsConfigured() {
		notifier = emailService
	} else {
		logger.Log.Warn("Email service not fully configured - status notifications disabled")
	}

	// 7. Setup Accounts
	admins, err := usecase.ParseAccounts(cfg.AdminAccounts, domain.RoleAdmin)
	if err != nil {
		logger.Log.Error("Invalid ADMIN_ACCOUNTS", "error", err)
		os.Exit(1)
	}
	recruiters, err := usecase.ParseAccounts(cfg.RecruiterAccounts, domain.RoleRecruiter)
	if err != nil {
		logger.Log.Error("Invalid RECRUITER_ACCOUNTS", "error", err)
		os.Exit(1)
	}
	issuer := auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	// 8. Setup UseCases
	validate := validation.New()
	authUC := usecase.NewAuthUsecase(append(admins, recruiters...), repos.candidates, issuer)
	candidateUC := usecase.NewCandidateUsecase(repos.candidates, notifier, validate)
	offerUC := usecase.NewOfferUsecase(repos.offers, validate)
	recruiterUC := usecase.NewRecruiterUsecase(repos.recruiters, validate)
	uploadUC := usecase.NewUploadUsecase(files, scanner, cfg.UploadMaxBytes)
	exportUC := usecase.NewExportUsecase(candidateUC)
	systemUC := usecase.NewSystemUsecase(repos.stats, checkers...)

	// 9. Setup Router
	rateLimit := middleware.DefaultRateLimitConfig()
	rateLimit.Limit = cfg.RateLimitGlobalThreshold
	rateLimit.Window = time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:         authUC,
		CandidateUC:    candidateUC,
		OfferUC:        offerUC,
		RecruiterUC:    recruiterUC,
		UploadUC:       uploadUC,
		ExportUC:       exportUC,
		SystemUC:       systemUC,
		LoginTracker:   security.NewLoginTracker(security.DefaultLoginTrackerConfig()),
		UploadLimiter:  security.NewUploadLimiter(cfg.UploadsPerMinute, cfg.UploadsPerDay),
		UploadMaxBytes: cfg.UploadMaxBytes,
		UploadDir:      uploadDir,
		CORSOrigins:    cfg.CORSOrigins,
		AuthEnforce:    cfg.AuthEnforce,
		RateLimit:      rateLimit,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()
	logger.Log.Info("Server listening", "addr", srv.Addr)

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

type repositories struct {
	candidates domain.CandidateRepository
	offers     domain.OfferRepository
	recruiters domain.RecruiterRepository
	stats      domain.StatsRepository
}
