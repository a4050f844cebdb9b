package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	httpctx "github.com/dtroode/taskhub-server/internal/api/http/context"
	"github.com/dtroode/taskhub-server/internal/api/http/router"
	httpServer "github.com/dtroode/taskhub-server/internal/api/http/server"
	"github.com/dtroode/taskhub-server/internal/config"
	"github.com/dtroode/taskhub-server/internal/hasher"
	"github.com/dtroode/taskhub-server/internal/logger"
	"github.com/dtroode/taskhub-server/internal/model"
	"github.com/dtroode/taskhub-server/internal/notify"
	"github.com/dtroode/taskhub-server/internal/repository/postgres"
	"github.com/dtroode/taskhub-server/internal/server"
	"github.com/dtroode/taskhub-server/internal/service"
	storage "github.com/dtroode/taskhub-server/internal/storage/minio"
	"github.com/dtroode/taskhub-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db.DB())
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db.DB())
	otpRepo := postgres.NewOTPRepository(db.DB())

	tokenManager, err := token.NewJWT(map[model.TokenKind]token.Key{
		model.TokenKindAccess:         {Secret: []byte(cfg.JWT.Access.Secret), TTL: cfg.JWT.Access.TTL.Duration()},
		model.TokenKindRefresh:        {Secret: []byte(cfg.JWT.Refresh.Secret), TTL: cfg.JWT.Refresh.TTL.Duration()},
		model.TokenKindForgotPassword: {Secret: []byte(cfg.JWT.ForgotPassword.Secret), TTL: cfg.JWT.ForgotPassword.TTL.Duration()},
	})
	if err != nil {
		logger.Fatal("failed to initialize token manager", "error", err)
	}

	notifier, err := newNotifier(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize notifier", "error", err)
	}

	verificationService := service.NewVerification(otpRepo, userRepo, notifier, logger, cfg.OTP.TTL.Duration(), cfg.OTP.Length)
	authService := service.NewAuth(
		userRepo,
		postgres.NewTransactor(db.DB()),
		verificationService,
		refreshTokenRepo,
		hasher.NewArgon2(cfg.KDF),
		tokenManager,
		notifier,
		logger,
		cfg.Auth.RevokeSessionsOnPasswordChange,
	)
	ctxMgr := httpctx.NewManager()

	r := router.New(authService, verificationService, ctxMgr, db, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	sl := server.NewSecurityLayer(cfg.HTTP)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func newNotifier(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.Notifier, error) {
	if cfg.Notify.Driver != "minio" {
		return notify.NewLog(logger), nil
	}

	storageClient, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}
	return notify.NewObjectStore(storageClient, cfg.Notify.From, logger), nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
