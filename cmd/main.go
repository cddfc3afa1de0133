package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	apicontext "github.com/dtroode/quizhub-server/internal/api/http/context"
	"github.com/dtroode/quizhub-server/internal/api/http/handler"
	"github.com/dtroode/quizhub-server/internal/api/http/router"
	httpServer "github.com/dtroode/quizhub-server/internal/api/http/server"
	"github.com/dtroode/quizhub-server/internal/config"
	"github.com/dtroode/quizhub-server/internal/logger"
	"github.com/dtroode/quizhub-server/internal/model"
	"github.com/dtroode/quizhub-server/internal/notification"
	"github.com/dtroode/quizhub-server/internal/password"
	"github.com/dtroode/quizhub-server/internal/random"
	"github.com/dtroode/quizhub-server/internal/repository/postgres"
	"github.com/dtroode/quizhub-server/internal/repository/redis"
	"github.com/dtroode/quizhub-server/internal/server"
	"github.com/dtroode/quizhub-server/internal/service"
	storage "github.com/dtroode/quizhub-server/internal/storage/minio"
	"github.com/dtroode/quizhub-server/internal/token"
	"github.com/dtroode/quizhub-server/internal/validation"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	redisClient, err := redis.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		logger.Fatal("failed to initialize redis", "error", err)
	}
	defer redisClient.Close()

	health := map[string]model.Pinger{
		"postgres": db,
		"redis":    redis.NewPinger(redisClient),
	}

	notifier, err := newNotifier(ctx, cfg, logger, health)
	if err != nil {
		logger.Fatal("failed to initialize mail driver", "error", err, "driver", cfg.Mail.Driver)
	}

	codes, err := random.NewGenerator()
	if err != nil {
		logger.Fatal("failed to initialize code generator", "error", err)
	}

	userRepo := postgres.NewUserRepository(db)
	registrationRepo := redis.NewRegistrationRepository(redisClient, cfg.Redis.KeyPrefix)
	resetTokenRepo := redis.NewResetTokenRepository(redisClient, cfg.Redis.KeyPrefix)
	tokenManager := token.NewJWT(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	hasher := password.NewArgon2(cfg.KDF.Time, cfg.KDF.MemKiB, cfg.KDF.Par)

	tokenService := service.NewTokenService(tokenManager, logger)
	authService := service.NewAuth(
		userRepo,
		registrationRepo,
		resetTokenRepo,
		hasher,
		codes,
		notifier,
		tokenService,
		service.AuthConfig{
			OTPTTL:   cfg.Auth.OTPTTL,
			ResetTTL: cfg.Auth.ResetTTL,
			ResetURL: cfg.Auth.ResetPasswordURL,
		},
		logger,
	)
	usersService := service.NewUsers(userRepo, logger)

	r := router.New(
		authService,
		usersService,
		tokenService,
		usersService,
		validation.New(),
		apicontext.NewManager(),
		health,
		router.Config{
			ClientURL: cfg.HTTP.ClientURL,
			Cookies:   handler.CookieConfig{Secure: cfg.HTTP.Production, MaxAge: cfg.Auth.CookieMaxAge},
		},
		logger,
	)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// newNotifier builds the configured mail driver. The outbox driver also
// registers its bucket as a health check.
func newNotifier(ctx context.Context, cfg *config.Config, logger *logger.Logger, health map[string]model.Pinger) (model.Notifier, error) {
	switch cfg.Mail.Driver {
	case config.MailDriverOutbox:
		minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
			Secure: cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage client: %w", err)
		}
		health["minio"] = storageClient
		return notification.NewOutbox(storageClient, cfg.Mail.Sender, logger), nil
	default:
		return notification.NewSMTP(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.Sender, cfg.Mail.Passkey, logger)
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
