package contactdirectory

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/Houda-El-Bekkari/ContactAgency/internal/cache"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/config"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/lib/clock"
	customjwt "github.com/Houda-El-Bekkari/ContactAgency/internal/lib/jwt"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/lib/rabbitmq"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/migrations"
	authservice "github.com/Houda-El-Bekkari/ContactAgency/internal/services/auth"
	directoryservice "github.com/Houda-El-Bekkari/ContactAgency/internal/services/directory"
	quotaservice "github.com/Houda-El-Bekkari/ContactAgency/internal/services/quota"
	reconcileservice "github.com/Houda-El-Bekkari/ContactAgency/internal/services/reconcile"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/storage"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetReconciliationQueues())
	if err != nil {
		return nil, err
	}

	jwtMaker := customjwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	clk := clock.System{}

	authService := authservice.NewService(db, jwtMaker)
	quotaService := quotaservice.NewService(db, clk, cfg.DailyLimit, logger)
	directoryService := directoryservice.NewService(db, quotaService, cacheRedis, logger)
	reconcileService := reconcileservice.NewService(db, rabbitmq.NewReportPublisher(ch), clk, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, Services{
		Auth:      authService,
		Quota:     quotaService,
		Directory: directoryService,
		Reconcile: reconcileService,
		Users:     db,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
