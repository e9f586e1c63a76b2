// Package reconciler собирает фоновое приложение сверки счётчиков:
// подключение к хранилищу и RabbitMQ, периодический запуск пересчёта.
package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/Houda-El-Bekkari/ContactAgency/internal/config"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/lib/clock"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/lib/rabbitmq"
	reconcileservice "github.com/Houda-El-Bekkari/ContactAgency/internal/services/reconcile"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/storage"
)

// App представляет приложение сверки.
type App struct {
	reconcileService *reconcileservice.Service
	interval         time.Duration
	conn             *amqp.Connection
	ch               *amqp.Channel
	db               *storage.Storage
	logger           *slog.Logger
}

func waitForDB(db *storage.Storage) error {
	for range 10 {
		err := storage.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения сверки.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetReconciliationQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(db); err != nil {
		closeResources(ch, conn, logger)
		return nil, err
	}

	reconcileService := reconcileservice.NewService(
		db, rabbitmq.NewReportPublisher(ch), clock.System{}, logger)

	return &App{
		reconcileService: reconcileService,
		interval:         cfg.ReconcileInterval,
		conn:             conn,
		ch:               ch,
		db:               db,
		logger:           logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", "error", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", "error", err)
		}
	}
}

// Run запускает периодическую сверку и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	go a.reconcileService.Run(ctx, a.interval)

	<-ctx.Done()

	a.logger.Info("shutting down reconciler service")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	if err := a.db.DB.Close(); err != nil {
		a.logger.Error("failed to close storage", slog.Any("err", err))
	}

	return nil
}
