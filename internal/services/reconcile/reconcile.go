// Package reconcile реализует сверку дневных счётчиков просмотров
// с журналом view_events. Журнал — источник истины; кешированный счётчик
// перезаписывается при расхождении. Сверка никогда не участвует в живом
// пути запроса и не трогает множество просмотренных контактов.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Houda-El-Bekkari/ContactAgency/internal/lib/clock"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/lib/sl"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/metrics"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/models"
)

// Repository определяет операции хранилища, нужные сверке.
type Repository interface {
	// ListUserUIDsForDay возвращает пользователей со счётчиком за этот день.
	ListUserUIDsForDay(ctx context.Context, day time.Time) ([]string, error)
	// RepairUserCounter пересчитывает счётчик по журналу; nil — без правки.
	RepairUserCounter(ctx context.Context, userUID string, day time.Time) (*models.RepairEntry, error)
}

// Publisher публикует исправления в шину сообщений для алертинга.
type Publisher interface {
	Publish(message any) error
}

// Service — служба сверки счётчиков.
type Service struct {
	repo      Repository
	publisher Publisher
	clock     clock.Clock
	log       *slog.Logger
}

// NewService создает новый экземпляр Service. Publisher может быть nil —
// тогда исправления только логируются.
func NewService(repo Repository, publisher Publisher, clk clock.Clock, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		clock:     clk,
		log:       log,
	}
}

// Reconcile пересчитывает счётчики всех пользователей за переданный день
// и возвращает отчёт об исправлениях. Идемпотентна: повторный прогон без
// новых событий не делает исправлений.
func (s *Service) Reconcile(ctx context.Context, day time.Time) (*models.RepairReport, error) {
	const op = "services.reconcile.Reconcile"

	uids, err := s.repo.ListUserUIDsForDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report := &models.RepairReport{
		Day:         day,
		Corrections: []*models.RepairEntry{},
	}

	for _, uid := range uids {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		default:
		}

		entry, err := s.repo.RepairUserCounter(ctx, uid, day)
		if err != nil {
			// Один проблемный пользователь не останавливает прогон.
			s.log.Error("failed to repair counter", slog.String("user_uid", uid), sl.Err(err))
			continue
		}
		report.CheckedUsers++
		if entry == nil {
			continue
		}

		report.Corrections = append(report.Corrections, entry)
		metrics.ReconcileCorrections.Inc()
		s.log.Warn("counter drift corrected",
			slog.String("user_uid", entry.UserUID),
			slog.Int("old_count", entry.OldCount),
			slog.Int("new_count", entry.NewCount),
		)

		if s.publisher != nil {
			if err := s.publisher.Publish(entry); err != nil {
				s.log.Error("failed to publish correction", sl.Err(err))
			}
		}
	}

	report.FinishedAt = s.clock.Now()
	metrics.ReconcileRuns.Inc()
	s.log.Info("reconciliation finished",
		slog.Int("checked_users", report.CheckedUsers),
		slog.Int("corrections", len(report.Corrections)),
	)
	return report, nil
}

// ReconcileToday запускает сверку за текущий календарный день.
func (s *Service) ReconcileToday(ctx context.Context) (*models.RepairReport, error) {
	return s.Reconcile(ctx, clock.Day(s.clock.Now()))
}

// Run запускает периодическую сверку: первый прогон сразу, затем по тикеру
// до отмены контекста.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	s.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Service) runOnce(ctx context.Context) {
	s.log.Info("starting reconciliation run")
	if _, err := s.ReconcileToday(ctx); err != nil {
		s.log.Error("reconciliation run failed", sl.Err(err))
	}
}
