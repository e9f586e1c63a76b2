// Package quota реализует движок дневной квоты просмотров: решает, будет
// ли просмотр контакта бесплатным, спишет единицу дневного лимита или
// будет отклонён, и применяет ленивый сброс при смене календарного дня.
package quota

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Houda-El-Bekkari/ContactAgency/internal/lib/clock"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/metrics"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/models"
)

// DefaultDailyLimit — дневной лимит просмотров для не-премиум аккаунтов.
const DefaultDailyLimit = 50

// Repository определяет транзакционные операции квоты в хранилище.
type Repository interface {
	// ChargeView выполняет охраняемое списание в одной транзакции:
	// ленивый сброс, премиум, идемпотентность, лимит и тройная мутация.
	ChargeView(ctx context.Context, userUID, contactID string, day, now time.Time, limit int) (*models.ChargeResult, error)
	// GetQuotaState возвращает состояние квоты с ленивым сбросом дня.
	GetQuotaState(ctx context.Context, userUID string, day time.Time) (*models.QuotaState, error)
}

// Service — квотный движок. Все решения принимаются относительно
// календарного дня инжектированных часов (UTC).
type Service struct {
	repo  Repository
	clock clock.Clock
	limit int
	log   *slog.Logger
}

// NewService создает новый экземпляр Service. При limit <= 0 используется
// DefaultDailyLimit.
func NewService(repo Repository, clk clock.Clock, limit int, log *slog.Logger) *Service {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &Service{
		repo:  repo,
		clock: clk,
		limit: limit,
		log:   log,
	}
}

// Limit возвращает действующий дневной лимит.
func (s *Service) Limit() int { return s.limit }

// RequestView обрабатывает попытку просмотра контакта и возвращает решение:
// Free (уже просмотрен сегодня или премиум), Charged (списана единица
// квоты) или Rejected (лимит исчерпан, состояние не изменено).
func (s *Service) RequestView(ctx context.Context, userUID, contactID string) (*models.Decision, error) {
	const op = "services.quota.RequestView"

	now := s.clock.Now()
	day := clock.Day(now)

	res, err := s.repo.ChargeView(ctx, userUID, contactID, day, now, s.limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	decision := s.mapDecision(res)
	metrics.QuotaDecisions.WithLabelValues(string(decision.Kind)).Inc()

	s.log.Info("view request decided",
		slog.String("user_uid", userUID),
		slog.String("contact_id", contactID),
		slog.String("decision", string(decision.Kind)),
		slog.Int("views_today", decision.ViewsToday),
	)
	return decision, nil
}

// Status возвращает состояние квоты пользователя для отрисовки списков.
// Ленивый сброс применяется так же, как на пути списания, поэтому запись
// не бывает устаревшей дольше одного обращения.
func (s *Service) Status(ctx context.Context, userUID string) (*models.QuotaState, error) {
	const op = "services.quota.Status"

	day := clock.Day(s.clock.Now())
	st, err := s.repo.GetQuotaState(ctx, userUID, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

func (s *Service) mapDecision(res *models.ChargeResult) *models.Decision {
	d := &models.Decision{
		ViewsToday: res.ViewsToday,
		Limit:      s.limit,
	}
	switch res.Status {
	case models.ChargeStatusCharged:
		d.Kind = models.DecisionCharged
	case models.ChargeStatusAlreadyViewed:
		d.Kind = models.DecisionFree
		d.AlreadyViewed = true
	case models.ChargeStatusPremium:
		d.Kind = models.DecisionFree
		d.IsPremium = true
	case models.ChargeStatusLimitReached:
		d.Kind = models.DecisionRejected
	}
	return d
}
