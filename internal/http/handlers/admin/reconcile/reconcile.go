// Package reconcile реализует HTTP-обработчик ручного запуска сверки счётчиков.
//
// Обработчик доступен только администраторам: пересчитывает дневные счётчики
// просмотров по журналу событий и возвращает отчёт о внесённых исправлениях.
package reconcile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Houda-El-Bekkari/ContactAgency/internal/http/response"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/lib/sl"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/models"
)

// Handler управляет HTTP-запросами на запуск сверки.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис сверки счётчиков
}

// Service описывает интерфейс сервиса сверки.
type Service interface {
	ReconcileToday(ctx context.Context) (*models.RepairReport, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Запустить сверку счётчиков
// @Description Пересчитывает дневные счётчики просмотров по журналу событий. Только для администраторов.
// @Tags Admin
// @Produce  json
// @Success 200 {object} map[string]any "Отчёт о сверке"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/reconcile [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.reconcile"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	report, err := h.service.ReconcileToday(r.Context())
	if err != nil {
		log.Error("failed to reconcile counters", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not reconcile counters"))
		return
	}

	log.Info("reconciliation finished",
		slog.Int("checked_users", report.CheckedUsers),
		slog.Int("corrections", len(report.Corrections)))
	render.JSON(w, r, response.StatusOKWithData(report))
}
