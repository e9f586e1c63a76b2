// Package list реализует HTTP-обработчик для получения списка агентств.
package list

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

// Handler управляет HTTP-запросами на получение списка агентств.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики справочника
}

// Service описывает интерфейс бизнес-логики справочника агентств.
type Service interface {
	ListAgencies(ctx context.Context) ([]*models.Agency, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список агентств
// @Description Возвращает список агентств. Ответ кэшируется.
// @Tags Agencies
// @Produce  json
// @Success 200 {object} map[string]any "Список агентств"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /agencies [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.agency.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	agencies, err := h.service.ListAgencies(r.Context())
	if err != nil {
		log.Error("failed to list agencies", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list agencies"))
		return
	}

	log.Info("success to list agencies", slog.Int("count", len(agencies)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"agencies": agencies,
	}))
}
