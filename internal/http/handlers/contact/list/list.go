// Package list реализует HTTP-обработчик для получения списка контактов.
//
// Handler извлекает UID пользователя из контекста, разбирает параметры пагинации
// и возвращает страницу контактов вместе с текущим состоянием дневной квоты.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Houda-El-Bekkari/ContactAgency/internal/http/middlewarectx"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/http/response"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/lib/sl"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/models"
)

const (
	defaultLimit = 30
	maxLimit     = 100
)

// Handler управляет HTTP-запросами на получение списка контактов.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики справочника
}

// Service описывает интерфейс бизнес-логики справочника контактов.
type Service interface {
	ListContacts(ctx context.Context, userUID string, limit, offset int) (*models.ContactListing, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список контактов
// @Description Возвращает страницу контактов и состояние дневной квоты пользователя.
// @Tags Contacts
// @Produce  json
// @Param limit query int false "Размер страницы (по умолчанию 30, максимум 100)"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список контактов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /contacts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("useruid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			log.Error("invalid limit query param", slog.String("limit", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid limit"))
			return
		}
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			log.Error("invalid offset query param", slog.String("offset", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid offset"))
			return
		}
		offset = v
	}

	listing, err := h.service.ListContacts(r.Context(), userUID, limit, offset)
	if err != nil {
		log.Error("failed to list contacts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list contacts"))
		return
	}

	log.Info("success to list contacts", slog.Int("count", len(listing.Contacts)))
	render.JSON(w, r, response.StatusOKWithData(listing))
}
