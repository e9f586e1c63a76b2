// Package view реализует HTTP-обработчик запроса на просмотр контакта.
//
// Handler извлекает UID пользователя из контекста и ID контакта из URL,
// вызывает квотный движок и возвращает принятое решение: бесплатный просмотр,
// списание единицы квоты либо отказ при исчерпанном дневном лимите.
package view

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Houda-El-Bekkari/ContactAgency/internal/http/middlewarectx"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/http/response"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/lib/sl"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/models"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/storage"
)

// Handler управляет HTTP-запросами на просмотр контакта.
type Handler struct {
	log    *slog.Logger // Логгер для записи информации и ошибок
	quota  QuotaService // Квотный движок
	reader ReaderService
}

// QuotaService описывает интерфейс квотного движка.
type QuotaService interface {
	RequestView(ctx context.Context, userUID, contactID string) (*models.Decision, error)
}

// ReaderService отдаёт данные контакта после успешного решения.
type ReaderService interface {
	GetContact(ctx context.Context, id string) (*models.Contact, error)
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, quota QuotaService, reader ReaderService) *Handler {
	return &Handler{
		log:    log,
		quota:  quota,
		reader: reader,
	}
}

// ServeHTTP godoc
// @Summary Просмотреть контакт
// @Description Запрашивает просмотр контакта. Повторный просмотр за день и премиум-аккаунты бесплатны,
// @Description иначе списывается единица дневной квоты. При исчерпанном лимите возвращается 429.
// @Tags Contacts
// @Produce  json
// @Param id path string true "ID контакта"
// @Success 200 {object} map[string]any "Просмотр разрешен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Контакт не найден"
// @Failure 429 {object} response.ErrorResponse "Дневной лимит просмотров исчерпан"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /contacts/{id}/view [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact.view"
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

	contactID := chi.URLParam(r, "id")
	if contactID == "" {
		log.Error("contact id missing in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("contact id is required"))
		return
	}

	decision, err := h.quota.RequestView(r.Context(), userUID, contactID)
	if err != nil {
		if errors.Is(err, storage.ErrContactNotFound) {
			log.Error("contact not found", slog.String("contact_id", contactID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("contact not found"))
			return
		}
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Error("user not found", slog.String("useruid", userUID))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}
		log.Error("failed to request view", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not process view request"))
		return
	}

	if decision.Kind == models.DecisionRejected {
		log.Info("view rejected, daily limit reached",
			slog.String("useruid", userUID),
			slog.Int("views_today", decision.ViewsToday))
		w.WriteHeader(http.StatusTooManyRequests)
		render.JSON(w, r, response.Response{
			Status: response.StatusError,
			Error:  "daily view limit reached",
			Data:   decision,
		})
		return
	}

	contact, err := h.reader.GetContact(r.Context(), contactID)
	if err != nil {
		log.Error("failed to read contact", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read contact"))
		return
	}

	log.Info("view allowed",
		slog.String("useruid", userUID),
		slog.String("contact_id", contactID),
		slog.String("decision", string(decision.Kind)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"decision": decision,
		"contact":  contact,
	}))
}
