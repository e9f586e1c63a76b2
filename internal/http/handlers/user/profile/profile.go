// Package profile реализует HTTP-обработчик для получения профиля текущего пользователя.
//
// Handler извлекает UID пользователя из контекста и возвращает данные аккаунта
// вместе с актуальным состоянием дневной квоты просмотров.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Houda-El-Bekkari/ContactAgency/internal/http/middlewarectx"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/http/response"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/lib/sl"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/models"
)

// Handler управляет HTTP-запросами на получение профиля.
type Handler struct {
	log   *slog.Logger // Логгер для записи информации и ошибок
	users UserProvider // Доступ к данным пользователя
	quota QuotaService // Квотный движок
}

// UserProvider описывает доступ к аккаунту пользователя.
type UserProvider interface {
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
}

// QuotaService описывает интерфейс состояния дневной квоты.
type QuotaService interface {
	Status(ctx context.Context, userUID string) (*models.QuotaState, error)
	Limit() int
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, users UserProvider, quota QuotaService) *Handler {
	return &Handler{
		log:   log,
		users: users,
		quota: quota,
	}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Description Возвращает данные аккаунта и состояние дневной квоты просмотров.
// @Tags Users
// @Produce  json
// @Success 200 {object} map[string]any "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /users/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.profile"
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

	user, err := h.users.GetUserByUID(r.Context(), userUID)
	if err != nil {
		log.Error("failed to get user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read profile"))
		return
	}

	state, err := h.quota.Status(r.Context(), userUID)
	if err != nil {
		log.Error("failed to get quota state", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read quota state"))
		return
	}

	log.Info("success to read profile", slog.String("useruid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"email":       user.Email,
		"username":    user.Username,
		"role":        user.Role,
		"is_premium":  user.IsPremium,
		"views_today": state.ViewsToday,
		"limit":       h.quota.Limit(),
	}))
}
