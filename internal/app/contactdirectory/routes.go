// Package contactdirectory собирает HTTP-приложение справочника контактов:
// маршруты, middleware и зависимости обработчиков.
package contactdirectory

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	adminreconcile "github.com/Houda-El-Bekkari/ContactAgency/internal/http/handlers/admin/reconcile"
	agencylist "github.com/Houda-El-Bekkari/ContactAgency/internal/http/handlers/agency/list"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/http/handlers/auth/login"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/http/handlers/auth/register"
	contactlist "github.com/Houda-El-Bekkari/ContactAgency/internal/http/handlers/contact/list"
	contactview "github.com/Houda-El-Bekkari/ContactAgency/internal/http/handlers/contact/view"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/http/handlers/health"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/http/handlers/user/profile"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/http/middlewarectx"
	customjwt "github.com/Houda-El-Bekkari/ContactAgency/internal/lib/jwt"
	authservice "github.com/Houda-El-Bekkari/ContactAgency/internal/services/auth"
	directoryservice "github.com/Houda-El-Bekkari/ContactAgency/internal/services/directory"
	quotaservice "github.com/Houda-El-Bekkari/ContactAgency/internal/services/quota"
	reconcileservice "github.com/Houda-El-Bekkari/ContactAgency/internal/services/reconcile"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/storage"
)

// Services группирует зависимости маршрутов приложения.
type Services struct {
	Auth      *authservice.Service
	Quota     *quotaservice.Service
	Directory *directoryservice.Service
	Reconcile *reconcileservice.Service
	Users     *storage.Storage
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker customjwt.Maker, svc Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/agencies", agencylist.New(logger, svc.Directory).ServeHTTP)
			r.Get("/contacts", contactlist.New(logger, svc.Directory).ServeHTTP)
			r.Post("/contacts/{id}/view", contactview.New(logger, svc.Quota, svc.Directory).ServeHTTP)
			r.Get("/users/me", profile.New(logger, svc.Users, svc.Quota).ServeHTTP)

			// Административные операции
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Post("/admin/reconcile", adminreconcile.New(logger, svc.Reconcile).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
