package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/DevHub/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the DevHub API under /api/v1.
//
// Routes:
//
//	POST /api/v1/token/                       authHandler.Token
//	POST /api/v1/token/refresh/               authHandler.Refresh
//	POST /api/v1/register/                    authHandler.Register
//	GET  /api/v1/me/                          profileHandler.Me (bearer)
//	PATCH /api/v1/profiles/{id}/              profileHandler.Update (bearer, owner)
//	GET  /api/v1/profiles/?search=            profileHandler.Search
//	GET  /api/v1/profiles/by-username/{name}/ profileHandler.ByUsername
func NewRouter(
	authHandler *AuthHandler,
	profileHandler *ProfileHandler,
	verifier middleware.TokenVerifier,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method \""+r.Method+"\" not allowed.")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/token/", authHandler.Token)
		r.Post("/token/refresh/", authHandler.Refresh)
		r.Post("/register/", authHandler.Register)

		r.Get("/profiles/", profileHandler.Search)
		r.Get("/profiles/by-username/{username}/", profileHandler.ByUsername)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(verifier))
			r.Get("/me/", profileHandler.Me)
			r.Patch("/profiles/{id}/", profileHandler.Update)
		})
	})

	return r
}
