// Package router define las rutas HTTP del servicio.
package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apphttp "github.com/dropDatabas3/inkwell/internal/http"
	authctrl "github.com/dropDatabas3/inkwell/internal/http/controllers/auth"
	postsctrl "github.com/dropDatabas3/inkwell/internal/http/controllers/posts"
	rolesctrl "github.com/dropDatabas3/inkwell/internal/http/controllers/roles"
	usersctrl "github.com/dropDatabas3/inkwell/internal/http/controllers/users"
	httperrors "github.com/dropDatabas3/inkwell/internal/http/errors"
	mw "github.com/dropDatabas3/inkwell/internal/http/middlewares"
	"github.com/dropDatabas3/inkwell/internal/rate"
	"github.com/dropDatabas3/inkwell/internal/store"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Auth  *authctrl.Controller
	Users *usersctrl.Controller
	Roles *rolesctrl.Controller
	Posts *postsctrl.Controller

	// Store: readiness probe.
	Store store.Store

	// Metrics: handler de /metrics; nil lo deshabilita.
	Metrics http.Handler

	// RateLimiter: opcional, aplica solo a las rutas de auth.
	RateLimiter rate.Limiter
}

// New arma el router completo.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// ─── Auth (público) ───
	r.Route("/v1/auth", func(r chi.Router) {
		r.Use(mw.WithNoStore())
		if d.RateLimiter != nil {
			r.Use(mw.WithRateLimit(d.RateLimiter))
		}
		r.Post("/register", d.Auth.Register)
		r.Post("/login", d.Auth.Login)
		r.Post("/refresh", d.Auth.Refresh)
		r.Post("/logout", d.Auth.Logout)
	})

	// ─── Users ───
	r.Route("/v1/users", func(r chi.Router) {
		r.Get("/me", d.Users.Me)
		r.Delete("/me", d.Users.DeactivateMe)
		r.Patch("/profile", d.Users.PatchProfile)
		r.Get("/", d.Users.List)
		r.Patch("/role", d.Users.ChangeRole)
	})

	// ─── Roles ───
	r.Route("/v1/roles", func(r chi.Router) {
		r.Post("/", d.Roles.Create)
		r.Get("/{id}", d.Roles.Get)
		r.Put("/{id}", d.Roles.Update)
	})

	// ─── Posts ───
	r.Route("/v1/posts", func(r chi.Router) {
		r.Post("/", d.Posts.Create)
		r.Get("/", d.Posts.List)
		r.Get("/{id}", d.Posts.Get)
		r.Delete("/{id}", d.Posts.Delete)
	})

	// ─── Operacional ───
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := d.Store.Ping(ctx); err != nil {
			httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	// La cadena global envuelve todo el mux, 404s incluidos.
	return mw.Chain(r,
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithRecover(),
		apphttp.WithMetrics,
	)
}
