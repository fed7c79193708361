// Package auth expone los endpoints de registro y sesión.
package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dropDatabas3/inkwell/internal/domain/repository"
	dto "github.com/dropDatabas3/inkwell/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/inkwell/internal/http/errors"
	"github.com/dropDatabas3/inkwell/internal/http/helpers"
	svc "github.com/dropDatabas3/inkwell/internal/http/services/auth"
	"github.com/dropDatabas3/inkwell/internal/observability/logger"
)

const maxAuthBodySize = 64 * 1024 // 64KB

// Controller maneja los endpoints de auth.
type Controller struct {
	service svc.Service
	cookie  helpers.CookieSpec
}

// New crea el controller de auth.
func New(service svc.Service, cookie helpers.CookieSpec) *Controller {
	return &Controller{service: service, cookie: cookie}
}

// Register maneja POST /v1/auth/register
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Auth.Register"))

	r.Body = http.MaxBytesReader(w, r.Body, maxAuthBodySize)
	defer r.Body.Close()

	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	user, pair, err := c.service.Register(ctx, svc.RegisterInput{
		Name:           req.Name,
		Surname:        req.Surname,
		Patronymic:     req.Patronymic,
		Email:          req.Email,
		Password:       req.Password,
		PasswordRepeat: req.PasswordRepeat,
	})
	if err != nil {
		log.Debug("register failed", logger.Err(err))
		writeRegisterError(w, err)
		return
	}

	// El registro deja al usuario logueado: cookie de refresh + access.
	helpers.SetRefreshCookie(w, c.cookie, pair.Refresh)
	helpers.WriteJSON(w, http.StatusCreated, dto.RegisterResponse{
		ID:         user.ID.String(),
		Name:       user.Name,
		Surname:    user.Surname,
		Patronymic: user.Patronymic,
		Email:      user.Email,
		IsActive:   user.IsActive,

		AccessToken: pair.Access,
		TokenType:   "Bearer",
		ExpiresIn:   pair.ExpiresIn,
	})
}

// Login maneja POST /v1/auth/login
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Auth.Login"))

	r.Body = http.MaxBytesReader(w, r.Body, maxAuthBodySize)
	defer r.Body.Close()

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	pair, err := c.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		writeLoginError(w, err)
		return
	}

	// El refresh viaja solo en la cookie; el body lleva el access.
	helpers.SetRefreshCookie(w, c.cookie, pair.Refresh)
	helpers.WriteJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: pair.Access,
		TokenType:   "Bearer",
		ExpiresIn:   pair.ExpiresIn,
	})
}

// Refresh maneja POST /v1/auth/refresh
func (c *Controller) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Auth.Refresh"))

	cookie, err := r.Cookie(c.cookie.Name)
	if err != nil || cookie.Value == "" {
		httperrors.WriteError(w, httperrors.ErrTokenMissing)
		return
	}

	pair, err := c.service.Refresh(ctx, cookie.Value)
	if err != nil {
		// En fallo la cookie queda como está: no se reescribe nada.
		log.Debug("refresh failed", logger.Err(err))
		writeRefreshError(w, err)
		return
	}

	// Rotación completa: cookie nueva + access nuevo.
	helpers.SetRefreshCookie(w, c.cookie, pair.Refresh)
	helpers.WriteJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: pair.Access,
		TokenType:   "Bearer",
		ExpiresIn:   pair.ExpiresIn,
	})
}

// Logout maneja POST /v1/auth/logout
// No hay estado server-side que invalidar: borrar la cookie es todo.
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	helpers.ClearRefreshCookie(w, c.cookie)
	helpers.WriteJSON(w, http.StatusOK, dto.LogoutResponse{Message: "sesión cerrada"})
}

// ─── Helpers ───

func writeRegisterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("email y password son obligatorios"))

	case errors.Is(err, svc.ErrPasswordMismatch):
		httperrors.WriteError(w, httperrors.ErrPasswordMismatch)

	case errors.Is(err, svc.ErrEmailTaken):
		httperrors.WriteError(w, httperrors.ErrEmailAlreadyInUse)

	case errors.Is(err, svc.ErrDefaultRoleNotConfigured):
		httperrors.WriteError(w, httperrors.ErrDefaultRoleNotConfigured)

	default:
		writeStorageOrInternal(w, err)
	}
}

func writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)

	default:
		writeStorageOrInternal(w, err)
	}
}

func writeRefreshError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrRefreshExpired):
		httperrors.WriteError(w, httperrors.ErrTokenExpired)

	case errors.Is(err, svc.ErrRefreshInvalid):
		httperrors.WriteError(w, httperrors.ErrTokenInvalid)

	case errors.Is(err, svc.ErrUserNotFound):
		httperrors.WriteError(w, httperrors.ErrUserNotFound)

	default:
		writeStorageOrInternal(w, err)
	}
}

func writeStorageOrInternal(w http.ResponseWriter, err error) {
	if repository.IsUnavailable(err) {
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))
		return
	}
	httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
}
