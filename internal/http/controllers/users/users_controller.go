// Package users expone los endpoints de usuarios: perfil propio, baja
// lógica y administración de roles de usuario.
package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/dropDatabas3/inkwell/internal/authz"
	"github.com/dropDatabas3/inkwell/internal/domain/repository"
	"github.com/dropDatabas3/inkwell/internal/http/dto"
	udto "github.com/dropDatabas3/inkwell/internal/http/dto/users"
	httperrors "github.com/dropDatabas3/inkwell/internal/http/errors"
	"github.com/dropDatabas3/inkwell/internal/http/helpers"
	svc "github.com/dropDatabas3/inkwell/internal/http/services/users"
	"github.com/dropDatabas3/inkwell/internal/jwt"
	"github.com/dropDatabas3/inkwell/internal/observability/logger"
)

const maxUserBodySize = 64 * 1024 // 64KB

// Controller maneja los endpoints de usuarios.
type Controller struct {
	service svc.Service
	guard   *authz.Guard
	codec   *jwt.Codec
	cookie  helpers.CookieSpec
}

// New crea el controller de usuarios.
func New(service svc.Service, guard *authz.Guard, codec *jwt.Codec, cookie helpers.CookieSpec) *Controller {
	return &Controller{service: service, guard: guard, codec: codec, cookie: cookie}
}

// Me maneja GET /v1/users/me
// Solo exige identidad, no permisos.
func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := c.guard.Authenticate(r.Context(), helpers.BearerToken(r))
	if err != nil {
		helpers.WriteGuardError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toUserResponse(actor))
}

// PatchProfile maneja PATCH /v1/users/profile
func (c *Controller) PatchProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := c.guard.Authenticate(ctx, helpers.BearerToken(r))
	if err != nil {
		helpers.WriteGuardError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUserBodySize)
	defer r.Body.Close()

	var req udto.PatchProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	updated, err := c.service.Patch(ctx, actor.ID, svc.PatchInput{
		Name:       req.Name,
		Surname:    req.Surname,
		Patronymic: req.Patronymic,
	})
	if err != nil {
		writeUsersError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toUserResponse(updated))
}

// DeactivateMe maneja DELETE /v1/users/me
//
// Exige los DOS tokens: el access como bearer y el refresh en la
// cookie, ambos del mismo sujeto. Con uno solo robado no alcanza para
// dar de baja la cuenta.
func (c *Controller) DeactivateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Users.DeactivateMe"))

	actor, err := c.guard.Authenticate(ctx, helpers.BearerToken(r))
	if err != nil {
		helpers.WriteGuardError(w, err)
		return
	}

	cookie, err := r.Cookie(c.cookie.Name)
	if err != nil || cookie.Value == "" {
		httperrors.WriteError(w, httperrors.ErrTokenMissing.WithDetail("se requiere también el refresh token"))
		return
	}
	refreshSub, err := c.codec.Verify(cookie.Value)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			httperrors.WriteError(w, httperrors.ErrTokenExpired)
			return
		}
		httperrors.WriteError(w, httperrors.ErrTokenInvalid)
		return
	}
	if refreshSub != actor.ID {
		httperrors.WriteError(w, httperrors.ErrTokenInvalid.WithDetail("los tokens no pertenecen al mismo usuario"))
		return
	}

	if err := c.service.Deactivate(ctx, actor.ID); err != nil {
		writeUsersError(w, err)
		return
	}

	log.Info("cuenta desactivada", logger.UserID(actor.ID.String()))
	helpers.ClearRefreshCookie(w, c.cookie)
	helpers.WriteJSON(w, http.StatusOK, udto.DeactivateResponse{Message: "cuenta desactivada"})
}

// List maneja GET /v1/users
// Gate: manage_roles.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := c.guard.Authorize(ctx, helpers.BearerToken(r), authz.PermManageRoles); err != nil {
		helpers.WriteGuardError(w, err)
		return
	}

	q := dto.ParsePageQuery(r)
	items, total, err := c.service.List(ctx, q.Page, q.Size)
	if err != nil {
		writeUsersError(w, err)
		return
	}

	out := make([]udto.UserWithRoleResponse, 0, len(items))
	for _, it := range items {
		out = append(out, udto.UserWithRoleResponse{
			UserResponse: toUserResponse(&it.User),
			Role:         it.RoleName,
		})
	}
	helpers.WriteJSON(w, http.StatusOK, dto.NewPaged(out, total, q))
}

// ChangeRole maneja PATCH /v1/users/role
// Gate: manage_roles.
func (c *Controller) ChangeRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Users.ChangeRole"))

	if _, err := c.guard.Authorize(ctx, helpers.BearerToken(r), authz.PermManageRoles); err != nil {
		helpers.WriteGuardError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUserBodySize)
	defer r.Body.Close()

	var req udto.ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("user_id inválido"))
		return
	}
	roleID, err := uuid.Parse(req.RoleID)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("role_id inválido"))
		return
	}

	updated, err := c.service.ChangeRole(ctx, userID, roleID)
	if err != nil {
		log.Debug("change role failed", logger.Err(err))
		writeUsersError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, udto.UserWithRoleResponse{
		UserResponse: toUserResponse(&updated.User),
		Role:         updated.RoleName,
	})
}

// ─── Helpers ───

func toUserResponse(u *repository.User) udto.UserResponse {
	return udto.UserResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Surname:    u.Surname,
		Patronymic: u.Patronymic,
		Email:      u.Email,
		IsActive:   u.IsActive,
	}
}

func writeUsersError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrUserNotFound):
		httperrors.WriteError(w, httperrors.ErrUserNotFound)

	case errors.Is(err, svc.ErrRoleNotFound):
		httperrors.WriteError(w, httperrors.ErrRoleNotFound)

	case repository.IsUnavailable(err):
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
