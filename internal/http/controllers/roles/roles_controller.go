// Package roles expone los endpoints de administración de roles.
// Todas las rutas están gateadas por manage_roles.
package roles

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/inkwell/internal/authz"
	"github.com/dropDatabas3/inkwell/internal/domain/repository"
	rdto "github.com/dropDatabas3/inkwell/internal/http/dto/roles"
	httperrors "github.com/dropDatabas3/inkwell/internal/http/errors"
	"github.com/dropDatabas3/inkwell/internal/http/helpers"
	svc "github.com/dropDatabas3/inkwell/internal/http/services/roles"
	"github.com/dropDatabas3/inkwell/internal/observability/logger"
)

const maxRoleBodySize = 16 * 1024 // 16KB

// Controller maneja los endpoints de roles.
type Controller struct {
	service svc.Service
	guard   *authz.Guard
}

// New crea el controller de roles.
func New(service svc.Service, guard *authz.Guard) *Controller {
	return &Controller{service: service, guard: guard}
}

// Create maneja POST /v1/roles
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Roles.Create"))

	if _, err := c.guard.Authorize(ctx, helpers.BearerToken(r), authz.PermManageRoles); err != nil {
		helpers.WriteGuardError(w, err)
		return
	}

	req, ok := decodeRole(w, r)
	if !ok {
		return
	}

	role, err := c.service.Create(ctx, toRoleInput(req))
	if err != nil {
		log.Debug("create role failed", logger.Err(err))
		writeRolesError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, toRoleResponse(role))
}

// Get maneja GET /v1/roles/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := c.guard.Authorize(ctx, helpers.BearerToken(r), authz.PermManageRoles); err != nil {
		helpers.WriteGuardError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("id inválido"))
		return
	}

	role, err := c.service.Get(ctx, id)
	if err != nil {
		writeRolesError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toRoleResponse(role))
}

// Update maneja PUT /v1/roles/{id}
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Roles.Update"))

	if _, err := c.guard.Authorize(ctx, helpers.BearerToken(r), authz.PermManageRoles); err != nil {
		helpers.WriteGuardError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("id inválido"))
		return
	}

	req, ok := decodeRole(w, r)
	if !ok {
		return
	}

	role, err := c.service.Update(ctx, id, toRoleInput(req))
	if err != nil {
		log.Debug("update role failed", logger.Err(err))
		writeRolesError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toRoleResponse(role))
}

// ─── Helpers ───

func decodeRole(w http.ResponseWriter, r *http.Request) (rdto.RoleRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRoleBodySize)
	defer r.Body.Close()

	var req rdto.RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return rdto.RoleRequest{}, false
	}
	return req, true
}

func toRoleInput(req rdto.RoleRequest) repository.RoleInput {
	return repository.RoleInput{
		Name:              req.Name,
		ReadPostsAccess:   req.ReadPostsAccess,
		WritePostsAccess:  req.WritePostsAccess,
		DeletePostsAccess: req.DeletePostsAccess,
		ManageRolesAccess: req.ManageRolesAccess,
	}
}

func toRoleResponse(role *repository.Role) rdto.RoleResponse {
	return rdto.RoleResponse{
		ID:                role.ID.String(),
		Name:              role.Name,
		ReadPostsAccess:   role.ReadPostsAccess,
		WritePostsAccess:  role.WritePostsAccess,
		DeletePostsAccess: role.DeletePostsAccess,
		ManageRolesAccess: role.ManageRolesAccess,
	}
}

func writeRolesError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingName):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("name es obligatorio"))

	case errors.Is(err, svc.ErrRoleNotFound):
		httperrors.WriteError(w, httperrors.ErrRoleNotFound)

	case errors.Is(err, svc.ErrRoleTaken):
		httperrors.WriteError(w, httperrors.ErrRoleAlreadyExists)

	case repository.IsUnavailable(err):
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
