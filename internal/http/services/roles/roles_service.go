// Package roles implementa la administración de roles.
package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dropDatabas3/inkwell/internal/domain/repository"
	"github.com/dropDatabas3/inkwell/internal/observability/logger"
)

var (
	// ErrRoleNotFound: el rol no existe.
	ErrRoleNotFound = errors.New("role not found")

	// ErrRoleTaken: ya hay un rol con ese nombre.
	ErrRoleTaken = errors.New("role name already taken")

	// ErrMissingName: el nombre es obligatorio.
	ErrMissingName = errors.New("role name is required")
)

// Service define las operaciones sobre roles.
type Service interface {
	Create(ctx context.Context, in repository.RoleInput) (*repository.Role, error)
	Get(ctx context.Context, id uuid.UUID) (*repository.Role, error)
	Update(ctx context.Context, id uuid.UUID, in repository.RoleInput) (*repository.Role, error)
}

// Deps agrupa las dependencias del service.
type Deps struct {
	Roles repository.RoleRepository

	// InvalidateRole se llama al actualizar un rol, para que el guard
	// no siga sirviendo flags viejos desde el cache.
	InvalidateRole func(id uuid.UUID)
}

type service struct {
	d Deps
}

// New crea el service de roles.
func New(d Deps) Service {
	return &service{d: d}
}

func (s *service) Create(ctx context.Context, in repository.RoleInput) (*repository.Role, error) {
	if in.Name == "" {
		return nil, ErrMissingName
	}
	role, err := s.d.Roles.Create(ctx, in)
	if err != nil {
		if repository.IsConflict(err) {
			return nil, ErrRoleTaken
		}
		return nil, fmt.Errorf("roles: crear: %w", err)
	}
	logger.From(ctx).Info("rol creado",
		logger.Layer("service"),
		logger.RoleID(role.ID.String()),
		logger.RoleName(role.Name),
	)
	return role, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*repository.Role, error) {
	role, err := s.d.Roles.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("roles: buscar: %w", err)
	}
	return role, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, in repository.RoleInput) (*repository.Role, error) {
	if in.Name == "" {
		return nil, ErrMissingName
	}
	role, err := s.d.Roles.Update(ctx, id, in)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRoleNotFound
		}
		if repository.IsConflict(err) {
			return nil, ErrRoleTaken
		}
		return nil, fmt.Errorf("roles: actualizar: %w", err)
	}
	if s.d.InvalidateRole != nil {
		s.d.InvalidateRole(role.ID)
	}
	return role, nil
}
