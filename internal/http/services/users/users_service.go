// Package users implementa las operaciones sobre usuarios: perfil
// propio, baja lógica, listado y reasignación de rol.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dropDatabas3/inkwell/internal/domain/repository"
	"github.com/dropDatabas3/inkwell/internal/observability/logger"
)

var (
	// ErrUserNotFound: el usuario objetivo no existe.
	ErrUserNotFound = errors.New("user not found")

	// ErrRoleNotFound: el rol objetivo no existe.
	ErrRoleNotFound = errors.New("role not found")
)

// PatchInput contiene los campos editables del perfil. nil = no tocar.
type PatchInput struct {
	Name       *string
	Surname    *string
	Patronymic *string
}

// Service define las operaciones sobre usuarios.
type Service interface {
	// Patch actualiza el perfil del propio actor.
	Patch(ctx context.Context, id uuid.UUID, in PatchInput) (*repository.User, error)

	// Deactivate es la baja lógica: is_active=false. La fila queda.
	// Los tokens vigentes del usuario siguen autorizando hasta vencer.
	Deactivate(ctx context.Context, id uuid.UUID) error

	// List pagina usuarios con el nombre de su rol.
	List(ctx context.Context, page, size int) ([]repository.UserWithRole, int, error)

	// ChangeRole reasigna el rol de un usuario. Valida que usuario y
	// rol existan antes de escribir.
	ChangeRole(ctx context.Context, userID, roleID uuid.UUID) (*repository.UserWithRole, error)
}

// Deps agrupa las dependencias del service.
type Deps struct {
	Users repository.UserRepository
	Roles repository.RoleRepository
}

type service struct {
	d Deps
}

// New crea el service de usuarios.
func New(d Deps) Service {
	return &service{d: d}
}

func (s *service) Patch(ctx context.Context, id uuid.UUID, in PatchInput) (*repository.User, error) {
	user, err := s.d.Users.Patch(ctx, id, repository.PatchUserInput{
		Name:       in.Name,
		Surname:    in.Surname,
		Patronymic: in.Patronymic,
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("users: patch: %w", err)
	}
	return user, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	inactive := false
	_, err := s.d.Users.Patch(ctx, id, repository.PatchUserInput{IsActive: &inactive})
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("users: deactivate: %w", err)
	}
	logger.From(ctx).Info("usuario desactivado",
		logger.Layer("service"),
		logger.UserID(id.String()),
	)
	return nil
}

func (s *service) List(ctx context.Context, page, size int) ([]repository.UserWithRole, int, error) {
	items, total, err := s.d.Users.GetAll(ctx, page, size)
	if err != nil {
		return nil, 0, fmt.Errorf("users: list: %w", err)
	}
	return items, total, nil
}

func (s *service) ChangeRole(ctx context.Context, userID, roleID uuid.UUID) (*repository.UserWithRole, error) {
	// Validar ambos extremos antes de escribir: el error distingue
	// usuario inexistente de rol inexistente.
	if _, err := s.d.Users.GetByID(ctx, userID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("users: buscar usuario: %w", err)
	}
	role, err := s.d.Roles.GetByID(ctx, roleID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("users: buscar rol: %w", err)
	}

	user, err := s.d.Users.ChangeRole(ctx, userID, roleID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("users: cambiar rol: %w", err)
	}

	logger.From(ctx).Info("rol reasignado",
		logger.Layer("service"),
		logger.UserID(userID.String()),
		logger.RoleName(role.Name),
	)
	return &repository.UserWithRole{User: *user, RoleName: role.Name}, nil
}
