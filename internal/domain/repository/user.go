package repository

import (
	"context"

	"github.com/google/uuid"
)

// User representa un usuario del sistema.
// El password nunca viaja en claro: solo su hash one-way.
// IsActive=false es soft delete; las filas de usuario no se borran nunca.
type User struct {
	ID           uuid.UUID
	Name         string
	Surname      string
	Patronymic   string
	Email        string
	PasswordHash string
	IsActive     bool
	RoleID       uuid.UUID // non-null por invariante: todo usuario referencia un rol
}

// CreateUserInput contiene los datos para crear un usuario.
type CreateUserInput struct {
	Name         string
	Surname      string
	Patronymic   string
	Email        string
	PasswordHash string
	RoleID       uuid.UUID
}

// PatchUserInput contiene los campos actualizables del perfil.
// nil = no tocar.
type PatchUserInput struct {
	Name       *string
	Surname    *string
	Patronymic *string
	IsActive   *bool
}

// UserWithRole es la proyección del listado: usuario + nombre de su rol.
type UserWithRole struct {
	User
	RoleName string
}

// UserRepository define operaciones sobre usuarios.
// Cada operación es una unidad de trabajo atómica.
type UserRepository interface {
	// Create inserta un usuario nuevo. Retorna ErrConflict si el email ya existe.
	Create(ctx context.Context, in CreateUserInput) (*User, error)

	// GetByID busca por ID. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail busca por email. Retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetAll pagina usuarios con el nombre de su rol, ordenados por email.
	// page arranca en 1. Retorna también el total para la paginación.
	GetAll(ctx context.Context, page, pageSize int) ([]UserWithRole, int, error)

	// Patch actualiza los campos no-nil. Retorna ErrNotFound si no existe.
	Patch(ctx context.Context, id uuid.UUID, in PatchUserInput) (*User, error)

	// ChangeRole reasigna el rol del usuario. Retorna ErrNotFound si no existe.
	ChangeRole(ctx context.Context, id, roleID uuid.UUID) (*User, error)
}
