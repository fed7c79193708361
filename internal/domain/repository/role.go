package repository

import (
	"context"

	"github.com/google/uuid"
)

// Role representa un rol con sus cuatro flags de permiso planos
// (variante "rights embebidos": los servicios leen los booleanos
// directamente de la fila del rol).
type Role struct {
	ID                uuid.UUID
	Name              string
	ReadPostsAccess   bool
	WritePostsAccess  bool
	DeletePostsAccess bool
	ManageRolesAccess bool
}

// RoleInput representa los datos para crear/actualizar un rol.
type RoleInput struct {
	Name              string
	ReadPostsAccess   bool
	WritePostsAccess  bool
	DeletePostsAccess bool
	ManageRolesAccess bool
}

// RoleRepository define operaciones sobre roles.
type RoleRepository interface {
	// Create inserta un rol. Retorna ErrConflict si el nombre ya existe.
	Create(ctx context.Context, in RoleInput) (*Role, error)

	// GetByID busca por ID. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id uuid.UUID) (*Role, error)

	// GetByName busca por nombre. Retorna ErrNotFound si no existe.
	GetByName(ctx context.Context, name string) (*Role, error)

	// Update reemplaza nombre y flags. Retorna ErrNotFound si no existe.
	Update(ctx context.Context, id uuid.UUID, in RoleInput) (*Role, error)
}
