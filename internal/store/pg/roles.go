package pg

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/inkwell/internal/domain/repository"
)

type roleRepo struct {
	pool *pgxpool.Pool
}

const (
	sqlRoleInsert = `
		INSERT INTO role (name, read_posts_access, write_posts_access, delete_posts_access, manage_roles_access)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, read_posts_access, write_posts_access, delete_posts_access, manage_roles_access`

	sqlRoleByID = `
		SELECT id, name, read_posts_access, write_posts_access, delete_posts_access, manage_roles_access
		FROM role WHERE id = $1`

	sqlRoleByName = `
		SELECT id, name, read_posts_access, write_posts_access, delete_posts_access, manage_roles_access
		FROM role WHERE name = $1`

	sqlRoleUpdate = `
		UPDATE role SET
			name = $2,
			read_posts_access = $3,
			write_posts_access = $4,
			delete_posts_access = $5,
			manage_roles_access = $6
		WHERE id = $1
		RETURNING id, name, read_posts_access, write_posts_access, delete_posts_access, manage_roles_access`
)

func (r *roleRepo) Create(ctx context.Context, in repository.RoleInput) (*repository.Role, error) {
	row := r.pool.QueryRow(ctx, sqlRoleInsert,
		in.Name, in.ReadPostsAccess, in.WritePostsAccess, in.DeletePostsAccess, in.ManageRolesAccess)
	return scanRole(row)
}

func (r *roleRepo) GetByID(ctx context.Context, id uuid.UUID) (*repository.Role, error) {
	return scanRole(r.pool.QueryRow(ctx, sqlRoleByID, id))
}

func (r *roleRepo) GetByName(ctx context.Context, name string) (*repository.Role, error) {
	return scanRole(r.pool.QueryRow(ctx, sqlRoleByName, name))
}

func (r *roleRepo) Update(ctx context.Context, id uuid.UUID, in repository.RoleInput) (*repository.Role, error) {
	row := r.pool.QueryRow(ctx, sqlRoleUpdate, id,
		in.Name, in.ReadPostsAccess, in.WritePostsAccess, in.DeletePostsAccess, in.ManageRolesAccess)
	return scanRole(row)
}

func scanRole(row rowScanner) (*repository.Role, error) {
	var ro repository.Role
	err := row.Scan(&ro.ID, &ro.Name, &ro.ReadPostsAccess, &ro.WritePostsAccess,
		&ro.DeletePostsAccess, &ro.ManageRolesAccess)
	if err != nil {
		return nil, mapErr(err)
	}
	return &ro, nil
}
