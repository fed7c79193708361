package pg

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/inkwell/internal/domain/repository"
)

type userRepo struct {
	pool *pgxpool.Pool
}

const (
	sqlUserInsert = `
		INSERT INTO app_user (name, surname, patronymic, email, password_hash, role_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, surname, patronymic, email, password_hash, is_active, role_id`

	sqlUserByID = `
		SELECT id, name, surname, patronymic, email, password_hash, is_active, role_id
		FROM app_user WHERE id = $1`

	sqlUserByEmail = `
		SELECT id, name, surname, patronymic, email, password_hash, is_active, role_id
		FROM app_user WHERE email = $1`

	sqlUserList = `
		SELECT u.id, u.name, u.surname, u.patronymic, u.email, u.password_hash,
		       u.is_active, u.role_id, r.name
		FROM app_user u
		JOIN role r ON r.id = u.role_id
		ORDER BY u.email
		LIMIT $1 OFFSET $2`

	sqlUserCount = `SELECT count(*) FROM app_user`

	// COALESCE con NULL de sentinel: solo pisa los campos que vienen.
	sqlUserPatch = `
		UPDATE app_user SET
			name       = COALESCE($2, name),
			surname    = COALESCE($3, surname),
			patronymic = COALESCE($4, patronymic),
			is_active  = COALESCE($5, is_active)
		WHERE id = $1
		RETURNING id, name, surname, patronymic, email, password_hash, is_active, role_id`

	sqlUserChangeRole = `
		UPDATE app_user SET role_id = $2 WHERE id = $1
		RETURNING id, name, surname, patronymic, email, password_hash, is_active, role_id`
)

func (r *userRepo) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	row := r.pool.QueryRow(ctx, sqlUserInsert,
		in.Name, in.Surname, in.Patronymic, in.Email, in.PasswordHash, in.RoleID)
	return scanUser(row)
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*repository.User, error) {
	return scanUser(r.pool.QueryRow(ctx, sqlUserByID, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	return scanUser(r.pool.QueryRow(ctx, sqlUserByEmail, email))
}

func (r *userRepo) GetAll(ctx context.Context, page, pageSize int) ([]repository.UserWithRole, int, error) {
	limit, offset := limitOffset(page, pageSize)

	var total int
	if err := r.pool.QueryRow(ctx, sqlUserCount).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	rows, err := r.pool.Query(ctx, sqlUserList, limit, offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	out := make([]repository.UserWithRole, 0, limit)
	for rows.Next() {
		var uw repository.UserWithRole
		if err := rows.Scan(&uw.ID, &uw.Name, &uw.Surname, &uw.Patronymic,
			&uw.Email, &uw.PasswordHash, &uw.IsActive, &uw.RoleID, &uw.RoleName); err != nil {
			return nil, 0, mapErr(err)
		}
		out = append(out, uw)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapErr(err)
	}
	return out, total, nil
}

func (r *userRepo) Patch(ctx context.Context, id uuid.UUID, in repository.PatchUserInput) (*repository.User, error) {
	row := r.pool.QueryRow(ctx, sqlUserPatch, id,
		in.Name, in.Surname, in.Patronymic, in.IsActive)
	return scanUser(row)
}

func (r *userRepo) ChangeRole(ctx context.Context, id, roleID uuid.UUID) (*repository.User, error) {
	return scanUser(r.pool.QueryRow(ctx, sqlUserChangeRole, id, roleID))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*repository.User, error) {
	var u repository.User
	err := row.Scan(&u.ID, &u.Name, &u.Surname, &u.Patronymic,
		&u.Email, &u.PasswordHash, &u.IsActive, &u.RoleID)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}
