package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/inkwell/internal/domain/repository"
)

type fakeUsers struct {
	repository.UserRepository
	byID        map[uuid.UUID]*repository.User
	changeRoles int
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*repository.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Patch(_ context.Context, id uuid.UUID, in repository.PatchUserInput) (*repository.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Surname != nil {
		u.Surname = *in.Surname
	}
	if in.Patronymic != nil {
		u.Patronymic = *in.Patronymic
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	return u, nil
}

func (f *fakeUsers) ChangeRole(_ context.Context, userID, roleID uuid.UUID) (*repository.User, error) {
	f.changeRoles++
	u, ok := f.byID[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.RoleID = roleID
	return u, nil
}

type fakeRoles struct {
	repository.RoleRepository
	byID map[uuid.UUID]*repository.Role
}

func (f *fakeRoles) GetByID(_ context.Context, id uuid.UUID) (*repository.Role, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func TestPatch_PartialUpdate(t *testing.T) {
	id := uuid.New()
	users := &fakeUsers{byID: map[uuid.UUID]*repository.User{
		id: {ID: id, Name: "Ana", Surname: "García", IsActive: true},
	}}
	svc := New(Deps{Users: users})

	nuevo := "Anabel"
	got, err := svc.Patch(context.Background(), id, PatchInput{Name: &nuevo})
	require.NoError(t, err)
	assert.Equal(t, "Anabel", got.Name)
	// Los campos no enviados quedan como estaban.
	assert.Equal(t, "García", got.Surname)
}

func TestPatch_UserGone(t *testing.T) {
	svc := New(Deps{Users: &fakeUsers{byID: map[uuid.UUID]*repository.User{}}})
	_, err := svc.Patch(context.Background(), uuid.New(), PatchInput{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeactivate_SetsInactive(t *testing.T) {
	id := uuid.New()
	users := &fakeUsers{byID: map[uuid.UUID]*repository.User{
		id: {ID: id, IsActive: true},
	}}
	svc := New(Deps{Users: users})

	require.NoError(t, svc.Deactivate(context.Background(), id))
	assert.False(t, users.byID[id].IsActive)
}

func TestChangeRole_OK(t *testing.T) {
	userID, roleID := uuid.New(), uuid.New()
	users := &fakeUsers{byID: map[uuid.UUID]*repository.User{
		userID: {ID: userID, Email: "ana@example.com"},
	}}
	roles := &fakeRoles{byID: map[uuid.UUID]*repository.Role{
		roleID: {ID: roleID, Name: "editor"},
	}}
	svc := New(Deps{Users: users, Roles: roles})

	got, err := svc.ChangeRole(context.Background(), userID, roleID)
	require.NoError(t, err)
	assert.Equal(t, roleID, got.RoleID)
	assert.Equal(t, "editor", got.RoleName)
}

func TestChangeRole_UserNotFound(t *testing.T) {
	users := &fakeUsers{byID: map[uuid.UUID]*repository.User{}}
	roles := &fakeRoles{byID: map[uuid.UUID]*repository.Role{}}
	svc := New(Deps{Users: users, Roles: roles})

	_, err := svc.ChangeRole(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, users.changeRoles)
}

func TestChangeRole_RoleNotFound(t *testing.T) {
	userID := uuid.New()
	users := &fakeUsers{byID: map[uuid.UUID]*repository.User{
		userID: {ID: userID},
	}}
	roles := &fakeRoles{byID: map[uuid.UUID]*repository.Role{}}
	svc := New(Deps{Users: users, Roles: roles})

	// El error distingue rol inexistente de usuario inexistente y no escribe.
	_, err := svc.ChangeRole(context.Background(), userID, uuid.New())
	assert.ErrorIs(t, err, ErrRoleNotFound)
	assert.Zero(t, users.changeRoles)
}
