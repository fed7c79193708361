package roles

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/inkwell/internal/domain/repository"
)

type fakeRoles struct {
	repository.RoleRepository
	byID   map[uuid.UUID]*repository.Role
	byName map[string]*repository.Role
}

func newFakeRoles() *fakeRoles {
	return &fakeRoles{
		byID:   map[uuid.UUID]*repository.Role{},
		byName: map[string]*repository.Role{},
	}
}

func (f *fakeRoles) Create(_ context.Context, in repository.RoleInput) (*repository.Role, error) {
	if _, ok := f.byName[in.Name]; ok {
		return nil, repository.ErrConflict
	}
	r := &repository.Role{
		ID:                uuid.New(),
		Name:              in.Name,
		ReadPostsAccess:   in.ReadPostsAccess,
		WritePostsAccess:  in.WritePostsAccess,
		DeletePostsAccess: in.DeletePostsAccess,
		ManageRolesAccess: in.ManageRolesAccess,
	}
	f.byID[r.ID] = r
	f.byName[r.Name] = r
	return r, nil
}

func (f *fakeRoles) GetByID(_ context.Context, id uuid.UUID) (*repository.Role, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func (f *fakeRoles) Update(_ context.Context, id uuid.UUID, in repository.RoleInput) (*repository.Role, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	r.Name = in.Name
	r.ReadPostsAccess = in.ReadPostsAccess
	r.WritePostsAccess = in.WritePostsAccess
	r.DeletePostsAccess = in.DeletePostsAccess
	r.ManageRolesAccess = in.ManageRolesAccess
	return r, nil
}

func TestCreate_OK(t *testing.T) {
	svc := New(Deps{Roles: newFakeRoles()})
	got, err := svc.Create(context.Background(), repository.RoleInput{
		Name:            "lector",
		ReadPostsAccess: true,
	})
	require.NoError(t, err)
	assert.True(t, got.ReadPostsAccess)
	assert.False(t, got.ManageRolesAccess)
}

func TestCreate_MissingName(t *testing.T) {
	svc := New(Deps{Roles: newFakeRoles()})
	_, err := svc.Create(context.Background(), repository.RoleInput{})
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestCreate_NameTaken(t *testing.T) {
	repo := newFakeRoles()
	svc := New(Deps{Roles: repo})

	_, err := svc.Create(context.Background(), repository.RoleInput{Name: "editor"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), repository.RoleInput{Name: "editor"})
	assert.ErrorIs(t, err, ErrRoleTaken)
}

func TestUpdate_InvalidatesCache(t *testing.T) {
	repo := newFakeRoles()
	var invalidated []uuid.UUID
	svc := New(Deps{
		Roles:          repo,
		InvalidateRole: func(id uuid.UUID) { invalidated = append(invalidated, id) },
	})

	role, err := svc.Create(context.Background(), repository.RoleInput{Name: "editor"})
	require.NoError(t, err)
	assert.Empty(t, invalidated)

	got, err := svc.Update(context.Background(), role.ID, repository.RoleInput{
		Name:             "editor",
		WritePostsAccess: true,
	})
	require.NoError(t, err)
	assert.True(t, got.WritePostsAccess)
	assert.Equal(t, []uuid.UUID{role.ID}, invalidated)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := New(Deps{Roles: newFakeRoles()})
	_, err := svc.Update(context.Background(), uuid.New(), repository.RoleInput{Name: "x"})
	assert.ErrorIs(t, err, ErrRoleNotFound)
}
