package authz

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/inkwell/internal/cache/memory"
	"github.com/dropDatabas3/inkwell/internal/domain/repository"
	"github.com/dropDatabas3/inkwell/internal/jwt"
)

// ─────────────────────────── Fakes ───────────────────────────

type fakeUsers struct {
	repository.UserRepository
	byID map[uuid.UUID]*repository.User
	err  error
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*repository.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type fakeRoles struct {
	repository.RoleRepository
	byID  map[uuid.UUID]*repository.Role
	calls int
}

func (f *fakeRoles) GetByID(_ context.Context, id uuid.UUID) (*repository.Role, error) {
	f.calls++
	r, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

type fixture struct {
	guard *Guard
	codec *jwt.Codec
	users *fakeUsers
	roles *fakeRoles
	user  *repository.User
	role  *repository.Role
}

func newFixture(t *testing.T, role repository.Role) *fixture {
	t.Helper()

	keys, err := jwt.NewDevEd25519()
	require.NoError(t, err)
	codec := jwt.NewCodec(keys, 30*time.Minute, 20160*time.Minute)

	role.ID = uuid.New()
	user := &repository.User{
		ID:       uuid.New(),
		Email:    "ana@example.com",
		IsActive: true,
		RoleID:   role.ID,
	}

	users := &fakeUsers{byID: map[uuid.UUID]*repository.User{user.ID: user}}
	roles := &fakeRoles{byID: map[uuid.UUID]*repository.Role{role.ID: &role}}

	return &fixture{
		guard: New(Deps{Codec: codec, Users: users, Roles: roles}),
		codec: codec,
		users: users,
		roles: roles,
		user:  user,
		role:  &role,
	}
}

func (f *fixture) token(t *testing.T) string {
	t.Helper()
	tok, err := f.codec.Issue(f.user.ID, jwt.KindAccess)
	require.NoError(t, err)
	return tok
}

// ─────────────────────────── Tests ───────────────────────────

func TestAuthorize_OK(t *testing.T) {
	f := newFixture(t, repository.Role{Name: "user", ReadPostsAccess: true})

	got, err := f.guard.Authorize(context.Background(), f.token(t), PermReadPosts)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, got.ID)
}

func TestAuthorize_MissingToken(t *testing.T) {
	f := newFixture(t, repository.Role{Name: "user", ReadPostsAccess: true})

	_, err := f.guard.Authorize(context.Background(), "", PermReadPosts)
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestAuthorize_Garbage(t *testing.T) {
	f := newFixture(t, repository.Role{Name: "user", ReadPostsAccess: true})

	_, err := f.guard.Authorize(context.Background(), "no.es.jwt", PermReadPosts)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestAuthorize_WrongKey(t *testing.T) {
	f := newFixture(t, repository.Role{Name: "user", ReadPostsAccess: true})

	otherKeys, err := jwt.NewDevEd25519()
	require.NoError(t, err)
	other := jwt.NewCodec(otherKeys, 30*time.Minute, 20160*time.Minute)
	tok, err := other.Issue(f.user.ID, jwt.KindAccess)
	require.NoError(t, err)

	_, err = f.guard.Authorize(context.Background(), tok, PermReadPosts)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestAuthorize_ActorNotFound(t *testing.T) {
	f := newFixture(t, repository.Role{Name: "user", ReadPostsAccess: true})

	ghost := uuid.New()
	tok, err := f.codec.Issue(ghost, jwt.KindAccess)
	require.NoError(t, err)

	_, err = f.guard.Authorize(context.Background(), tok, PermReadPosts)
	assert.ErrorIs(t, err, ErrActorNotFound)
}

func TestAuthorize_StorageDown(t *testing.T) {
	f := newFixture(t, repository.Role{Name: "user", ReadPostsAccess: true})
	f.users.err = repository.ErrUnavailable

	_, err := f.guard.Authorize(context.Background(), f.token(t), PermReadPosts)
	require.Error(t, err)
	// El fallo de storage no se disfraza de problema de credenciales.
	assert.ErrorIs(t, err, repository.ErrUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidCredential)
	assert.NotErrorIs(t, err, ErrForbidden)
}

func TestAuthorize_PermissionMatrix(t *testing.T) {
	// Rol de lector: solo read_posts. Las otras tres puertas cierran.
	cases := []struct {
		perm    Permission
		allowed bool
	}{
		{PermReadPosts, true},
		{PermWritePosts, false},
		{PermDeletePosts, false},
		{PermManageRoles, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.perm), func(t *testing.T) {
			f := newFixture(t, repository.Role{Name: "user", ReadPostsAccess: true})
			_, err := f.guard.Authorize(context.Background(), f.token(t), tc.perm)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestAuthorize_InactiveUserStillAuthorizes(t *testing.T) {
	// La desactivación no corta tokens vigentes; solo muerde en login.
	f := newFixture(t, repository.Role{Name: "user", ReadPostsAccess: true})
	f.user.IsActive = false

	got, err := f.guard.Authorize(context.Background(), f.token(t), PermReadPosts)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestAuthorize_RoleCacheHit(t *testing.T) {
	f := newFixture(t, repository.Role{Name: "admin", ReadPostsAccess: true, ManageRolesAccess: true})
	f.guard.cache = memory.New(time.Minute)
	f.guard.roleTTL = time.Minute

	for i := 0; i < 3; i++ {
		_, err := f.guard.Authorize(context.Background(), f.token(t), PermManageRoles)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.roles.calls)
}

func TestAuthorize_DanglingRole(t *testing.T) {
	// Un role_id que no resuelve es corrupción de datos: error interno,
	// nunca un forbidden que la disimule.
	f := newFixture(t, repository.Role{Name: "user", ReadPostsAccess: true})
	delete(f.roles.byID, f.role.ID)

	_, err := f.guard.Authorize(context.Background(), f.token(t), PermReadPosts)
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NotErrorIs(t, err, ErrForbidden)
}
