package posts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/inkwell/internal/authz"
	"github.com/dropDatabas3/inkwell/internal/domain/repository"
	svc "github.com/dropDatabas3/inkwell/internal/http/services/posts"
	"github.com/dropDatabas3/inkwell/internal/jwt"
)

// ─────────────────────────── Fakes ───────────────────────────

type fakeUsers struct {
	repository.UserRepository
	byID map[uuid.UUID]*repository.User
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*repository.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
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

type fakePosts struct {
	repository.PostRepository
	byID map[uuid.UUID]*repository.Post
}

func (f *fakePosts) Create(_ context.Context, in repository.CreatePostInput) (*repository.Post, error) {
	p := &repository.Post{ID: uuid.New(), Title: in.Title, Text: in.Text, AuthorID: in.AuthorID}
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakePosts) GetByID(_ context.Context, id uuid.UUID) (*repository.Post, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePosts) GetAll(_ context.Context, page, size int) ([]repository.Post, int, error) {
	out := make([]repository.Post, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakePosts) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := f.byID[id]; !ok {
		return 0, nil
	}
	delete(f.byID, id)
	return 1, nil
}

type fixture struct {
	handler http.Handler
	token   string
	role    *repository.Role
	posts   *fakePosts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	keys, err := jwt.NewDevEd25519()
	require.NoError(t, err)
	codec := jwt.NewCodec(keys, 30*time.Minute, 20160*time.Minute)

	role := &repository.Role{ID: uuid.New(), Name: "user", ReadPostsAccess: true}
	user := &repository.User{ID: uuid.New(), Email: "ana@example.com", IsActive: true, RoleID: role.ID}

	guard := authz.New(authz.Deps{
		Codec: codec,
		Users: &fakeUsers{byID: map[uuid.UUID]*repository.User{user.ID: user}},
		Roles: &fakeRoles{byID: map[uuid.UUID]*repository.Role{role.ID: role}},
	})

	posts := &fakePosts{byID: map[uuid.UUID]*repository.Post{}}
	ctrl := New(svc.New(svc.Deps{Posts: posts}), guard)

	r := chi.NewRouter()
	r.Post("/v1/posts", ctrl.Create)
	r.Get("/v1/posts", ctrl.List)
	r.Get("/v1/posts/{id}", ctrl.Get)
	r.Delete("/v1/posts/{id}", ctrl.Delete)

	token, err := codec.Issue(user.ID, jwt.KindAccess)
	require.NoError(t, err)

	return &fixture{handler: r, token: token, role: role, posts: posts}
}

func (f *fixture) request(method, path, body string, withToken bool) *httptest.ResponseRecorder {
	var rd *strings.Reader
	if body != "" {
		rd = strings.NewReader(body)
	} else {
		rd = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, rd)
	if withToken {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Code
}

// ─────────────────────────── Tests ───────────────────────────

func TestPosts_NoToken(t *testing.T) {
	f := newFixture(t)
	w := f.request(http.MethodGet, "/v1/posts", "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_MISSING", errCode(t, w))
}

func TestPosts_PermissionElevation(t *testing.T) {
	// El rol arranca solo con lectura; tras sumarle write el MISMO
	// token pasa a poder crear. El permiso vive en el rol, no en el
	// token.
	f := newFixture(t)

	w := f.request(http.MethodPost, "/v1/posts", `{"title":"hola","text":"mundo"}`, true)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errCode(t, w))
	assert.Empty(t, f.posts.byID)

	f.role.WritePostsAccess = true

	w = f.request(http.MethodPost, "/v1/posts", `{"title":"hola","text":"mundo"}`, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, f.posts.byID, 1)
}

func TestPosts_ReadAllowedWriteDenied(t *testing.T) {
	f := newFixture(t)

	w := f.request(http.MethodGet, "/v1/posts", "", true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.request(http.MethodDelete, "/v1/posts/"+uuid.NewString(), "", true)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPosts_GetNotFound(t *testing.T) {
	f := newFixture(t)
	w := f.request(http.MethodGet, "/v1/posts/"+uuid.NewString(), "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "POST_NOT_FOUND", errCode(t, w))
}

func TestPosts_DeleteLifecycle(t *testing.T) {
	f := newFixture(t)
	f.role.WritePostsAccess = true
	f.role.DeletePostsAccess = true

	w := f.request(http.MethodPost, "/v1/posts", `{"title":"t","text":"x"}`, true)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = f.request(http.MethodDelete, "/v1/posts/"+created.ID, "", true)
	assert.Equal(t, http.StatusOK, w.Code)

	// Borrar de nuevo: 0 filas afectadas es not found.
	w = f.request(http.MethodDelete, "/v1/posts/"+created.ID, "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPosts_InvalidID(t *testing.T) {
	f := newFixture(t)
	w := f.request(http.MethodGet, "/v1/posts/no-es-uuid", "", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PARAMETER", errCode(t, w))
}

func TestPosts_CreateMissingFields(t *testing.T) {
	f := newFixture(t)
	f.role.WritePostsAccess = true

	w := f.request(http.MethodPost, "/v1/posts", `{"title":"","text":""}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FIELDS", errCode(t, w))
}
