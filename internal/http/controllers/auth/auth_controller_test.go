package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/inkwell/internal/domain/repository"
	"github.com/dropDatabas3/inkwell/internal/http/helpers"
	svc "github.com/dropDatabas3/inkwell/internal/http/services/auth"
)

type fakeService struct {
	registerUser *repository.User
	registerPair svc.TokenPair
	registerErr  error

	loginPair svc.TokenPair
	loginErr  error

	refreshPair svc.TokenPair
	refreshErr  error
}

func (f *fakeService) Register(context.Context, svc.RegisterInput) (*repository.User, svc.TokenPair, error) {
	return f.registerUser, f.registerPair, f.registerErr
}

func (f *fakeService) Login(context.Context, string, string) (svc.TokenPair, error) {
	return f.loginPair, f.loginErr
}

func (f *fakeService) Refresh(context.Context, string) (svc.TokenPair, error) {
	return f.refreshPair, f.refreshErr
}

func testSpec() helpers.CookieSpec {
	return helpers.CookieSpec{
		Name:     "refresh_token",
		Path:     "/v1/auth",
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   20160 * 60,
	}
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "refresh_token" {
			return c
		}
	}
	return nil
}

func TestRegister_SetsSessionCookie(t *testing.T) {
	f := &fakeService{
		registerUser: &repository.User{ID: uuid.New(), Email: "ana@example.com", IsActive: true},
		registerPair: svc.TokenPair{Access: "acc-1", Refresh: "ref-1", ExpiresIn: 1800},
	}
	ctrl := New(f, testSpec())

	w := httptest.NewRecorder()
	body := `{"email":"ana@example.com","password":"x","password_repeat":"x"}`
	ctrl.Register(w, httptest.NewRequest("POST", "/v1/auth/register", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, w.Code)

	// Mismo contrato que el login: access en el body, refresh en la cookie.
	c := refreshCookie(t, w)
	require.NotNil(t, c)
	assert.Equal(t, "ref-1", c.Value)
	assert.True(t, c.HttpOnly)

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "acc-1", resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.EqualValues(t, 1800, resp.ExpiresIn)
}

func TestRefresh_ExpiredLeavesCookieUntouched(t *testing.T) {
	f := &fakeService{refreshErr: svc.ErrRefreshExpired}
	ctrl := New(f, testSpec())

	req := httptest.NewRequest("POST", "/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "viejo"})
	w := httptest.NewRecorder()
	ctrl.Refresh(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "TOKEN_EXPIRED", resp.Code)

	// En fallo no se escribe ningún Set-Cookie: el cliente conserva la
	// cookie que tenía, sin rotación ni borrado.
	assert.Empty(t, w.Result().Cookies())
	assert.Empty(t, w.Header().Values("Set-Cookie"))
}

func TestRefresh_SuccessRotatesCookie(t *testing.T) {
	f := &fakeService{refreshPair: svc.TokenPair{Access: "acc-2", Refresh: "ref-2", ExpiresIn: 1800}}
	ctrl := New(f, testSpec())

	req := httptest.NewRequest("POST", "/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "viejo"})
	w := httptest.NewRecorder()
	ctrl.Refresh(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	c := refreshCookie(t, w)
	require.NotNil(t, c)
	assert.Equal(t, "ref-2", c.Value)
}

func TestRefresh_NoCookie(t *testing.T) {
	ctrl := New(&fakeService{}, testSpec())

	w := httptest.NewRecorder()
	ctrl.Refresh(w, httptest.NewRequest("POST", "/v1/auth/refresh", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestLogout_ClearsCookie(t *testing.T) {
	ctrl := New(&fakeService{}, testSpec())

	w := httptest.NewRecorder()
	ctrl.Logout(w, httptest.NewRequest("POST", "/v1/auth/logout", nil))

	require.Equal(t, http.StatusOK, w.Code)
	c := refreshCookie(t, w)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
}
