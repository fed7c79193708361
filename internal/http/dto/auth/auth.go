// Package auth defines wire types for the auth endpoints.
package auth

// RegisterRequest represents the request body for POST /v1/auth/register
type RegisterRequest struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Patronymic string `json:"patronymic,omitempty"`
	// Email is required and unique across users.
	Email string `json:"email"`
	// Password must match PasswordRepeat.
	Password       string `json:"password"`
	PasswordRepeat string `json:"password_repeat"`
}

// RegisterResponse represents the response for a successful registration.
// Registration opens a session, so it carries the access token too; the
// refresh token goes in the cookie, same as login.
type RegisterResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Patronymic string `json:"patronymic,omitempty"`
	Email      string `json:"email"`
	IsActive   bool   `json:"is_active"`

	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// LoginRequest represents the request body for POST /v1/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries the access token. The refresh token never
// appears in the body: it travels only in the scoped cookie.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// LogoutResponse represents the response for POST /v1/auth/logout
type LogoutResponse struct {
	Message string `json:"message"`
}
