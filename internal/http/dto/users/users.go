// Package users defines wire types for the user endpoints.
package users

// UserResponse is the public projection of a user. The password hash
// never leaves the service.
type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Patronymic string `json:"patronymic,omitempty"`
	Email      string `json:"email"`
	IsActive   bool   `json:"is_active"`
}

// UserWithRoleResponse adds the role name; only the role-management
// listing uses it.
type UserWithRoleResponse struct {
	UserResponse
	Role string `json:"role"`
}

// PatchProfileRequest holds the editable profile fields.
// Omitted fields are left untouched.
type PatchProfileRequest struct {
	Name       *string `json:"name,omitempty"`
	Surname    *string `json:"surname,omitempty"`
	Patronymic *string `json:"patronymic,omitempty"`
}

// ChangeRoleRequest represents the body for PATCH /v1/users/role
type ChangeRoleRequest struct {
	UserID string `json:"user_id"`
	RoleID string `json:"role_id"`
}

// DeactivateResponse represents the response for DELETE /v1/users/me
type DeactivateResponse struct {
	Message string `json:"message"`
}
