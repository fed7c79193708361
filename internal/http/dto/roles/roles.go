// Package roles defines wire types for the role endpoints.
package roles

// RoleRequest represents the body for creating or updating a role.
type RoleRequest struct {
	Name              string `json:"name"`
	ReadPostsAccess   bool   `json:"read_posts_access"`
	WritePostsAccess  bool   `json:"write_posts_access"`
	DeletePostsAccess bool   `json:"delete_posts_access"`
	ManageRolesAccess bool   `json:"manage_roles_access"`
}

// RoleResponse is the public projection of a role.
type RoleResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	ReadPostsAccess   bool   `json:"read_posts_access"`
	WritePostsAccess  bool   `json:"write_posts_access"`
	DeletePostsAccess bool   `json:"delete_posts_access"`
	ManageRolesAccess bool   `json:"manage_roles_access"`
}
