// Package posts defines wire types for the post endpoints.
package posts

// CreatePostRequest represents the body for POST /v1/posts.
// The author is always the authenticated actor, never a body field.
type CreatePostRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// PostResponse is the public projection of a post.
type PostResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	AuthorID string `json:"author_id"`
}

// DeleteResponse represents the response for DELETE /v1/posts/{id}
type DeleteResponse struct {
	Message string `json:"message"`
}
