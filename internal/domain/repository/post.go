package repository

import (
	"context"

	"github.com/google/uuid"
)

// Post representa una publicación.
type Post struct {
	ID       uuid.UUID
	Title    string
	Text     string
	AuthorID uuid.UUID
}

// CreatePostInput contiene los datos para crear un post.
// AuthorID viene del actor resuelto por el guard, nunca del request.
type CreatePostInput struct {
	Title    string
	Text     string
	AuthorID uuid.UUID
}

// PostRepository define operaciones sobre posts.
type PostRepository interface {
	// Create inserta un post.
	Create(ctx context.Context, in CreatePostInput) (*Post, error)

	// GetByID busca por ID. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// GetAll pagina posts, page arranca en 1. Retorna el total.
	GetAll(ctx context.Context, page, pageSize int) ([]Post, int, error)

	// Delete borra por ID y retorna cuántas filas afectó (0 o 1).
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}
