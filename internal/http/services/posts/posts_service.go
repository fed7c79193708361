// Package posts implementa las operaciones sobre posts.
package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dropDatabas3/inkwell/internal/domain/repository"
	"github.com/dropDatabas3/inkwell/internal/observability/logger"
)

var (
	// ErrPostNotFound: el post no existe.
	ErrPostNotFound = errors.New("post not found")

	// ErrMissingFields: título o texto vacíos.
	ErrMissingFields = errors.New("title and text are required")
)

// Service define las operaciones sobre posts.
type Service interface {
	// Create inserta un post a nombre del actor.
	Create(ctx context.Context, authorID uuid.UUID, title, text string) (*repository.Post, error)

	Get(ctx context.Context, id uuid.UUID) (*repository.Post, error)
	List(ctx context.Context, page, size int) ([]repository.Post, int, error)

	// Delete borra el post. 0 filas afectadas se reporta como not found.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Deps agrupa las dependencias del service.
type Deps struct {
	Posts repository.PostRepository
}

type service struct {
	d Deps
}

// New crea el service de posts.
func New(d Deps) Service {
	return &service{d: d}
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, title, text string) (*repository.Post, error) {
	if title == "" || text == "" {
		return nil, ErrMissingFields
	}
	post, err := s.d.Posts.Create(ctx, repository.CreatePostInput{
		Title:    title,
		Text:     text,
		AuthorID: authorID,
	})
	if err != nil {
		return nil, fmt.Errorf("posts: crear: %w", err)
	}
	logger.From(ctx).Info("post creado",
		logger.Layer("service"),
		logger.PostID(post.ID.String()),
		logger.UserID(authorID.String()),
	)
	return post, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*repository.Post, error) {
	post, err := s.d.Posts.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("posts: buscar: %w", err)
	}
	return post, nil
}

func (s *service) List(ctx context.Context, page, size int) ([]repository.Post, int, error) {
	items, total, err := s.d.Posts.GetAll(ctx, page, size)
	if err != nil {
		return nil, 0, fmt.Errorf("posts: listar: %w", err)
	}
	return items, total, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.d.Posts.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("posts: borrar: %w", err)
	}
	if affected == 0 {
		return ErrPostNotFound
	}
	return nil
}
