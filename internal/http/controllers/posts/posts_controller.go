// Package posts expone los endpoints de posts. Cada operación exige su
// propio flag: write para crear, read para leer, delete para borrar.
package posts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/inkwell/internal/authz"
	"github.com/dropDatabas3/inkwell/internal/domain/repository"
	"github.com/dropDatabas3/inkwell/internal/http/dto"
	pdto "github.com/dropDatabas3/inkwell/internal/http/dto/posts"
	httperrors "github.com/dropDatabas3/inkwell/internal/http/errors"
	"github.com/dropDatabas3/inkwell/internal/http/helpers"
	svc "github.com/dropDatabas3/inkwell/internal/http/services/posts"
	"github.com/dropDatabas3/inkwell/internal/observability/logger"
)

const maxPostBodySize = 256 * 1024 // 256KB

// Controller maneja los endpoints de posts.
type Controller struct {
	service svc.Service
	guard   *authz.Guard
}

// New crea el controller de posts.
func New(service svc.Service, guard *authz.Guard) *Controller {
	return &Controller{service: service, guard: guard}
}

// Create maneja POST /v1/posts
// Gate: write_posts. El autor es siempre el actor autenticado.
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Posts.Create"))

	actor, err := c.guard.Authorize(ctx, helpers.BearerToken(r), authz.PermWritePosts)
	if err != nil {
		helpers.WriteGuardError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPostBodySize)
	defer r.Body.Close()

	var req pdto.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	post, err := c.service.Create(ctx, actor.ID, req.Title, req.Text)
	if err != nil {
		log.Debug("create post failed", logger.Err(err))
		writePostsError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, toPostResponse(post))
}

// List maneja GET /v1/posts
// Gate: read_posts.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := c.guard.Authorize(ctx, helpers.BearerToken(r), authz.PermReadPosts); err != nil {
		helpers.WriteGuardError(w, err)
		return
	}

	q := dto.ParsePageQuery(r)
	items, total, err := c.service.List(ctx, q.Page, q.Size)
	if err != nil {
		writePostsError(w, err)
		return
	}

	out := make([]pdto.PostResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPostResponse(&p))
	}
	helpers.WriteJSON(w, http.StatusOK, dto.NewPaged(out, total, q))
}

// Get maneja GET /v1/posts/{id}
// Gate: read_posts.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := c.guard.Authorize(ctx, helpers.BearerToken(r), authz.PermReadPosts); err != nil {
		helpers.WriteGuardError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("id inválido"))
		return
	}

	post, err := c.service.Get(ctx, id)
	if err != nil {
		writePostsError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toPostResponse(post))
}

// Delete maneja DELETE /v1/posts/{id}
// Gate: delete_posts. Cualquier actor con el flag borra cualquier post,
// no solo los propios.
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Posts.Delete"))

	if _, err := c.guard.Authorize(ctx, helpers.BearerToken(r), authz.PermDeletePosts); err != nil {
		helpers.WriteGuardError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("id inválido"))
		return
	}

	if err := c.service.Delete(ctx, id); err != nil {
		log.Debug("delete post failed", logger.Err(err))
		writePostsError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, pdto.DeleteResponse{Message: "post eliminado"})
}

// ─── Helpers ───

func toPostResponse(p *repository.Post) pdto.PostResponse {
	return pdto.PostResponse{
		ID:       p.ID.String(),
		Title:    p.Title,
		Text:     p.Text,
		AuthorID: p.AuthorID.String(),
	}
}

func writePostsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("title y text son obligatorios"))

	case errors.Is(err, svc.ErrPostNotFound):
		httperrors.WriteError(w, httperrors.ErrPostNotFound)

	case repository.IsUnavailable(err):
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
