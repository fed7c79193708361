package pg

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/inkwell/internal/domain/repository"
)

type postRepo struct {
	pool *pgxpool.Pool
}

const (
	sqlPostInsert = `
		INSERT INTO post (title, text, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, title, text, author_id`

	sqlPostByID = `SELECT id, title, text, author_id FROM post WHERE id = $1`

	sqlPostList = `
		SELECT id, title, text, author_id
		FROM post
		ORDER BY id
		LIMIT $1 OFFSET $2`

	sqlPostCount = `SELECT count(*) FROM post`

	sqlPostDelete = `DELETE FROM post WHERE id = $1`
)

func (r *postRepo) Create(ctx context.Context, in repository.CreatePostInput) (*repository.Post, error) {
	row := r.pool.QueryRow(ctx, sqlPostInsert, in.Title, in.Text, in.AuthorID)
	return scanPost(row)
}

func (r *postRepo) GetByID(ctx context.Context, id uuid.UUID) (*repository.Post, error) {
	return scanPost(r.pool.QueryRow(ctx, sqlPostByID, id))
}

func (r *postRepo) GetAll(ctx context.Context, page, pageSize int) ([]repository.Post, int, error) {
	limit, offset := limitOffset(page, pageSize)

	var total int
	if err := r.pool.QueryRow(ctx, sqlPostCount).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	rows, err := r.pool.Query(ctx, sqlPostList, limit, offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	out := make([]repository.Post, 0, limit)
	for rows.Next() {
		var p repository.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Text, &p.AuthorID); err != nil {
			return nil, 0, mapErr(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapErr(err)
	}
	return out, total, nil
}

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, sqlPostDelete, id)
	if err != nil {
		return 0, mapErr(err)
	}
	return tag.RowsAffected(), nil
}

func scanPost(row rowScanner) (*repository.Post, error) {
	var p repository.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Text, &p.AuthorID); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}
