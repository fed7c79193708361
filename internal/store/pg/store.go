// Package pg implementa store.Store sobre PostgreSQL usando pgx/v5.
package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dropDatabas3/inkwell/internal/domain/repository"
	"github.com/dropDatabas3/inkwell/internal/observability/logger"
)

// Options configura el pool de conexiones.
type Options struct {
	DSN             string
	MaxConns        int32
	ConnMaxLifetime time.Duration
}

// Store implementa store.Store sobre un pgxpool.
type Store struct {
	pool  *pgxpool.Pool
	users *userRepo
	roles *roleRepo
	posts *postRepo
}

// New crea el pool y verifica conectividad con un ping inicial.
func New(ctx context.Context, opts Options) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = opts.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg: new pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}

	logger.L().Info("postgres pool listo",
		logger.Layer("store"),
		logger.Int("max_conns", int(cfg.MaxConns)),
	)

	s := &Store{pool: pool}
	s.users = &userRepo{pool: pool}
	s.roles = &roleRepo{pool: pool}
	s.posts = &postRepo{pool: pool}
	return s, nil
}

// Users retorna el repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return s.users }

// Roles retorna el repositorio de roles.
func (s *Store) Roles() repository.RoleRepository { return s.roles }

// Posts retorna el repositorio de posts.
func (s *Store) Posts() repository.PostRepository { return s.posts }

// Ping verifica conectividad contra la base.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	return nil
}

// Close cierra el pool.
func (s *Store) Close() { s.pool.Close() }

// Pool expone el pool para los colectores de métricas.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// ─────────────────────────── Helpers ───────────────────────────

// Códigos SQLSTATE que nos interesan mapear.
const (
	codeUniqueViolation = "23505"
	codeFKViolation     = "23503"
)

// mapErr traduce errores de pgx a los errores de dominio del repositorio.
// Cualquier fallo que no sea "fila inexistente" ni "constraint" se trata
// como storage no disponible: el caller decide si eso es un 503.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return repository.ErrConflict
		case codeFKViolation:
			return repository.ErrInvalidInput
		}
	}
	logger.L().Warn("error de storage no mapeado",
		logger.Layer("store"),
		zap.Error(err),
	)
	return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
}

// limitOffset normaliza la paginación: page arranca en 1.
func limitOffset(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return pageSize, (page - 1) * pageSize
}
