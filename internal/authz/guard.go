// Package authz implementa el guard de autorización: resuelve un access
// token hasta el actor y verifica el permiso pedido contra los flags de
// su rol. Es el único camino de entrada a los recursos protegidos.
package authz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dropDatabas3/inkwell/internal/cache"
	"github.com/dropDatabas3/inkwell/internal/domain/repository"
	"github.com/dropDatabas3/inkwell/internal/jwt"
	"github.com/dropDatabas3/inkwell/internal/observability/logger"
)

// Permission identifica un flag del rol.
type Permission string

const (
	PermReadPosts   Permission = "read_posts"
	PermWritePosts  Permission = "write_posts"
	PermDeletePosts Permission = "delete_posts"
	PermManageRoles Permission = "manage_roles"
)

// Fallos del guard, en orden de evaluación. El pipeline corta en el
// primero: un request sin token jamás toca la base.
var (
	// ErrMissingCredential: no vino token.
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidCredential: token malformado, firma inválida o de otra key.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrCredentialExpired: firma válida pero exp vencido (pasado el leeway).
	ErrCredentialExpired = errors.New("credential expired")

	// ErrActorNotFound: el sub no corresponde a ningún usuario.
	ErrActorNotFound = errors.New("actor not found")

	// ErrForbidden: actor identificado pero su rol no tiene el flag.
	ErrForbidden = errors.New("forbidden")
)

// Guard resuelve token → usuario → rol → permiso.
//
// Nota: el guard NO mira is_active. Un usuario soft-deleteado que
// conserve un access token vigente sigue autorizando hasta que el
// token venza; la desactivación recién muerde en el próximo login.
type Guard struct {
	codec   *jwt.Codec
	users   repository.UserRepository
	roles   repository.RoleRepository
	cache   cache.Cache
	roleTTL time.Duration
}

// Deps agrupa las dependencias del guard.
type Deps struct {
	Codec *jwt.Codec
	Users repository.UserRepository
	Roles repository.RoleRepository

	// Cache es opcional; sin cache cada autorización pega a la base.
	Cache   cache.Cache
	RoleTTL time.Duration
}

// New construye el guard.
func New(d Deps) *Guard {
	return &Guard{
		codec:   d.Codec,
		users:   d.Users,
		roles:   d.Roles,
		cache:   d.Cache,
		roleTTL: d.RoleTTL,
	}
}

// Authorize valida el token, resuelve el actor y exige el permiso.
// Retorna el usuario resuelto para que el handler no repita el lookup.
func (g *Guard) Authorize(ctx context.Context, token string, perm Permission) (*repository.User, error) {
	user, err := g.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	role, err := g.roleByID(ctx, user.RoleID)
	if err != nil {
		if repository.IsNotFound(err) {
			// Rol colgante: el FK lo impide. Si igual pasa es corrupción
			// de datos y se reporta como error interno, no como forbidden.
			logger.From(ctx).Error("usuario con rol inexistente",
				logger.Layer("authz"),
				logger.UserID(user.ID.String()),
				logger.RoleID(user.RoleID.String()),
			)
		}
		return nil, fmt.Errorf("authz: resolver rol: %w", err)
	}

	if !hasPermission(role, perm) {
		return nil, ErrForbidden
	}
	return user, nil
}

// Authenticate resuelve el token hasta el actor sin exigir permiso.
// Lo usan los endpoints que solo necesitan identidad (perfil propio).
func (g *Guard) Authenticate(ctx context.Context, token string) (*repository.User, error) {
	if token == "" {
		return nil, ErrMissingCredential
	}

	subjectID, err := g.codec.Verify(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrCredentialExpired
		}
		return nil, ErrInvalidCredential
	}

	user, err := g.users.GetByID(ctx, subjectID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrActorNotFound
		}
		return nil, fmt.Errorf("authz: resolver actor: %w", err)
	}
	return user, nil
}

// ─────────────────────────── Helpers ───────────────────────────

func hasPermission(r *repository.Role, perm Permission) bool {
	switch perm {
	case PermReadPosts:
		return r.ReadPostsAccess
	case PermWritePosts:
		return r.WritePostsAccess
	case PermDeletePosts:
		return r.DeletePostsAccess
	case PermManageRoles:
		return r.ManageRolesAccess
	default:
		return false
	}
}

// roleByID resuelve el rol con cache por ID. Un cambio de flags tarda
// hasta roleTTL en propagarse a tokens ya emitidos.
func (g *Guard) roleByID(ctx context.Context, id uuid.UUID) (*repository.Role, error) {
	key := "role:" + id.String()

	if g.cache != nil {
		if b, ok := g.cache.Get(key); ok {
			var r repository.Role
			if err := json.Unmarshal(b, &r); err == nil {
				return &r, nil
			}
			// Entrada corrupta: descartar y repoblar.
			g.cache.Delete(key)
		}
	}

	role, err := g.roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		if b, err := json.Marshal(role); err == nil {
			g.cache.Set(key, b, g.roleTTL)
		} else {
			logger.From(ctx).Warn("no se pudo cachear el rol", zap.Error(err))
		}
	}
	return role, nil
}
