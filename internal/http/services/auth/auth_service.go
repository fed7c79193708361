// Package auth implementa el ciclo de vida de la sesión: registro,
// login, refresh y logout.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dropDatabas3/inkwell/internal/domain/repository"
	"github.com/dropDatabas3/inkwell/internal/jwt"
	"github.com/dropDatabas3/inkwell/internal/observability/logger"
	"github.com/dropDatabas3/inkwell/internal/security/password"
)

// Errores del service. Los controllers los mapean a HTTP.
var (
	// ErrMissingFields: faltan campos obligatorios.
	ErrMissingFields = errors.New("missing required fields")

	// ErrPasswordMismatch: password y repetición no coinciden.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrEmailTaken: el email ya está registrado.
	ErrEmailTaken = errors.New("email already taken")

	// ErrDefaultRoleNotConfigured: el rol por defecto no existe en la
	// base. Falta el seed; es un problema de despliegue.
	ErrDefaultRoleNotConfigured = errors.New("default role not configured")

	// ErrInvalidCredentials cubre email inexistente, cuenta inactiva y
	// password incorrecto. Deliberadamente indistinguibles: la
	// respuesta no debe filtrar cuál de los tres falló.
	ErrInvalidCredentials = errors.New("wrong login or password")

	// ErrRefreshExpired: el refresh venció; toca loguearse de nuevo.
	ErrRefreshExpired = errors.New("refresh token expired")

	// ErrRefreshInvalid: refresh malformado o de otra key.
	ErrRefreshInvalid = errors.New("refresh token invalid")

	// ErrUserNotFound: el sujeto del refresh ya no existe.
	ErrUserNotFound = errors.New("user not found")
)

// RegisterInput contiene los datos de registro ya parseados.
type RegisterInput struct {
	Name           string
	Surname        string
	Patronymic     string
	Email          string
	Password       string
	PasswordRepeat string
}

// TokenPair es el resultado de login/refresh.
type TokenPair struct {
	Access  string
	Refresh string

	// ExpiresIn: vida del access en segundos, para el body.
	ExpiresIn int64
}

// Service define las operaciones de autenticación.
type Service interface {
	// Register da de alta al usuario y abre sesión: devuelve también el
	// par de tokens, igual que un login.
	Register(ctx context.Context, in RegisterInput) (*repository.User, TokenPair, error)
	Login(ctx context.Context, email, plain string) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
}

// Deps agrupa las dependencias del service.
type Deps struct {
	Users repository.UserRepository
	Roles repository.RoleRepository
	Codec *jwt.Codec

	// DefaultRole: nombre del rol que recibe todo registro nuevo.
	DefaultRole string

	// Hasher: parámetros de argon2id.
	Hasher password.Params
}

type service struct {
	d Deps
}

// New crea el service de autenticación.
func New(d Deps) Service {
	return &service{d: d}
}

// Register da de alta un usuario con el rol por defecto.
//
// El orden importa: primero las validaciones puras, después el lookup
// del rol, y recién al final el INSERT. Un registro rechazado no deja
// ningún rastro en la base.
func (s *service) Register(ctx context.Context, in RegisterInput) (*repository.User, TokenPair, error) {
	if in.Email == "" || in.Password == "" {
		return nil, TokenPair{}, ErrMissingFields
	}
	if in.Password != in.PasswordRepeat {
		return nil, TokenPair{}, ErrPasswordMismatch
	}

	role, err := s.d.Roles.GetByName(ctx, s.d.DefaultRole)
	if err != nil {
		if repository.IsNotFound(err) {
			logger.From(ctx).Error("rol por defecto ausente",
				logger.Layer("service"),
				logger.RoleName(s.d.DefaultRole),
			)
			return nil, TokenPair{}, ErrDefaultRoleNotConfigured
		}
		return nil, TokenPair{}, fmt.Errorf("auth: resolver rol por defecto: %w", err)
	}

	hash, err := password.Hash(s.d.Hasher, in.Password)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("auth: hashear password: %w", err)
	}

	user, err := s.d.Users.Create(ctx, repository.CreateUserInput{
		Name:         in.Name,
		Surname:      in.Surname,
		Patronymic:   in.Patronymic,
		Email:        in.Email,
		PasswordHash: hash,
		RoleID:       role.ID,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, TokenPair{}, ErrEmailTaken
		}
		return nil, TokenPair{}, fmt.Errorf("auth: crear usuario: %w", err)
	}

	logger.From(ctx).Info("usuario registrado",
		logger.Layer("service"),
		logger.UserID(user.ID.String()),
		logger.RoleName(role.Name),
	)

	// El registro abre sesión de una: mismo par que entregaría el login.
	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Login verifica credenciales y emite el par de tokens.
//
// Email inexistente, cuenta desactivada y password errado devuelven el
// MISMO error: la respuesta nunca revela si el email existe.
func (s *service) Login(ctx context.Context, email, plain string) (TokenPair, error) {
	if email == "" || plain == "" {
		return TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.d.Users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, fmt.Errorf("auth: buscar usuario: %w", err)
	}
	if !user.IsActive {
		return TokenPair{}, ErrInvalidCredentials
	}
	if !password.Verify(plain, user.PasswordHash) {
		return TokenPair{}, ErrInvalidCredentials
	}

	return s.issuePair(ctx, user.ID)
}

// Refresh rota la sesión completa: valida el refresh y emite un par
// nuevo. El refresh viejo no se revoca (no hay estado server-side);
// simplemente la cookie lo pisa.
func (s *service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, ErrRefreshInvalid
	}

	subjectID, err := s.d.Codec.Verify(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenPair{}, ErrRefreshExpired
		}
		return TokenPair{}, ErrRefreshInvalid
	}

	// El usuario tiene que seguir existiendo; su is_active no se mira,
	// igual que en el guard.
	if _, err := s.d.Users.GetByID(ctx, subjectID); err != nil {
		if repository.IsNotFound(err) {
			return TokenPair{}, ErrUserNotFound
		}
		return TokenPair{}, fmt.Errorf("auth: resolver sujeto del refresh: %w", err)
	}

	return s.issuePair(ctx, subjectID)
}

// ─── Helpers ───

func (s *service) issuePair(ctx context.Context, userID uuid.UUID) (TokenPair, error) {
	access, err := s.d.Codec.Issue(userID, jwt.KindAccess)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: emitir access: %w", err)
	}
	refresh, err := s.d.Codec.Issue(userID, jwt.KindRefresh)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: emitir refresh: %w", err)
	}
	return TokenPair{
		Access:    access,
		Refresh:   refresh,
		ExpiresIn: int64(s.d.Codec.AccessTTL().Seconds()),
	}, nil
}
