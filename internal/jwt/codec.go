// Package jwt implementa el Token Codec: emisión y verificación de tokens
// firmados, autocontenidos (no se persisten). El payload lleva solo sub,
// iat y exp; el resto (a quién pertenece el sub, si sigue activo) es
// responsabilidad del caller contra el store.
package jwt

import (
	"errors"
	"time"

	"github.com/google/uuid"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Kind distingue access de refresh. Cada kind tiene su propio TTL;
// el token en sí no lleva el kind como claim.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Leeway absorbe drift de reloj entre emisor y verificador al chequear exp.
const Leeway = 10 * time.Second

// Errores del codec. El Authorization Guard los traduce a su propia
// taxonomía; acá solo importa la causa mecánica.
var (
	ErrInvalidTokenKind = errors.New("jwt: unknown token kind")
	ErrTokenExpired     = errors.New("jwt: token expired")
	ErrTokenMalformed   = errors.New("jwt: token malformed or badly signed")
)

// Codec firma y verifica tokens con un par de claves asimétrico.
// Es puro y stateless: seguro para uso concurrente.
type Codec struct {
	keys       *KeyPair
	accessTTL  time.Duration
	refreshTTL time.Duration

	// now es inyectable para tests de borde de expiración.
	now func() time.Time
}

// NewCodec crea un codec con TTLs independientes por kind.
func NewCodec(keys *KeyPair, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		keys:       keys,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// AccessTTL expone la vida del access token (para expires_in).
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL expone la vida del refresh token (para el Max-Age de la cookie).
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// Issue emite un token firmado para el subject dado.
// Claims: sub + iat + exp (epoch seconds UTC). Nada más.
func (c *Codec) Issue(subjectID uuid.UUID, kind Kind) (string, error) {
	var ttl time.Duration
	switch kind {
	case KindAccess:
		ttl = c.accessTTL
	case KindRefresh:
		ttl = c.refreshTTL
	default:
		return "", ErrInvalidTokenKind
	}

	now := c.now().UTC()
	claims := jwtv5.RegisteredClaims{
		Subject:   subjectID.String(),
		IssuedAt:  jwtv5.NewNumericDate(now),
		ExpiresAt: jwtv5.NewNumericDate(now.Add(ttl)),
	}

	tk := jwtv5.NewWithClaims(c.keys.method, claims)
	signed, err := tk.SignedString(c.keys.Priv)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify valida firma y expiración (con Leeway) y devuelve el subject.
// Nunca acepta tokens sin firma ni con otro alg que el configurado.
func (c *Codec) Verify(token string) (uuid.UUID, error) {
	// La expiración se chequea a mano: el corte es inclusivo, un token
	// en exactamente exp+Leeway todavía vale y recién exp+Leeway+1s cae.
	parsed, err := jwtv5.ParseWithClaims(
		token,
		&jwtv5.RegisteredClaims{},
		func(t *jwtv5.Token) (any, error) { return c.keys.Pub, nil },
		jwtv5.WithValidMethods([]string{c.keys.Alg}),
		jwtv5.WithoutClaimsValidation(),
	)
	if err != nil {
		return uuid.Nil, ErrTokenMalformed
	}

	claims, ok := parsed.Claims.(*jwtv5.RegisteredClaims)
	if !ok || claims.Subject == "" || claims.ExpiresAt == nil {
		return uuid.Nil, ErrTokenMalformed
	}

	if c.now().UTC().After(claims.ExpiresAt.Time.Add(Leeway)) {
		return uuid.Nil, ErrTokenExpired
	}

	sub, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrTokenMalformed
	}
	return sub, nil
}
