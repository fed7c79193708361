package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	keys, err := NewDevEd25519()
	require.NoError(t, err)
	return NewCodec(keys, 30*time.Minute, 20160*time.Minute)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	c := newTestCodec(t)
	sub := uuid.New()

	for _, kind := range []Kind{KindAccess, KindRefresh} {
		token, err := c.Issue(sub, kind)
		require.NoError(t, err, "kind %s", kind)

		got, err := c.Verify(token)
		require.NoError(t, err, "kind %s", kind)
		assert.Equal(t, sub, got)
	}
}

func TestIssue_UnknownKind(t *testing.T) {
	c := newTestCodec(t)
	_, err := c.Issue(uuid.New(), Kind("session"))
	assert.ErrorIs(t, err, ErrInvalidTokenKind)
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	c := newTestCodec(t)
	sub := uuid.New()

	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return issuedAt }

	token, err := c.Issue(sub, KindAccess)
	require.NoError(t, err)

	cases := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"t+29m pasa", issuedAt.Add(29 * time.Minute), nil},
		{"exactamente exp pasa", issuedAt.Add(30 * time.Minute), nil},
		{"exp+10s todavía pasa (leeway)", issuedAt.Add(30*time.Minute + 10*time.Second), nil},
		{"exp+11s falla", issuedAt.Add(30*time.Minute + 11*time.Second), ErrTokenExpired},
		{"t+31m falla", issuedAt.Add(31 * time.Minute), ErrTokenExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c.now = func() time.Time { return tc.at }
			got, err := c.Verify(token)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, sub, got)
		})
	}
}

func TestVerify_Malformed(t *testing.T) {
	c := newTestCodec(t)

	_, err := c.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = c.Verify("")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerify_WrongKey(t *testing.T) {
	c := newTestCodec(t)
	other := newTestCodec(t)

	token, err := other.Issue(uuid.New(), KindAccess)
	require.NoError(t, err)

	_, err = c.Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerify_RejectsUnsignedAlg(t *testing.T) {
	c := newTestCodec(t)

	// Un token alg=none bien formado jamás debe pasar.
	claims := jwtv5.RegisteredClaims{
		Subject:   uuid.NewString(),
		IssuedAt:  jwtv5.NewNumericDate(time.Now()),
		ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, claims)
	unsigned, err := tk.SignedString(jwtv5.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = c.Verify(unsigned)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerify_UnknownSubjectStillVerifies(t *testing.T) {
	// El codec no conoce el user store: un sub válido pero inexistente
	// verifica igual; rechazarlo es responsabilidad del caller.
	c := newTestCodec(t)
	ghost := uuid.New()

	token, err := c.Issue(ghost, KindAccess)
	require.NoError(t, err)

	got, err := c.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, ghost, got)
}
