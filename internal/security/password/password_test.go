package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dropDatabas3/inkwell/internal/security/password"
)

// fastParams mantiene los tests rápidos; el costo real vive en Default.
var fastParams = password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestHashVerify(t *testing.T) {
	h, err := password.Hash(fastParams, "s3cr3to")
	require.NoError(t, err)

	assert.True(t, password.Verify("s3cr3to", h))
	assert.False(t, password.Verify("otra-cosa", h))
}

func TestHash_EmptyPassword(t *testing.T) {
	_, err := password.Hash(fastParams, "")
	assert.Error(t, err)
}

func TestHash_SaltedPerCall(t *testing.T) {
	h1, err := password.Hash(fastParams, "mismo")
	require.NoError(t, err)
	h2, err := password.Hash(fastParams, "mismo")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerify_BcryptCompat(t *testing.T) {
	h, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, password.Verify("legacy-pass", string(h)))
	assert.False(t, password.Verify("wrong", string(h)))
}

func TestVerify_GarbageHash(t *testing.T) {
	assert.False(t, password.Verify("x", "plaintext-no-hash"))
	assert.False(t, password.Verify("x", "$argon2id$v=19$mangled"))
	assert.False(t, password.Verify("x", ""))
}
