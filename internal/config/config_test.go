package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults_RefreshCookie(t *testing.T) {
	var c Config
	c.applyDefaults()

	assert.Equal(t, "refresh_token", c.Auth.RefreshCookie.Name)
	assert.Equal(t, "none", c.Auth.RefreshCookie.SameSite)

	// Secure salvo opt-out: SameSite=None sin Secure no funciona en
	// ningún browser, así que el default tiene que ser seguro.
	assert.True(t, c.RefreshCookieSecure())

	c.Auth.RefreshCookie.Insecure = true
	assert.False(t, c.RefreshCookieSecure())
}

func TestDefaults_TokenLifetimes(t *testing.T) {
	var c Config
	c.applyDefaults()

	assert.Equal(t, 30, c.JWT.AccessTTLMinutes)
	assert.Equal(t, 20160, c.JWT.RefreshTTLMinutes)
	// Max-Age de la cookie: minutos del refresh × 60.
	assert.Equal(t, 20160*60, c.RefreshCookieMaxAge())
}
