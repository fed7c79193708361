package helpers

import (
	"net/http"
	"strings"
)

// BearerToken extrae el token del header Authorization.
// Retorna "" si no hay header o el esquema no es Bearer.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
