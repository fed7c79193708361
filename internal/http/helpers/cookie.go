package helpers

import "net/http"

// CookieSpec describe la cookie de refresh tal como la arma la config.
type CookieSpec struct {
	Name     string
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite

	// MaxAge en segundos (TTL del refresh en minutos × 60).
	MaxAge int
}

// SetRefreshCookie escribe la cookie con el refresh token. Siempre
// HttpOnly: el refresh nunca queda accesible a scripts.
func SetRefreshCookie(w http.ResponseWriter, spec CookieSpec, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     spec.Name,
		Value:    token,
		Domain:   spec.Domain,
		Path:     spec.Path,
		MaxAge:   spec.MaxAge,
		HttpOnly: true,
		Secure:   spec.Secure,
		SameSite: spec.SameSite,
	})
}

// ClearRefreshCookie borra la cookie (logout). Mismos atributos de
// scope que al setearla, si no el browser no la pisa.
func ClearRefreshCookie(w http.ResponseWriter, spec CookieSpec) {
	http.SetCookie(w, &http.Cookie{
		Name:     spec.Name,
		Value:    "",
		Domain:   spec.Domain,
		Path:     spec.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   spec.Secure,
		SameSite: spec.SameSite,
	})
}

// ParseSameSite mapea el valor de config al tipo de net/http.
func ParseSameSite(s string) http.SameSite {
	switch s {
	case "strict":
		return http.SameSiteStrictMode
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}
