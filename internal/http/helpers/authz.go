package helpers

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/inkwell/internal/authz"
	"github.com/dropDatabas3/inkwell/internal/domain/repository"
	httperrors "github.com/dropDatabas3/inkwell/internal/http/errors"
)

// WriteGuardError mapea los fallos del guard a HTTP. Lo comparten todos
// los controllers de recursos protegidos.
func WriteGuardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authz.ErrMissingCredential):
		httperrors.WriteError(w, httperrors.ErrTokenMissing)

	case errors.Is(err, authz.ErrInvalidCredential):
		httperrors.WriteError(w, httperrors.ErrTokenInvalid)

	case errors.Is(err, authz.ErrCredentialExpired):
		httperrors.WriteError(w, httperrors.ErrTokenExpired)

	case errors.Is(err, authz.ErrActorNotFound):
		httperrors.WriteError(w, httperrors.ErrUserNotFound)

	case errors.Is(err, authz.ErrForbidden):
		httperrors.WriteError(w, httperrors.ErrForbidden)

	case repository.IsUnavailable(err):
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
