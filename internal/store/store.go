// Package store define el agregado de repositorios que consume el resto
// del servicio. La implementación real vive en store/pg.
package store

import (
	"context"

	"github.com/dropDatabas3/inkwell/internal/domain/repository"
)

// Store agrupa los repositorios por entidad.
type Store interface {
	Users() repository.UserRepository
	Roles() repository.RoleRepository
	Posts() repository.PostRepository

	// Ping verifica conectividad (readiness).
	Ping(ctx context.Context) error

	// Close libera el pool de conexiones.
	Close()
}
