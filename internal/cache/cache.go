// Package cache provee un cache chico multi-backend.
//
// Soporta:
//   - Memory (in-process, para desarrollo/testing)
//   - Redis (distribuido, para producción)
//
// Lo usa el guard de autorización para las filas de rol.
package cache

import "time"

// Cache define las operaciones mínimas que necesita el servicio.
type Cache interface {
	// Get obtiene un valor. ok=false si no existe o expiró.
	Get(k string) ([]byte, bool)

	// Set guarda un valor con TTL. ttl=0 usa el default del backend.
	Set(k string, v []byte, ttl time.Duration)

	// Delete elimina una key.
	Delete(k string)
}
