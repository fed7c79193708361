// Package config carga la configuración del servicio desde YAML con
// overrides por variables de entorno.
//
// No hay singleton: Load() devuelve un *Config que se inyecta explícitamente
// en los componentes que lo necesitan (codec JWT, servicios, store).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del servicio.
type Config struct {
	App struct {
		// dev | prod
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
		Name     string `yaml:"name"`
		Version  string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		Addr            string        `yaml:"addr"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Storage struct {
		DSN             string        `yaml:"dsn"`
		MaxConns        int32         `yaml:"max_conns"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
		MigrateOnStart  bool          `yaml:"migrate_on_start"`
	} `yaml:"storage"`

	JWT struct {
		// Algorithm: "EdDSA" | "RS256". Fijo por configuración; nunca "none".
		Algorithm      string `yaml:"algorithm"`
		PrivateKeyFile string `yaml:"private_key_file"`
		PublicKeyFile  string `yaml:"public_key_file"`
		// PEM inline (overrides por env; útil en contenedores)
		PrivateKeyPEM string `yaml:"private_key_pem"`
		PublicKeyPEM  string `yaml:"public_key_pem"`

		// Lifetimes en minutos, como los expone el entorno.
		AccessTTLMinutes  int `yaml:"access_ttl_minutes"`
		RefreshTTLMinutes int `yaml:"refresh_ttl_minutes"`
	} `yaml:"jwt"`

	Auth struct {
		RefreshCookie struct {
			Name     string `yaml:"name"`
			Domain   string `yaml:"domain"`
			Path     string `yaml:"path"`
			SameSite string `yaml:"samesite"` // "none" | "lax" | "strict"

			// Insecure apaga el atributo Secure para desarrollo local
			// sin TLS. La cookie es Secure salvo opt-out explícito:
			// SameSite=None sin Secure la rechaza cualquier browser.
			Insecure bool `yaml:"insecure"`
		} `yaml:"refresh_cookie"`

		// DefaultRole es el rol asignado en el registro. Debe existir
		// (lo crea la migración seed); si falta, el registro falla explícito.
		DefaultRole string `yaml:"default_role"`
	} `yaml:"auth"`

	Cache struct {
		Driver string `yaml:"driver"` // "memory" | "redis"
		Redis  struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL time.Duration `yaml:"default_ttl"`
		} `yaml:"memory"`
		// RoleTTL es cuánto vive un rol cacheado para el authorization guard.
		RoleTTL time.Duration `yaml:"role_ttl"`
	} `yaml:"cache"`

	Rate struct {
		Enabled     bool          `yaml:"enabled"`
		Window      time.Duration `yaml:"window"`
		MaxRequests int           `yaml:"max_requests"`
	} `yaml:"rate"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// AccessTTL devuelve la vida del access token como Duration.
func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.JWT.AccessTTLMinutes) * time.Minute
}

// RefreshTTL devuelve la vida del refresh token como Duration.
func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTTLMinutes) * time.Minute
}

// RefreshCookieMaxAge es el Max-Age del cookie en segundos (minutos × 60).
func (c *Config) RefreshCookieMaxAge() int {
	return c.JWT.RefreshTTLMinutes * 60
}

// RefreshCookieSecure: Secure por defecto; false solo con el opt-out
// explícito para desarrollo.
func (c *Config) RefreshCookieSecure() bool {
	return !c.Auth.RefreshCookie.Insecure
}

// Load lee el YAML (si path no está vacío), aplica defaults y overrides de
// entorno, y valida lo mínimo para arrancar.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: leyendo %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parseando %s: %w", path, err)
		}
	}

	c.applyDefaults()
	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// sane defaults
func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Name == "" {
		c.App.Name = "inkwell"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 20 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Storage.MaxConns == 0 {
		c.Storage.MaxConns = 10
	}
	if c.JWT.Algorithm == "" {
		c.JWT.Algorithm = "EdDSA"
	}
	if c.JWT.AccessTTLMinutes == 0 {
		c.JWT.AccessTTLMinutes = 30
	}
	if c.JWT.RefreshTTLMinutes == 0 {
		c.JWT.RefreshTTLMinutes = 20160 // 14d
	}
	if c.Auth.RefreshCookie.Name == "" {
		c.Auth.RefreshCookie.Name = "refresh_token"
	}
	if c.Auth.RefreshCookie.Path == "" {
		c.Auth.RefreshCookie.Path = "/"
	}
	if c.Auth.RefreshCookie.SameSite == "" {
		c.Auth.RefreshCookie.SameSite = "none"
	}
	if c.Auth.DefaultRole == "" {
		c.Auth.DefaultRole = "user"
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.Memory.DefaultTTL == 0 {
		c.Cache.Memory.DefaultTTL = 2 * time.Minute
	}
	if c.Cache.RoleTTL == 0 {
		c.Cache.RoleTTL = 30 * time.Second
	}
	if c.Rate.Window == 0 {
		c.Rate.Window = time.Minute
	}
	if c.Rate.MaxRequests == 0 {
		c.Rate.MaxRequests = 60
	}
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
// Convención: INKWELL_<SECCION>_<CAMPO>.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("INKWELL_ENV"); ok {
		c.App.Env = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.App.LogLevel = v
	}
	if v, ok := getEnvStr("INKWELL_SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("DATABASE_URL"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvStr("JWT_ALGORITHM"); ok {
		c.JWT.Algorithm = v
	}
	if v, ok := getEnvStr("JWT_PRIVATE_KEY"); ok {
		c.JWT.PrivateKeyPEM = v
	}
	if v, ok := getEnvStr("JWT_PUBLIC_KEY"); ok {
		c.JWT.PublicKeyPEM = v
	}
	if v, ok := getEnvStr("JWT_PRIVATE_KEY_FILE"); ok {
		c.JWT.PrivateKeyFile = v
	}
	if v, ok := getEnvStr("JWT_PUBLIC_KEY_FILE"); ok {
		c.JWT.PublicKeyFile = v
	}
	if v, ok := getEnvInt("JWT_ACCESS_TTL_MINUTES"); ok {
		c.JWT.AccessTTLMinutes = v
	}
	if v, ok := getEnvInt("JWT_REFRESH_TTL_MINUTES"); ok {
		c.JWT.RefreshTTLMinutes = v
	}
	if v, ok := getEnvBool("INKWELL_COOKIE_INSECURE"); ok {
		c.Auth.RefreshCookie.Insecure = v
	}
	if v, ok := getEnvStr("INKWELL_CACHE_DRIVER"); ok {
		c.Cache.Driver = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvBool("INKWELL_RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvBool("INKWELL_METRICS_ENABLED"); ok {
		c.Metrics.Enabled = v
	}
	if v, ok := getEnvBool("INKWELL_MIGRATE_ON_START"); ok {
		c.Storage.MigrateOnStart = v
	}
}

// Validate chequea lo indispensable para no arrancar roto.
func (c *Config) Validate() error {
	switch c.JWT.Algorithm {
	case "EdDSA", "RS256":
	default:
		return fmt.Errorf("config: jwt.algorithm %q no soportado (EdDSA|RS256)", c.JWT.Algorithm)
	}
	if c.JWT.PrivateKeyPEM == "" && c.JWT.PrivateKeyFile == "" {
		return fmt.Errorf("config: falta la clave privada JWT (jwt.private_key_file o JWT_PRIVATE_KEY)")
	}
	if c.JWT.PublicKeyPEM == "" && c.JWT.PublicKeyFile == "" {
		return fmt.Errorf("config: falta la clave pública JWT (jwt.public_key_file o JWT_PUBLIC_KEY)")
	}
	switch strings.ToLower(c.Auth.RefreshCookie.SameSite) {
	case "none", "lax", "strict":
	default:
		return fmt.Errorf("config: auth.refresh_cookie.samesite %q inválido", c.Auth.RefreshCookie.SameSite)
	}
	return nil
}

// ─── Helpers de entorno ───

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func getEnvBool(key string) (bool, bool) {
	v := strings.ToLower(os.Getenv(key))
	if v == "" {
		return false, false
	}
	return v == "1" || v == "true" || v == "yes", true
}
