package pg

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/dropDatabas3/inkwell/internal/observability/logger"
)

// migrationFilePattern: {version}_{nombre}.sql, ej: 0001_init.sql
var migrationFilePattern = regexp.MustCompile(`^(\d+)_(.+)\.sql$`)

type migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrator aplica migraciones embebidas en orden de versión.
// Lleva registro en schema_migrations; cada migración corre dentro
// de su propia transacción.
type Migrator struct {
	store *Store
	fsys  embed.FS
	dir   string
}

// NewMigrator crea un migrator sobre el FS embebido.
func NewMigrator(s *Store, fsys embed.FS, dir string) *Migrator {
	return &Migrator{store: s, fsys: fsys, dir: dir}
}

// Up aplica todas las migraciones pendientes.
func (m *Migrator) Up(ctx context.Context) error {
	migs, err := m.parse()
	if err != nil {
		return err
	}

	if _, err := m.store.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("migrate: crear schema_migrations: %w", err)
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}

	log := logger.Named("migrate")
	for _, mg := range migs {
		if applied[mg.Version] {
			continue
		}
		if err := m.apply(ctx, mg); err != nil {
			return err
		}
		log.Info("migración aplicada",
			logger.Int("version", mg.Version),
			logger.String("name", mg.Name),
		)
	}
	return nil
}

func (m *Migrator) apply(ctx context.Context, mg migration) error {
	tx, err := m.store.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("migrate %04d: begin: %w", mg.Version, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, mg.SQL); err != nil {
		return fmt.Errorf("migrate %04d (%s): %w", mg.Version, mg.Name, err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
		mg.Version, mg.Name); err != nil {
		return fmt.Errorf("migrate %04d: registrar: %w", mg.Version, err)
	}
	return tx.Commit(ctx)
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := m.store.pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("migrate: leer versiones: %w", err)
	}
	defer rows.Close()

	applied := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("migrate: scan versión: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// parse lista y parsea los archivos del FS embebido, ordenados por versión.
func (m *Migrator) parse() ([]migration, error) {
	entries, err := fs.ReadDir(m.fsys, m.dir)
	if err != nil {
		return nil, fmt.Errorf("migrate: leer dir %q: %w", m.dir, err)
	}

	var migs []migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		match := migrationFilePattern.FindStringSubmatch(e.Name())
		if match == nil {
			logger.Named("migrate").Warn("archivo ignorado, no matchea el patrón",
				zap.String("file", e.Name()))
			continue
		}
		version, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("migrate: versión inválida en %q: %w", e.Name(), err)
		}
		raw, err := fs.ReadFile(m.fsys, m.dir+"/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("migrate: leer %q: %w", e.Name(), err)
		}
		migs = append(migs, migration{Version: version, Name: match[2], SQL: string(raw)})
	}

	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })

	for i := 1; i < len(migs); i++ {
		if migs[i].Version == migs[i-1].Version {
			return nil, fmt.Errorf("migrate: versión duplicada %d", migs[i].Version)
		}
	}
	return migs, nil
}
