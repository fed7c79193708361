// inkwell: servicio de contenidos con control de acceso por roles.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	rdb "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/inkwell/internal/authz"
	"github.com/dropDatabas3/inkwell/internal/cache"
	cachememory "github.com/dropDatabas3/inkwell/internal/cache/memory"
	cacheredis "github.com/dropDatabas3/inkwell/internal/cache/redis"
	"github.com/dropDatabas3/inkwell/internal/config"
	apphttp "github.com/dropDatabas3/inkwell/internal/http"
	authctrl "github.com/dropDatabas3/inkwell/internal/http/controllers/auth"
	postsctrl "github.com/dropDatabas3/inkwell/internal/http/controllers/posts"
	rolesctrl "github.com/dropDatabas3/inkwell/internal/http/controllers/roles"
	usersctrl "github.com/dropDatabas3/inkwell/internal/http/controllers/users"
	"github.com/dropDatabas3/inkwell/internal/http/helpers"
	"github.com/dropDatabas3/inkwell/internal/http/router"
	authsvc "github.com/dropDatabas3/inkwell/internal/http/services/auth"
	postssvc "github.com/dropDatabas3/inkwell/internal/http/services/posts"
	rolessvc "github.com/dropDatabas3/inkwell/internal/http/services/roles"
	userssvc "github.com/dropDatabas3/inkwell/internal/http/services/users"
	"github.com/dropDatabas3/inkwell/internal/jwt"
	"github.com/dropDatabas3/inkwell/internal/observability/logger"
	"github.com/dropDatabas3/inkwell/internal/rate"
	"github.com/dropDatabas3/inkwell/internal/security/password"
	"github.com/dropDatabas3/inkwell/internal/store/pg"
	migrations "github.com/dropDatabas3/inkwell/migrations/postgres"

	"github.com/google/uuid"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "inkwell:", err)
		os.Exit(1)
	}
}

func run() error {
	// .env es opcional; en producción las vars vienen del entorno real.
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("INKWELL_CONFIG"), "ruta al config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	})
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ───── Material de firma ─────
	keys, err := jwt.LoadKeyPair(
		cfg.JWT.Algorithm,
		cfg.JWT.PrivateKeyPEM, cfg.JWT.PrivateKeyFile,
		cfg.JWT.PublicKeyPEM, cfg.JWT.PublicKeyFile,
	)
	if err != nil {
		return err
	}
	codec := jwt.NewCodec(keys, cfg.AccessTTL(), cfg.RefreshTTL())

	// ───── Storage ─────
	st, err := pg.New(ctx, pg.Options{
		DSN:             cfg.Storage.DSN,
		MaxConns:        cfg.Storage.MaxConns,
		ConnMaxLifetime: cfg.Storage.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.Storage.MigrateOnStart {
		if err := pg.NewMigrator(st, migrations.FS, ".").Up(ctx); err != nil {
			return err
		}
	}

	// ───── Cache y rate limiting ─────
	var (
		roleCache   cache.Cache
		rateLimiter rate.Limiter
		redisClient *rdb.Client
	)
	if cfg.Cache.Driver == "redis" {
		redisClient = rdb.NewClient(&rdb.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		defer func() { _ = redisClient.Close() }()
		roleCache = cacheredis.New(redisClient)
	} else {
		roleCache = cachememory.New(cfg.Cache.Memory.DefaultTTL)
	}
	if cfg.Rate.Enabled {
		if redisClient != nil {
			rateLimiter = rate.NewRedisLimiter(redisClient, "rl:", cfg.Rate.MaxRequests, cfg.Rate.Window)
		} else {
			rateLimiter = rate.NewMemoryLimiter(cfg.Rate.MaxRequests, cfg.Rate.Window)
		}
	}

	// ───── Guard y services ─────
	guard := authz.New(authz.Deps{
		Codec:   codec,
		Users:   st.Users(),
		Roles:   st.Roles(),
		Cache:   roleCache,
		RoleTTL: cfg.Cache.RoleTTL,
	})

	cookie := helpers.CookieSpec{
		Name:     cfg.Auth.RefreshCookie.Name,
		Domain:   cfg.Auth.RefreshCookie.Domain,
		Path:     cfg.Auth.RefreshCookie.Path,
		Secure:   cfg.RefreshCookieSecure(),
		SameSite: helpers.ParseSameSite(cfg.Auth.RefreshCookie.SameSite),
		MaxAge:   cfg.RefreshCookieMaxAge(),
	}

	authService := authsvc.New(authsvc.Deps{
		Users:       st.Users(),
		Roles:       st.Roles(),
		Codec:       codec,
		DefaultRole: cfg.Auth.DefaultRole,
		Hasher:      password.Default,
	})
	usersService := userssvc.New(userssvc.Deps{Users: st.Users(), Roles: st.Roles()})
	rolesService := rolessvc.New(rolessvc.Deps{
		Roles: st.Roles(),
		InvalidateRole: func(id uuid.UUID) {
			roleCache.Delete("role:" + id.String())
		},
	})
	postsService := postssvc.New(postssvc.Deps{Posts: st.Posts()})

	// ───── Métricas ─────
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler, err = apphttp.RegisterMetrics(apphttp.MetricsConfig{
			Pool: st.Pool,
		})
		if err != nil {
			return err
		}
	}

	// ───── Router y server ─────
	handler := router.New(router.Deps{
		Auth:        authctrl.New(authService, cookie),
		Users:       usersctrl.New(usersService, guard, codec, cookie),
		Roles:       rolesctrl.New(rolesService, guard),
		Posts:       postsctrl.New(postsService, guard),
		Store:       st,
		Metrics:     metricsHandler,
		RateLimiter: rateLimiter,
	})

	srv := apphttp.NewServer(apphttp.ServerOptions{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.L().Info("apagando servidor")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
