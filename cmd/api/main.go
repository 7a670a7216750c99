package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/nutrition-program-api/internal/application/auth"
	"github.com/jhoicas/nutrition-program-api/internal/application/party"
	"github.com/jhoicas/nutrition-program-api/internal/application/voucher"
	"github.com/jhoicas/nutrition-program-api/internal/infrastructure/cache"
	"github.com/jhoicas/nutrition-program-api/internal/infrastructure/metrics"
	"github.com/jhoicas/nutrition-program-api/internal/infrastructure/postgres"
	"github.com/jhoicas/nutrition-program-api/internal/infrastructure/sanitize"
	httpRouter "github.com/jhoicas/nutrition-program-api/internal/interfaces/http"
	"github.com/jhoicas/nutrition-program-api/pkg/config"
	"github.com/jhoicas/nutrition-program-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		File:  cfg.App.LogFile,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	// Redis es opcional: sin REDIS_URL la identidad se lee siempre de PostgreSQL.
	var identityCache auth.IdentityCache
	redisClient, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
		identityCache = cache.NewIdentityCache(redisClient, cfg.Redis.IdentityTTL())
		log.Info().Dur("ttl", cfg.Redis.IdentityTTL()).Msg("caché de identidades habilitada")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(reg)

	txRunner := postgres.NewTxRunner(pool, cfg.DB.TxTimeout())
	userRepo := postgres.NewUserRepository(pool)
	contractorRepo := postgres.NewContractorRepository(pool)
	voucherRepo := postgres.NewVoucherRepository(pool)

	authUC := auth.NewAuthUseCase(txRunner, userRepo, identityCache, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))
	resolver := auth.NewIdentityResolver(userRepo, identityCache, log.Component("identity"))
	registryUC := party.NewRegistryUseCase(txRunner, contractorRepo, appMetrics, log.Component("party"))
	workflowUC := voucher.NewWorkflowUseCase(txRunner, voucherRepo, sanitize.New(), appMetrics, log.Component("voucher"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSAllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: cfg.App.SwaggerFile,
		Path:     "docs",
		Title:    "Nutrition Program API",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		Resolver:   resolver,
		RegistryUC: registryUC,
		WorkflowUC: workflowUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
