package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/field-assets-api/internal/application/analytics"
	"github.com/jhoicas/field-assets-api/internal/infrastructure/cache"
	"github.com/jhoicas/field-assets-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/field-assets-api/internal/interfaces/http"
	"github.com/jhoicas/field-assets-api/pkg/config"
	"github.com/jhoicas/field-assets-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	settings := analytics.Settings{
		LeadTimeDays:           cfg.Analytics.LeadTimeDays,
		LookbackMonths:         cfg.Analytics.LookbackMonths,
		DefaultPeriodMonths:    cfg.Analytics.DefaultPeriodMonths,
		DefaultUsefulLifeYears: cfg.Analytics.DefaultUsefulLifeYears,
		CacheTTL:               time.Duration(cfg.Cache.TTLSeconds) * time.Second,
	}

	// Caché de reportes opcional: sin REDIS_URL o con Redis caído se calcula siempre.
	var opts []analytics.Option
	var cachePinger httpRouter.Pinger
	if cfg.Cache.Enabled() {
		rdb, err := cache.NewRedis(ctx, cfg.Cache.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, reportes sin caché")
		} else {
			defer rdb.Close()
			reportCache := cache.NewRedisReportCache(rdb, cfg.App.Name)
			opts = append(opts, analytics.WithCache(reportCache))
			cachePinger = reportCache
			log.Info().Int("ttl_seconds", cfg.Cache.TTLSeconds).Msg("caché de reportes habilitada")
		}
	}

	analyticsRepo := postgres.NewAssetAnalyticsRepository(pool)
	assetUC := analytics.NewAssetAnalyticsUseCase(analyticsRepo, settings, log, opts...)
	equipmentUC := analytics.NewEquipmentCostUseCase(analyticsRepo, settings, log, opts...)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs (requiere `swag init`)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Field Assets Analytics API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AssetUC:     assetUC,
		EquipmentUC: equipmentUC,
		DB:          pool,
		Cache:       cachePinger,
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
