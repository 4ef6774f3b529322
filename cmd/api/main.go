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

	"github.com/jhoicas/Pedidos-api/internal/application/letters"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/application/session"
	"github.com/jhoicas/Pedidos-api/internal/application/system"
	"github.com/jhoicas/Pedidos-api/internal/domain/calendar"
	"github.com/jhoicas/Pedidos-api/internal/domain/validation"
	infrapdf "github.com/jhoicas/Pedidos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/remote"
	infraxlsx "github.com/jhoicas/Pedidos-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/Pedidos-api/internal/interfaces/http"
	"github.com/jhoicas/Pedidos-api/pkg/config"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
	"github.com/jhoicas/Pedidos-api/pkg/money"
	"github.com/jhoicas/Pedidos-api/pkg/retry"
)

const (
	swaggerFile     = "./docs/swagger.json"
	cleanupInterval = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("remote_mode", cfg.Remote.Mode).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Colaborador remoto: API REST del back-office o su base PostgreSQL.
	var gateway ports.RemoteGateway
	switch cfg.Remote.Mode {
	case config.RemoteModePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		pgGateway := postgres.NewGateway(pool)
		defer pgGateway.Close()
		gateway = pgGateway
	default:
		gateway = remote.NewClient(remote.Config{
			BaseURL:         cfg.Remote.BaseURL,
			Timeout:         cfg.Remote.Timeout,
			TokenSecret:     cfg.Remote.TokenSecret,
			TokenIssuer:     cfg.Remote.TokenIssuer,
			TokenExpiration: cfg.Remote.TokenExpiration,
			Service:         cfg.App.Name,
		}, log)
	}

	engine, err := calendar.NewEngine(calendar.Config{
		DailyCap:     cfg.Calendar.DailyCap,
		NearCapRatio: cfg.Calendar.NearCapRatio,
		Holidays:     cfg.Calendar.Holidays,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configuración del calendario")
	}

	rules := validation.NewRules(cfg.Orders.Beneficiaries)
	sessions := session.NewManager(rules, cfg.Session.MaxAge, cfg.Session.IdleTimeout)
	loadPolicy := retry.Policy{Attempts: cfg.Remote.LoadRetryAttempts, Delay: cfg.Remote.LoadRetryDelay}

	formatter := money.NewFormatter(cfg.App.Locale, "S/")
	statementGen := infrapdf.NewStatementGenerator(formatter, cfg.App.Name)
	lettersExporter := infraxlsx.NewLettersExporter()

	orderUC := orders.NewOrderUseCase(gateway, statementGen, loadPolicy, log)
	letterUC := letters.NewLetterUseCase(gateway, engine, lettersExporter, loadPolicy, log)
	systemUC := system.NewSystemUseCase(gateway, loadPolicy, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Remote.Timeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (solo si se generó docs/swagger.json)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Pedidos API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		OrderUC:  orderUC,
		LetterUC: letterUC,
		SystemUC: systemUC,
		Sessions: sessions,
		Logger:   log,
	})

	// Limpieza periódica de sesiones inactivas o vencidas.
	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				if n := sessions.Cleanup(); n > 0 {
					log.Debug().Int("removed", n).Int("active", sessions.Len()).Msg("sesiones expiradas eliminadas")
				}
			}
		}
	}()

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
