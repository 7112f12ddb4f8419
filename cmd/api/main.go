package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/almacen-api/docs"
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/printing"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domainprinting "github.com/jhoicas/almacen-api/internal/domain/printing"
	"github.com/jhoicas/almacen-api/internal/infrastructure/barcode"
	infrapdf "github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/almacen-api/internal/infrastructure/printer"
	httpRouter "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	if applied > 0 {
		log.Info().Int("applied", applied).Msg("migraciones aplicadas")
	}

	userRepo := postgres.NewUserRepository(pool)
	mpRepo := postgres.NewMateriaPrimaRepository(pool)
	movRepo := postgres.NewMovimientoRepository(pool)
	aprRepo := postgres.NewAprobacionRepository(pool)
	categoriaRepo := postgres.NewCategoriaRepository(pool)
	presentacionRepo := postgres.NewPresentacionRepository(pool)
	proveedorRepo := postgres.NewProveedorRepository(pool)
	jobRepo := postgres.NewPrintJobRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.App.AdminEmail != "" {
		created, err := authUC.EnsureAdmin(ctx, cfg.App.AdminEmail, cfg.App.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		if created {
			log.Info().Str("email", cfg.App.AdminEmail).Msg("administrador inicial creado")
		}
	}

	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, mpRepo, movRepo)
	approvalUC := inventory.NewApprovalUseCase(txRunner, aprRepo, mpRepo, registerMovementUC)
	lowStockUC := inventory.NewLowStockUseCase(mpRepo)
	mpUC := usecase.NewMateriaPrimaUseCase(mpRepo, categoriaRepo, presentacionRepo, proveedorRepo, registerMovementUC)
	categoriaUC := usecase.NewCategoriaUseCase(categoriaRepo, mpRepo)
	presentacionUC := usecase.NewPresentacionUseCase(presentacionRepo, mpRepo)
	proveedorUC := usecase.NewProveedorUseCase(proveedorRepo)

	// Impresión: renderizado, shim del sistema operativo y spool de temporales
	spool, err := printer.NewDirSpool(cfg.Print.SpoolDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("directorio de spool")
	}
	if n, err := spool.Purge(time.Hour); err != nil {
		log.Warn().Err(err).Msg("limpieza de spool")
	} else if n > 0 {
		log.Info().Int("files", n).Msg("temporales huérfanos eliminados")
	}

	barcodes := barcode.NewRenderer()
	var labels printing.LabelRenderer = infrapdf.NewLabelGenerator(barcodes)
	if cfg.Print.LabelMode == "text" {
		labels = printer.NewRawTextLabel(cfg.Print.CodePage)
	}
	driver := printer.NewDriver(printer.NewExecRunner(cfg.Print.CommandTimeout), log)

	labelCfg := entity.DefaultPrinterConfig(cfg.Print.DefaultPrinter)
	labelCfg.LabelWidthMM = float64(cfg.Print.LabelWidthMM)
	labelCfg.LabelHeightMM = float64(cfg.Print.LabelHeightMM)
	labelCfg.DPI = cfg.Print.LabelDPI

	dispatcher := printing.NewDispatcher(jobRepo, mpRepo, barcodes, labels, driver, spool, printing.DispatcherConfig{
		Workers:        cfg.Print.Workers,
		PollInterval:   cfg.Print.PollInterval,
		StaleAfter:     cfg.Print.StaleAfter,
		Backoff:        domainprinting.Backoff{Base: cfg.Print.BackoffBase, Max: cfg.Print.BackoffMax},
		DefaultPrinter: cfg.Print.DefaultPrinter,
		Label:          labelCfg,
	}, log)
	printUC := printing.NewPrintUseCase(jobRepo, mpRepo, barcodes, driver, dispatcher, printing.Settings{
		MaxAttempts:    cfg.Print.MaxAttempts,
		DefaultPrinter: cfg.Print.DefaultPrinter,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		MateriaPrimaUC:   mpUC,
		CategoriaUC:      categoriaUC,
		PresentacionUC:   presentacionUC,
		ProveedorUC:      proveedorUC,
		RegisterMovement: registerMovementUC,
		Approvals:        approvalUC,
		LowStock:         lowStockUC,
		PrintUC:          printUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		if err := dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("despachador de impresión finalizado")
		}
	}()

	listenErr := serve(app, cfg.HTTP.Addr(), stop, log)

	<-ctx.Done()
	var serveErr error
	select {
	case serveErr = <-listenErr:
	default:
	}
	if serveErr != nil {
		log.Info().Msg("el servidor no pudo escuchar, cerrando...")
	} else {
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	select {
	case <-dispatcherDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("el despachador no terminó a tiempo")
	}

	if serveErr != nil {
		pool.Close()
		log.Fatal().Err(serveErr).Msg("aplicación detenida")
	}
	log.Info().Msg("aplicación detenida")
}
