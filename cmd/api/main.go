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

	"zatca-pro/internal/application/auth"
	"zatca-pro/internal/application/billing"
	"zatca-pro/internal/application/einvoice"
	infrapdf "zatca-pro/internal/infrastructure/pdf"
	"zatca-pro/internal/infrastructure/postgres"
	infrazatca "zatca-pro/internal/infrastructure/zatca"
	httpRouter "zatca-pro/internal/interfaces/http"
	"zatca-pro/pkg/config"
	"zatca-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	settingsRepo := postgres.NewBusinessSettingsRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	templateRepo := postgres.NewTaxTemplateRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	xmlBuilder := infrazatca.NewXMLBuilderService()
	signerSvc := infrazatca.NewSignatureService()
	qrBuilder := infrazatca.NewQRBuilderService()
	zatcaCfg := billing.ZATCAConfig{
		Environment: cfg.ZATCA.Environment,
		BaseURL:     cfg.ZATCA.BaseURL,
		CertPath:    cfg.ZATCA.CertPath,
		CertKeyPath: cfg.ZATCA.CertKeyPath,
		CSIDToken:   cfg.ZATCA.CSIDToken,
		CSIDSecret:  cfg.ZATCA.CSIDSecret,
	}

	// Fatoora API client. In sandbox mode the orchestrator never invokes
	// it; submissions are mocked locally.
	var submitter infrazatca.Submitter
	if cfg.ZATCA.Environment != infrazatca.EnvSandbox && cfg.ZATCA.Environment != "" {
		submitter = infrazatca.NewAPIClient(
			cfg.ZATCA.CSIDToken, cfg.ZATCA.CSIDSecret, cfg.ZATCA.BaseURL,
			time.Duration(cfg.ZATCA.RequestTimeout)*time.Second,
		)
	}

	// Assembler: validated UBL field tree from settings, parties, lines
	// and prepayment offsets.
	assembler := einvoice.NewAssembler(
		billing.NewTemplateStore(templateRepo),
		billing.NewPrepaymentStore(invoiceRepo),
	)

	// ZATCAOrchestrator: assemble → XML → XAdES sign → QR → submit → update DB
	orchestrator := billing.NewZATCAOrchestrator(
		invoiceRepo, settingsRepo, customerRepo,
		assembler, xmlBuilder, signerSvc, qrBuilder, submitter, zatcaCfg,
	)

	createInvoiceUC := billing.NewCreateInvoiceUseCase(
		txRunner, settingsRepo, customerRepo, templateRepo, invoiceRepo,
		orchestrator,
	)

	settingsUC := billing.NewSettingsUseCase(settingsRepo)
	customerUC := billing.NewCustomerUseCase(customerRepo)
	templateUC := billing.NewTaxTemplateUseCase(templateRepo)

	// PDF: printable representation with the ZATCA QR
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	invoicePDFUC := billing.NewPDFUseCase(
		invoiceRepo, settingsRepo, customerRepo, pdfGenerator,
	)
	authUC := auth.NewAuthUseCase(userRepo, settingsRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ZATCA Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SettingsUC:    settingsUC,
		CustomerUC:    customerUC,
		TaxTemplateUC: templateUC,
		CreateInvoice: createInvoiceUC,
		Orchestrator:  orchestrator,
		PDFUC:         invoicePDFUC,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
