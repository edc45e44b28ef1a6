package http

import (
	"github.com/gofiber/fiber/v2"

	"zatca-pro/internal/application/auth"
	"zatca-pro/internal/application/billing"
)

// RouterDeps carries the router dependencies.
type RouterDeps struct {
	SettingsUC    *billing.SettingsUseCase
	CustomerUC    *billing.CustomerUseCase
	TaxTemplateUC *billing.TaxTemplateUseCase
	CreateInvoice *billing.CreateInvoiceUseCase
	Orchestrator  *billing.ZATCAOrchestrator
	PDFUC         *billing.PDFUseCase
	AuthUC        *auth.AuthUseCase
	JWTSecret     string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Business settings bootstrap (public: first taxpayer is registered
	// before any user exists)
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	api.Post("/settings", settingsHandler.Create)

	// Protected routes (Bearer token required)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Business settings (protected)
	protected.Get("/settings", settingsHandler.Get)
	protected.Put("/settings", RequireRole("admin"), settingsHandler.Update)

	// Customers (protected)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)

	// Tax templates (protected)
	templates := protected.Group("/tax-templates")
	templateHandler := NewTaxTemplateHandler(deps.TaxTemplateUC)
	templates.Post("/", RequireRole("admin", "accountant"), templateHandler.Create)
	templates.Get("/", templateHandler.List)
	templates.Get("/:id", templateHandler.GetByID)

	// Invoices (protected)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice, deps.Orchestrator, deps.PDFUC)
	invoices.Post("/", RequireRole("admin", "accountant"), invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/status", invoiceHandler.GetStatus)
	invoices.Get("/:id/xml", invoiceHandler.GetXML)
	invoices.Get("/:id/pdf", invoiceHandler.GetPDF)
	invoices.Post("/:id/retry", RequireRole("admin", "accountant"), invoiceHandler.Retry)
}
