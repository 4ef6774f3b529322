package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/letters"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/application/session"
	"github.com/jhoicas/Pedidos-api/internal/application/system"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OrderUC  *orders.OrderUseCase
	LetterUC *letters.LetterUseCase
	SystemUC *system.SystemUseCase
	Sessions *session.Manager
	Logger   *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger.Component("http")
	systemHandler := NewSystemHandler(deps.SystemUC, deps.Sessions, log)

	// Health (sin sesión)
	app.Get("/health", systemHandler.Health)

	api := app.Group("/api", SessionMiddleware(deps.Sessions))

	// Pedidos
	orderHandler := NewOrderHandler(deps.OrderUC, log)
	ordersGroup := api.Group("/orders")
	ordersGroup.Get("/", orderHandler.Snapshot)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Post("/reload", orderHandler.Reload)
	ordersGroup.Delete("/selection", orderHandler.ClearSelection)
	ordersGroup.Put("/:id", orderHandler.Update)
	ordersGroup.Delete("/:id", orderHandler.Delete)
	ordersGroup.Post("/:id/close", orderHandler.Close)
	ordersGroup.Post("/:id/select", orderHandler.Select)
	ordersGroup.Get("/:id/statement", orderHandler.Statement)
	ordersGroup.Delete("/:id/guides/:guideId", orderHandler.DeleteGuide)
	ordersGroup.Delete("/:id/guides/:guideId/invoices/:invoiceId", orderHandler.DeleteInvoice)

	// Borrador de guía del pedido seleccionado
	draftHandler := NewDraftHandler(deps.OrderUC, log)
	draft := api.Group("/draft")
	draft.Post("/", draftHandler.Open)
	draft.Put("/", draftHandler.SetHeader)
	draft.Delete("/", draftHandler.Cancel)
	draft.Post("/commit", draftHandler.Commit)
	draft.Post("/guides/:guideId", draftHandler.EditGuide)
	draft.Post("/invoices", draftHandler.AddInvoice)
	draft.Put("/invoices/:index", draftHandler.UpdateInvoice)
	draft.Delete("/invoices/:index", draftHandler.RemoveInvoice)

	// Letras y calendario
	letterHandler := NewLetterHandler(deps.LetterUC, log)
	lettersGroup := api.Group("/letters")
	lettersGroup.Get("/", letterHandler.List)
	lettersGroup.Post("/reload", letterHandler.Reload)
	lettersGroup.Get("/calendar", letterHandler.Calendar)
	lettersGroup.Post("/selection/:date", letterHandler.ToggleDate)
	lettersGroup.Delete("/selection", letterHandler.ClearSelection)
	lettersGroup.Post("/bulk", letterHandler.BulkCreate)
	lettersGroup.Get("/export", letterHandler.Export)
	api.Get("/distributions/unassigned", letterHandler.Distributions)

	// Sistema
	api.Get("/logs", systemHandler.Logs)
	api.Get("/backups", systemHandler.Backups)
}
