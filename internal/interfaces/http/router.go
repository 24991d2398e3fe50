package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-pro/internal/application/auth"
	"github.com/tu-usuario/farmacia-pro/internal/application/usecase"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	MovementUC   *usecase.MovementUseCase
	CategoryUC   *usecase.CategoryUseCase
	SupplierUC   *usecase.SupplierUseCase
	PedidoUC     *usecase.PedidoUseCase
	RecetaUC     *usecase.RecetaUseCase
	KitUC        *usecase.KitUseCase
	DevolucionUC *usecase.DevolucionUseCase
	ImportUC     *usecase.ImportUseCase
	DashboardUC  *usecase.DashboardUseCase
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público: login; register solo mientras no exista ninguna cuenta)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido; eliminar solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.MovementUC)
	importHandler := NewImportHandler(deps.ImportUC)
	products.Post("/import", importHandler.ImportProducts)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Get("/:id/movements", productHandler.Movements)

	// Movements (protegido)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Post("/exit", movementHandler.RegisterExit)
	movements.Post("/entry", movementHandler.RegisterEntry)
	movements.Get("/lot/:lot", movementHandler.HistoryForLot)

	// Categories (protegido; mutaciones solo admin)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", adminOnly, categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", adminOnly, categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	// Suppliers (protegido; mutaciones solo admin)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", adminOnly, supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", adminOnly, supplierHandler.Update)
	suppliers.Delete("/:id", adminOnly, supplierHandler.Delete)

	// Pedidos a proveedor (protegido)
	pedidos := protected.Group("/pedidos")
	pedidoHandler := NewPedidoHandler(deps.PedidoUC)
	pedidos.Post("/", pedidoHandler.Create)
	pedidos.Get("/", pedidoHandler.List)
	pedidos.Get("/:id", pedidoHandler.GetByID)
	pedidos.Patch("/:id/status", pedidoHandler.UpdateStatus)
	pedidos.Delete("/:id", adminOnly, pedidoHandler.Delete)

	// Recetas (protegido)
	recetas := protected.Group("/recetas")
	recetaHandler := NewRecetaHandler(deps.RecetaUC)
	recetas.Post("/", recetaHandler.Create)
	recetas.Get("/", recetaHandler.List)
	recetas.Get("/:id", recetaHandler.GetByID)
	recetas.Post("/:id/dispense", recetaHandler.Dispense)
	recetas.Post("/:id/cancel", recetaHandler.Cancel)

	// Kits (protegido; crear/eliminar solo admin)
	kits := protected.Group("/kits")
	kitHandler := NewKitHandler(deps.KitUC)
	kits.Post("/", adminOnly, kitHandler.Create)
	kits.Get("/", kitHandler.List)
	kits.Get("/:id", kitHandler.GetByID)
	kits.Put("/:id", adminOnly, kitHandler.Update)
	kits.Post("/:id/sell", kitHandler.Sell)
	kits.Delete("/:id", adminOnly, kitHandler.Delete)

	// Devoluciones a proveedor (protegido)
	devoluciones := protected.Group("/devoluciones")
	devolucionHandler := NewDevolucionHandler(deps.DevolucionUC)
	devoluciones.Post("/", devolucionHandler.Create)
	devoluciones.Get("/", devolucionHandler.List)
	devoluciones.Get("/:id", devolucionHandler.GetByID)
	devoluciones.Delete("/:id", adminOnly, devolucionHandler.Delete)

	// Administración de cuentas (solo admin)
	employees := protected.Group("/employees", adminOnly)
	employeeHandler := NewEmployeeHandler(deps.AuthUC)
	employees.Post("/", employeeHandler.Create)
	employees.Get("/", employeeHandler.List)
	employees.Get("/:id", employeeHandler.GetByID)
	employees.Put("/:id", employeeHandler.Update)
	employees.Delete("/:id", employeeHandler.Delete)

	// Dashboard (protegido)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.Summary)
}
