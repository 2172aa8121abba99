package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/medipos/internal/auth"
	authdomain "github.com/smallbiznis/medipos/internal/auth/domain"
	"github.com/smallbiznis/medipos/internal/config"
	"github.com/smallbiznis/medipos/internal/customer"
	customerdomain "github.com/smallbiznis/medipos/internal/customer/domain"
	"github.com/smallbiznis/medipos/internal/dashboard"
	dashboarddomain "github.com/smallbiznis/medipos/internal/dashboard/domain"
	"github.com/smallbiznis/medipos/internal/medicine"
	medicinedomain "github.com/smallbiznis/medipos/internal/medicine/domain"
	"github.com/smallbiznis/medipos/internal/observability"
	obslogger "github.com/smallbiznis/medipos/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/medipos/internal/observability/metrics"
	"github.com/smallbiznis/medipos/internal/order"
	orderdomain "github.com/smallbiznis/medipos/internal/order/domain"
	"github.com/smallbiznis/medipos/internal/providers/pdf"
	"github.com/smallbiznis/medipos/internal/purchase"
	purchasedomain "github.com/smallbiznis/medipos/internal/purchase/domain"
	"github.com/smallbiznis/medipos/internal/supplier"
	supplierdomain "github.com/smallbiznis/medipos/internal/supplier/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	medicine.Module,
	customer.Module,
	supplier.Module,
	order.Module,
	purchase.Module,
	dashboard.Module,
	pdf.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	authSvc      authdomain.Service
	medicineSvc  medicinedomain.Service
	customerSvc  customerdomain.Service
	supplierSvc  supplierdomain.Service
	orderSvc     orderdomain.Service
	purchaseSvc  purchasedomain.Service
	dashboardSvc dashboarddomain.Service
	pdfProvider  pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	AuthSvc      authdomain.Service
	MedicineSvc  medicinedomain.Service
	CustomerSvc  customerdomain.Service
	SupplierSvc  supplierdomain.Service
	OrderSvc     orderdomain.Service
	PurchaseSvc  purchasedomain.Service
	DashboardSvc dashboarddomain.Service
	PDFProvider  pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		authSvc:      p.AuthSvc,
		medicineSvc:  p.MedicineSvc,
		customerSvc:  p.CustomerSvc,
		supplierSvc:  p.SupplierSvc,
		orderSvc:     p.OrderSvc,
		purchaseSvc:  p.PurchaseSvc,
		dashboardSvc: p.DashboardSvc,
		pdfProvider:  p.PDFProvider,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
	auth.POST("/logout", s.AuthRequired(), s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.Use(s.AuthRequired())

	// -------- Medicines --------
	api.GET("/medicines", s.ListMedicines)
	api.POST("/medicines", s.CreateMedicine)
	api.GET("/medicines/:id", s.GetMedicineByID)
	api.PATCH("/medicines/:id", s.UpdateMedicine)
	api.POST("/medicines/:id/restock", s.RestockMedicine)
	api.POST("/medicines/:id/adjust", s.RequireRole(RoleAdmin, RoleDealer), s.AdjustMedicineStock)

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.PATCH("/customers/:id", s.UpdateCustomer)

	// -------- Orders --------
	api.POST("/orders", s.SubmitOrder)
	api.POST("/orders/validate", s.ValidateOrderLine)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrderByID)
	api.GET("/orders/:id/receipt", s.GetOrderReceipt)

	// -------- Dashboard --------
	api.GET("/dashboard", s.GetDashboard)

	// -------- Suppliers --------
	// Closed to the counter role; front desk never handles procurement.
	api.GET("/suppliers", s.RequireRole(RoleAdmin, RoleDealer), s.ListSuppliers)
	api.POST("/suppliers", s.RequireRole(RoleAdmin, RoleDealer), s.CreateSupplier)
	api.GET("/suppliers/:id", s.RequireRole(RoleAdmin, RoleDealer), s.GetSupplierByID)
	api.PATCH("/suppliers/:id", s.RequireRole(RoleAdmin, RoleDealer), s.UpdateSupplier)
	api.POST("/suppliers/:id/archive", s.RequireRole(RoleAdmin, RoleDealer), s.ArchiveSupplier)

	// -------- Purchase Orders --------
	api.GET("/purchase-orders", s.RequireRole(RoleAdmin, RoleDealer), s.ListPurchaseOrders)
	api.POST("/purchase-orders", s.RequireRole(RoleAdmin, RoleDealer), s.CreatePurchaseOrder)
	api.GET("/purchase-orders/:id", s.RequireRole(RoleAdmin, RoleDealer), s.GetPurchaseOrderByID)
	api.POST("/purchase-orders/:id/receive", s.RequireRole(RoleAdmin, RoleDealer), s.ReceivePurchaseOrder)
	api.POST("/purchase-orders/:id/cancel", s.RequireRole(RoleAdmin, RoleDealer), s.CancelPurchaseOrder)

	// -------- Users --------
	api.POST("/users", s.RequireRole(RoleAdmin), s.CreateUser)
}
