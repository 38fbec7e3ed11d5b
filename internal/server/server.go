package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/introaqua/waterworks/internal/auth"
	authdomain "github.com/introaqua/waterworks/internal/auth/domain"
	"github.com/introaqua/waterworks/internal/auth/session"
	"github.com/introaqua/waterworks/internal/bill"
	billdomain "github.com/introaqua/waterworks/internal/bill/domain"
	"github.com/introaqua/waterworks/internal/config"
	"github.com/introaqua/waterworks/internal/news"
	newsdomain "github.com/introaqua/waterworks/internal/news/domain"
	"github.com/introaqua/waterworks/internal/observability"
	obslogger "github.com/introaqua/waterworks/internal/observability/logger"
	obsmetrics "github.com/introaqua/waterworks/internal/observability/metrics"
	obstracing "github.com/introaqua/waterworks/internal/observability/tracing"
	"github.com/introaqua/waterworks/internal/payment"
	paymentdomain "github.com/introaqua/waterworks/internal/payment/domain"
	"github.com/introaqua/waterworks/internal/pricing"
	pricingdomain "github.com/introaqua/waterworks/internal/pricing/domain"
	"github.com/introaqua/waterworks/internal/ratelimit"
	"github.com/introaqua/waterworks/internal/report"
	reportdomain "github.com/introaqua/waterworks/internal/report/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	bill.Module,
	report.Module,
	news.Module,
	pricing.Module,
	payment.Module,
	ratelimit.Module,
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
	r.Use(obstracing.GinMiddleware())
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

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
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
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	authsvc    authdomain.Service
	sessions   *session.Manager
	billSvc    billdomain.Service
	reportSvc  reportdomain.Service
	newsSvc    newsdomain.Service
	pricingSvc pricingdomain.Service
	paymentSvc paymentdomain.Service
	public     *ratelimit.PublicLimiter
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	Authsvc    authdomain.Service
	Sessions   *session.Manager
	BillSvc    billdomain.Service
	ReportSvc  reportdomain.Service
	NewsSvc    newsdomain.Service
	PricingSvc pricingdomain.Service
	PaymentSvc paymentdomain.Service
	Public     *ratelimit.PublicLimiter
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("http.server"),
		authsvc:    p.Authsvc,
		sessions:   p.Sessions,
		billSvc:    p.BillSvc,
		reportSvc:  p.ReportSvc,
		newsSvc:    p.NewsSvc,
		pricingSvc: p.PricingSvc,
		paymentSvc: p.PaymentSvc,
		public:     p.Public,
	}

	s.registerAuthRoutes()
	s.registerBillRoutes()
	s.registerReportRoutes()
	s.registerNewsRoutes()
	s.registerPricingRoutes()
	s.registerPaymentRoutes()
	s.registerUploadRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/api/auth")

	auth.POST("/register", s.Register)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.AuthRequired(), s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
	auth.PUT("/change-password", s.AuthRequired(), s.ChangePassword)
}

func (s *Server) registerBillRoutes() {
	bills := s.engine.Group("/api/bills")

	bills.GET("/lookup", s.public.LookupMiddleware(), s.LookupBill)

	bills.GET("", s.AuthRequired(), s.ListBills)
	bills.GET("/stats/summary", s.AuthRequired(), s.AdminRequired(), s.BillStats)
	bills.GET("/customer/:customerCode", s.AuthRequired(), s.ListCustomerBills)
	bills.GET("/:id", s.AuthRequired(), s.GetBill)
	bills.POST("", s.AuthRequired(), s.AdminRequired(), s.CreateBill)
	bills.PUT("/:id", s.AuthRequired(), s.AdminRequired(), s.UpdateBill)
	bills.PUT("/:id/status", s.AuthRequired(), s.AdminRequired(), s.UpdateBillStatus)
}

func (s *Server) registerReportRoutes() {
	reports := s.engine.Group("/api/reports")
	reports.Use(s.AuthRequired())

	reports.POST("", s.CreateReport)
	reports.GET("", s.ListReports)
	reports.GET("/stats/summary", s.AdminRequired(), s.ReportStats)
	reports.GET("/:id", s.GetReport)
	reports.PUT("/:id/status", s.StaffRequired(), s.UpdateReportStatus)
	reports.PUT("/:id/assign", s.AdminRequired(), s.AssignReport)
	reports.PUT("/:id/resolution", s.StaffRequired(), s.ResolveReport)
}

func (s *Server) registerNewsRoutes() {
	news := s.engine.Group("/api/news")

	news.GET("", s.ListNews)
	news.GET("/admin/all", s.AuthRequired(), s.AdminRequired(), s.ListNewsAdmin)
	news.GET("/:slug", s.GetNewsBySlug)
	news.POST("/:id/like", s.public.LikeMiddleware(), s.LikeNews)
	news.POST("/:id/share", s.public.LikeMiddleware(), s.ShareNews)
	news.POST("", s.AuthRequired(), s.AdminRequired(), s.CreateNews)
	news.PUT("/:id", s.AuthRequired(), s.AdminRequired(), s.UpdateNews)
	news.DELETE("/:id", s.AuthRequired(), s.AdminRequired(), s.DeleteNews)
}

func (s *Server) registerPricingRoutes() {
	pricing := s.engine.Group("/api/pricing")

	pricing.GET("", s.ListPricing)
	pricing.GET("/admin/all", s.AuthRequired(), s.AdminRequired(), s.ListPricingAdmin)
	pricing.POST("", s.AuthRequired(), s.AdminRequired(), s.CreatePricingTier)
	pricing.PUT("/:id", s.AuthRequired(), s.AdminRequired(), s.UpdatePricingTier)
}

func (s *Server) registerPaymentRoutes() {
	payment := s.engine.Group("/api/payment")
	payment.Use(s.AuthRequired())

	payment.POST("/create-qr", s.CreatePaymentQR)
	payment.GET("/check/:orderId", s.CheckPaymentStatus)
}

func (s *Server) registerUploadRoutes() {
	s.engine.POST("/api/uploads", s.AuthRequired(), s.UploadFiles)
	s.engine.Static("/uploads", s.cfg.UploadDir)
}
