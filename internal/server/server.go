package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/james21411/Projet-scolapp-sub004/internal/audit/domain"
	"github.com/james21411/Projet-scolapp-sub004/internal/auditcontext"
	balancedomain "github.com/james21411/Projet-scolapp-sub004/internal/balance/domain"
	"github.com/james21411/Projet-scolapp-sub004/internal/config"
	feestructuredomain "github.com/james21411/Projet-scolapp-sub004/internal/feestructure/domain"
	"github.com/james21411/Projet-scolapp-sub004/internal/observability/logger"
	paymentdomain "github.com/james21411/Projet-scolapp-sub004/internal/payment/domain"
	riskdomain "github.com/james21411/Projet-scolapp-sub004/internal/risk/domain"
	transferdomain "github.com/james21411/Projet-scolapp-sub004/internal/transfer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	cfg          config.Config
	db           *gorm.DB
	log          *zap.Logger
	structureSvc feestructuredomain.Service
	paymentSvc   paymentdomain.Service
	balanceSvc   balancedomain.Service
	riskSvc      riskdomain.Service
	transferSvc  transferdomain.Service
	auditSvc     auditdomain.Service
	auditRepo    auditdomain.Repository
}

type Params struct {
	fx.In

	Cfg          config.Config
	DB           *gorm.DB
	Log          *zap.Logger
	StructureSvc feestructuredomain.Service
	PaymentSvc   paymentdomain.Service
	BalanceSvc   balancedomain.Service
	RiskSvc      riskdomain.Service
	TransferSvc  transferdomain.Service
	AuditSvc     auditdomain.Service    `optional:"true"`
	AuditRepo    auditdomain.Repository `optional:"true"`
}

func New(p Params) *Server {
	return &Server{
		cfg:          p.Cfg,
		db:           p.DB,
		log:          p.Log.Named("server"),
		structureSvc: p.StructureSvc,
		paymentSvc:   p.PaymentSvc,
		balanceSvc:   p.BalanceSvc,
		riskSvc:      p.RiskSvc,
		transferSvc:  p.TransferSvc,
		auditSvc:     p.AuditSvc,
		auditRepo:    p.AuditRepo,
	}
}

// Router assembles the HTTP surface. Authentication lives upstream; the
// cashier identity arrives as trusted headers from the session layer.
func (s *Server) Router() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinMiddleware(logger.MiddlewareConfig{SkipPaths: []string{"/healthz"}}))
	router.Use(cashierContext())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/fees/structures/:class", s.GetFeeStructure)
		api.PUT("/fees/structures/:class", s.UpsertFeeStructure)
		api.POST("/fees/structures/defaults", s.EnsureDefaultStructures)
		api.POST("/fees/structures/repair", s.RepairInstallmentIDs)

		api.POST("/payments", s.RecordPayment)
		api.PATCH("/payments/:id", s.UpdatePayment)
		api.GET("/payments/:id", s.GetPayment)
		api.GET("/students/:id/payments", s.ListStudentPayments)
		api.GET("/students/:id/registration-payment", s.GetRegistrationPayment)

		api.GET("/students/:id/summary", s.GetStudentSummary)
		api.GET("/classes/:class/summary", s.GetClassSummary)
		api.GET("/summary", s.GetOverallSummary)

		api.GET("/risk/settings", s.GetRiskSettings)
		api.PUT("/risk/settings", s.UpdateRiskSettings)
		api.GET("/students/:id/risk", s.GetStudentRisk)
		api.GET("/classes/:class/risk", s.GetClassRisk)
		api.GET("/risk", s.GetOverallRisk)

		api.POST("/students/:id/transfer", s.TransferStudent)

		api.GET("/audit", s.ListAuditLogs)
	}
	return router
}

// cashierContext lifts the session layer's cashier headers into the request
// context for audit attribution.
func cashierContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		displayName := c.GetHeader("X-Cashier")
		username := c.GetHeader("X-Cashier-Username")
		if displayName != "" || username != "" {
			ctx := auditcontext.WithCashier(c.Request.Context(), displayName, username)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

var Module = fx.Module("server",
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, s *Server) {
		srv := &http.Server{
			Addr:    s.cfg.HTTPAddr,
			Handler: s.Router(),
		}
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						s.log.Error("http server stopped", zap.Error(err))
					}
				}()
				s.log.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
		})
	}),
)
