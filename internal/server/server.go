package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/craftedcv/craftedcv/internal/auth"
	authdomain "github.com/craftedcv/craftedcv/internal/auth/domain"
	"github.com/craftedcv/craftedcv/internal/auth/token"
	"github.com/craftedcv/craftedcv/internal/authorization"
	"github.com/craftedcv/craftedcv/internal/config"
	"github.com/craftedcv/craftedcv/internal/coupon"
	coupondomain "github.com/craftedcv/craftedcv/internal/coupon/domain"
	"github.com/craftedcv/craftedcv/internal/credits"
	creditsdomain "github.com/craftedcv/craftedcv/internal/credits/domain"
	"github.com/craftedcv/craftedcv/internal/gateway/razorpay"
	"github.com/craftedcv/craftedcv/internal/observability"
	obslogger "github.com/craftedcv/craftedcv/internal/observability/logger"
	obsmetrics "github.com/craftedcv/craftedcv/internal/observability/metrics"
	"github.com/craftedcv/craftedcv/internal/payment"
	paymentdomain "github.com/craftedcv/craftedcv/internal/payment/domain"
	"github.com/craftedcv/craftedcv/internal/plan"
	plandomain "github.com/craftedcv/craftedcv/internal/plan/domain"
	"github.com/craftedcv/craftedcv/internal/resume"
	resumedomain "github.com/craftedcv/craftedcv/internal/resume/domain"
	"github.com/craftedcv/craftedcv/internal/subscription"
	subscriptiondomain "github.com/craftedcv/craftedcv/internal/subscription/domain"
	"github.com/craftedcv/craftedcv/internal/user"
	userdomain "github.com/craftedcv/craftedcv/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),

	user.Module,
	auth.Module,
	credits.Module,
	coupon.Module,
	plan.Module,
	subscription.Module,
	razorpay.Module,
	payment.Module,
	resume.Module,

	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug: obsCfg.Debug(),
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

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
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
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger
	genID  *snowflake.Node
	issuer *token.Issuer

	usersvc         userdomain.Service
	authsvc         authdomain.Service
	creditsSvc      creditsdomain.Service
	couponSvc       coupondomain.Service
	planSvc         plandomain.Service
	subscriptionSvc subscriptiondomain.Service
	paymentSvc      paymentdomain.Service
	webhookSvc      paymentdomain.WebhookService
	resumeSvc       resumedomain.Service
}

type ServerParams struct {
	fx.In

	Gin    *gin.Engine
	Cfg    config.Config
	Log    *zap.Logger
	GenID  *snowflake.Node
	Issuer *token.Issuer

	Usersvc         userdomain.Service
	Authsvc         authdomain.Service
	CreditsSvc      creditsdomain.Service
	CouponSvc       coupondomain.Service
	PlanSvc         plandomain.Service
	SubscriptionSvc subscriptiondomain.Service
	PaymentSvc      paymentdomain.Service
	WebhookSvc      paymentdomain.WebhookService
	ResumeSvc       resumedomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("http.server"),
		genID:           p.GenID,
		issuer:          p.Issuer,
		usersvc:         p.Usersvc,
		authsvc:         p.Authsvc,
		creditsSvc:      p.CreditsSvc,
		couponSvc:       p.CouponSvc,
		planSvc:         p.PlanSvc,
		subscriptionSvc: p.SubscriptionSvc,
		paymentSvc:      p.PaymentSvc,
		webhookSvc:      p.WebhookSvc,
		resumeSvc:       p.ResumeSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerWebhookRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/register", s.RegisterUser)
	auth.POST("/login", s.Login)
	auth.GET("/google", s.GoogleRedirect)
	auth.GET("/google/callback", s.GoogleCallback)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	// -------- Users --------
	api.GET("/users/me", s.Me)
	api.PATCH("/users/me", s.UpdateMe)
	api.GET("/users/me/credits", s.GetCredits)

	// -------- Resumes --------
	api.POST("/resumes", s.CreateResume)
	api.GET("/resumes", s.ListResumes)
	api.GET("/resumes/:id", s.GetResume)
	api.PUT("/resumes/:id", s.UpdateResume)
	api.DELETE("/resumes/:id", s.DeleteResume)
	api.POST("/resumes/:id/render", s.RenderResume)

	// -------- Templates --------
	// Reads are open to any signed-in user; writes are admin-only.
	api.GET("/templates", s.ListTemplates)
	api.GET("/templates/:templateId", s.GetTemplate)
	api.POST("/templates", s.RequireAction(authorization.ActionManageTemplates), s.CreateTemplate)
	api.PATCH("/templates/:templateId", s.RequireAction(authorization.ActionManageTemplates), s.UpdateTemplate)
	api.DELETE("/templates/:templateId", s.RequireAction(authorization.ActionManageTemplates), s.DeleteTemplate)

	// -------- Schemas --------
	api.GET("/schemas", s.ListSchemas)
	api.GET("/schemas/:schemaId", s.GetSchema)
	api.POST("/schemas", s.RequireAction(authorization.ActionManageSchemas), s.CreateSchema)
	api.DELETE("/schemas/:schemaId", s.RequireAction(authorization.ActionManageSchemas), s.DeleteSchema)

	// -------- Payments --------
	api.POST("/payments/create-order", s.CreateOrder)
	api.POST("/payments/verify", s.VerifyPayment)
	api.GET("/payments/logs", s.ListPaymentLogs)

	// -------- Coupons --------
	api.POST("/coupons/apply", s.ApplyCoupon)
	api.GET("/coupons", s.RequireAction(authorization.ActionManageCoupons), s.ListCoupons)
	api.POST("/coupons", s.RequireAction(authorization.ActionManageCoupons), s.CreateCoupon)
	api.GET("/coupons/:id", s.RequireAction(authorization.ActionManageCoupons), s.GetCouponByID)
	api.PATCH("/coupons/:id", s.RequireAction(authorization.ActionManageCoupons), s.UpdateCoupon)
	api.DELETE("/coupons/:id", s.RequireAction(authorization.ActionManageCoupons), s.DeleteCoupon)

	// -------- Plans --------
	api.GET("/plans", s.ListPlans)
	api.GET("/plans/:id", s.GetPlanByID)
	api.POST("/plans", s.RequireAction(authorization.ActionManagePlans), s.CreatePlan)
	api.PATCH("/plans/:id", s.RequireAction(authorization.ActionManagePlans), s.UpdatePlan)

	// -------- Subscriptions --------
	api.POST("/subscriptions", s.CreateSubscription)
	api.GET("/subscriptions", s.ListSubscriptions)
	api.GET("/subscriptions/:id", s.GetSubscriptionByID)
	api.POST("/subscriptions/:id/cancel", s.CancelSubscription)
}

func (s *Server) registerWebhookRoutes() {
	// Authenticated by signature, not by bearer token.
	s.engine.POST("/api/payments/webhooks/razorpay", s.HandleRazorpayWebhook)
}
