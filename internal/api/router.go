package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/docflow/docflow/internal/api/handlers"
	"github.com/docflow/docflow/internal/api/middleware"
	"github.com/docflow/docflow/internal/core/auth"
)

type Router struct {
	engine          *gin.Engine
	log             *zap.Logger
	authMiddleware  *middleware.AuthMiddleware
	authHandler     *handlers.AuthHandler
	documentHandler *handlers.DocumentHandler
	templateHandler *handlers.TemplateHandler
	approvalHandler *handlers.ApprovalHandler
	viewHandler     *handlers.ViewHandler
}

func NewRouter(
	authService *auth.Service,
	authHandler *handlers.AuthHandler,
	documentHandler *handlers.DocumentHandler,
	templateHandler *handlers.TemplateHandler,
	approvalHandler *handlers.ApprovalHandler,
	viewHandler *handlers.ViewHandler,
	log *zap.Logger,
) *Router {
	return &Router{
		log:             log,
		authMiddleware:  middleware.NewAuthMiddleware(authService),
		authHandler:     authHandler,
		documentHandler: documentHandler,
		templateHandler: templateHandler,
		approvalHandler: approvalHandler,
		viewHandler:     viewHandler,
	}
}

func (r *Router) Setup(mode string) *gin.Engine {
	gin.SetMode(mode)
	r.engine = gin.New()
	r.engine.Use(gin.Recovery())
	r.engine.Use(middleware.RequestLogger(r.log))

	r.setupRoutes()
	return r.engine
}

func (r *Router) setupRoutes() {
	api := r.engine.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes (public)
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", r.authHandler.Register)
		authRoutes.POST("/login", r.authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(r.authMiddleware.Authenticate())
	{
		protected.GET("/auth/me", r.authHandler.Me)
		protected.POST("/auth/logout", r.authHandler.Logout)

		users := protected.Group("/users")
		users.Use(r.authMiddleware.RequirePermission(auth.PermUserManage))
		{
			users.GET("", r.authHandler.ListUsers)
			users.PUT("/:userId/role", r.authHandler.SetRole)
		}

		documents := protected.Group("/documents")
		{
			documents.POST("", r.authMiddleware.RequirePermission(auth.PermDocumentWrite), r.documentHandler.Create)
			documents.GET("", r.authMiddleware.RequirePermission(auth.PermDocumentRead), r.documentHandler.List)
			documents.GET("/:id", r.authMiddleware.RequirePermission(auth.PermDocumentRead), r.documentHandler.Get)
			documents.PUT("/:id", r.authMiddleware.RequirePermission(auth.PermDocumentWrite), r.documentHandler.Update)
			documents.POST("/:id/archive", r.authMiddleware.RequirePermission(auth.PermDocumentWrite), r.documentHandler.Archive)
			documents.DELETE("/:id", r.authMiddleware.RequirePermission(auth.PermDocumentDelete), r.documentHandler.Delete)
		}

		templates := protected.Group("/templates")
		{
			templates.POST("", r.authMiddleware.RequirePermission(auth.PermTemplateWrite), r.templateHandler.Create)
			templates.GET("", r.authMiddleware.RequirePermission(auth.PermTemplateRead), r.templateHandler.List)
			templates.GET("/:id", r.authMiddleware.RequirePermission(auth.PermTemplateRead), r.templateHandler.Get)
			templates.PUT("/:id", r.authMiddleware.RequirePermission(auth.PermTemplateWrite), r.templateHandler.Update)
			templates.DELETE("/:id", r.authMiddleware.RequirePermission(auth.PermTemplateDelete), r.templateHandler.Delete)
		}

		approvals := protected.Group("/approvals")
		{
			approvals.POST("", r.authMiddleware.RequirePermission(auth.PermApprovalWrite), r.approvalHandler.Create)
			approvals.GET("/sent", r.authMiddleware.RequirePermission(auth.PermApprovalRead), r.approvalHandler.ListSent)
			approvals.GET("/received", r.authMiddleware.RequirePermission(auth.PermApprovalRead), r.approvalHandler.ListReceived)
			approvals.GET("/:id", r.authMiddleware.RequirePermission(auth.PermApprovalRead), r.approvalHandler.Get)
			approvals.POST("/:id/approve", r.authMiddleware.RequirePermission(auth.PermApprovalDecide), r.approvalHandler.Approve)
			approvals.POST("/:id/reject", r.authMiddleware.RequirePermission(auth.PermApprovalDecide), r.approvalHandler.Reject)
			approvals.POST("/:id/cancel", r.authMiddleware.RequirePermission(auth.PermApprovalWrite), r.approvalHandler.Cancel)
		}

		// View state, one per session and partition. Permissions are checked per view.
		views := protected.Group("/views/:view/:partition")
		{
			views.GET("", r.viewHandler.Get)
			views.PUT("", r.viewHandler.Put)
			views.DELETE("", r.viewHandler.Close)
			views.PATCH("/fields", r.viewHandler.SetField)
			views.DELETE("/fields", r.viewHandler.RemoveValue)
			views.POST("/reset", r.viewHandler.Reset)
			views.GET("/items", r.viewHandler.Items)
		}
	}
}
