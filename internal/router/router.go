package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ragengine/console/internal/config"
	"github.com/ragengine/console/internal/middleware"
	"github.com/ragengine/console/internal/modules/handler"
	"github.com/ragengine/console/internal/telemetry"
	"github.com/ragengine/console/internal/web"
)

type RouterDeps struct {
	Config           *config.Config
	Log              *zap.Logger
	Session          middleware.SessionState
	AuthHandler      *handler.AuthHandler
	DashboardHandler *handler.DashboardHandler
	SpaceHandler     *handler.SpaceHandler
}

func NewRouter(d RouterDeps) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())

	if telemetry.Enabled(d.Config) {
		r.Use(telemetry.GinMiddleware(d.Config.App.Name))
		r.Use(telemetry.TraceIDMiddleware())
	}

	r.Use(middleware.ZapLogger(d.Log))
	r.Use(middleware.LocalOrigin(append([]string{d.Config.App.Host}, d.Config.App.AllowedHosts...), d.Log))
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(web.Static()))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"msg": "ok"}) })

	r.GET("/", d.AuthHandler.Landing)
	r.GET("/login", d.AuthHandler.LoginPage)
	r.POST("/login", d.AuthHandler.Login)
	r.GET("/register", d.AuthHandler.RegisterPage)
	r.POST("/register", d.AuthHandler.Register)
	r.GET("/forgot-password", d.AuthHandler.ForgotPasswordPage)
	r.POST("/forgot-password", d.AuthHandler.ForgotPassword)
	r.POST("/logout", d.AuthHandler.Logout)

	protected := r.Group("")
	{
		protected.Use(middleware.RequireSession(d.Session))

		protected.GET("/dashboard", d.DashboardHandler.Dashboard)
		protected.POST("/dashboard/spaces", d.DashboardHandler.CreateSpace)

		space := protected.Group("/spaces/:space_id")
		{
			space.GET("", d.SpaceHandler.Index)

			space.GET("/chat", d.SpaceHandler.Chat)
			space.POST("/chat", d.SpaceHandler.SendMessage)
			space.POST("/chat/clear", d.SpaceHandler.ClearChat)
			space.GET("/chat/export", d.SpaceHandler.ExportChat)

			space.GET("/documents", d.SpaceHandler.Documents)
			space.POST("/documents", d.SpaceHandler.UploadDocuments)
			space.POST("/documents/:document_id/delete", d.SpaceHandler.DeleteDocument)

			space.GET("/settings", d.SpaceHandler.Settings)
			space.POST("/settings", d.SpaceHandler.SaveSettings)
			space.POST("/settings/delete", d.SpaceHandler.DeleteWorkspace)
		}
	}

	// Unknown paths land on the landing page.
	r.NoRoute(func(c *gin.Context) { c.Redirect(http.StatusFound, "/") })

	return r, nil
}
