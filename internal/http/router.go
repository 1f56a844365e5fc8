package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Eltn555/admin/internal/http/handlers"
	"github.com/Eltn555/admin/internal/http/middleware"
	"github.com/Eltn555/admin/internal/http/views"
)

func BuildRouter(lh *handlers.LoginHandlers, dh *handlers.DashboardHandlers, proxy *handlers.APIProxy, guard *middleware.RouteGuard, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), guard.Handler())
	r.SetHTMLTemplate(views.Templates())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.StaticFS("/static", http.FS(views.Static()))

	login := r.Group("/login")
	login.GET("", lh.Page)
	login.POST("/phone", lh.RequestCode)
	login.POST("/otp", lh.Verify)
	login.POST("/resend", lh.Resend)
	login.POST("/change-number", lh.ChangeNumber)

	r.GET("/", dh.Index)
	r.GET("/session", dh.Session)
	r.POST("/logout", dh.Logout)

	r.Any("/api/*path", proxy.Forward)

	return r
}
