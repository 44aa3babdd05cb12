package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/contact-service/api"
	"github.com/psds-microservice/contact-service/internal/auth"
	"github.com/psds-microservice/contact-service/internal/handler"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func New(log zerolog.Logger, gate *auth.Gate, contact *handler.ContactMethodHandler, messages *handler.MessageHandler) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(log))

	r.GET("/health", handler.Health)
	r.GET("/ready", handler.Ready)
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/") })
	r.GET("/swagger/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = "/swagger/index.html"
			c.Request.RequestURI = "/swagger/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	// Contact methods: public reads, admin mutations.
	r.GET("/contact", contact.List)
	r.GET("/contact/:id", contact.Get)
	adminContact := r.Group("/contact", gate.RequireAuth(), gate.RequireAdmin())
	{
		adminContact.POST("", contact.Create)
		adminContact.PUT("/reorder", contact.Reorder)
		adminContact.PUT("/:id", contact.Update)
		adminContact.PUT("/:id/toggle", contact.Toggle)
		adminContact.DELETE("/:id", contact.Delete)
	}

	// Messages: public submission, admin triage.
	r.POST("/messages", messages.Create)
	adminMessages := r.Group("/messages", gate.RequireAuth(), gate.RequireAdmin())
	{
		adminMessages.GET("", messages.List)
		adminMessages.GET("/:id", messages.Get)
		adminMessages.PUT("/:id", messages.Update)
		adminMessages.POST("/:id/notes", messages.AddNote)
		adminMessages.DELETE("/:id", messages.Delete)
		adminMessages.PUT("/:id/mark-read", messages.MarkRead)
	}

	return r
}
