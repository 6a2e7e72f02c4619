package http

import (
	"github.com/gin-gonic/gin"

	"github.com/Nandinikorlakanti/know-ai-space/internal/bootstrap"
	"github.com/Nandinikorlakanti/know-ai-space/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	workspaceHandler := handler.NewWorkspaceHandler(app.Workspaces)
	knowledgeHandler := handler.NewKnowledgeHandler(app.Knowledge)

	v1 := router.Group("/api/v1")
	workspaces := v1.Group("/workspaces")
	workspaces.POST("", workspaceHandler.Create)
	workspaces.GET("", workspaceHandler.List)
	workspaces.GET("/:name/pages", workspaceHandler.ListPages)
	workspaces.POST("/:name/pages", workspaceHandler.AddPage)
	workspaces.PUT("/:name/pages/:id", workspaceHandler.UpdatePage)
	workspaces.DELETE("/:name/pages/:id", workspaceHandler.DeletePage)
	workspaces.POST("/:name/upload", workspaceHandler.Upload)
	workspaces.GET("/:name/documents", workspaceHandler.ListDocuments)
	workspaces.POST("/:name/ask", knowledgeHandler.Ask)
	workspaces.POST("/:name/links", knowledgeHandler.SuggestLinks)
	workspaces.POST("/:name/tags", knowledgeHandler.GenerateTags)
	workspaces.GET("/:name/graph", knowledgeHandler.Graph)

	return router
}
