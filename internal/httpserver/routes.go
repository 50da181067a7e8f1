package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (srv *Server) mapHandlers() {
	srv.gin.Use(gin.Recovery(), srv.requestLogger())
	if srv.limiter != nil {
		srv.gin.Use(srv.rateLimit())
	}

	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/projects/:id/gantt.svg", srv.handleGanttSVG)

	api := srv.gin.Group("/api/v1")
	{
		api.GET("/projects", srv.handleListProjects)
		api.GET("/projects/:id/gantt", srv.handleGetGantt)
		api.GET("/projects/:id/layout", srv.handleGetLayout)
		api.GET("/projects/:id/baselines", srv.handleListBaselines)
		api.PATCH("/tasks/:id/dates", srv.handleUpdateDates)
		api.POST("/dependencies", srv.handleCreateDependency)
		api.DELETE("/dependencies", srv.handleDeleteDependency)
		api.POST("/baselines/bulk", srv.handleCreateBaselines)
	}
}

func (srv *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
