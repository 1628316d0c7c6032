package api

import (
	"net/http"
	"time"

	"fortio.org/log"
	"github.com/gin-gonic/gin"
)

const Version = "v1"

func SetupRouter(controller Actions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	group := router.Group("/api/" + Version)
	group.GET("", controller.ListSheetsAction)
	group.POST("/:sheet_id/:cell_id", controller.SetCellAction)
	group.GET("/:sheet_id/:cell_id", controller.GetCellAction)
	group.GET("/:sheet_id", controller.GetSheetAction)

	router.GET("/healthcheck", func(c *gin.Context) {
		c.String(http.StatusOK, "health")
	})

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			log.Errf("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
			return
		}
		log.LogVf("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}
