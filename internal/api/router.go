package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter registers every route on a fresh gin engine.
func NewRouter(app App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogger(app.Logger()))
	r.Use(app.Metrics().Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", app.Metrics().Handler())

	r.POST("/entries", PostSleep(app))
	r.GET("/entries", GetSleep(app))
	r.GET("/entries/:id", GetSleepEntry(app))
	r.PATCH("/entries/:id", PatchSleep(app))
	r.DELETE("/entries/:id", DeleteSleep(app))

	r.GET("/goal", GetGoal(app))
	r.PUT("/goal", PutGoal(app))
	r.GET("/goal/progress", GetGoalProgress(app))

	r.GET("/stats", GetSleepStats(app))
	r.GET("/stats/trend", GetSleepTrend(app))
	return r
}
