package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrcadm/sleeptracker/internal/service"
)

func GetGoal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), http.StatusOK, app.Store().Goal(), nil)
	}
}

func PutGoal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.GoalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid request")
			return
		}

		if err := service.ValidateGoalRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Goal validation failed")
			return
		}

		err := app.Store().SetGoal(c.Request.Context(), req.Goal())
		app.Metrics().ObserveMutation("set_goal", err, len(app.Store().Entries()))
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to save goal")
			return
		}

		HandleSuccess(c, app.Logger(), http.StatusOK, app.Store().Goal(), nil)
	}
}

func GetGoalProgress(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		size, err := intQuery(c, "window", service.DefaultWindow)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid query")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, app.Store().GoalProgress(size), nil)
	}
}
