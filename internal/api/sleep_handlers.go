package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrcadm/sleeptracker/internal/service"
)

func PostSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.SleepEntryRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateSleepEntryRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}

		entry, err := app.Store().AddEntry(c.Request.Context(), body.Input())
		app.Metrics().ObserveMutation("add", err, len(app.Store().Entries()))
		if err != nil {
			if errors.Is(err, service.ErrInvalidClock) {
				HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid entry")
				return
			}
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to save entry")
			return
		}

		HandleSuccess(c, app.Logger(), http.StatusCreated, entry, nil)
	}
}

func GetSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := intQuery(c, "limit", 0)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid query")
			return
		}

		entries := app.Store().Entries()
		total := len(entries)
		if limit > 0 && limit < total {
			entries = entries[:limit]
		}

		HandleSuccess(c, app.Logger(), http.StatusOK, entries, map[string]any{"total": total})
	}
}

func GetSleepEntry(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry, ok := app.Store().Entry(c.Param("id"))
		if !ok {
			HandleError(c, app.Logger(), errNotFound, http.StatusNotFound, "No entry with id "+c.Param("id"))
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, entry, nil)
	}
}

func PatchSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var body service.SleepEntryPatchRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateSleepEntryPatchRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}

		found, err := app.Store().UpdateEntry(c.Request.Context(), id, body.Patch())
		if !found {
			HandleError(c, app.Logger(), errNotFound, http.StatusNotFound, "No entry with id "+id)
			return
		}
		app.Metrics().ObserveMutation("update", err, len(app.Store().Entries()))
		if err != nil {
			if errors.Is(err, service.ErrInvalidClock) {
				HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid entry")
				return
			}
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to update entry")
			return
		}

		entry, _ := app.Store().Entry(id)
		HandleSuccess(c, app.Logger(), http.StatusOK, entry, nil)
	}
}

func DeleteSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		found, err := app.Store().DeleteEntry(c.Request.Context(), id)
		if !found {
			HandleError(c, app.Logger(), errNotFound, http.StatusNotFound, "No entry with id "+id)
			return
		}
		app.Metrics().ObserveMutation("delete", err, len(app.Store().Entries()))
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to delete entry")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func GetSleepStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		size, err := intQuery(c, "window", service.DefaultWindow)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid query")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, app.Store().Summary(size), nil)
	}
}

func GetSleepTrend(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), http.StatusOK, app.Store().WeeklyTrend(), nil)
	}
}
