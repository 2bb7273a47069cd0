// Package response holds the JSON envelope every HTTP handler writes.
package response

import (
	"net/http"

	"github.com/hrcadm/sleeptracker/internal"
)

type APIResponse struct {
	Data      interface{}        `json:"data,omitempty"`
	Meta      map[string]any     `json:"meta,omitempty"`
	Error     *internal.AppError `json:"error,omitempty"`
	RequestID string             `json:"requestId,omitempty"`
}

func Success(data interface{}, meta map[string]any) APIResponse {
	return APIResponse{Data: data, Meta: meta}
}

// Failure wraps msg in an AppError. Statuses outside the 4xx/5xx range are
// reported as internal errors.
func Failure(status int, msg, requestID string) APIResponse {
	if status < http.StatusBadRequest || status > 599 {
		status = http.StatusInternalServerError
	}
	return APIResponse{Error: internal.NewAppError(status, msg), RequestID: requestID}
}
