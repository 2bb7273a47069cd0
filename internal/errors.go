package internal

import "fmt"

// AppError is the error payload returned to API clients.
type AppError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func NewAppError(status int, msg string) *AppError {
	return &AppError{Status: status, Message: msg}
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}
