package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/portfoliotracker/backoffice-api/internal/core/result"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses.
type errorResponse struct {
	Error string `json:"error"`
}

// respond maps a service result onto the HTTP response: the payload with
// okStatus on success, or the result's status classification with the
// error envelope on an expected failure.
func respond[T any](c echo.Context, okStatus int, res result.Result[T]) error {
	if res.Success {
		return c.JSON(okStatus, res.Data)
	}
	return c.JSON(res.Status, errorResponse{Error: res.Message})
}
