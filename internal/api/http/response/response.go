// Package response writes the JSON envelopes of the HTTP API.
package response

import (
	"github.com/gin-gonic/gin"

	"github.com/dtroode/taskhub-server/internal/apierror"
)

// Body is the success envelope.
type Body struct {
	Message string `json:"message"`
	Result  any    `json:"result,omitempty"`
}

// ErrorBody is the failure envelope.
type ErrorBody struct {
	Status  int               `json:"status"`
	Error   apierror.Kind     `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func OK(c *gin.Context, status int, message string, result any) {
	c.JSON(status, Body{Message: message, Result: result})
}

// Error aborts the request with err. Errors that are not *apierror.APIError
// become a generic 500 without internal detail.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	apiErr, ok := apierror.As(err)
	if !ok {
		apiErr = apierror.NewErrInternalServerError(err)
	}

	c.AbortWithStatusJSON(apiErr.Status, ErrorBody{
		Status:  apiErr.Status,
		Error:   apiErr.Kind,
		Message: apiErr.Message,
		Details: apiErr.Details,
	})
}
