package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/happypath-backend/internal/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError translates a service error into the response envelope.
// Internal errors are reported with a generic message so store-level detail
// never leaks to clients.
func RespondError(c *gin.Context, err error) {
	apiErr := apierr.From(err)
	msg := apiErr.Error()
	if apiErr.Status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(apiErr.Status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    apiErr.Code,
			Details: apiErr.Details,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
