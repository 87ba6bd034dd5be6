package httputil

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/clinic-api/pkg/errors"
)

// Error represents API error
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a success response with a 201 status
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError maps the error taxonomy onto HTTP status codes. The
// message of internal faults is never exposed to the caller.
func RespondWithError(c *gin.Context, err error) {
	status, code := statusOf(err)

	message := "internal server error"
	if code != "internal_error" {
		message = userMessage(err)
	}

	c.JSON(status, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

func statusOf(err error) (int, string) {
	switch errors.KindOf(err) {
	case errors.KindNotFound:
		return http.StatusNotFound, "not_found"
	case errors.KindForbidden:
		return http.StatusForbidden, "forbidden"
	case errors.KindValidation:
		return http.StatusUnprocessableEntity, "validation_error"
	case errors.KindUnauthenticated:
		return http.StatusUnauthorized, "not_authenticated"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func userMessage(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
