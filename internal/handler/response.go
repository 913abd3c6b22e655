package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/intercity-transit/service-reservation/internal/domain"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorData  `json:"error,omitempty"`
}

// ErrorData carries the machine-readable error code alongside the message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   &ErrorData{Code: string(domain.CodeValidation), Message: message},
	})
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{
		Success: false,
		Error:   &ErrorData{Code: string(domain.CodeNotFound), Message: message},
	})
}

// respondError maps domain error kinds to transport status codes. The
// mapping lives only here; the core layers never see HTTP.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"

	switch domain.CodeOf(err) {
	case domain.CodeValidation, domain.CodeNoAvailability:
		status = http.StatusBadRequest
		code = string(domain.CodeOf(err))
	case domain.CodeNotFound:
		status = http.StatusNotFound
		code = string(domain.CodeNotFound)
	case domain.CodeConflict:
		status = http.StatusConflict
		code = string(domain.CodeConflict)
	case domain.CodeUnavailable:
		status = http.StatusServiceUnavailable
		code = string(domain.CodeUnavailable)
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	c.JSON(status, Response{
		Success: false,
		Error:   &ErrorData{Code: code, Message: message},
	})
}
