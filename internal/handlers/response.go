package handlers

import (
	"github.com/gin-gonic/gin"

	"tunevault/internal/apperr"
)

// Envelope is the uniform response body. StatusCode is the application status
// enum, not the HTTP status; clients switch on it.
type Envelope struct {
	IsSuccess  bool        `json:"is_success"`
	StatusCode apperr.Code `json:"status_code"`
	Message    string      `json:"message"`
	Data       any         `json:"data,omitempty"`
}

// OK writes a success envelope with data.
func OK(c *gin.Context, data any) {
	c.JSON(apperr.Success.HTTPStatus(), Envelope{
		IsSuccess:  true,
		StatusCode: apperr.Success,
		Message:    apperr.Success.Message(),
		Data:       data,
	})
}

// OKMessage writes a success envelope with a custom message and no data.
func OKMessage(c *gin.Context, message string) {
	c.JSON(apperr.Success.HTTPStatus(), Envelope{
		IsSuccess:  true,
		StatusCode: apperr.Success,
		Message:    message,
	})
}

// Fail translates err into a failure envelope. Unknown errors collapse to
// ServerError so internals never leak to clients.
func Fail(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	c.JSON(code.HTTPStatus(), Envelope{
		IsSuccess:  false,
		StatusCode: code,
		Message:    apperr.MessageOf(err),
	})
}

// FailBinding reports a request whose body or parameters did not bind.
func FailBinding(c *gin.Context, err error) {
	Fail(c, apperr.Wrap(apperr.BadRequest, apperr.BadRequest.Message(), err))
}
