package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Body is the JSON payload written for an error response.
func (e *Error) Body() gin.H {
	return gin.H{"error": true, "code": e.Code, "message": e.Message}
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of base carrying err as its cause.
func Wrap(base *Error, err error) *Error {
	return New(base.Code, base.Message, err)
}

// Response messages kept stable for existing clients.
const (
	MsgUnauthorized    = "unauthorized access"
	MsgInvalidToken    = "unauthorized user"
	MsgNotAdmin        = "forbidden message"
	MsgForeignCart     = "Forbidden Access"
	MsgInternal        = "Internal server error"
	MsgMalformedID     = "invalid id"
	MsgPaymentProvider = "payment provider error"
)

var (
	ErrBadRequest          = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized        = New(http.StatusUnauthorized, MsgUnauthorized, nil)
	ErrInvalidToken        = New(http.StatusForbidden, MsgInvalidToken, nil)
	ErrForbidden           = New(http.StatusForbidden, MsgNotAdmin, nil)
	ErrMalformedIdentifier = New(http.StatusBadRequest, MsgMalformedID, nil)
	ErrPaymentProvider     = New(http.StatusBadGateway, MsgPaymentProvider, nil)
	ErrInternalServer      = New(http.StatusInternalServerError, MsgInternal, nil)
)

// Abort writes err as the response and stops the handler chain.
func Abort(c *gin.Context, err *Error) {
	c.AbortWithStatusJSON(err.Code, err.Body())
}

// ErrorMiddleware renders the last error attached with c.Error. Errors that
// are not *Error are logged and reported as a generic 500.
func ErrorMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *Error
		if !errors.As(err, &appErr) {
			logger.Error("unhandled request error",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString("request_id")),
				zap.Error(err),
			)
			appErr = ErrInternalServer
		}
		if appErr.Code >= http.StatusInternalServerError {
			// never leak internals to the caller
			appErr = New(appErr.Code, appErr.Message, nil)
		}

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(appErr.Code, appErr.Body())
	}
}

// Recovery turns a panic inside a handler into the generic 500 response.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString("request_id")),
			zap.Any("panic", recovered),
		)
		Abort(c, ErrInternalServer)
	})
}
