package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	res "cashonrails-backend/internal/shared/response"
	"cashonrails-backend/pkg/logger"
)

// ErrCodePanic is the error code returned when a handler panics
const ErrCodePanic = "SYS_001"

// Recovery turns a handler panic into a 500 in the standard error envelope.
// When the handler already wrote a response, the status is kept and only
// the panic is logged.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if errors.Is(asError(rec), http.ErrAbortHandler) {
				panic(rec)
			}

			logger.ErrorFields("panic recovered", asError(rec), map[string]interface{}{
				"request_id": c.GetString("request_id"),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"written":    c.Writer.Written(),
				"stack":      string(debug.Stack()),
			})

			if c.Writer.Written() {
				c.Abort()
				return
			}
			res.ErrorResponse(c, http.StatusInternalServerError, ErrCodePanic, "Internal server error")
			c.Abort()
		}()

		c.Next()
	}
}

func asError(rec interface{}) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", rec)
}
