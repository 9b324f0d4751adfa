package middleware

import (
	"errors"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/wagura-maurice/TodoApp/apperrors"
)

// ProblemDetails is the RFC 7807 document returned to page requests when an
// error escapes a handler.
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Instance string `json:"instance"`
	Detail   string `json:"detail,omitempty"`
	TraceID  string `json:"traceId"`
}

// ErrorHandler is the single point translating uncaught failures into HTTP
// responses. It recovers panics, formats errors attached via c.Error, and
// never retries or alters the failure.
type ErrorHandler struct {
	IsDevelopment bool
}

// Handle is the gin middleware entry point.
func (h *ErrorHandler) Handle(c *gin.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			err, ok := rec.(error)
			if !ok {
				err = errors.New("unexpected failure")
			}
			log.Printf("panic recovered (request %s): %v\n%s", RequestIDFromContext(c), rec, debug.Stack())
			h.write(c, err)
		}
	}()

	c.Next()

	if len(c.Errors) == 0 {
		return
	}
	err := c.Errors.Last().Err
	log.Printf("unhandled error (request %s): %v", RequestIDFromContext(c), err)
	h.write(c, err)
}

func (h *ErrorHandler) write(c *gin.Context, err error) {
	if c.Writer.Written() {
		return
	}

	status, title := classify(err)
	traceID := RequestIDFromContext(c)

	if IsAJAX(c) || c.ContentType() == "application/json" {
		body := gin.H{
			"success":   false,
			"message":   "An error occurred while processing your request.",
			"requestId": traceID,
		}
		if h.IsDevelopment {
			body["error"] = err.Error()
		}
		c.AbortWithStatusJSON(status, body)
		return
	}

	problem := ProblemDetails{
		Type:     "https://tools.ietf.org/html/rfc7231#section-6.6.1",
		Title:    title,
		Status:   status,
		Instance: c.Request.URL.Path,
		TraceID:  traceID,
	}
	if h.IsDevelopment {
		problem.Detail = err.Error()
	}
	c.Abort()
	c.Header("Content-Type", "application/problem+json")
	c.JSON(status, problem)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrInvalidOperation):
		return http.StatusBadRequest, "Invalid operation"
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return http.StatusBadRequest, "Invalid argument"
	default:
		return http.StatusInternalServerError, "An error occurred while processing your request."
	}
}
