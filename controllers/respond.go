package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wagura-maurice/TodoApp/middleware"
)

const (
	flashSuccessCookie = "flash_success"
	flashErrorCookie   = "flash_error"
)

// Responder is the explicit two-variant response shape: JSON for AJAX
// callers, redirect plus one-shot flash message for full-page submissions.
// The variant is decided once per request, not re-derived at every branch.
type Responder struct {
	c    *gin.Context
	ajax bool
}

// RespondTo captures the request's accepted response shape.
func RespondTo(c *gin.Context) *Responder {
	return &Responder{c: c, ajax: middleware.IsAJAX(c)}
}

// IsAJAX reports which variant this responder produces.
func (r *Responder) IsAJAX() bool {
	return r.ajax
}

// Success reports a completed mutation. Extra fields are included in the
// JSON variant only.
func (r *Responder) Success(redirectTo, message string, extra gin.H) {
	if r.ajax {
		body := gin.H{"success": true, "message": message}
		for k, v := range extra {
			body[k] = v
		}
		r.c.JSON(http.StatusOK, body)
		return
	}
	setFlash(r.c, flashSuccessCookie, message)
	r.c.Redirect(http.StatusFound, redirectTo)
}

// Failure reports a handled failure with the given status. Page submissions
// are redirected back with the message as an error flash.
func (r *Responder) Failure(status int, redirectTo, message string) {
	if r.ajax {
		r.c.JSON(status, gin.H{"success": false, "message": message})
		return
	}
	setFlash(r.c, flashErrorCookie, message)
	r.c.Redirect(http.StatusFound, redirectTo)
}

// Unauthenticated handles a missing identity claim: 401 body for AJAX,
// login redirect for pages.
func (r *Responder) Unauthenticated(loginPath string) {
	if r.ajax {
		r.c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated. Please log in again."})
		return
	}
	r.c.Redirect(http.StatusFound, loginPath)
}

func setFlash(c *gin.Context, name, message string) {
	c.SetCookie(name, message, 60, "/", "", false, true)
}

// popFlash reads and clears the one-shot flash cookies for the next render.
func popFlash(c *gin.Context) (success, errMsg string) {
	if v, err := c.Cookie(flashSuccessCookie); err == nil && v != "" {
		success = v
		c.SetCookie(flashSuccessCookie, "", -1, "/", "", false, true)
	}
	if v, err := c.Cookie(flashErrorCookie); err == nil && v != "" {
		errMsg = v
		c.SetCookie(flashErrorCookie, "", -1, "/", "", false, true)
	}
	return success, errMsg
}
