package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// CSRFCookieName holds the anti-forgery token on the client.
	CSRFCookieName = "XSRF-TOKEN"

	// CSRFHeaderName is how AJAX callers echo the token back.
	CSRFHeaderName = "X-CSRF-Token"

	// CSRFFormField is how full-page form posts echo the token back.
	CSRFFormField = "_csrf"
)

const csrfContextKey = "csrfToken"

// CSRF implements double-submit-cookie anti-forgery. Safe methods seed the
// cookie; mutating methods must echo it in a header or form field.
func CSRF(c *gin.Context) {
	token, err := c.Cookie(CSRFCookieName)
	if err != nil || token == "" {
		token = newCSRFToken()
		c.SetCookie(CSRFCookieName, token, 0, "/", "", false, false)
	}
	c.Set(csrfContextKey, token)

	switch c.Request.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		c.Next()
		return
	}

	submitted := c.GetHeader(CSRFHeaderName)
	if submitted == "" {
		submitted = c.PostForm(CSRFFormField)
	}
	if submitted == "" || subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
		if IsAJAX(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Invalid anti-forgery token"})
			return
		}
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	c.Next()
}

// CSRFToken returns the request's anti-forgery token for embedding in forms.
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}

func newCSRFToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("csrf: cannot read random source: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
