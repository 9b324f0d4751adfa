package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/wagura-maurice/TodoApp/models"
)

const (
	// AuthCookieName is the session token cookie.
	AuthCookieName = "Authorization"

	userContextKey = "user"
)

// Auth authenticates requests from the JWT cookie and puts the user on the
// gin context. A small in-memory cache keeps the per-request user lookup off
// the database for the common case.
type Auth struct {
	DB        *gorm.DB
	JWTSecret string
	UserCache *cache.Cache
	LoginPath string
}

// NewAuth builds the auth middleware with its dependencies.
func NewAuth(db *gorm.DB, jwtSecret string, userCache *cache.Cache) *Auth {
	return &Auth{
		DB:        db,
		JWTSecret: jwtSecret,
		UserCache: userCache,
		LoginPath: "/login",
	}
}

// RequireAuth rejects unauthenticated requests. AJAX callers get a 401 JSON
// body; page requests are redirected to the login entry point.
func (a *Auth) RequireAuth(c *gin.Context) {
	tokenString, err := c.Cookie(AuthCookieName)
	if err != nil {
		a.reject(c, "Authorization token required")
		return
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.JWTSecret), nil
	})
	if err != nil {
		a.reject(c, "Invalid or expired token")
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		a.reject(c, "Invalid token claims")
		return
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		a.reject(c, "Invalid user ID in token")
		return
	}

	cacheKey := "user:" + userID
	if cached, found := a.UserCache.Get(cacheKey); found {
		if user, ok := cached.(models.User); ok {
			c.Set(userContextKey, user)
			c.Next()
			return
		}
	}

	var user models.User
	if err := a.DB.First(&user, "id = ?", userID).Error; err != nil {
		a.reject(c, "User not found")
		return
	}
	a.UserCache.Set(cacheKey, user, cache.DefaultExpiration)

	c.Set(userContextKey, user)
	c.Next()
}

// InvalidateUser drops a user from the auth cache after a profile change.
func (a *Auth) InvalidateUser(userID string) {
	a.UserCache.Delete("user:" + userID)
}

func (a *Auth) reject(c *gin.Context, message string) {
	if IsAJAX(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
		return
	}
	c.Redirect(http.StatusFound, a.LoginPath)
	c.Abort()
}

// IsAJAX reports whether the request came from client-side script and
// expects JSON rather than a redirect.
func IsAJAX(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}

// CurrentUser returns the authenticated user set by RequireAuth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	u, exists := c.Get(userContextKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := u.(models.User)
	return user, ok
}

// SetCurrentUser is the test seam for handler tests that bypass the JWT flow.
func SetCurrentUser(c *gin.Context, user models.User) {
	c.Set(userContextKey, user)
}

// NewUserCache builds the cache RequireAuth consults.
func NewUserCache() *cache.Cache {
	return cache.New(5*time.Minute, 10*time.Minute)
}
