package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wagura-maurice/TodoApp/middleware"
	"github.com/wagura-maurice/TodoApp/models"
	"github.com/wagura-maurice/TodoApp/services"
)

const jwtExpiration = 6 * time.Hour

// UserHandler serves registration, login and profile routes. The identity
// model itself is conventional; the todo surface only reads id, name and
// email from it.
type UserHandler struct {
	DB        *gorm.DB
	JWTSecret string
	Hasher    *services.Hasher
	Mailer    services.Mailer
	Auth      *middleware.Auth
}

// NewUserHandler creates the handler with its dependencies.
func NewUserHandler(db *gorm.DB, jwtSecret string, hasher *services.Hasher, mailer services.Mailer, auth *middleware.Auth) *UserHandler {
	return &UserHandler{
		DB:        db,
		JWTSecret: jwtSecret,
		Hasher:    hasher,
		Mailer:    mailer,
		Auth:      auth,
	}
}

// Register creates an account and sends a welcome mail.
func (h *UserHandler) Register(c *gin.Context) {
	var body struct {
		Name     string `json:"name" form:"name"`
		Email    string `json:"email" form:"email" binding:"required,email"`
		Password string `json:"password" form:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBind(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}

	hash, err := h.Hasher.GenerateHash(body.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash password"})
		return
	}

	user := models.User{
		ID:       uuid.NewString(),
		Name:     body.Name,
		Email:    body.Email,
		Password: hash,
	}
	if result := h.DB.Create(&user); result.Error != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to create user, email may be taken"})
		return
	}

	if err := h.Mailer.Send(user.Email, "Welcome to TodoApp", "Your account is ready."); err != nil {
		log.Printf("welcome mail to %s failed: %v", user.Email, err)
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User successfully registered"})
}

// Login verifies credentials and sets the auth cookie.
func (h *UserHandler) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := c.ShouldBind(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		return
	}

	if err := h.Hasher.Compare(user.Password, body.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		return
	}

	tokenString, err := h.createJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not generate token"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, tokenString, int(jwtExpiration.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful"})
}

// Logout expires the auth cookie.
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// ProfileResponse is the typed profile body.
type ProfileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetProfile returns the authenticated user's profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated. Please log in again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": ProfileResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}})
}

// ChangePassword rotates the password and invalidates the auth cache entry.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var body struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated. Please log in again."})
		return
	}

	if err := h.Hasher.Compare(user.Password, body.CurrentPassword); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Current password is incorrect"})
		return
	}

	newHash, err := h.Hasher.GenerateHash(body.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash new password"})
		return
	}

	user.Password = newHash
	if err := h.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update password"})
		return
	}

	h.Auth.InvalidateUser(user.ID)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
}

func (h *UserHandler) createJWT(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(jwtExpiration).Unix(),
	})
	return token.SignedString([]byte(h.JWTSecret))
}
