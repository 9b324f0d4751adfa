package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wagura-maurice/TodoApp/middleware"
	"github.com/wagura-maurice/TodoApp/models"
	"github.com/wagura-maurice/TodoApp/services"
)

func newUserTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.TodoItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// Minimum bcrypt cost keeps the hashing pool fast in tests.
	hasher := services.NewHasher(1, 4)
	auth := middleware.NewAuth(db, "test-secret", middleware.NewUserCache())
	h := NewUserHandler(db, "test-secret", hasher, services.LogMailer{}, auth)

	router := gin.New()
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)
	return router, db
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterCreatesHashedUser(t *testing.T) {
	router, db := newUserTestRouter(t)

	w := postForm(router, "/register", url.Values{
		"name":     {"Ada Lovelace"},
		"email":    {"ada@example.com"},
		"password": {"correcthorse"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var user models.User
	if err := db.Where("email = ?", "ada@example.com").First(&user).Error; err != nil {
		t.Fatalf("registered user not found: %v", err)
	}
	if user.ID == "" {
		t.Error("user id not assigned")
	}
	if user.Password == "correcthorse" {
		t.Error("password stored in plaintext")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	router, db := newUserTestRouter(t)

	w := postForm(router, "/register", url.Values{
		"email":    {"ada@example.com"},
		"password": {"short"},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	var n int64
	db.Model(&models.User{}).Count(&n)
	if n != 0 {
		t.Errorf("user created despite invalid password: count = %d", n)
	}
}

func TestRegisterDuplicateEmailFails(t *testing.T) {
	router, _ := newUserTestRouter(t)

	form := url.Values{"email": {"ada@example.com"}, "password": {"correcthorse"}}
	if w := postForm(router, "/register", form); w.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", w.Code)
	}
	if w := postForm(router, "/register", form); w.Code != http.StatusBadRequest {
		t.Errorf("duplicate register status = %d, want 400", w.Code)
	}
}

func TestLoginSetsAuthCookie(t *testing.T) {
	router, _ := newUserTestRouter(t)

	form := url.Values{"email": {"ada@example.com"}, "password": {"correcthorse"}}
	if w := postForm(router, "/register", form); w.Code != http.StatusCreated {
		t.Fatalf("register status = %d", w.Code)
	}

	w := postForm(router, "/login", form)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}
	var authCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AuthCookieName {
			authCookie = c
		}
	}
	if authCookie == nil || authCookie.Value == "" {
		t.Fatal("auth cookie not set on login")
	}
	if !authCookie.HttpOnly {
		t.Error("auth cookie is not HttpOnly")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	router, _ := newUserTestRouter(t)

	if w := postForm(router, "/register", url.Values{
		"email": {"ada@example.com"}, "password": {"correcthorse"},
	}); w.Code != http.StatusCreated {
		t.Fatalf("register status = %d", w.Code)
	}

	w := postForm(router, "/login", url.Values{
		"email": {"ada@example.com"}, "password": {"wronghorse"},
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	router, _ := newUserTestRouter(t)

	w := postForm(router, "/login", url.Values{
		"email": {"nobody@example.com"}, "password": {"whatever"},
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
