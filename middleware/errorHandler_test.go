package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wagura-maurice/TodoApp/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newErrorRouter(dev bool, fail func(c *gin.Context)) *gin.Engine {
	h := &ErrorHandler{IsDevelopment: dev}
	router := gin.New()
	router.Use(RequestID)
	router.Use(h.Handle)
	router.GET("/boom", fail)
	return router
}

func request(router *gin.Engine, ajax bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	if ajax {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestErrorCategoryStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"invalid operation", apperrors.ErrInvalidOperation, http.StatusBadRequest},
		{"invalid argument", apperrors.ErrInvalidArgument, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("loading todo: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newErrorRouter(false, func(c *gin.Context) {
				c.Error(tc.err)
			})
			w := request(router, true)
			if w.Code != tc.want {
				t.Errorf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestAJAXErrorBodyIsFlatJSON(t *testing.T) {
	router := newErrorRouter(true, func(c *gin.Context) {
		c.Error(errors.New("boom detail"))
	})
	w := request(router, true)

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if body["requestId"] == "" || body["requestId"] == nil {
		t.Error("requestId missing from AJAX error body")
	}
	if body["error"] != "boom detail" {
		t.Errorf("development error detail = %v, want boom detail", body["error"])
	}
}

func TestPageErrorBodyIsProblemDetails(t *testing.T) {
	router := newErrorRouter(false, func(c *gin.Context) {
		c.Error(apperrors.ErrNotFound)
	})
	w := request(router, false)

	var problem ProblemDetails
	if err := json.Unmarshal(w.Body.Bytes(), &problem); err != nil {
		t.Fatalf("decode problem details: %v", err)
	}
	if problem.Status != http.StatusNotFound {
		t.Errorf("problem status = %d, want 404", problem.Status)
	}
	if problem.Title != "Resource not found" {
		t.Errorf("problem title = %q", problem.Title)
	}
	if problem.TraceID == "" {
		t.Error("traceId missing from problem details")
	}
	if problem.Instance != "/boom" {
		t.Errorf("instance = %q, want /boom", problem.Instance)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/problem+json") {
		t.Errorf("Content-Type = %q, want application/problem+json", ct)
	}
}

func TestProductionOmitsErrorDetail(t *testing.T) {
	router := newErrorRouter(false, func(c *gin.Context) {
		c.Error(errors.New("secret internals"))
	})

	w := request(router, true)
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if _, present := body["error"]; present {
		t.Error("error detail leaked outside development")
	}

	w = request(router, false)
	var problem ProblemDetails
	if err := json.Unmarshal(w.Body.Bytes(), &problem); err != nil {
		t.Fatalf("decode problem details: %v", err)
	}
	if problem.Detail != "" {
		t.Errorf("detail leaked outside development: %q", problem.Detail)
	}
}

func TestPanicIsRecoveredAs500(t *testing.T) {
	router := newErrorRouter(false, func(c *gin.Context) {
		panic(errors.New("handler blew up"))
	})
	w := request(router, true)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestHandledResponsesPassThrough(t *testing.T) {
	router := newErrorRouter(false, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	w := request(router, true)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
