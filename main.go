package main

import (
	"log"
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"

	"github.com/wagura-maurice/TodoApp/config"
	"github.com/wagura-maurice/TodoApp/controllers"
	"github.com/wagura-maurice/TodoApp/database"
	"github.com/wagura-maurice/TodoApp/middleware"
	"github.com/wagura-maurice/TodoApp/services"
)

const (
	appVersion = "1.2.0"
	bcryptCost = 12
)

func main() {
	if err := config.LoadEnvVars(); err != nil {
		log.Fatalf("Failed to load environment variables: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.ConnectToDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	hasher := services.NewHasher(runtime.NumCPU(), bcryptCost)
	mailer := services.LogMailer{}
	auth := middleware.NewAuth(db, cfg.JWTSecret, middleware.NewUserCache())

	todoHandler := controllers.NewTodoHandler(db)
	userHandler := controllers.NewUserHandler(db, cfg.JWTSecret, hasher, mailer, auth)
	healthHandler := &controllers.HealthHandler{DB: db, Environment: cfg.AppEnv, Version: appVersion}

	errorHandler := &middleware.ErrorHandler{IsDevelopment: cfg.IsDevelopment()}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RequestID)
	router.Use(errorHandler.Handle)
	router.Use(middleware.CSRF)
	router.LoadHTMLGlob("templates/*.html")
	router.Static("/static", "./static")

	// Public routes
	router.GET("/healthz", healthHandler.Check)
	router.GET("/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "login.html", gin.H{"CSRFToken": middleware.CSRFToken(c)})
	})
	router.GET("/register", func(c *gin.Context) {
		c.HTML(http.StatusOK, "register.html", gin.H{"CSRFToken": middleware.CSRFToken(c)})
	})
	router.POST("/register", userHandler.Register)
	router.POST("/login", userHandler.Login)

	// Protected routes - account
	router.POST("/logout", auth.RequireAuth, userHandler.Logout)
	router.GET("/user/profile", auth.RequireAuth, userHandler.GetProfile)
	router.PATCH("/user/password", auth.RequireAuth, userHandler.ChangePassword)

	// Protected routes - todos
	router.GET("/", auth.RequireAuth, todoHandler.Index)
	router.POST("/create", auth.RequireAuth, todoHandler.Create)
	router.POST("/toggle/:id", auth.RequireAuth, todoHandler.ToggleComplete)
	router.POST("/delete/:id", auth.RequireAuth, todoHandler.Delete)
	router.POST("/edit", auth.RequireAuth, todoHandler.Edit)
	router.POST("/clear-completed", auth.RequireAuth, todoHandler.ClearCompleted)

	log.Printf("listening on :%s (%s)", cfg.Port, cfg.AppEnv)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
