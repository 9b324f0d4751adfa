package controllers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wagura-maurice/TodoApp/middleware"
	"github.com/wagura-maurice/TodoApp/models"
	"github.com/wagura-maurice/TodoApp/repository"
	"github.com/wagura-maurice/TodoApp/viewmodels"
)

const (
	loginPath    = "/login"
	maxTitleLen  = 100
	listTemplate = "index.html"
)

// TodoHandler serves the todo CRUD surface. The repository is constructed
// per request so staged mutations never cross request boundaries.
type TodoHandler struct {
	DB      *gorm.DB
	NewRepo func(db *gorm.DB) repository.TodoRepository
}

// NewTodoHandler creates the handler with its dependencies.
func NewTodoHandler(db *gorm.DB) *TodoHandler {
	return &TodoHandler{
		DB:      db,
		NewRepo: repository.NewTodoRepository,
	}
}

// completionFilter maps the filter query param to the repository's optional
// completion flag. Unknown values mean "no filter".
func completionFilter(filter string) *bool {
	switch strings.ToLower(filter) {
	case "active":
		v := false
		return &v
	case "completed":
		v := true
		return &v
	default:
		return nil
	}
}

// Index renders the user's list: optional completion filter, creation-time
// descending, windowed by the allowed page sizes.
func (h *TodoHandler) Index(c *gin.Context) {
	resp := RespondTo(c)
	user, ok := middleware.CurrentUser(c)
	if !ok {
		log.Printf("user not found in claims (request %s)", middleware.RequestIDFromContext(c))
		resp.Unauthenticated(loginPath)
		return
	}

	repo := h.NewRepo(h.DB)
	filter := c.Query("filter")
	completed := completionFilter(filter)

	pageSize := viewmodels.NormalizePageSize(atoiOr(c.Query("pageSize"), viewmodels.DefaultPageSize))
	page := atoiOr(c.Query("page"), 1)

	total, err := repo.CountForUser(c.Request.Context(), user.ID, completed)
	if err != nil {
		log.Printf("error counting todos (request %s): %v", middleware.RequestIDFromContext(c), err)
		resp.Failure(http.StatusInternalServerError, "/", "An error occurred while loading your todos.")
		return
	}
	totalPages := viewmodels.TotalPages(total, pageSize)
	page = viewmodels.ClampPage(page, totalPages)

	todos, err := repo.ListForUser(c.Request.Context(), user.ID, completed, page, pageSize)
	if err != nil {
		log.Printf("error listing todos (request %s): %v", middleware.RequestIDFromContext(c), err)
		resp.Failure(http.StatusInternalServerError, "/", "An error occurred while loading your todos.")
		return
	}

	activeCount, completedCount, err := h.statusCounts(c, repo, user.ID)
	if err != nil {
		log.Printf("error counting todos (request %s): %v", middleware.RequestIDFromContext(c), err)
		resp.Failure(http.StatusInternalServerError, "/", "An error occurred while loading your todos.")
		return
	}

	vm := viewmodels.TodoListViewModel{
		Todos:          make([]viewmodels.TodoItemViewModel, 0, len(todos)),
		ActiveCount:    activeCount,
		CompletedCount: completedCount,
		Filter:         filter,
		Page:           page,
		PageSize:       pageSize,
		TotalPages:     totalPages,
	}
	for _, t := range todos {
		vm.Todos = append(vm.Todos, viewmodels.NewTodoItemViewModel(t, &user))
	}

	if resp.IsAJAX() {
		c.JSON(http.StatusOK, vm)
		return
	}

	vm.SuccessMessage, vm.ErrorMessage = popFlash(c)
	vm.CSRFToken = middleware.CSRFToken(c)
	c.HTML(http.StatusOK, listTemplate, vm)
}

// Create adds a new active item. A blank title is rejected before any row
// is written.
func (h *TodoHandler) Create(c *gin.Context) {
	resp := RespondTo(c)
	user, ok := middleware.CurrentUser(c)
	if !ok {
		log.Printf("user not found in claims (request %s)", middleware.RequestIDFromContext(c))
		resp.Unauthenticated(loginPath)
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if msg, ok := validateTitle(title); !ok {
		resp.Failure(http.StatusBadRequest, "/", msg)
		return
	}

	todo := &models.TodoItem{
		Title:       title,
		Description: c.PostForm("description"),
		UserID:      user.ID,
		CreatedAt:   time.Now().UTC(),
		IsCompleted: false,
	}

	repo := h.NewRepo(h.DB)
	if err := repo.Add(todo); err != nil {
		log.Printf("error creating todo (request %s): %v", middleware.RequestIDFromContext(c), err)
		resp.Failure(http.StatusInternalServerError, "/", "An error occurred while creating the todo item.")
		return
	}
	if _, err := repo.Commit(c.Request.Context()); err != nil {
		log.Printf("error saving todo (request %s): %v", middleware.RequestIDFromContext(c), err)
		resp.Failure(http.StatusInternalServerError, "/", "An error occurred while creating the todo item.")
		return
	}

	resp.Success("/", "Todo item added successfully!", nil)
}

// ToggleComplete flips an item between active and completed. The flip is
// idempotent in pairs: toggling twice restores the original state.
func (h *TodoHandler) ToggleComplete(c *gin.Context) {
	resp := RespondTo(c)
	user, ok := middleware.CurrentUser(c)
	if !ok {
		log.Printf("user not found in claims (request %s)", middleware.RequestIDFromContext(c))
		resp.Unauthenticated(loginPath)
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		resp.Failure(http.StatusBadRequest, "/", "Invalid todo ID.")
		return
	}

	repo := h.NewRepo(h.DB)
	todo, err := repo.GetByID(c.Request.Context(), id, user.ID)
	if err != nil {
		resp.Failure(http.StatusNotFound, "/", "Todo item not found.")
		return
	}

	todo.SetCompleted(!todo.IsCompleted)

	if err := repo.Update(c.Request.Context(), todo); err != nil {
		log.Printf("error toggling todo %d (request %s): %v", id, middleware.RequestIDFromContext(c), err)
		resp.Failure(http.StatusInternalServerError, "/", "An error occurred while updating the todo item.")
		return
	}
	if _, err := repo.Commit(c.Request.Context()); err != nil {
		log.Printf("error saving todo %d (request %s): %v", id, middleware.RequestIDFromContext(c), err)
		resp.Failure(http.StatusInternalServerError, "/", "An error occurred while updating the todo item.")
		return
	}

	action := "marked as incomplete"
	if todo.IsCompleted {
		action = "completed"
	}
	resp.Success("/", fmt.Sprintf("Todo '%s' %s successfully!", todo.Title, action), gin.H{
		"isCompleted": todo.IsCompleted,
	})
}

// Delete removes a single item. Absent or foreign-owned ids report not found.
func (h *TodoHandler) Delete(c *gin.Context) {
	resp := RespondTo(c)
	user, ok := middleware.CurrentUser(c)
	if !ok {
		log.Printf("user not found in claims (request %s)", middleware.RequestIDFromContext(c))
		resp.Unauthenticated(loginPath)
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		resp.Failure(http.StatusBadRequest, "/", "Invalid todo ID.")
		return
	}

	repo := h.NewRepo(h.DB)
	if _, err := repo.GetByID(c.Request.Context(), id, user.ID); err != nil {
		resp.Failure(http.StatusNotFound, "/", "Todo item not found.")
		return
	}

	repo.Delete(id, user.ID)
	if _, err := repo.Commit(c.Request.Context()); err != nil {
		log.Printf("error deleting todo %d (request %s): %v", id, middleware.RequestIDFromContext(c), err)
		resp.Failure(http.StatusInternalServerError, "/", "An error occurred while deleting the todo item.")
		return
	}

	resp.Success("/", "Todo item deleted successfully!", nil)
}

// Edit overwrites an item's title and description. The creation timestamp
// and completion state are preserved. Unexpected persistence failures are
// deliberately handed to the global translator instead of a local flash.
func (h *TodoHandler) Edit(c *gin.Context) {
	resp := RespondTo(c)
	user, ok := middleware.CurrentUser(c)
	if !ok {
		log.Printf("user not found in claims (request %s)", middleware.RequestIDFromContext(c))
		resp.Unauthenticated(loginPath)
		return
	}

	id, err := parseID(c.Query("id"))
	if err != nil {
		resp.Failure(http.StatusBadRequest, "/", "Invalid todo ID.")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if msg, ok := validateTitle(title); !ok {
		resp.Failure(http.StatusBadRequest, "/", msg)
		return
	}

	repo := h.NewRepo(h.DB)
	todo, err := repo.GetByID(c.Request.Context(), id, user.ID)
	if err != nil {
		resp.Failure(http.StatusNotFound, "/", "Todo item not found.")
		return
	}

	todo.Title = title
	todo.Description = c.PostForm("description")

	if err := repo.Update(c.Request.Context(), todo); err != nil {
		c.Error(err)
		c.Abort()
		return
	}
	if _, err := repo.Commit(c.Request.Context()); err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	resp.Success("/", "Todo item updated successfully!", gin.H{
		"todo": viewmodels.NewTodoItemViewModel(*todo, &user),
	})
}

// ClearCompleted deletes every completed item the user has, in one commit,
// and reports how many were removed.
func (h *TodoHandler) ClearCompleted(c *gin.Context) {
	resp := RespondTo(c)
	user, ok := middleware.CurrentUser(c)
	if !ok {
		log.Printf("user not found in claims (request %s)", middleware.RequestIDFromContext(c))
		resp.Unauthenticated(loginPath)
		return
	}

	repo := h.NewRepo(h.DB)
	done := true
	completed, err := repo.ListForUser(c.Request.Context(), user.ID, &done, 1, 0)
	if err != nil {
		log.Printf("error clearing completed todos (request %s): %v", middleware.RequestIDFromContext(c), err)
		resp.Failure(http.StatusInternalServerError, "/", "An error occurred while clearing completed todos.")
		return
	}

	for _, todo := range completed {
		repo.Delete(todo.ID, user.ID)
	}
	if _, err := repo.Commit(c.Request.Context()); err != nil {
		log.Printf("error clearing completed todos (request %s): %v", middleware.RequestIDFromContext(c), err)
		resp.Failure(http.StatusInternalServerError, "/", "An error occurred while clearing completed todos.")
		return
	}

	resp.Success(listRedirect(c.Query("page"), c.Query("filter")),
		fmt.Sprintf("Cleared %d completed todo(s).", len(completed)),
		gin.H{"cleared": len(completed)})
}

func (h *TodoHandler) statusCounts(c *gin.Context, repo repository.TodoRepository, userID string) (active, completed int64, err error) {
	f, t := false, true
	active, err = repo.CountForUser(c.Request.Context(), userID, &f)
	if err != nil {
		return 0, 0, err
	}
	completed, err = repo.CountForUser(c.Request.Context(), userID, &t)
	if err != nil {
		return 0, 0, err
	}
	return active, completed, nil
}

// listRedirect rebuilds the list URL so clear-completed lands the user back
// on the page and filter they came from.
func listRedirect(page, filter string) string {
	q := url.Values{}
	if page != "" {
		q.Set("page", page)
	}
	if filter != "" {
		q.Set("filter", filter)
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

func validateTitle(title string) (string, bool) {
	if title == "" {
		return "Title is required", false
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return fmt.Sprintf("Title cannot be longer than %d characters", maxTitleLen), false
	}
	return "", true
}

func parseID(idStr string) (uint, error) {
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
