// Package viewmodels shapes repository records into what the list page and
// the JSON surface render, and owns the listing's paging policy.
package viewmodels

import (
	"strings"
	"time"

	"github.com/wagura-maurice/TodoApp/models"
)

// DefaultPageSize is what any out-of-policy pageSize request falls back to.
const DefaultPageSize = 5

// AllowedPageSizes is the fixed set the list page offers.
var AllowedPageSizes = []int{5, 10, 20, 50, 100}

// NormalizePageSize coerces a requested page size into the allowed set.
func NormalizePageSize(requested int) int {
	for _, s := range AllowedPageSizes {
		if requested == s {
			return requested
		}
	}
	return DefaultPageSize
}

// ClampPage keeps page within [1, totalPages]. An empty result set clamps
// to page 1.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// TotalPages is the page count for a given item count and window size.
func TotalPages(totalItems int64, pageSize int) int {
	if pageSize <= 0 || totalItems <= 0 {
		return 0
	}
	return int((totalItems + int64(pageSize) - 1) / int64(pageSize))
}

// TodoItemViewModel is one rendered row.
type TodoItemViewModel struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsCompleted bool       `json:"isCompleted"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
	AuthorName  string     `json:"authorName"`
	AuthorEmail string     `json:"authorEmail"`
}

// StatusClass is the CSS class for the row.
func (vm TodoItemViewModel) StatusClass() string {
	if vm.IsCompleted {
		return "completed"
	}
	return ""
}

// CreatedAtFormatted renders the creation time for the page.
func (vm TodoItemViewModel) CreatedAtFormatted() string {
	return vm.CreatedAt.Format("Jan 2, 2006 15:04")
}

// AuthorInitials derives the avatar initials from the author name.
func (vm TodoItemViewModel) AuthorInitials() string {
	name := strings.TrimSpace(vm.AuthorName)
	if name == "" {
		return "?"
	}
	parts := strings.Fields(name)
	if len(parts) >= 2 {
		return string([]rune(parts[0])[0]) + string([]rune(parts[1])[0])
	}
	return string([]rune(name)[0])
}

// TodoListViewModel is everything the list page needs for one render.
type TodoListViewModel struct {
	Todos          []TodoItemViewModel `json:"todos"`
	ActiveCount    int64               `json:"activeCount"`
	CompletedCount int64               `json:"completedCount"`
	Filter         string              `json:"filter"`
	Page           int                 `json:"page"`
	PageSize       int                 `json:"pageSize"`
	TotalPages     int                 `json:"totalPages"`
	SuccessMessage string              `json:"-"`
	ErrorMessage   string              `json:"-"`
	CSRFToken      string              `json:"-"`
}

// NewTodoItemViewModel shapes a record plus its author for display.
func NewTodoItemViewModel(t models.TodoItem, author *models.User) TodoItemViewModel {
	vm := TodoItemViewModel{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
	if author != nil {
		vm.AuthorName = author.Name
		vm.AuthorEmail = author.Email
	}
	return vm
}
