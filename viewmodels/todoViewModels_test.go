package viewmodels

import (
	"testing"
	"time"

	"github.com/wagura-maurice/TodoApp/models"
)

func TestNormalizePageSize(t *testing.T) {
	cases := []struct {
		requested int
		want      int
	}{
		{5, 5},
		{10, 10},
		{20, 20},
		{50, 50},
		{100, 100},
		{7, 5},
		{0, 5},
		{-1, 5},
		{1000, 5},
	}
	for _, tc := range cases {
		if got := NormalizePageSize(tc.requested); got != tc.want {
			t.Errorf("NormalizePageSize(%d) = %d, want %d", tc.requested, got, tc.want)
		}
	}
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		page, totalPages, want int
	}{
		{1, 3, 1},
		{3, 3, 3},
		{4, 3, 3},
		{0, 3, 1},
		{-5, 3, 1},
		{2, 0, 1},
	}
	for _, tc := range cases {
		if got := ClampPage(tc.page, tc.totalPages); got != tc.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d", tc.page, tc.totalPages, got, tc.want)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		items    int64
		pageSize int
		want     int
	}{
		{0, 5, 0},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{12, 5, 3},
		{12, 0, 0},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.items, tc.pageSize); got != tc.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tc.items, tc.pageSize, got, tc.want)
		}
	}
}

func TestAuthorInitials(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Ada Lovelace", "AL"},
		{"Ada", "A"},
		{"", "?"},
		{"  ", "?"},
	}
	for _, tc := range cases {
		vm := TodoItemViewModel{AuthorName: tc.name}
		if got := vm.AuthorInitials(); got != tc.want {
			t.Errorf("AuthorInitials(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestNewTodoItemViewModel(t *testing.T) {
	now := time.Now().UTC()
	todo := models.TodoItem{ID: 7, Title: "write tests", CreatedAt: now}
	author := &models.User{Name: "Ada Lovelace", Email: "ada@example.com"}

	vm := NewTodoItemViewModel(todo, author)
	if vm.ID != 7 || vm.Title != "write tests" {
		t.Errorf("item fields not carried: %+v", vm)
	}
	if vm.AuthorName != "Ada Lovelace" || vm.AuthorEmail != "ada@example.com" {
		t.Errorf("author fields not carried: %+v", vm)
	}
	if vm.StatusClass() != "" {
		t.Errorf("active item StatusClass = %q, want empty", vm.StatusClass())
	}

	todo.SetCompleted(true)
	vm = NewTodoItemViewModel(todo, nil)
	if vm.StatusClass() != "completed" {
		t.Errorf("completed item StatusClass = %q, want completed", vm.StatusClass())
	}
	if vm.AuthorInitials() != "?" {
		t.Errorf("nil author initials = %q, want ?", vm.AuthorInitials())
	}
}
