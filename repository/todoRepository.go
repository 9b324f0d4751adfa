// Package repository is the persistence gateway for todo items. Every read
// and write is scoped to an owning user id; mutations are staged and flushed
// in a single transaction by Commit.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wagura-maurice/TodoApp/apperrors"
	"github.com/wagura-maurice/TodoApp/models"
)

// TodoRepository is the todo persistence contract. Implementations are
// handler-scoped: construct one per request, stage mutations, Commit once.
type TodoRepository interface {
	ListForUser(ctx context.Context, userID string, completed *bool, page, pageSize int) ([]models.TodoItem, error)
	CountForUser(ctx context.Context, userID string, completed *bool) (int64, error)
	GetByID(ctx context.Context, id uint, userID string) (*models.TodoItem, error)
	Add(todo *models.TodoItem) error
	Update(ctx context.Context, todo *models.TodoItem) error
	Delete(id uint, userID string)
	Commit(ctx context.Context) (int64, error)
}

type todoRepository struct {
	db      *gorm.DB
	pending []func(tx *gorm.DB) (int64, error)
}

// NewTodoRepository returns a gorm-backed repository. The returned value
// stages mutations and must not be shared across requests.
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &todoRepository{db: db}
}

func scopeCompleted(q *gorm.DB, completed *bool) *gorm.DB {
	if completed != nil {
		q = q.Where("is_completed = ?", *completed)
	}
	return q
}

// ListForUser returns the user's items ordered by creation time descending,
// optionally filtered by completion flag. A pageSize of zero or less disables
// windowing. An empty userID yields an empty list, never an error.
func (r *todoRepository) ListForUser(ctx context.Context, userID string, completed *bool, page, pageSize int) ([]models.TodoItem, error) {
	if userID == "" {
		return []models.TodoItem{}, nil
	}

	q := scopeCompleted(r.db.WithContext(ctx).Where("user_id = ?", userID), completed).
		Order("created_at DESC")

	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * pageSize).Limit(pageSize)
	}

	var todos []models.TodoItem
	if err := q.Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list todos for user %s: %w", userID, err)
	}
	return todos, nil
}

func (r *todoRepository) CountForUser(ctx context.Context, userID string, completed *bool) (int64, error) {
	if userID == "" {
		return 0, nil
	}

	var count int64
	q := scopeCompleted(r.db.WithContext(ctx).Model(&models.TodoItem{}).Where("user_id = ?", userID), completed)
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count todos for user %s: %w", userID, err)
	}
	return count, nil
}

// GetByID requires both the id and the owner to match; a miss of either
// surfaces as apperrors.ErrNotFound.
func (r *todoRepository) GetByID(ctx context.Context, id uint, userID string) (*models.TodoItem, error) {
	if userID == "" {
		return nil, apperrors.ErrNotFound
	}

	var todo models.TodoItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&todo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get todo %d: %w", id, err)
	}
	return &todo, nil
}

// Add stages an insert.
func (r *todoRepository) Add(todo *models.TodoItem) error {
	if todo == nil {
		return fmt.Errorf("%w: todo is nil", apperrors.ErrInvalidArgument)
	}

	r.pending = append(r.pending, func(tx *gorm.DB) (int64, error) {
		res := tx.Create(todo)
		return res.RowsAffected, res.Error
	})
	return nil
}

// Update verifies the record exists, then stages a full-row overwrite of its
// mutable fields. Partial patches are not supported.
func (r *todoRepository) Update(ctx context.Context, todo *models.TodoItem) error {
	if todo == nil {
		return fmt.Errorf("%w: todo is nil", apperrors.ErrInvalidArgument)
	}

	var existing models.TodoItem
	err := r.db.WithContext(ctx).First(&existing, todo.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: todo %d does not exist", apperrors.ErrInvalidOperation, todo.ID)
	}
	if err != nil {
		return fmt.Errorf("load todo %d for update: %w", todo.ID, err)
	}

	r.pending = append(r.pending, func(tx *gorm.DB) (int64, error) {
		res := tx.Model(&models.TodoItem{}).
			Where("id = ?", todo.ID).
			Updates(map[string]interface{}{
				"title":        todo.Title,
				"description":  todo.Description,
				"is_completed": todo.IsCompleted,
				"completed_at": todo.CompletedAt,
				"created_at":   todo.CreatedAt,
			})
		return res.RowsAffected, res.Error
	})
	return nil
}

// Delete stages an ownership-scoped delete. An absent or foreign-owned id
// simply affects zero rows at commit time.
func (r *todoRepository) Delete(id uint, userID string) {
	r.pending = append(r.pending, func(tx *gorm.DB) (int64, error) {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.TodoItem{})
		return res.RowsAffected, res.Error
	})
}

// Commit flushes staged mutations in one transaction and reports how many
// rows changed. Zero with a nil error means there was nothing to do; a save
// failure is an error, not a silent false.
func (r *todoRepository) Commit(ctx context.Context) (int64, error) {
	if len(r.pending) == 0 {
		return 0, nil
	}

	ops := r.pending
	r.pending = nil

	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			n, err := op(tx)
			if err != nil {
				return err
			}
			affected += n
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("commit todo changes: %w", err)
	}
	return affected, nil
}
