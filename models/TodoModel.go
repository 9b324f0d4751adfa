package models

import "time"

// TodoItem is one entry on a user's list. CompletedAt is non-nil exactly
// when IsCompleted is true; mutate the pair through SetCompleted.
type TodoItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	Title       string     `gorm:"size:100;not null" json:"title"`
	Description string     `json:"description"`
	IsCompleted bool       `gorm:"not null;default:false" json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt"`
	UserID      string     `gorm:"size:255;not null;index" json:"userId"`
}

// SetCompleted flips the completion flag and keeps CompletedAt in sync.
func (t *TodoItem) SetCompleted(done bool) {
	t.IsCompleted = done
	if done {
		now := time.Now().UTC()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
}
