package models

import "time"

// User is the identity record. The todo subsystem only reads ID, Name and
// Email for attribution; everything else belongs to the auth handlers.
type User struct {
	ID        string    `gorm:"primarykey;size:255" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	Name     string     `gorm:"size:100" json:"name"`
	Email    string     `gorm:"unique;not null" json:"email"`
	Password string     `gorm:"not null" json:"-"`
	Todos    []TodoItem `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
