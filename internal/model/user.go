package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the profile document stored under the identity's id.
type User struct {
	ID           string    `gorm:"type:varchar(128);primaryKey" json:"id" firestore:"-"`
	Name         string    `gorm:"size:255;not null" json:"name" firestore:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email" firestore:"email"`
	PasswordHash string    `gorm:"not null" json:"-" firestore:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
