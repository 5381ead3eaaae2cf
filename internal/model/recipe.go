package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringArray stores an ordered list of strings as a JSON array column
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Recipe is a user-authored dish stored in the receitas collection.
type Recipe struct {
	ID           string      `gorm:"type:varchar(36);primaryKey" json:"id" firestore:"-"`
	UserID       string      `gorm:"type:varchar(128);not null;index" json:"userId" firestore:"userId"`
	Name         string      `gorm:"size:255;not null" json:"name" firestore:"name"`
	Ingredients  StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients" firestore:"ingredients"`
	Instructions string      `gorm:"type:text" json:"instructions" firestore:"instructions"`
	Tags         StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tags" firestore:"tags"`
	ImageURL     string      `gorm:"size:1024" json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	ImagePath    string      `gorm:"size:512" json:"-" firestore:"imagePath,omitempty"`
	CreatedBy    string      `gorm:"size:255" json:"createdBy" firestore:"createdBy"`
	CreatedAt    time.Time   `gorm:"index" json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt" firestore:"updatedAt"`
}

func (Recipe) TableName() string {
	return "receitas"
}

// BeforeCreate assigns the store-side identifier
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// HasAnyTag reports whether the recipe carries at least one tag of the set.
func (r *Recipe) HasAnyTag(tags map[string]struct{}) bool {
	if len(tags) == 0 {
		return false
	}
	for _, t := range r.Tags {
		if _, ok := tags[t]; ok {
			return true
		}
	}
	return false
}

// RecipeFields carries the mutable part of a recipe for updates.
type RecipeFields struct {
	Name         string
	Ingredients  []string
	Instructions string
	Tags         []string
	ImageURL     *string
	ImagePath    *string
}
