package models

import "time"

// BaseModel mirrors gorm.Model but with JSON-friendly field tags so records
// can be serialized directly in API responses. There is no DeletedAt column:
// deletes are real deletes, so a removed account frees its email for
// re-registration.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
