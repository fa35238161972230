package models

import "time"

const (
	ReminderChannelBoard   = "board"
	ReminderChannelWebhook = "webhook"

	ReminderSent   = "sent"
	ReminderFailed = "failed"
)

// Reminder records a due-task notification emitted by the scheduler, one row
// per todo per delivery, so a todo is never announced twice in the same day.
type Reminder struct {
	BaseModel

	UserID  uint       `gorm:"not null;index" json:"userId"`
	TodoID  uint       `gorm:"not null;index" json:"todoId"`
	Channel string     `gorm:"not null" json:"channel"`
	Status  string     `gorm:"not null" json:"status"`
	Message string     `json:"message"`
	SentAt  *time.Time `json:"sentAt"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Todo Todo `gorm:"foreignKey:TodoID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
