package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	DefaultCategory = "Personal"
)

// Subtask lives inside the todo's jsonb subtasks column; subtasks are never
// addressed individually so they don't get their own table.
type Subtask struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Todo tracks completion through Status alone. The `completed` boolean the
// API exposes is derived from Status at serialization time.
type Todo struct {
	BaseModel

	UserID      uint           `gorm:"not null;index:idx_todos_user_status;index:idx_todos_user_due" json:"userId"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Category    string         `gorm:"default:Personal" json:"category"`
	Priority    string         `gorm:"default:medium" json:"priority"`
	Status      string         `gorm:"default:todo;index:idx_todos_user_status" json:"status"`
	DueDate     *time.Time     `gorm:"index:idx_todos_user_due" json:"dueDate"`
	Icon        string         `json:"icon"`
	ProjectID   *uint          `gorm:"index" json:"projectId"`
	Subtasks    datatypes.JSON `gorm:"type:jsonb" json:"subtasks"`

	// Relationships
	User    User     `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Project *Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:SET NULL" json:"-"`
	Tags    []Tag    `gorm:"many2many:todo_tags;constraint:OnDelete:CASCADE" json:"tags"`
}

func (t *Todo) Completed() bool {
	return t.Status == StatusCompleted
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func ValidStatus(status string) bool {
	switch status {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}
