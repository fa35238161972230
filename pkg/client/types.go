package client

import "time"

const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

type User struct {
	ID          uint        `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Avatar      string      `json:"avatar"`
	JobTitle    string      `json:"jobTitle"`
	Location    string      `json:"location"`
	Bio         string      `json:"bio"`
	Preferences Preferences `json:"preferences"`
}

type Preferences struct {
	Theme              string `json:"theme"`
	EmailNotifications bool   `json:"emailNotifications"`
	PushNotifications  bool   `json:"pushNotifications"`
	TaskReminders      bool   `json:"taskReminders"`
	SoundEffects       bool   `json:"soundEffects"`
	Language           string `json:"language"`
	TimeFormat         string `json:"timeFormat"`
	ReminderWebhook    string `json:"reminderWebhook"`
}

type Subtask struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Tag struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type Todo struct {
	ID          uint       `json:"id"`
	UserID      uint       `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
	Icon        string     `json:"icon"`
	ProjectID   *uint      `json:"projectId"`
	Tags        []Tag      `json:"tags"`
	Subtasks    []Subtask  `json:"subtasks"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Project struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"userId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Status      string `json:"status"`
	TodoCount   int64  `json:"todoCount"`
	Todos       []Todo `json:"todos"`
}

type Stats struct {
	TotalTodos      int64            `json:"totalTodos"`
	CompletedTodos  int64            `json:"completedTodos"`
	ActiveTodos     int64            `json:"activeTodos"`
	TotalProjects   int64            `json:"totalProjects"`
	TodosToday      int64            `json:"todosToday"`
	TodosByPriority map[string]int64 `json:"todosByPriority"`
}

// TodoFilters narrows a todo listing; zero-valued fields are omitted.
type TodoFilters struct {
	Status    string
	Category  string
	Priority  string
	Completed *bool
	ProjectID *uint
}

type CreateTodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Status      string     `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	ProjectID   *uint      `json:"projectId,omitempty"`
	Tags        []uint     `json:"tags,omitempty"`
	Subtasks    []Subtask  `json:"subtasks,omitempty"`
}

// UpdateTodoRequest is a merge patch; nil fields are left untouched.
type UpdateTodoRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Status      *string    `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Icon        *string    `json:"icon,omitempty"`
	ProjectID   *uint      `json:"projectId,omitempty"`
	Tags        *[]uint    `json:"tags,omitempty"`
	Subtasks    *[]Subtask `json:"subtasks,omitempty"`
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Status      string `json:"status,omitempty"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Status      *string `json:"status,omitempty"`
}

type CreateTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

type UpdateTagRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

type UpdateProfileRequest struct {
	Name            *string `json:"name,omitempty"`
	Avatar          *string `json:"avatar,omitempty"`
	JobTitle        *string `json:"jobTitle,omitempty"`
	Location        *string `json:"location,omitempty"`
	Bio             *string `json:"bio,omitempty"`
	CurrentPassword string  `json:"currentPassword,omitempty"`
	NewPassword     string  `json:"newPassword,omitempty"`
}

type UpdatePreferencesRequest struct {
	Theme              *string `json:"theme,omitempty"`
	EmailNotifications *bool   `json:"emailNotifications,omitempty"`
	PushNotifications  *bool   `json:"pushNotifications,omitempty"`
	TaskReminders      *bool   `json:"taskReminders,omitempty"`
	SoundEffects       *bool   `json:"soundEffects,omitempty"`
	Language           *string `json:"language,omitempty"`
	TimeFormat         *string `json:"timeFormat,omitempty"`
	ReminderWebhook    *string `json:"reminderWebhook,omitempty"`
}
