package models

const (
	ProjectActive    = "active"
	ProjectCompleted = "completed"
	ProjectArchived  = "archived"
)

type Project struct {
	BaseModel

	UserID      uint   `gorm:"not null;index:idx_projects_user_status" json:"userId"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Color       string `gorm:"default:#3b82f6" json:"color"`
	Icon        string `json:"icon"`
	Status      string `gorm:"default:active;index:idx_projects_user_status" json:"status"`

	// Relationships
	User    User   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Todos   []Todo `gorm:"foreignKey:ProjectID" json:"-"`
	Members []User `gorm:"many2many:project_members" json:"members"`
}

func ValidProjectStatus(status string) bool {
	switch status {
	case ProjectActive, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}
