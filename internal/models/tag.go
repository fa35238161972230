package models

type Tag struct {
	BaseModel

	UserID uint   `gorm:"not null;index" json:"userId"`
	Name   string `gorm:"not null" json:"name"`
	Color  string `gorm:"default:#6b7280" json:"color"`
	Icon   string `json:"icon"`

	// Relationships
	User  User   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Todos []Todo `gorm:"many2many:todo_tags" json:"-"`
}
