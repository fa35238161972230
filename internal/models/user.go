package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

const DefaultAvatar = "https://api.dicebear.com/7.x/avataaars/svg?seed=User"

// Preferences is stored as a single jsonb column and merged key-by-key on
// update, so adding a preference never needs a migration.
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

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:              "system",
		EmailNotifications: true,
		PushNotifications:  true,
		TaskReminders:      true,
		SoundEffects:       true,
		Language:           "en",
		TimeFormat:         "12",
	}
}

type User struct {
	BaseModel

	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Avatar       string         `json:"avatar"`
	JobTitle     string         `json:"jobTitle"`
	Location     string         `json:"location"`
	Bio          string         `json:"bio"`
	Preferences  datatypes.JSON `gorm:"type:jsonb" json:"preferences"`

	// Relationships
	Todos    []Todo    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Projects []Project `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Tags     []Tag     `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

// Prefs decodes the preferences column, falling back to defaults for an
// empty or unreadable value.
func (u *User) Prefs() Preferences {
	prefs := DefaultPreferences()

	if len(u.Preferences) == 0 {
		return prefs
	}

	if err := json.Unmarshal(u.Preferences, &prefs); err != nil {
		return DefaultPreferences()
	}

	return prefs
}

func (u *User) SetPrefs(prefs Preferences) error {
	raw, err := json.Marshal(prefs)

	if err != nil {
		return err
	}

	u.Preferences = datatypes.JSON(raw)
	return nil
}
