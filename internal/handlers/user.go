package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/plannr-dev/plannr/db"
	"github.com/plannr-dev/plannr/internal/models"
	"github.com/plannr-dev/plannr/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UpdateProfileRequest struct {
	Name            *string `json:"name"`
	Avatar          *string `json:"avatar"`
	JobTitle        *string `json:"jobTitle"`
	Location        *string `json:"location"`
	Bio             *string `json:"bio"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword" binding:"omitempty,min=8"`
}

type UpdatePreferencesRequest struct {
	Theme              *string `json:"theme"`
	EmailNotifications *bool   `json:"emailNotifications"`
	PushNotifications  *bool   `json:"pushNotifications"`
	TaskReminders      *bool   `json:"taskReminders"`
	SoundEffects       *bool   `json:"soundEffects"`
	Language           *string `json:"language"`
	TimeFormat         *string `json:"timeFormat"`
	ReminderWebhook    *string `json:"reminderWebhook"`
}

type StatsResponse struct {
	TotalTodos      int64            `json:"totalTodos"`
	CompletedTodos  int64            `json:"completedTodos"`
	ActiveTodos     int64            `json:"activeTodos"`
	TotalProjects   int64            `json:"totalProjects"`
	TodosToday      int64            `json:"todosToday"`
	TodosByPriority map[string]int64 `json:"todosByPriority"`
}

func GetProfile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		respondError(ctx, http.StatusNotFound, "User not found")
		return
	}

	respondData(ctx, http.StatusOK, user)
}

func UpdateProfile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		respondError(ctx, http.StatusNotFound, "User not found")
		return
	}

	var req UpdateProfileRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}

	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if req.JobTitle != nil {
		user.JobTitle = *req.JobTitle
	}

	if req.Location != nil {
		user.Location = *req.Location
	}

	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			respondError(ctx, http.StatusBadRequest, "Current password is required to change password")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			respondError(ctx, http.StatusBadRequest, "Current password is incorrect")
			return
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)

		if err != nil {
			log.Printf("Failed to hash new password: %v", err)
			respondError(ctx, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		user.PasswordHash = string(passwordHash)
	}

	if err := db.DB.Save(&user).Error; err != nil {
		log.Printf("Failed to update user: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondData(ctx, http.StatusOK, user)
}

// UpdatePreferences merges the provided keys into the stored preference set;
// keys absent from the body keep their current value.
func UpdatePreferences(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		respondError(ctx, http.StatusNotFound, "User not found")
		return
	}

	var req UpdatePreferencesRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	prefs := user.Prefs()

	if req.Theme != nil {
		prefs.Theme = *req.Theme
	}

	if req.EmailNotifications != nil {
		prefs.EmailNotifications = *req.EmailNotifications
	}

	if req.PushNotifications != nil {
		prefs.PushNotifications = *req.PushNotifications
	}

	if req.TaskReminders != nil {
		prefs.TaskReminders = *req.TaskReminders
	}

	if req.SoundEffects != nil {
		prefs.SoundEffects = *req.SoundEffects
	}

	if req.Language != nil {
		prefs.Language = *req.Language
	}

	if req.TimeFormat != nil {
		prefs.TimeFormat = *req.TimeFormat
	}

	if req.ReminderWebhook != nil {
		prefs.ReminderWebhook = *req.ReminderWebhook
	}

	if err := user.SetPrefs(prefs); err != nil {
		log.Printf("Failed to encode preferences: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if err := db.DB.Save(&user).Error; err != nil {
		log.Printf("Failed to update preferences: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondData(ctx, http.StatusOK, user)
}

// DeleteAccount removes the user's todos, projects and tags, then the user,
// all inside one transaction.
func DeleteAccount(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		respondError(ctx, http.StatusNotFound, "User not found")
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM todo_tags WHERE todo_id IN (SELECT id FROM todos WHERE user_id = ?)",
			user.ID,
		).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Todo{}).Error; err != nil {
			return err
		}

		if err := tx.Exec(
			"DELETE FROM project_members WHERE project_id IN (SELECT id FROM projects WHERE user_id = ?)",
			user.ID,
		).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Project{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Tag{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Reminder{}).Error; err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})

	if err != nil {
		log.Printf("Failed to delete account: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondMessage(ctx, http.StatusOK, "Account deleted successfully")
}

func GetStats(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var stats StatsResponse

	if err := db.DB.Model(&models.Todo{}).Where("user_id = ?", userID).
		Count(&stats.TotalTodos).Error; err != nil {
		log.Printf("Failed to count todos: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to retrieve stats")
		return
	}

	if err := db.DB.Model(&models.Todo{}).
		Where("user_id = ? AND status = ?", userID, models.StatusCompleted).
		Count(&stats.CompletedTodos).Error; err != nil {
		log.Printf("Failed to count completed todos: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to retrieve stats")
		return
	}

	stats.ActiveTodos = stats.TotalTodos - stats.CompletedTodos

	if err := db.DB.Model(&models.Project{}).
		Where("user_id = ? AND status = ?", userID, models.ProjectActive).
		Count(&stats.TotalProjects).Error; err != nil {
		log.Printf("Failed to count projects: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to retrieve stats")
		return
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	if err := db.DB.Model(&models.Todo{}).
		Where("user_id = ? AND status <> ? AND due_date >= ? AND due_date < ?",
			userID, models.StatusCompleted, today, tomorrow).
		Count(&stats.TodosToday).Error; err != nil {
		log.Printf("Failed to count today's todos: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to retrieve stats")
		return
	}

	var byPriority []struct {
		Priority string
		Count    int64
	}

	if err := db.DB.Model(&models.Todo{}).
		Select("priority, count(*) as count").
		Where("user_id = ? AND status <> ?", userID, models.StatusCompleted).
		Group("priority").
		Scan(&byPriority).Error; err != nil {
		log.Printf("Failed to group todos by priority: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to retrieve stats")
		return
	}

	stats.TodosByPriority = make(map[string]int64, len(byPriority))

	for _, row := range byPriority {
		stats.TodosByPriority[row.Priority] = row.Count
	}

	respondData(ctx, http.StatusOK, stats)
}
