package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/plannr-dev/plannr/db"
	"github.com/plannr-dev/plannr/internal/models"
	"github.com/plannr-dev/plannr/internal/utils"
	"gorm.io/gorm"
)

type CreateTodoRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Priority    string           `json:"priority"`
	Status      string           `json:"status"`
	DueDate     *time.Time       `json:"dueDate"`
	Icon        string           `json:"icon"`
	ProjectID   *uint            `json:"projectId"`
	Tags        []uint           `json:"tags"`
	Subtasks    []models.Subtask `json:"subtasks"`
}

// UpdateTodoRequest is a merge patch: only fields present in the body are
// applied. `completed` is accepted as a legacy alias and folded into status.
// DueDate and ProjectID stay raw so an explicit `null` (clear the field) can
// be told apart from the field being absent.
type UpdateTodoRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Category    *string           `json:"category"`
	Priority    *string           `json:"priority"`
	Status      *string           `json:"status"`
	Completed   *bool             `json:"completed"`
	DueDate     json.RawMessage   `json:"dueDate"`
	Icon        *string           `json:"icon"`
	ProjectID   json.RawMessage   `json:"projectId"`
	Tags        *[]uint           `json:"tags"`
	Subtasks    *[]models.Subtask `json:"subtasks"`
}

func jsonNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

type TodoResponse struct {
	models.Todo
	Completed bool        `json:"completed"`
	Project   *ProjectRef `json:"project,omitempty"`
}

type ProjectRef struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func newTodoResponse(todo models.Todo) TodoResponse {
	response := TodoResponse{
		Todo:      todo,
		Completed: todo.Completed(),
	}

	if todo.Project != nil {
		response.Project = &ProjectRef{
			ID:    todo.Project.ID,
			Name:  todo.Project.Name,
			Color: todo.Project.Color,
		}
	}

	return response
}

func newTodoResponses(todos []models.Todo) []TodoResponse {
	responses := make([]TodoResponse, 0, len(todos))

	for _, todo := range todos {
		responses = append(responses, newTodoResponse(todo))
	}

	return responses
}

func ListTodos(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	query := db.DB.Where("user_id = ?", userID)

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if priority := ctx.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}

	if completed := ctx.Query("completed"); completed != "" {
		if completed == "true" {
			query = query.Where("status = ?", models.StatusCompleted)
		} else {
			query = query.Where("status <> ?", models.StatusCompleted)
		}
	}

	if projectIDStr := ctx.Query("projectId"); projectIDStr != "" {
		projectID, parseErr := strconv.ParseUint(projectIDStr, 10, 32)

		if parseErr != nil {
			respondError(ctx, http.StatusBadRequest, "Invalid project ID")
			return
		}

		query = query.Where("project_id = ?", uint(projectID))
	}

	var todos []models.Todo

	if err := query.Preload("Tags").Preload("Project").Order("created_at desc").Find(&todos).Error; err != nil {
		log.Printf("Failed to list todos: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to retrieve todos")
		return
	}

	respondList(ctx, newTodoResponses(todos), len(todos))
}

func GetTodo(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	todoID, err := utils.GetIDParam(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	var todo models.Todo

	if err := db.DB.Preload("Tags").Preload("Project").
		Where("id = ? AND user_id = ?", todoID, userID).First(&todo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, "Todo not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, "Failed to retrieve todo")
		}
		return
	}

	respondData(ctx, http.StatusOK, newTodoResponse(todo))
}

func CreateTodo(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateTodoRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Title is required")
		return
	}

	if req.Priority != "" && !models.ValidPriority(req.Priority) {
		respondError(ctx, http.StatusBadRequest, "Priority must be low, medium or high")
		return
	}

	if req.Status != "" && !models.ValidStatus(req.Status) {
		respondError(ctx, http.StatusBadRequest, "Status must be todo, in-progress or completed")
		return
	}

	// A todo can only be filed under the caller's own project.
	if req.ProjectID != nil {
		var project models.Project

		if err := db.DB.Where("id = ? AND user_id = ?", *req.ProjectID, userID).First(&project).Error; err != nil {
			respondError(ctx, http.StatusNotFound, "Project not found")
			return
		}
	}

	todo := models.Todo{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
		Icon:        req.Icon,
		ProjectID:   req.ProjectID,
	}

	if todo.Category == "" {
		todo.Category = models.DefaultCategory
	}

	if todo.Priority == "" {
		todo.Priority = models.PriorityMedium
	}

	if todo.Status == "" {
		todo.Status = models.StatusTodo
	}

	if req.Subtasks != nil {
		raw, marshalErr := json.Marshal(req.Subtasks)

		if marshalErr != nil {
			respondError(ctx, http.StatusBadRequest, "Invalid subtasks")
			return
		}

		todo.Subtasks = raw
	}

	if len(req.Tags) > 0 {
		var tags []models.Tag

		if err := db.DB.Where("id IN ? AND user_id = ?", req.Tags, userID).Find(&tags).Error; err != nil {
			log.Printf("Failed to resolve tags: %v", err)
			respondError(ctx, http.StatusInternalServerError, "Failed to create todo")
			return
		}

		todo.Tags = tags
	}

	if err := db.DB.Create(&todo).Error; err != nil {
		log.Printf("Failed to create todo: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to create todo")
		return
	}

	BroadcastRefresh(userID)
	respondData(ctx, http.StatusCreated, newTodoResponse(todo))
}

func UpdateTodo(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	todoID, err := utils.GetIDParam(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateTodoRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	if req.Priority != nil && !models.ValidPriority(*req.Priority) {
		respondError(ctx, http.StatusBadRequest, "Priority must be low, medium or high")
		return
	}

	if req.Status != nil && !models.ValidStatus(*req.Status) {
		respondError(ctx, http.StatusBadRequest, "Status must be todo, in-progress or completed")
		return
	}

	var todo models.Todo

	if err := db.DB.Where("id = ? AND user_id = ?", todoID, userID).First(&todo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, "Todo not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, "Failed to retrieve todo")
		}
		return
	}

	if req.Title != nil {
		todo.Title = *req.Title
	}

	if req.Description != nil {
		todo.Description = *req.Description
	}

	if req.Category != nil {
		todo.Category = *req.Category
	}

	if req.Priority != nil {
		todo.Priority = *req.Priority
	}

	if req.Status != nil {
		todo.Status = *req.Status
	} else if req.Completed != nil {
		// Status is the source of truth; the boolean is folded into it.
		if *req.Completed {
			todo.Status = models.StatusCompleted
		} else if todo.Status == models.StatusCompleted {
			todo.Status = models.StatusTodo
		}
	}

	if len(req.DueDate) > 0 {
		if jsonNull(req.DueDate) {
			todo.DueDate = nil
		} else {
			var dueDate time.Time

			if err := json.Unmarshal(req.DueDate, &dueDate); err != nil {
				respondError(ctx, http.StatusBadRequest, "Invalid due date")
				return
			}

			todo.DueDate = &dueDate
		}
	}

	if req.Icon != nil {
		todo.Icon = *req.Icon
	}

	if len(req.ProjectID) > 0 {
		if jsonNull(req.ProjectID) {
			todo.ProjectID = nil
		} else {
			var projectID uint

			if err := json.Unmarshal(req.ProjectID, &projectID); err != nil {
				respondError(ctx, http.StatusBadRequest, "Invalid project ID")
				return
			}

			var project models.Project

			if err := db.DB.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
				respondError(ctx, http.StatusNotFound, "Project not found")
				return
			}

			todo.ProjectID = &projectID
		}
	}

	if req.Subtasks != nil {
		raw, marshalErr := json.Marshal(*req.Subtasks)

		if marshalErr != nil {
			respondError(ctx, http.StatusBadRequest, "Invalid subtasks")
			return
		}

		todo.Subtasks = raw
	}

	if err := db.DB.Save(&todo).Error; err != nil {
		log.Printf("Failed to update todo: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to update todo")
		return
	}

	if req.Tags != nil {
		var tags []models.Tag

		if len(*req.Tags) > 0 {
			if err := db.DB.Where("id IN ? AND user_id = ?", *req.Tags, userID).Find(&tags).Error; err != nil {
				log.Printf("Failed to resolve tags: %v", err)
				respondError(ctx, http.StatusInternalServerError, "Failed to update todo")
				return
			}
		}

		if err := db.DB.Model(&todo).Association("Tags").Replace(tags); err != nil {
			log.Printf("Failed to replace tags: %v", err)
			respondError(ctx, http.StatusInternalServerError, "Failed to update todo")
			return
		}
	}

	if err := db.DB.Preload("Tags").Preload("Project").First(&todo, todo.ID).Error; err != nil {
		log.Printf("Failed to reload todo: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to update todo")
		return
	}

	BroadcastRefresh(userID)
	respondData(ctx, http.StatusOK, newTodoResponse(todo))
}

func DeleteTodo(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	todoID, err := utils.GetIDParam(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	var todo models.Todo

	if err := db.DB.Where("id = ? AND user_id = ?", todoID, userID).First(&todo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, "Todo not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, "Failed to retrieve todo")
		}
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM todo_tags WHERE todo_id = ?", todo.ID).Error; err != nil {
			return err
		}

		return tx.Delete(&todo).Error
	})

	if err != nil {
		log.Printf("Failed to delete todo: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to delete todo")
		return
	}

	BroadcastRefresh(userID)
	respondMessage(ctx, http.StatusOK, "Todo deleted successfully")
}

// ToggleTodo flips completion in a single read-modify-write. A completed
// todo goes back to "todo", anything else becomes "completed".
func ToggleTodo(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	todoID, err := utils.GetIDParam(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	var todo models.Todo

	if err := db.DB.Preload("Tags").Preload("Project").
		Where("id = ? AND user_id = ?", todoID, userID).First(&todo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, "Todo not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, "Failed to retrieve todo")
		}
		return
	}

	if todo.Status == models.StatusCompleted {
		todo.Status = models.StatusTodo
	} else {
		todo.Status = models.StatusCompleted
	}

	if err := db.DB.Save(&todo).Error; err != nil {
		log.Printf("Failed to toggle todo: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to update todo")
		return
	}

	BroadcastRefresh(userID)
	respondData(ctx, http.StatusOK, newTodoResponse(todo))
}
