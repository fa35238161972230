package handlers

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/plannr-dev/plannr/db"
	"github.com/plannr-dev/plannr/internal/models"
	"github.com/plannr-dev/plannr/internal/utils"
	"gorm.io/gorm"
)

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Status      string `json:"status"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
	Status      *string `json:"status"`
}

type ProjectResponse struct {
	models.Project
	TodoCount int64 `json:"todoCount"`
}

type ProjectDetailResponse struct {
	models.Project
	Todos []TodoResponse `json:"todos"`
}

func ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	query := db.DB.Where("user_id = ?", userID)

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var projects []models.Project

	if err := query.Order("created_at desc").Find(&projects).Error; err != nil {
		log.Printf("Failed to list projects: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to retrieve projects")
		return
	}

	// Per-project todo counts are independent queries, so fetch them
	// concurrently once the project list resolves.
	responses := make([]ProjectResponse, len(projects))
	countErrs := make([]error, len(projects))

	var wg sync.WaitGroup

	for i := range projects {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			var count int64

			countErrs[i] = db.DB.Model(&models.Todo{}).
				Where("project_id = ? AND user_id = ?", projects[i].ID, userID).
				Count(&count).Error

			responses[i] = ProjectResponse{
				Project:   projects[i],
				TodoCount: count,
			}
		}(i)
	}

	wg.Wait()

	for _, countErr := range countErrs {
		if countErr != nil {
			log.Printf("Failed to count project todos: %v", countErr)
			respondError(ctx, http.StatusInternalServerError, "Failed to retrieve projects")
			return
		}
	}

	respondList(ctx, responses, len(responses))
}

func GetProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	projectID, err := utils.GetIDParam(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	var project models.Project

	if err := db.DB.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, "Project not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, "Failed to retrieve project")
		}
		return
	}

	var todos []models.Todo

	if err := db.DB.Preload("Tags").
		Where("project_id = ? AND user_id = ?", project.ID, userID).Find(&todos).Error; err != nil {
		log.Printf("Failed to load project todos: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to retrieve project")
		return
	}

	respondData(ctx, http.StatusOK, ProjectDetailResponse{
		Project: project,
		Todos:   newTodoResponses(todos),
	})
}

func CreateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Project name is required")
		return
	}

	if req.Status != "" && !models.ValidProjectStatus(req.Status) {
		respondError(ctx, http.StatusBadRequest, "Status must be active, completed or archived")
		return
	}

	project := models.Project{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		Status:      req.Status,
	}

	if project.Color == "" {
		project.Color = "#3b82f6"
	}

	if project.Icon == "" {
		project.Icon = "📁"
	}

	if project.Status == "" {
		project.Status = models.ProjectActive
	}

	if err := db.DB.Create(&project).Error; err != nil {
		log.Printf("Failed to create project: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to create project")
		return
	}

	BroadcastRefresh(userID)
	respondData(ctx, http.StatusCreated, ProjectResponse{Project: project})
}

func UpdateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	projectID, err := utils.GetIDParam(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	if req.Status != nil && !models.ValidProjectStatus(*req.Status) {
		respondError(ctx, http.StatusBadRequest, "Status must be active, completed or archived")
		return
	}

	var project models.Project

	if err := db.DB.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, "Project not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, "Failed to retrieve project")
		}
		return
	}

	if req.Name != nil {
		project.Name = *req.Name
	}

	if req.Description != nil {
		project.Description = *req.Description
	}

	if req.Color != nil {
		project.Color = *req.Color
	}

	if req.Icon != nil {
		project.Icon = *req.Icon
	}

	if req.Status != nil {
		project.Status = *req.Status
	}

	if err := db.DB.Save(&project).Error; err != nil {
		log.Printf("Failed to update project: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to update project")
		return
	}

	BroadcastRefresh(userID)
	respondData(ctx, http.StatusOK, ProjectResponse{Project: project})
}

// DeleteProject removes the project and every todo filed under it. The
// cascade runs inside one transaction so a failure never strands orphans.
func DeleteProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	projectID, err := utils.GetIDParam(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	var project models.Project

	if err := db.DB.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, "Project not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, "Failed to retrieve project")
		}
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM todo_tags WHERE todo_id IN (SELECT id FROM todos WHERE project_id = ? AND user_id = ?)",
			project.ID, userID,
		).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ? AND user_id = ?", project.ID, userID).
			Delete(&models.Todo{}).Error; err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM project_members WHERE project_id = ?", project.ID).Error; err != nil {
			return err
		}

		return tx.Delete(&project).Error
	})

	if err != nil {
		log.Printf("Failed to delete project: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to delete project")
		return
	}

	BroadcastRefresh(userID)
	respondMessage(ctx, http.StatusOK, "Project and associated todos deleted successfully")
}
