package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plannr-dev/plannr/db"
	"github.com/plannr-dev/plannr/internal/models"
	"github.com/plannr-dev/plannr/internal/utils"
	"gorm.io/gorm"
)

type CreateTagRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type UpdateTagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

type TagResponse struct {
	models.Tag
	Count int64 `json:"count"`
}

func ListTags(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var tags []models.Tag

	if err := db.DB.Where("user_id = ?", userID).Order("name asc").Find(&tags).Error; err != nil {
		log.Printf("Failed to list tags: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to retrieve tags")
		return
	}

	responses := make([]TagResponse, 0, len(tags))

	for _, tag := range tags {
		var count int64

		if err := db.DB.Model(&models.Todo{}).
			Joins("JOIN todo_tags ON todo_tags.todo_id = todos.id").
			Where("todo_tags.tag_id = ? AND todos.user_id = ?", tag.ID, userID).
			Count(&count).Error; err != nil {
			log.Printf("Failed to count tag todos: %v", err)
			respondError(ctx, http.StatusInternalServerError, "Failed to retrieve tags")
			return
		}

		responses = append(responses, TagResponse{Tag: tag, Count: count})
	}

	respondList(ctx, responses, len(responses))
}

func GetTag(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	tagID, err := utils.GetIDParam(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	var tag models.Tag

	if err := db.DB.Where("id = ? AND user_id = ?", tagID, userID).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, "Tag not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, "Failed to retrieve tag")
		}
		return
	}

	respondData(ctx, http.StatusOK, tag)
}

func CreateTag(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateTagRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Tag name is required")
		return
	}

	tag := models.Tag{
		UserID: userID,
		Name:   req.Name,
		Color:  req.Color,
		Icon:   req.Icon,
	}

	if tag.Color == "" {
		tag.Color = "#6b7280"
	}

	if err := db.DB.Create(&tag).Error; err != nil {
		log.Printf("Failed to create tag: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to create tag")
		return
	}

	BroadcastRefresh(userID)
	respondData(ctx, http.StatusCreated, tag)
}

func UpdateTag(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	tagID, err := utils.GetIDParam(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateTagRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	var tag models.Tag

	if err := db.DB.Where("id = ? AND user_id = ?", tagID, userID).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, "Tag not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, "Failed to retrieve tag")
		}
		return
	}

	if req.Name != nil {
		tag.Name = *req.Name
	}

	if req.Color != nil {
		tag.Color = *req.Color
	}

	if req.Icon != nil {
		tag.Icon = *req.Icon
	}

	if err := db.DB.Save(&tag).Error; err != nil {
		log.Printf("Failed to update tag: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to update tag")
		return
	}

	BroadcastRefresh(userID)
	respondData(ctx, http.StatusOK, tag)
}

// DeleteTag removes the tag and pulls its id out of every referencing todo's
// tag list. The todos themselves are left intact.
func DeleteTag(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	tagID, err := utils.GetIDParam(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	var tag models.Tag

	if err := db.DB.Where("id = ? AND user_id = ?", tagID, userID).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, "Tag not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, "Failed to retrieve tag")
		}
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM todo_tags WHERE tag_id = ?", tag.ID).Error; err != nil {
			return err
		}

		return tx.Delete(&tag).Error
	})

	if err != nil {
		log.Printf("Failed to delete tag: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Failed to delete tag")
		return
	}

	BroadcastRefresh(userID)
	respondMessage(ctx, http.StatusOK, "Tag deleted successfully")
}
