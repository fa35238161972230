package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/plannr-dev/plannr/internal/types"
)

func respondData(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, types.APIResponse{
		Success: true,
		Data:    data,
	})
}

func respondList(ctx *gin.Context, data interface{}, count int) {
	ctx.JSON(200, types.APIResponse{
		Success: true,
		Data:    data,
		Count:   &count,
	})
}

func respondMessage(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, types.APIResponse{
		Success: true,
		Message: message,
	})
}

func respondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, types.APIResponse{
		Success: false,
		Message: message,
	})
}
