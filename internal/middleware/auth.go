package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/plannr-dev/plannr/db"
	"github.com/plannr-dev/plannr/internal/auth"
	"github.com/plannr-dev/plannr/internal/models"
	"github.com/plannr-dev/plannr/internal/types"
)

type AuthenticatedUser struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// AuthMiddleware gates protected routes. Every failure is a 401 with a
// distinct message (missing token, bad token, vanished user) so clients can
// tell why they were bounced, but the status never leaks more than that.
func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			abortUnauthorized(ctx, "Not authorized to access this route")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(ctx, "Authorization header format must be Bearer {token}")
			return
		}

		token, err := auth.VerifyJWT(parts[1])

		if err != nil || !token.Valid {
			abortUnauthorized(ctx, "Token is invalid or expired")
			return
		}

		userID, err := auth.ParseUserID(token)

		if err != nil {
			abortUnauthorized(ctx, "Token is invalid or expired")
			return
		}

		var user models.User

		// The account may have been deleted after the token was issued.
		if err := db.DB.Where("id = ?", userID).First(&user).Error; err != nil {
			abortUnauthorized(ctx, "User not found")
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:     user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Avatar: user.Avatar,
		})
		ctx.Next()
	}
}

func abortUnauthorized(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, types.APIResponse{
		Success: false,
		Message: message,
	})
}
