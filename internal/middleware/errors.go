package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/plannr-dev/plannr/internal/types"
)

// ErrorHandler is the single place unhandled panics become responses.
// Handlers deal with their own expected failures; anything that escapes
// lands here as a 500 envelope, with the stack included outside release mode.
func ErrorHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				log.Printf("panic recovered: %v\n%s", r, stack)

				response := types.APIResponse{
					Success: false,
					Message: "Internal Server Error",
				}

				if gin.Mode() != gin.ReleaseMode {
					response.Stack = stack
				}

				ctx.AbortWithStatusJSON(http.StatusInternalServerError, response)
			}
		}()

		ctx.Next()
	}
}

// NotFoundHandler answers unmatched routes with the same envelope the rest
// of the API uses.
func NotFoundHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusNotFound, types.APIResponse{
		Success: false,
		Message: "Route not found",
	})
}
