package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck-dev/taskdeck/db"
	"github.com/taskdeck-dev/taskdeck/internal/auth"
	"github.com/taskdeck-dev/taskdeck/internal/models"
	"github.com/taskdeck-dev/taskdeck/internal/types"
)

type AuthenticatedUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// sessionToken pulls the JWT from the session cookie, falling back to a
// Bearer header for non-browser clients.
func sessionToken(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}

	authHeader := ctx.GetHeader("Authorization")

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}

	return ""
}

func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := sessionToken(ctx)

		if tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, err := auth.VerifySessionToken(tokenString)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		var user models.User

		if err := db.DB.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		})
		ctx.Next()
	}
}
