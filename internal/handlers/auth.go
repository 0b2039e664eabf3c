package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck-dev/taskdeck/db"
	"github.com/taskdeck-dev/taskdeck/internal/auth"
	"github.com/taskdeck-dev/taskdeck/internal/models"
	"github.com/taskdeck-dev/taskdeck/internal/types"
	"github.com/taskdeck-dev/taskdeck/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

var (
	Domain = os.Getenv("DOMAIN")
)

func setSessionCookie(ctx *gin.Context, token string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   Domain,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func RegisterUser(ctx *gin.Context) {
	var user RegisterUserRequest

	if err := ctx.BindJSON(&user); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	var existingUser models.User

	err := db.DB.Where("email = ?", user.Email).First(&existingUser).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	newUser := models.User{
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: string(passwordHash),
	}

	if err := db.DB.Create(&newUser).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, err := auth.GenerateSessionToken(newUser.ID, newUser.Email)

	if err != nil {
		log.Printf("Failed to generate session token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setSessionCookie(ctx, token, 60*60*24*7)

	ctx.JSON(http.StatusCreated, gin.H{
		"user": types.UserResponse{
			ID:    newUser.ID,
			Name:  newUser.Name,
			Email: newUser.Email,
		},
	})
}

func LoginUser(ctx *gin.Context) {
	var user LoginUserRequest

	if err := ctx.BindJSON(&user); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var existingUser models.User

	err := db.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(user.Email))).First(&existingUser).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(existingUser.PasswordHash), []byte(user.Password))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateSessionToken(existingUser.ID, existingUser.Email)

	if err != nil {
		log.Printf("Failed to generate session token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setSessionCookie(ctx, token, 60*60*24*7)

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:    existingUser.ID,
			Name:  existingUser.Name,
			Email: existingUser.Email,
		},
	})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:    currentUser.ID,
			Name:  currentUser.Name,
			Email: currentUser.Email,
		},
	})
}

func LogoutUser(ctx *gin.Context) {
	setSessionCookie(ctx, "", -1)

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
