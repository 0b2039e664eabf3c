package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck-dev/taskdeck/db"
	"github.com/taskdeck-dev/taskdeck/internal/models"
	"github.com/taskdeck-dev/taskdeck/internal/types"
	"github.com/taskdeck-dev/taskdeck/internal/utils"
	"gorm.io/gorm"
)

// UpdateProfileRequest uses pointer fields as explicit presence markers: an
// absent field leaves the stored value untouched, while a present empty
// string clears it. Name is the one field that cannot be cleared.
type UpdateProfileRequest struct {
	Name         *string `json:"name"`
	Department   *string `json:"department"`
	Organization *string `json:"organization"`
	Location     *string `json:"location"`
	Shade        *string `json:"shade"`
}

type DetailedUserResponse struct {
	types.UserProfileResponse
	Email         string                  `json:"email"`
	Memberships   []types.ProjectResponse `json:"memberships"`
	LedProjects   []types.ProjectResponse `json:"led_projects"`
	AssignedTasks []types.TaskResponse    `json:"assigned_tasks"`
}

// GetDetailedUserData returns the caller's full account view: profile,
// project memberships, led projects, and assigned tasks.
func GetDetailedUserData(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User

	err = db.DB.
		Preload("Memberships.Project").
		Preload("LedProjects").
		Preload("AssignedTasks").
		First(&user, userID).Error

	if err != nil {
		log.Printf("Failed to fetch user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := DetailedUserResponse{
		UserProfileResponse: toUserProfileResponse(user),
		Email:               user.Email,
		Memberships:         make([]types.ProjectResponse, 0, len(user.Memberships)),
		LedProjects:         make([]types.ProjectResponse, 0, len(user.LedProjects)),
		AssignedTasks:       make([]types.TaskResponse, 0, len(user.AssignedTasks)),
	}

	for _, membership := range user.Memberships {
		response.Memberships = append(response.Memberships, toProjectResponse(membership.Project))
	}

	for _, project := range user.LedProjects {
		response.LedProjects = append(response.LedProjects, toProjectResponse(project))
	}

	for _, task := range user.AssignedTasks {
		response.AssignedTasks = append(response.AssignedTasks, toTaskResponse(task))
	}

	ctx.JSON(http.StatusOK, response)
}

// GetUserProfile returns another user's public profile with their assigned
// tasks, backing the profile page.
func GetUserProfile(ctx *gin.Context) {
	userID, err := utils.GetUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User

	if err := db.DB.Preload("AssignedTasks").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Failed to fetch user %d: %v", userID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	tasks := make([]types.TaskResponse, 0, len(user.AssignedTasks))

	for _, task := range user.AssignedTasks {
		tasks = append(tasks, toTaskResponse(task))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":           toUserProfileResponse(user),
		"assigned_tasks": tasks,
	})
}

func UpdateUserProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateProfileRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name cannot be empty"})
			return
		}
		updates["name"] = name
	}

	if body.Department != nil {
		updates["department"] = *body.Department
	}

	if body.Organization != nil {
		updates["organization"] = *body.Organization
	}

	if body.Location != nil {
		updates["location"] = *body.Location
	}

	if body.Shade != nil {
		updates["shade"] = *body.Shade
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		log.Printf("Failed to update profile for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		log.Printf("Failed to refresh user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": toUserProfileResponse(user)})
}

// GetUsersNotInProject lists users with no membership in the project, feeding
// the add-member picker.
func GetUsersNotInProject(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	memberIDs := db.DB.Model(&models.ProjectMember{}).
		Select("user_id").
		Where("project_id = ?", projectID)

	var users []models.User

	if err := db.DB.Where("id NOT IN (?)", memberIDs).Find(&users).Error; err != nil {
		log.Printf("Failed to list users outside project %d: %v", projectID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	response := make([]types.UserProfileResponse, 0, len(users))

	for _, user := range users {
		response = append(response, toUserProfileResponse(user))
	}

	ctx.JSON(http.StatusOK, response)
}
