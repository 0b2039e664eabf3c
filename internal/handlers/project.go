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
	"github.com/taskdeck-dev/taskdeck/internal/ws"
	"gorm.io/gorm"
)

type CreateProjectRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description" binding:"required"`
	Abbreviation string `json:"abbreviation" binding:"required"`
}

type AddMembersRequest struct {
	UserIDs []uint `json:"user_ids" binding:"required,min=1"`
}

type UpdateProjectTitleRequest struct {
	Title string `json:"title" binding:"required"`
}

// isProjectMember reports whether the user holds a membership row for the
// project. Membership grants read and task-update rights.
func isProjectMember(projectID uint, userID uint) (bool, error) {
	var count int64

	err := db.DB.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error

	return count > 0, err
}

func CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	abbreviation := strings.ToUpper(strings.TrimSpace(body.Abbreviation))

	var existing models.Project

	err = db.DB.Where("abbreviation = ?", abbreviation).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Abbreviation already in use"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking abbreviation: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	project := models.Project{
		Title:        body.Title,
		Description:  body.Description,
		Abbreviation: abbreviation,
		LeadID:       userID,
	}

	// The creator becomes lead and sole initial member in one unit.
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		member := models.ProjectMember{ProjectID: project.ID, UserID: userID}

		return tx.Create(&member).Error
	})

	if err != nil {
		log.Printf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	if err := db.DB.Preload("Lead").Preload("Members.User").First(&project, project.ID).Error; err != nil {
		log.Printf("Failed to reload project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	recordActivity(project.ID, userID, "project.created", map[string]interface{}{
		"title":        project.Title,
		"abbreviation": project.Abbreviation,
	})

	ctx.JSON(http.StatusCreated, toProjectResponse(project))
}

// ListProjects returns the projects the caller is a member of, with members
// and lead attached.
func ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var projects []models.Project

	err = db.DB.
		Joins("JOIN project_members ON project_members.project_id = projects.id AND project_members.user_id = ? AND project_members.deleted_at IS NULL", userID).
		Preload("Lead").
		Preload("Members.User").
		Find(&projects).Error

	if err != nil {
		log.Printf("Failed to list projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]types.ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, toProjectResponse(project))
	}

	ctx.JSON(http.StatusOK, response)
}

// GetProjectByAbbrv returns the full board view of a project: tasks with
// assignees, the lead, and members with their assigned tasks.
func GetProjectByAbbrv(ctx *gin.Context) {
	abbrv := ctx.Param("abbrv")

	if abbrv == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Abbreviation is required"})
		return
	}

	var project models.Project

	err := db.DB.
		Where("abbreviation = ?", abbrv).
		Preload("Lead").
		Preload("Tasks.Assignee").
		Preload("Members.User.AssignedTasks").
		First(&project).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			log.Printf("Failed to fetch project %q: %v", abbrv, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	ctx.JSON(http.StatusOK, toProjectResponse(project))
}

func GetProjectMembers(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	member, err := isProjectMember(projectID, userID)

	if err != nil {
		log.Printf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !member {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	var members []models.ProjectMember

	err = db.DB.
		Where("project_id = ?", projectID).
		Preload("User.AssignedTasks").
		Find(&members).Error

	if err != nil {
		log.Printf("Failed to list members: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	response := make([]types.MemberResponse, 0, len(members))

	for _, m := range members {
		response = append(response, toMemberResponse(m))
	}

	ctx.JSON(http.StatusOK, response)
}

// AddMembers adds users to a project. Only the lead may do this; the lead
// check lives in the lookup filter, so a non-lead caller sees the same
// not-found failure as a caller naming a project that doesn't exist.
func AddMembers(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body AddMembersRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var project models.Project

	if err := db.DB.Where("id = ? AND lead_id = ?", projectID, userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			log.Printf("Failed to fetch project %d: %v", projectID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	var existing int64

	err = db.DB.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id IN ?", projectID, body.UserIDs).
		Count(&existing).Error

	if err != nil {
		log.Printf("Failed to check existing members: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if existing > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "User is already a member"})
		return
	}

	members := make([]models.ProjectMember, 0, len(body.UserIDs))

	for _, id := range body.UserIDs {
		members = append(members, models.ProjectMember{ProjectID: projectID, UserID: id})
	}

	if err := db.DB.Create(&members).Error; err != nil {
		log.Printf("Failed to add members to project %d: %v", projectID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add members"})
		return
	}

	recordActivity(projectID, userID, "project.members_added", map[string]interface{}{
		"user_ids": body.UserIDs,
	})
	ws.Default.BroadcastRefresh(projectID, "project.members_added")

	if err := db.DB.Preload("Lead").Preload("Members.User.AssignedTasks").First(&project, projectID).Error; err != nil {
		log.Printf("Failed to reload project %d: %v", projectID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	ctx.JSON(http.StatusOK, toProjectResponse(project))
}

// UpdateProjectTitle renames a project. Lead-gated the same way as AddMembers.
func UpdateProjectTitle(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateProjectTitleRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var project models.Project

	if err := db.DB.Where("id = ? AND lead_id = ?", projectID, userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			log.Printf("Failed to fetch project %d: %v", projectID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	project.Title = body.Title

	if err := db.DB.Save(&project).Error; err != nil {
		log.Printf("Failed to update project %d: %v", projectID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	recordActivity(projectID, userID, "project.title_updated", map[string]interface{}{
		"title": project.Title,
	})
	ws.Default.BroadcastRefresh(projectID, "project.title_updated")

	ctx.JSON(http.StatusOK, toProjectResponse(project))
}

func GetProjectActivity(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	member, err := isProjectMember(projectID, userID)

	if err != nil {
		log.Printf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !member {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	var activities []models.Activity

	err = db.DB.
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Limit(50).
		Find(&activities).Error

	if err != nil {
		log.Printf("Failed to fetch activity for project %d: %v", projectID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		return
	}

	response := make([]types.ActivityResponse, 0, len(activities))

	for _, a := range activities {
		response = append(response, types.ActivityResponse{
			ID:        a.ID,
			ProjectID: a.ProjectID,
			ActorID:   a.ActorID,
			Action:    a.Action,
			Payload:   []byte(a.Payload),
			CreatedAt: a.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, response)
}
