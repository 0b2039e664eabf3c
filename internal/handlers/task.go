package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck-dev/taskdeck/db"
	"github.com/taskdeck-dev/taskdeck/internal/models"
	"github.com/taskdeck-dev/taskdeck/internal/tickets"
	"github.com/taskdeck-dev/taskdeck/internal/types"
	"github.com/taskdeck-dev/taskdeck/internal/utils"
	"github.com/taskdeck-dev/taskdeck/internal/ws"
	"gorm.io/gorm"
)

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ProjectID   uint   `json:"project_id" binding:"required"`
	AssigneeID  *uint  `json:"assignee_id"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

// UpdateTaskRequest is a sparse patch: nil means "leave the stored value
// untouched", and for the string fields an empty value means the same. The
// date fields use presence alone, so a client can set dates it never set
// before but cannot accidentally clear one by omitting it.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	AssigneeID  *uint      `json:"assignee_id"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type UpdateTaskAssigneeRequest struct {
	AssigneeID uint `json:"assignee_id" binding:"required"`
}

// memberProjects is the subquery used to scope task mutations to projects the
// caller belongs to. Running the check inside the UPDATE's filter means an
// unauthorized caller and a missing task produce the same zero-row outcome.
func memberProjects(userID uint) *gorm.DB {
	return db.DB.Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", userID)
}

func CreateTask(ctx *gin.Context) {
	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	status := body.Status

	if status == "" {
		status = types.StatusTodo
	}

	if !types.ValidStatus(status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	priority := body.Priority

	if priority == "" {
		priority = types.PriorityLow
	}

	if !types.ValidPriority(priority) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
		return
	}

	// The creator is the default assignee.
	assigneeID := userID

	if body.AssigneeID != nil && *body.AssigneeID != 0 {
		assigneeID = *body.AssigneeID
	}

	task := models.Task{
		Title:       body.Title,
		Description: body.Description,
		Status:      status,
		Priority:    priority,
		ProjectID:   body.ProjectID,
		CreatorID:   userID,
		AssigneeID:  &assigneeID,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		ticket, err := tickets.Allocate(tx, body.ProjectID)

		if err != nil {
			return err
		}

		task.TicketID = ticket

		return tx.Create(&task).Error
	})

	if err != nil {
		if errors.Is(err, tickets.ErrProjectNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		log.Printf("Failed to create task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	if err := db.DB.Preload("Assignee").First(&task, task.ID).Error; err != nil {
		log.Printf("Failed to reload task %d: %v", task.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	recordActivity(task.ProjectID, userID, "task.created", map[string]interface{}{
		"ticket_id": task.TicketID,
		"title":     task.Title,
	})
	ws.Default.BroadcastRefresh(task.ProjectID, "task.created")

	ctx.JSON(http.StatusCreated, toTaskResponse(task))
}

// UpdateTaskProperties applies a sparse patch to a task. Only fields present
// and non-empty in the request change; everything else keeps its stored value.
func UpdateTaskProperties(ctx *gin.Context) {
	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if body.Title != nil && *body.Title != "" {
		updates["title"] = *body.Title
	}

	if body.Description != nil && *body.Description != "" {
		updates["description"] = *body.Description
	}

	if body.Status != nil && *body.Status != "" {
		if !types.ValidStatus(*body.Status) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		updates["status"] = *body.Status
	}

	if body.Priority != nil && *body.Priority != "" {
		if !types.ValidPriority(*body.Priority) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
			return
		}
		updates["priority"] = *body.Priority
	}

	if body.AssigneeID != nil && *body.AssigneeID != 0 {
		updates["assignee_id"] = *body.AssigneeID
	}

	if body.StartDate != nil {
		updates["start_date"] = *body.StartDate
	}

	if body.EndDate != nil {
		updates["end_date"] = *body.EndDate
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	res := db.DB.Model(&models.Task{}).
		Where("id = ? AND project_id IN (?)", taskID, memberProjects(userID)).
		Updates(updates)

	if res.Error != nil {
		log.Printf("Failed to update task %d: %v", taskID, res.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	if res.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	var task models.Task

	if err := db.DB.Preload("Assignee").First(&task, taskID).Error; err != nil {
		log.Printf("Failed to reload task %d: %v", taskID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	recordActivity(task.ProjectID, userID, "task.updated", map[string]interface{}{
		"ticket_id": task.TicketID,
	})
	ws.Default.BroadcastRefresh(task.ProjectID, "task.updated")

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

// UpdateTaskAssignee reassigns a task, gated by the same membership filter as
// UpdateTaskProperties.
func UpdateTaskAssignee(ctx *gin.Context) {
	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateTaskAssigneeRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	res := db.DB.Model(&models.Task{}).
		Where("id = ? AND project_id IN (?)", taskID, memberProjects(userID)).
		Update("assignee_id", body.AssigneeID)

	if res.Error != nil {
		log.Printf("Failed to reassign task %d: %v", taskID, res.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	if res.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	var task models.Task

	if err := db.DB.Preload("Assignee").First(&task, taskID).Error; err != nil {
		log.Printf("Failed to reload task %d: %v", taskID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	recordActivity(task.ProjectID, userID, "task.reassigned", map[string]interface{}{
		"ticket_id":   task.TicketID,
		"assignee_id": body.AssigneeID,
	})
	ws.Default.BroadcastRefresh(task.ProjectID, "task.reassigned")

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

// GetLinkedTasks returns every task the caller created or is assigned to.
func GetLinkedTasks(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var tasks []models.Task

	err = db.DB.
		Where("assignee_id = ? OR creator_id = ?", userID, userID).
		Preload("Assignee").
		Find(&tasks).Error

	if err != nil {
		log.Printf("Failed to list linked tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]types.TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		response = append(response, toTaskResponse(task))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetAssignedTasks(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var tasks []models.Task

	err = db.DB.
		Where("assignee_id = ?", userID).
		Preload("Assignee").
		Find(&tasks).Error

	if err != nil {
		log.Printf("Failed to list assigned tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]types.TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		response = append(response, toTaskResponse(task))
	}

	ctx.JSON(http.StatusOK, response)
}
