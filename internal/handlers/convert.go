package handlers

import (
	"encoding/json"
	"log"

	"gorm.io/datatypes"

	"github.com/taskdeck-dev/taskdeck/db"
	"github.com/taskdeck-dev/taskdeck/internal/models"
	"github.com/taskdeck-dev/taskdeck/internal/types"
)

func toUserResponse(user models.User) types.UserResponse {
	return types.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

func toUserProfileResponse(user models.User) types.UserProfileResponse {
	return types.UserProfileResponse{
		ID:           user.ID,
		Name:         user.Name,
		Department:   user.Department,
		Organization: user.Organization,
		Location:     user.Location,
		Shade:        user.Shade,
	}
}

func toTaskResponse(task models.Task) types.TaskResponse {
	resp := types.TaskResponse{
		ID:          task.ID,
		TicketID:    task.TicketID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		ProjectID:   task.ProjectID,
		CreatorID:   task.CreatorID,
		AssigneeID:  task.AssigneeID,
		StartDate:   task.StartDate,
		EndDate:     task.EndDate,
		CreatedAt:   task.CreatedAt,
	}

	if task.Assignee != nil {
		assignee := toUserResponse(*task.Assignee)
		resp.Assignee = &assignee
	}

	return resp
}

func toMemberResponse(member models.ProjectMember) types.MemberResponse {
	resp := types.MemberResponse{
		ID:        member.ID,
		ProjectID: member.ProjectID,
		UserID:    member.UserID,
	}

	if member.User.ID != 0 {
		profile := toUserProfileResponse(member.User)
		resp.User = &profile
		resp.AssignedTaskCount = len(member.User.AssignedTasks)
	}

	return resp
}

func toProjectResponse(project models.Project) types.ProjectResponse {
	resp := types.ProjectResponse{
		ID:                project.ID,
		Title:             project.Title,
		Description:       project.Description,
		Abbreviation:      project.Abbreviation,
		LeadID:            project.LeadID,
		LastCreatedTaskID: project.LastCreatedTaskID,
		CreatedAt:         project.CreatedAt,
	}

	if project.Lead.ID != 0 {
		lead := toUserResponse(project.Lead)
		resp.Lead = &lead
	}

	for _, member := range project.Members {
		resp.Members = append(resp.Members, toMemberResponse(member))
	}

	for _, task := range project.Tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(task))
	}

	return resp
}

// recordActivity appends an entry to the project's activity feed. Feed writes
// never fail the mutation that produced them; errors are only logged.
func recordActivity(projectID uint, actorID uint, action string, payload map[string]interface{}) {
	raw, err := json.Marshal(payload)

	if err != nil {
		log.Printf("Failed to marshal activity payload: %v", err)
		return
	}

	activity := models.Activity{
		ProjectID: projectID,
		ActorID:   actorID,
		Action:    action,
		Payload:   datatypes.JSON(raw),
	}

	if err := db.DB.Create(&activity).Error; err != nil {
		log.Printf("Failed to record activity %q for project %d: %v", action, projectID, err)
	}
}
