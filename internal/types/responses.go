package types

import (
	"encoding/json"
	"time"
)

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserProfileResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Department   string `json:"department"`
	Organization string `json:"organization"`
	Location     string `json:"location"`
	Shade        string `json:"shade"`
}

type TaskResponse struct {
	ID          uint          `json:"id"`
	TicketID    string        `json:"ticket_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	Priority    string        `json:"priority"`
	ProjectID   uint          `json:"project_id"`
	CreatorID   uint          `json:"creator_id"`
	AssigneeID  *uint         `json:"assignee_id"`
	Assignee    *UserResponse `json:"assignee,omitempty"`
	StartDate   *time.Time    `json:"start_date"`
	EndDate     *time.Time    `json:"end_date"`
	CreatedAt   time.Time     `json:"created_at"`
}

type MemberResponse struct {
	ID        uint                 `json:"id"`
	ProjectID uint                 `json:"project_id"`
	UserID    uint                 `json:"user_id"`
	User      *UserProfileResponse `json:"user,omitempty"`
	// AssignedTaskCount backs the team-workload view on the project summary.
	AssignedTaskCount int `json:"assigned_task_count"`
}

type ProjectResponse struct {
	ID                uint             `json:"id"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Abbreviation      string           `json:"abbreviation"`
	LeadID            uint             `json:"lead_id"`
	LastCreatedTaskID uint             `json:"last_created_task_id"`
	Lead              *UserResponse    `json:"lead,omitempty"`
	Members           []MemberResponse `json:"members,omitempty"`
	Tasks             []TaskResponse   `json:"tasks,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

type ActivityResponse struct {
	ID        uint            `json:"id"`
	ProjectID uint            `json:"project_id"`
	ActorID   uint            `json:"actor_id"`
	Action    string          `json:"action"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
