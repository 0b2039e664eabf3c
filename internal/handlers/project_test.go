package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck-dev/taskdeck/internal/types"
)

func TestCreateProjectLeadIsSoleMember(t *testing.T) {
	r := setupTest(t)

	c, userID := register(t, r, "Ada", "ada@example.com")

	w := c.do(http.MethodPost, "/api/projects", gin.H{
		"title":        "Alpha",
		"description":  "d",
		"abbreviation": "ALP",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	project := decode[types.ProjectResponse](t, w)

	assert.Equal(t, "Alpha", project.Title)
	assert.Equal(t, "ALP", project.Abbreviation)
	assert.Equal(t, userID, project.LeadID)
	assert.Equal(t, uint(0), project.LastCreatedTaskID)
	require.Len(t, project.Members, 1)
	assert.Equal(t, userID, project.Members[0].UserID)
}

func TestCreateProjectRequiresAllFields(t *testing.T) {
	r := setupTest(t)

	c, _ := register(t, r, "Ada", "ada@example.com")

	for _, body := range []gin.H{
		{"description": "d", "abbreviation": "ALP"},
		{"title": "Alpha", "abbreviation": "ALP"},
		{"title": "Alpha", "description": "d"},
	} {
		w := c.do(http.MethodPost, "/api/projects", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, fmt.Sprintf("body %v", body))
	}
}

func TestCreateProjectDuplicateAbbreviation(t *testing.T) {
	r := setupTest(t)

	c, _ := register(t, r, "Ada", "ada@example.com")
	createProject(t, c, "Alpha", "ALP")

	// Abbreviations are normalized to upper case before the uniqueness check.
	w := c.do(http.MethodPost, "/api/projects", gin.H{
		"title":        "Alpine",
		"description":  "d",
		"abbreviation": "alp",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Abbreviation already in use")
}

func TestListProjectsScopedToMembership(t *testing.T) {
	r := setupTest(t)

	ada, _ := register(t, r, "Ada", "ada@example.com")
	bob, _ := register(t, r, "Bob", "bob@example.com")

	createProject(t, ada, "Alpha", "ALP")
	createProject(t, bob, "Beta", "BET")

	w := ada.do(http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)

	projects := decode[[]types.ProjectResponse](t, w)
	require.Len(t, projects, 1)
	assert.Equal(t, "ALP", projects[0].Abbreviation)
}

func TestGetProjectByAbbrv(t *testing.T) {
	r := setupTest(t)

	c, userID := register(t, r, "Ada", "ada@example.com")
	projectID := createProject(t, c, "Alpha", "ALP")

	w := c.do(http.MethodPost, "/api/tasks", gin.H{
		"title":       "First",
		"description": "d",
		"project_id":  projectID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = c.do(http.MethodGet, "/api/projects/by-abbrv/ALP", nil)
	require.Equal(t, http.StatusOK, w.Code)

	project := decode[types.ProjectResponse](t, w)

	assert.Equal(t, projectID, project.ID)
	require.NotNil(t, project.Lead)
	assert.Equal(t, userID, project.Lead.ID)
	require.Len(t, project.Tasks, 1)
	assert.Equal(t, "ALP-1", project.Tasks[0].TicketID)
	require.NotNil(t, project.Tasks[0].Assignee)
	require.Len(t, project.Members, 1)
	assert.Equal(t, 1, project.Members[0].AssignedTaskCount)
}

func TestGetProjectByAbbrvNotFound(t *testing.T) {
	r := setupTest(t)

	c, _ := register(t, r, "Ada", "ada@example.com")

	w := c.do(http.MethodGet, "/api/projects/by-abbrv/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddMembersByLead(t *testing.T) {
	r := setupTest(t)

	ada, _ := register(t, r, "Ada", "ada@example.com")
	_, bobID := register(t, r, "Bob", "bob@example.com")

	projectID := createProject(t, ada, "Alpha", "ALP")

	w := ada.do(http.MethodPost, fmt.Sprintf("/api/projects/%d/members", projectID), gin.H{
		"user_ids": []uint{bobID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	project := decode[types.ProjectResponse](t, w)
	assert.Len(t, project.Members, 2)
}

func TestAddMembersRejectsNonLead(t *testing.T) {
	r := setupTest(t)

	ada, _ := register(t, r, "Ada", "ada@example.com")
	bob, bobID := register(t, r, "Bob", "bob@example.com")
	_, eveID := register(t, r, "Eve", "eve@example.com")

	projectID := createProject(t, ada, "Alpha", "ALP")

	// Bob is a member but not the lead; the failure is indistinguishable
	// from the project not existing.
	w := ada.do(http.MethodPost, fmt.Sprintf("/api/projects/%d/members", projectID), gin.H{
		"user_ids": []uint{bobID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = bob.do(http.MethodPost, fmt.Sprintf("/api/projects/%d/members", projectID), gin.H{
		"user_ids": []uint{eveID},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddMembersRejectsDuplicate(t *testing.T) {
	r := setupTest(t)

	ada, _ := register(t, r, "Ada", "ada@example.com")
	_, bobID := register(t, r, "Bob", "bob@example.com")

	projectID := createProject(t, ada, "Alpha", "ALP")

	w := ada.do(http.MethodPost, fmt.Sprintf("/api/projects/%d/members", projectID), gin.H{
		"user_ids": []uint{bobID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ada.do(http.MethodPost, fmt.Sprintf("/api/projects/%d/members", projectID), gin.H{
		"user_ids": []uint{bobID},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already a member")
}

func TestUpdateTitleLeadOnly(t *testing.T) {
	r := setupTest(t)

	ada, _ := register(t, r, "Ada", "ada@example.com")
	bob, bobID := register(t, r, "Bob", "bob@example.com")

	projectID := createProject(t, ada, "Alpha", "ALP")

	w := ada.do(http.MethodPost, fmt.Sprintf("/api/projects/%d/members", projectID), gin.H{
		"user_ids": []uint{bobID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = bob.do(http.MethodPatch, fmt.Sprintf("/api/projects/%d/title", projectID), gin.H{
		"title": "Hijacked",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ada.do(http.MethodPatch, fmt.Sprintf("/api/projects/%d/title", projectID), gin.H{
		"title": "Alpha v2",
	})
	require.Equal(t, http.StatusOK, w.Code)

	project := decode[types.ProjectResponse](t, w)
	assert.Equal(t, "Alpha v2", project.Title)
	assert.Equal(t, "Alpha v2", loadProject(t, projectID).Title)
}

func TestProjectActivityFeed(t *testing.T) {
	r := setupTest(t)

	ada, _ := register(t, r, "Ada", "ada@example.com")
	projectID := createProject(t, ada, "Alpha", "ALP")

	w := ada.do(http.MethodPost, "/api/tasks", gin.H{
		"title":       "First",
		"description": "d",
		"project_id":  projectID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ada.do(http.MethodGet, fmt.Sprintf("/api/projects/%d/activity", projectID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	activities := decode[[]types.ActivityResponse](t, w)
	require.Len(t, activities, 2)

	actions := []string{activities[0].Action, activities[1].Action}
	assert.Contains(t, actions, "project.created")
	assert.Contains(t, actions, "task.created")

	// Non-members get the same generic failure as a missing project.
	eve, _ := register(t, r, "Eve", "eve@example.com")
	w = eve.do(http.MethodGet, fmt.Sprintf("/api/projects/%d/activity", projectID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
