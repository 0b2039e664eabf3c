package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"github.com/taskdeck-dev/taskdeck/internal/types"
)

// Client talks to the taskdeck API. The session cookie issued at login lives
// in the jar, so one Client is one signed-in user.
type Client struct {
	baseURL string
	http    *http.Client
}

// APIError is a non-2xx response, carrying the server's error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)

	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (c *Client) do(ctx context.Context, method string, path string, body interface{}, out interface{}) error {
	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)

		if err != nil {
			return err
		}

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)

	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}

		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = resp.Status
		}

		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type userEnvelope struct {
	User types.UserResponse `json:"user"`
}

func (c *Client) Register(ctx context.Context, name string, email string, password string) (types.UserResponse, error) {
	body := map[string]string{"name": name, "email": email, "password": password}

	var env userEnvelope

	err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &env)

	return env.User, err
}

func (c *Client) Login(ctx context.Context, email string, password string) (types.UserResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var env userEnvelope

	err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &env)

	return env.User, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context) (types.UserResponse, error) {
	var env userEnvelope

	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &env)

	return env.User, err
}

func (c *Client) Projects(ctx context.Context) ([]types.ProjectResponse, error) {
	var projects []types.ProjectResponse

	err := c.do(ctx, http.MethodGet, "/api/projects", nil, &projects)

	return projects, err
}

func (c *Client) ProjectByAbbrv(ctx context.Context, abbrv string) (types.ProjectResponse, error) {
	var project types.ProjectResponse

	err := c.do(ctx, http.MethodGet, "/api/projects/by-abbrv/"+abbrv, nil, &project)

	return project, err
}

type ProjectCreate struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Abbreviation string `json:"abbreviation"`
}

func (c *Client) CreateProject(ctx context.Context, in ProjectCreate) (types.ProjectResponse, error) {
	var project types.ProjectResponse

	err := c.do(ctx, http.MethodPost, "/api/projects", in, &project)

	return project, err
}

func (c *Client) AddMembers(ctx context.Context, projectID uint, userIDs []uint) (types.ProjectResponse, error) {
	body := map[string][]uint{"user_ids": userIDs}

	var project types.ProjectResponse

	err := c.do(ctx, http.MethodPost, projectPath(projectID, "/members"), body, &project)

	return project, err
}

func (c *Client) UpdateProjectTitle(ctx context.Context, projectID uint, title string) (types.ProjectResponse, error) {
	body := map[string]string{"title": title}

	var project types.ProjectResponse

	err := c.do(ctx, http.MethodPatch, projectPath(projectID, "/title"), body, &project)

	return project, err
}

func (c *Client) ProjectMembers(ctx context.Context, projectID uint) ([]types.MemberResponse, error) {
	var members []types.MemberResponse

	err := c.do(ctx, http.MethodGet, projectPath(projectID, "/members"), nil, &members)

	return members, err
}

func (c *Client) ProjectActivity(ctx context.Context, projectID uint) ([]types.ActivityResponse, error) {
	var activities []types.ActivityResponse

	err := c.do(ctx, http.MethodGet, projectPath(projectID, "/activity"), nil, &activities)

	return activities, err
}

func (c *Client) UsersNotInProject(ctx context.Context, projectID uint) ([]types.UserProfileResponse, error) {
	var users []types.UserProfileResponse

	err := c.do(ctx, http.MethodGet, projectPath(projectID, "/users/available"), nil, &users)

	return users, err
}

type TaskCreate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ProjectID   uint   `json:"project_id"`
	AssigneeID  *uint  `json:"assignee_id,omitempty"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

func (c *Client) CreateTask(ctx context.Context, in TaskCreate) (types.TaskResponse, error) {
	var task types.TaskResponse

	err := c.do(ctx, http.MethodPost, "/api/tasks", in, &task)

	return task, err
}

// TaskPatch mirrors the server's sparse-patch contract: nil fields are
// omitted from the request entirely and leave the stored values untouched.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Status      *string    `json:"status,omitempty"`
	AssigneeID  *uint      `json:"assignee_id,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

func (c *Client) UpdateTask(ctx context.Context, taskID uint, patch TaskPatch) (types.TaskResponse, error) {
	var task types.TaskResponse

	err := c.do(ctx, http.MethodPatch, "/api/tasks/"+formatID(taskID), patch, &task)

	return task, err
}

func (c *Client) UpdateTaskAssignee(ctx context.Context, taskID uint, assigneeID uint) (types.TaskResponse, error) {
	body := map[string]uint{"assignee_id": assigneeID}

	var task types.TaskResponse

	err := c.do(ctx, http.MethodPatch, "/api/tasks/"+formatID(taskID)+"/assignee", body, &task)

	return task, err
}

func (c *Client) LinkedTasks(ctx context.Context) ([]types.TaskResponse, error) {
	var tasks []types.TaskResponse

	err := c.do(ctx, http.MethodGet, "/api/tasks/linked", nil, &tasks)

	return tasks, err
}

func (c *Client) AssignedTasks(ctx context.Context) ([]types.TaskResponse, error) {
	var tasks []types.TaskResponse

	err := c.do(ctx, http.MethodGet, "/api/tasks/assigned", nil, &tasks)

	return tasks, err
}

type ProfilePatch struct {
	Name         *string `json:"name,omitempty"`
	Department   *string `json:"department,omitempty"`
	Organization *string `json:"organization,omitempty"`
	Location     *string `json:"location,omitempty"`
	Shade        *string `json:"shade,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, patch ProfilePatch) (types.UserProfileResponse, error) {
	var env struct {
		User types.UserProfileResponse `json:"user"`
	}

	err := c.do(ctx, http.MethodPatch, "/api/users/me/profile", patch, &env)

	return env.User, err
}

func projectPath(projectID uint, suffix string) string {
	return "/api/projects/" + formatID(projectID) + suffix
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
