package client

import "github.com/taskdeck-dev/taskdeck/internal/types"

// BoardStore is the client-side shadow copy of server state. It is written by
// exactly one goroutine (the UI event loop), so it carries no locking. State
// changes only two ways: wholesale replacement from a fresh fetch, or applying
// the exact response of a mutation that just succeeded — never by guessing.
type BoardStore struct {
	Projects []types.ProjectResponse
	Tasks    []types.TaskResponse
	Members  []types.MemberResponse

	// stale is set when a mutation happened whose result the store cannot
	// reconcile locally (member addition); the next natural refetch clears it.
	stale bool
}

func NewBoardStore() *BoardStore {
	return &BoardStore{}
}

// Load replaces the board state from a full project fetch.
func (s *BoardStore) Load(project types.ProjectResponse) {
	s.Projects = []types.ProjectResponse{project}
	s.Tasks = append([]types.TaskResponse(nil), project.Tasks...)
	s.Members = append([]types.MemberResponse(nil), project.Members...)
	s.stale = false
}

// LoadProjects replaces the project list from a full fetch.
func (s *BoardStore) LoadProjects(projects []types.ProjectResponse) {
	s.Projects = append([]types.ProjectResponse(nil), projects...)
	s.stale = false
}

// ApplyTaskCreated appends the task returned by a successful create.
func (s *BoardStore) ApplyTaskCreated(task types.TaskResponse) {
	s.Tasks = append(s.Tasks, task)
}

// ApplyTaskUpdated replaces the stored task with the same ID in place. An
// update for a task the store has never seen is appended, so the board still
// converges on server state.
func (s *BoardStore) ApplyTaskUpdated(task types.TaskResponse) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == task.ID {
			s.Tasks[i] = task
			return
		}
	}

	s.Tasks = append(s.Tasks, task)
}

// ApplyProjectCreated appends the project returned by a successful create.
func (s *BoardStore) ApplyProjectCreated(project types.ProjectResponse) {
	s.Projects = append(s.Projects, project)
}

// ApplyProjectUpdated replaces the stored project with the same ID in place.
func (s *BoardStore) ApplyProjectUpdated(project types.ProjectResponse) {
	for i := range s.Projects {
		if s.Projects[i].ID == project.ID {
			s.Projects[i] = project
			return
		}
	}

	s.Projects = append(s.Projects, project)
}

// MarkStale records that local state no longer reflects the server (e.g.
// after a member addition, whose response the store does not reconcile).
func (s *BoardStore) MarkStale() {
	s.stale = true
}

// NeedsRefetch reports whether the next render should refetch before trusting
// local state.
func (s *BoardStore) NeedsRefetch() bool {
	return s.stale
}

// TaskByID finds a task in local state.
func (s *BoardStore) TaskByID(id uint) (types.TaskResponse, bool) {
	for _, task := range s.Tasks {
		if task.ID == id {
			return task, true
		}
	}

	return types.TaskResponse{}, false
}

// TasksByStatus filters the local task list for one board column.
func (s *BoardStore) TasksByStatus(status string) []types.TaskResponse {
	var out []types.TaskResponse

	for _, task := range s.Tasks {
		if task.Status == status {
			out = append(out, task)
		}
	}

	return out
}
