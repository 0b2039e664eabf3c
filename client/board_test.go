package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck-dev/taskdeck/internal/types"
)

func stubServer(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func newBoard(t *testing.T, srv *httptest.Server) (*Board, *CollectNotifier) {
	t.Helper()

	c, err := New(srv.URL)
	require.NoError(t, err)

	sink := &CollectNotifier{}
	return NewBoard(c, sink), sink
}

func TestBoardCreateTaskAppliesAndNotifies(t *testing.T) {
	srv := stubServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/tasks": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, types.TaskResponse{ID: 1, TicketID: "ALP-1", Status: types.StatusTodo})
		},
	})

	board, sink := newBoard(t, srv)

	err := board.CreateTask(context.Background(), TaskCreate{Title: "First", ProjectID: 1})
	require.NoError(t, err)

	require.Len(t, board.Store.Tasks, 1)
	assert.Equal(t, "ALP-1", board.Store.Tasks[0].TicketID)

	require.Len(t, sink.Notifications, 1)
	assert.Equal(t, NotifySuccess, sink.Notifications[0].Kind)
	assert.Contains(t, sink.Notifications[0].Message, "ALP-1")
	assert.NotEmpty(t, sink.Notifications[0].ID)
}

func TestBoardUpdateTaskReplacesInPlace(t *testing.T) {
	srv := stubServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"PATCH /api/tasks/1": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, types.TaskResponse{ID: 1, TicketID: "ALP-1", Status: types.StatusDone})
		},
	})

	board, sink := newBoard(t, srv)
	board.Store.ApplyTaskCreated(types.TaskResponse{ID: 1, TicketID: "ALP-1", Status: types.StatusTodo})

	status := types.StatusDone
	err := board.UpdateTask(context.Background(), 1, TaskPatch{Status: &status})
	require.NoError(t, err)

	require.Len(t, board.Store.Tasks, 1)
	assert.Equal(t, types.StatusDone, board.Store.Tasks[0].Status)
	require.Len(t, sink.Notifications, 1)
	assert.Equal(t, NotifySuccess, sink.Notifications[0].Kind)
}

// A rejected mutation leaves local state untouched and surfaces a generic
// failure that leaks nothing about why.
func TestBoardFailureLeavesStateAndCollapsesMessage(t *testing.T) {
	srv := stubServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"PATCH /api/tasks/1": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Task not found"})
		},
	})

	board, sink := newBoard(t, srv)
	board.Store.ApplyTaskCreated(types.TaskResponse{ID: 1, TicketID: "ALP-1", Status: types.StatusTodo})

	status := types.StatusDone
	err := board.UpdateTask(context.Background(), 1, TaskPatch{Status: &status})
	require.Error(t, err)

	assert.Equal(t, types.StatusTodo, board.Store.Tasks[0].Status)

	require.Len(t, sink.Notifications, 1)
	assert.Equal(t, NotifyError, sink.Notifications[0].Kind)
	assert.Equal(t, "Task could not be updated", sink.Notifications[0].Message)
}

func TestBoardValidationErrorSurfacesServerMessage(t *testing.T) {
	srv := stubServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/projects": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Abbreviation already in use"})
		},
	})

	board, sink := newBoard(t, srv)

	err := board.CreateProject(context.Background(), ProjectCreate{Title: "Alpha", Description: "d", Abbreviation: "ALP"})
	require.Error(t, err)

	assert.Empty(t, board.Store.Projects)
	require.Len(t, sink.Notifications, 1)
	assert.Equal(t, "Abbreviation already in use", sink.Notifications[0].Message)
}

func TestBoardAddMembersMarksStale(t *testing.T) {
	srv := stubServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/projects/1/members": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, types.ProjectResponse{ID: 1})
		},
	})

	board, sink := newBoard(t, srv)

	err := board.AddMembers(context.Background(), 1, []uint{2, 3})
	require.NoError(t, err)

	assert.True(t, board.Store.NeedsRefetch())
	require.Len(t, sink.Notifications, 1)
	assert.Equal(t, NotifySuccess, sink.Notifications[0].Kind)
}

func TestBoardOpenProjectLoadsStore(t *testing.T) {
	srv := stubServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/projects/by-abbrv/ALP": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, types.ProjectResponse{
				ID:           1,
				Abbreviation: "ALP",
				Tasks: []types.TaskResponse{
					{ID: 1, TicketID: "ALP-1", Status: types.StatusTodo},
					{ID: 2, TicketID: "ALP-2", Status: types.StatusDone},
				},
			})
		},
	})

	board, _ := newBoard(t, srv)

	require.NoError(t, board.OpenProject(context.Background(), "ALP"))

	assert.Len(t, board.Store.Tasks, 2)
	assert.Len(t, board.Store.TasksByStatus(types.StatusDone), 1)
}
