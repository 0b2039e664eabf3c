package client

import (
	"context"
	"errors"
	"net/http"
)

// Board drives the kanban view: it submits mutations through the API client,
// folds successful responses into the local store, and maps every outcome to
// a user-visible notification. Nothing here retries; a failed mutation leaves
// local state exactly as it was and the user resubmits.
type Board struct {
	Client   *Client
	Store    *BoardStore
	Notifier Notifier
}

func NewBoard(c *Client, n Notifier) *Board {
	if n == nil {
		n = LogNotifier{}
	}

	return &Board{
		Client:   c,
		Store:    NewBoardStore(),
		Notifier: n,
	}
}

// failureMessage collapses authorization failures and missing records into
// one generic message, so the UI leaks no existence information.
func failureMessage(err error, fallback string) string {
	var apiErr *APIError

	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusNotFound:
			return fallback
		case http.StatusBadRequest:
			return apiErr.Message
		case http.StatusUnauthorized:
			return "Please sign in again"
		}
	}

	return "Something went wrong, please try again"
}

// OpenProject fetches the full board for a project and loads it into the store.
func (b *Board) OpenProject(ctx context.Context, abbrv string) error {
	project, err := b.Client.ProjectByAbbrv(ctx, abbrv)

	if err != nil {
		notify(b.Notifier, NotifyError, failureMessage(err, "Project could not be loaded"))
		return err
	}

	b.Store.Load(project)
	return nil
}

// RefreshProjects reloads the project list wholesale.
func (b *Board) RefreshProjects(ctx context.Context) error {
	projects, err := b.Client.Projects(ctx)

	if err != nil {
		notify(b.Notifier, NotifyError, failureMessage(err, "Projects could not be loaded"))
		return err
	}

	b.Store.LoadProjects(projects)
	return nil
}

// CreateTask submits a new task and, on success, appends the server's
// response to the local task list.
func (b *Board) CreateTask(ctx context.Context, in TaskCreate) error {
	task, err := b.Client.CreateTask(ctx, in)

	if err != nil {
		notify(b.Notifier, NotifyError, failureMessage(err, "Task could not be created"))
		return err
	}

	b.Store.ApplyTaskCreated(task)
	notify(b.Notifier, NotifySuccess, "Task "+task.TicketID+" created")
	return nil
}

// UpdateTask submits a sparse patch and, on success, swaps the server's
// response in for the stored copy.
func (b *Board) UpdateTask(ctx context.Context, taskID uint, patch TaskPatch) error {
	task, err := b.Client.UpdateTask(ctx, taskID, patch)

	if err != nil {
		notify(b.Notifier, NotifyError, failureMessage(err, "Task could not be updated"))
		return err
	}

	b.Store.ApplyTaskUpdated(task)
	notify(b.Notifier, NotifySuccess, "Task "+task.TicketID+" updated")
	return nil
}

// CreateProject submits a new project and appends the response locally.
func (b *Board) CreateProject(ctx context.Context, in ProjectCreate) error {
	project, err := b.Client.CreateProject(ctx, in)

	if err != nil {
		notify(b.Notifier, NotifyError, failureMessage(err, "Project could not be created"))
		return err
	}

	b.Store.ApplyProjectCreated(project)
	notify(b.Notifier, NotifySuccess, "Project "+project.Abbreviation+" created")
	return nil
}

// AddMembers invites users to the project. The member list is not reconciled
// locally; the store is marked stale and picked up on the next refetch.
func (b *Board) AddMembers(ctx context.Context, projectID uint, userIDs []uint) error {
	_, err := b.Client.AddMembers(ctx, projectID, userIDs)

	if err != nil {
		notify(b.Notifier, NotifyError, failureMessage(err, "Members could not be added"))
		return err
	}

	b.Store.MarkStale()
	notify(b.Notifier, NotifySuccess, "Members added")
	return nil
}

// RenameProject updates the project title and swaps the response in place.
func (b *Board) RenameProject(ctx context.Context, projectID uint, title string) error {
	project, err := b.Client.UpdateProjectTitle(ctx, projectID, title)

	if err != nil {
		notify(b.Notifier, NotifyError, failureMessage(err, "Project could not be renamed"))
		return err
	}

	b.Store.ApplyProjectUpdated(project)
	notify(b.Notifier, NotifySuccess, "Project renamed")
	return nil
}
