package todo

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dodo-tasks/backend/internal/auth"
	"github.com/dodo-tasks/backend/internal/models"
	"github.com/dodo-tasks/backend/internal/respond"
)

// TaskStore defines the interface for task persistence. Every call is
// scoped to the authenticated owner.
type TaskStore interface {
	Create(ctx context.Context, ownerID string, in models.NewTask) (*models.Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error)
	Update(ctx context.Context, ownerID, taskID string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) (*models.Task, error)
}

// Handler holds task HTTP handlers. All routes sit behind
// middleware.RequireAuth.
type Handler struct {
	tasks TaskStore
	out   *respond.Writer
}

func NewHandler(tasks TaskStore, out *respond.Writer) *Handler {
	return &Handler{tasks: tasks, out: out}
}

// callerID returns the authenticated user id or writes a 401.
func callerID(out *respond.Writer, w http.ResponseWriter, r *http.Request, op string) (string, bool) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		out.Error(w, r, op, models.ErrUnauthenticated)
		return "", false
	}
	return id.UserID, true
}

// Create stores a new task for the caller.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(h.out, w, r, "create_task")
	if !ok {
		return
	}

	var req models.NewTask
	if err := respond.Decode(r, &req); err != nil {
		h.out.Error(w, r, "create_task", err)
		return
	}

	task, err := h.tasks.Create(r.Context(), userID, req)
	if err != nil {
		h.out.Error(w, r, "create_task", err)
		return
	}
	respond.Data(w, http.StatusCreated, "Created New Task!", task)
}

// List returns all tasks of the caller, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(h.out, w, r, "list_tasks")
	if !ok {
		return
	}

	tasks, err := h.tasks.ListByOwner(r.Context(), userID)
	if err != nil {
		h.out.Error(w, r, "list_tasks", err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	respond.JSON(w, http.StatusOK, map[string]any{"count": len(tasks), "data": tasks})
}

// Update applies a partial update to one of the caller's tasks.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(h.out, w, r, "update_task")
	if !ok {
		return
	}

	var patch models.TaskPatch
	if err := respond.Decode(r, &patch); err != nil {
		h.out.Error(w, r, "update_task", err)
		return
	}

	task, err := h.tasks.Update(r.Context(), userID, chi.URLParam(r, "id"), patch)
	if err != nil {
		h.out.Error(w, r, "update_task", err)
		return
	}
	respond.Data(w, http.StatusOK, "Task updated successfully", task)
}

// Delete removes one of the caller's tasks and returns it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(h.out, w, r, "delete_task")
	if !ok {
		return
	}

	task, err := h.tasks.Delete(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.out.Error(w, r, "delete_task", err)
		return
	}
	respond.Data(w, http.StatusOK, "Task deleted successfully", task)
}
