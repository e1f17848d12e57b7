package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dodo-tasks/backend/internal/models"
	"github.com/dodo-tasks/backend/internal/respond"
)

// FileStore defines the interface for export object storage.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
}

// Exporter writes JSON snapshots of a caller's tasks to object storage.
// Object keys are prefixed with the owner id, so one user can never
// address another user's snapshot.
type Exporter struct {
	tasks TaskStore
	files FileStore
	out   *respond.Writer
	now   func() time.Time
}

func NewExporter(tasks TaskStore, files FileStore, out *respond.Writer) *Exporter {
	return &Exporter{tasks: tasks, files: files, out: out, now: time.Now}
}

func exportKey(ownerID, exportID string) string {
	return fmt.Sprintf("exports/%s/%s.json", ownerID, exportID)
}

// Create snapshots the caller's tasks and uploads them.
func (e *Exporter) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(e.out, w, r, "export_tasks")
	if !ok {
		return
	}

	tasks, err := e.tasks.ListByOwner(r.Context(), userID)
	if err != nil {
		e.out.Error(w, r, "export_tasks", err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	snapshot := models.TaskExport{
		ID:         uuid.NewString(),
		Owner:      userID,
		ExportedAt: e.now().UTC(),
		Count:      len(tasks),
		Tasks:      tasks,
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		e.out.Error(w, r, "export_tasks", fmt.Errorf("encode export: %w", err))
		return
	}

	key := exportKey(userID, snapshot.ID)
	if err := e.files.Upload(r.Context(), key, data, "application/json"); err != nil {
		e.out.Error(w, r, "export_tasks", err)
		return
	}
	respond.Data(w, http.StatusCreated, "Export created", map[string]any{
		"id":    snapshot.ID,
		"key":   key,
		"count": snapshot.Count,
	})
}

// Download streams one of the caller's snapshots.
func (e *Exporter) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(e.out, w, r, "download_export")
	if !ok {
		return
	}

	exportID, err := uuid.Parse(chi.URLParam(r, "exportID"))
	if err != nil {
		e.out.Error(w, r, "download_export", fmt.Errorf("export %q: %w", chi.URLParam(r, "exportID"), models.ErrNotFound))
		return
	}

	data, contentType, err := e.files.Download(r.Context(), exportKey(userID, exportID.String()))
	if err != nil {
		e.out.Error(w, r, "download_export", err)
		return
	}
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=tasks-%s.json", exportID))
	_, _ = w.Write(data)
}
