package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is a single to-do item stored in MongoDB. CreatedBy is fixed at
// creation from the authenticated caller and never changes afterwards.
type Task struct {
	ID          primitive.ObjectID `json:"_id"                   bson:"_id,omitempty"`
	Title       string             `json:"title"                 bson:"title"`
	Description string             `json:"description"           bson:"description"`
	IsCompleted bool               `json:"isCompleted"           bson:"isCompleted"`
	CompletedOn *time.Time         `json:"completedOn,omitempty" bson:"completedOn,omitempty"`
	CreatedBy   string             `json:"createdBy"             bson:"createdBy"`
	CreatedAt   time.Time          `json:"createdAt"             bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"             bson:"updatedAt"`
}

// Validate checks the fields every stored task must carry.
func (t *Task) Validate() error {
	var missing []string
	if strings.TrimSpace(t.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(t.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, " and "))
	}
	return nil
}

// NewTask is the JSON body for POST /todo. Owner fields in the body are
// not decoded; the owner always comes from the bearer token.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TaskPatch is the JSON body for PATCH /todo/{id}. Nil fields are left
// untouched.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	IsCompleted *bool      `json:"isCompleted,omitempty"`
	CompletedOn *time.Time `json:"completedOn,omitempty"`
}

// Empty reports whether the patch carries no field at all.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.IsCompleted == nil && p.CompletedOn == nil
}

// Apply returns a copy of t with the supplied fields replaced.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	if p.CompletedOn != nil {
		on := *p.CompletedOn
		t.CompletedOn = &on
	}
	return t
}

// TaskExport is a point-in-time snapshot of a user's tasks written to
// object storage.
type TaskExport struct {
	ID         string    `json:"id"`
	Owner      string    `json:"owner"`
	ExportedAt time.Time `json:"exportedAt"`
	Count      int       `json:"count"`
	Tasks      []Task    `json:"tasks"`
}
