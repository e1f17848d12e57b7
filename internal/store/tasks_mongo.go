package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dodo-tasks/backend/internal/models"
)

// TaskStore handles task CRUD in MongoDB. Every operation is scoped to
// the owner passed in by the caller.
type TaskStore struct {
	col *mongo.Collection
	now func() time.Time
}

func NewTaskStore(db *mongo.Database) *TaskStore {
	return &TaskStore{col: db.Collection(tasksCollection), now: time.Now}
}

func (s *TaskStore) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// Create stores a new, incomplete task owned by ownerID.
func (s *TaskStore) Create(ctx context.Context, ownerID string, in models.NewTask) (*models.Task, error) {
	now := s.timestamp()
	task := &models.Task{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Description: in.Description,
		CreatedBy:   ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.col.InsertOne(ctx, task); err != nil {
		return nil, fmt.Errorf("mongo insert task: %w", err)
	}
	return task, nil
}

// ListByOwner returns the owner's tasks, newest first.
func (s *TaskStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"createdBy": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find tasks: %w", err)
	}
	defer cur.Close(ctx)

	tasks := []models.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("mongo decode tasks: %w", err)
	}
	return tasks, nil
}

// Update applies patch to the task and returns the stored result. The
// merged task is validated before anything is written.
func (s *TaskStore) Update(ctx context.Context, ownerID, taskID string, patch models.TaskPatch) (*models.Task, error) {
	oid, existing, err := s.owned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	merged := patch.Apply(*existing)
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": s.timestamp()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.IsCompleted != nil {
		set["isCompleted"] = *patch.IsCompleted
	}
	if patch.CompletedOn != nil {
		set["completedOn"] = patch.CompletedOn.UTC()
	}

	var updated models.Task
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "createdBy": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("task %s: %w", taskID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo update task: %w", err)
	}
	return &updated, nil
}

// Delete permanently removes the task and returns it.
func (s *TaskStore) Delete(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	oid, _, err := s.owned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	var removed models.Task
	err = s.col.FindOneAndDelete(ctx, bson.M{"_id": oid, "createdBy": ownerID}).Decode(&removed)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("task %s: %w", taskID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo delete task: %w", err)
	}
	return &removed, nil
}

// owned loads the task and checks it belongs to ownerID. Malformed ids
// are reported as not found.
func (s *TaskStore) owned(ctx context.Context, ownerID, taskID string) (primitive.ObjectID, *models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return oid, nil, fmt.Errorf("task %q: %w", taskID, models.ErrNotFound)
	}

	var task models.Task
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return oid, nil, fmt.Errorf("task %s: %w", taskID, models.ErrNotFound)
	}
	if err != nil {
		return oid, nil, fmt.Errorf("mongo find task: %w", err)
	}
	if task.CreatedBy != ownerID {
		return oid, nil, fmt.Errorf("task %s: %w", taskID, models.ErrForbidden)
	}
	return oid, &task, nil
}
