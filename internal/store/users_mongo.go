package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dodo-tasks/backend/internal/models"
)

// userDoc is the stored shape of models.User.
type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	UserName  string             `bson:"userName"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d userDoc) model() *models.User {
	return &models.User{
		ID:        d.ID.Hex(),
		FirstName: d.FirstName,
		LastName:  d.LastName,
		UserName:  d.UserName,
		Password:  d.Password,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// UserStore handles user records in MongoDB.
type UserStore struct {
	col *mongo.Collection
	now func() time.Time
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection(usersCollection), now: time.Now}
}

// CreateUser inserts u. The unique userName index turns a racing
// duplicate into models.ErrDuplicateUsername.
func (s *UserStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	now := s.now().UTC().Truncate(time.Millisecond)
	doc := userDoc{
		ID:        primitive.NewObjectID(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserName:  u.UserName,
		Password:  u.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("mongo insert user: %w", err)
	}
	return doc.model(), nil
}

func (s *UserStore) FindByUsername(ctx context.Context, userName string) (*models.User, error) {
	var doc userDoc
	err := s.col.FindOne(ctx, bson.M{"userName": userName}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find user: %w", err)
	}
	return doc.model(), nil
}
