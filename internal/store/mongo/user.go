package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/inkpress/inkpress/internal/model"
)

// CreateUser inserts a user record. Returns store.ErrDuplicate when the
// email unique index is violated.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return insertOne(ctx, s.col(colUsers), user)
}

// GetUserByEmail looks up a user by normalized email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(colUsers), bson.D{{Key: "email", Value: email}})
}

// GetUserByID looks up a user by document ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(colUsers), bson.D{{Key: "_id", Value: id}})
}
