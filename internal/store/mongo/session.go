package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/inkpress/inkpress/internal/model"
	"github.com/inkpress/inkpress/internal/store"
)

// CreateSession persists a new session record.
func (s *Store) CreateSession(ctx context.Context, session *model.Session) error {
	return insertOne(ctx, s.col(colSessions), session)
}

// GetSession looks up a session by its token.
func (s *Store) GetSession(ctx context.Context, id string) (*model.Session, error) {
	return findOne[model.Session](ctx, s.col(colSessions), bson.D{{Key: "_id", Value: id}})
}

// DeleteSession removes a session. Deleting a session that no longer
// exists (already reaped or logged out twice) is not an error.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if err := deleteByID(ctx, s.col(colSessions), id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}
