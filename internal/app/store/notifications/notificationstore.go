// internal/app/store/notifications/notificationstore.go
package notificationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/committeehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the MongoDB collection holding user notifications.
const Collection = "notifications"

var (
	// ErrNotFound is returned when a notification does not exist or belongs
	// to someone else.
	ErrNotFound = errors.New("notification not found")
	// ErrZeroRecipient is returned when a recipient list contains a zero id.
	ErrZeroRecipient = errors.New("recipient list contains a zero user id")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// InsertMany writes one notification per recipient in a single unordered
// bulk write and returns the number inserted. All rows share dispatchID.
func (s *Store) InsertMany(ctx context.Context, userIDs []primitive.ObjectID, message, link, dispatchID string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(userIDs))
	for _, uid := range userIDs {
		if uid.IsZero() {
			return 0, ErrZeroRecipient
		}
		writes = append(writes, mongo.NewInsertOneModel().SetDocument(models.Notification{
			ID:         primitive.NewObjectID(),
			UserID:     uid,
			Message:    message,
			Link:       link,
			DispatchID: dispatchID,
			CreatedAt:  now,
		}))
	}
	res, err := s.c.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if res != nil {
		return res.InsertedCount, err
	}
	return 0, err
}

// ListForUser returns a user's notifications, newest first.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, limit int64) ([]models.Notification, error) {
	filter := bson.M{"user_id": userID}
	if unreadOnly {
		filter["read"] = false
	}
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountUnread returns how many unread notifications a user has.
func (s *Store) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID, "read": false})
}

// MarkRead marks one of the user's notifications as read.
func (s *Store) MarkRead(ctx context.Context, userID, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read.
func (s *Store) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ByDispatch returns every notification written by one dispatch.
func (s *Store) ByDispatch(ctx context.Context, dispatchID string) ([]models.Notification, error) {
	cur, err := s.c.Find(ctx, bson.M{"dispatch_id": dispatchID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteReadBefore removes read notifications created before cutoff and
// returns how many were deleted. Unread rows are never pruned.
func (s *Store) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"read":       true,
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
