// internal/app/store/committees/committeestore.go
package committeestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/committeehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the MongoDB collection holding committees.
const Collection = "committees"

var (
	// ErrNotFound is returned when no committee has the requested id.
	ErrNotFound = errors.New("committee not found")
	// ErrVersionConflict is returned by Save when the stored version no
	// longer matches the version the caller loaded.
	ErrVersionConflict = errors.New("committee was modified concurrently")
	// ErrDuplicateID is returned by Insert when the id is already taken.
	ErrDuplicateID = errors.New("a committee with this id already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Get loads one committee.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Committee, error) {
	var c models.Committee
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Committee{}, ErrNotFound
		}
		return models.Committee{}, err
	}
	return c, nil
}

// Insert stores a new committee at version 1.
func (s *Store) Insert(ctx context.Context, c models.Committee) (models.Committee, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	c.Version = 1
	normalizeSlices(&c)

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Committee{}, ErrDuplicateID
		}
		return models.Committee{}, err
	}
	return c, nil
}

// Save replaces the stored committee if, and only if, its version still
// equals c.Version. The returned committee carries the bumped version.
func (s *Store) Save(ctx context.Context, c models.Committee) (models.Committee, error) {
	expected := c.Version
	c.Version = expected + 1
	c.UpdatedAt = time.Now().UTC()
	normalizeSlices(&c)

	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": c.ID, "version": expected}, c)
	if err != nil {
		return models.Committee{}, err
	}
	if res.MatchedCount == 0 {
		return models.Committee{}, s.missOrConflict(ctx, c.ID)
	}
	return c, nil
}

// Delete removes a committee if its stored version still equals version.
// It fails with ErrNotFound when the id is gone and ErrVersionConflict when
// another writer moved the version.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID, version int64) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "version": version})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return s.missOrConflict(ctx, id)
	}
	return nil
}

// missOrConflict explains why a version-filtered write matched nothing.
func (s *Store) missOrConflict(ctx context.Context, id primitive.ObjectID) error {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrVersionConflict
}

// ChairsAny reports whether userID chairs at least one committee.
func (s *Store) ChairsAny(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"chairman.user_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// FindByRole returns every committee where userID is chairman, convener or
// a member, ordered by name.
func (s *Store) FindByRole(ctx context.Context, userID primitive.ObjectID) ([]models.Committee, error) {
	filter := bson.M{"$or": []bson.M{
		{"chairman.user_id": userID},
		{"convener.user_id": userID},
		{"members.user_id": userID},
	}}
	return s.find(ctx, filter)
}

// List returns all committees, optionally filtered by status, ordered by name.
func (s *Store) List(ctx context.Context, status string) ([]models.Committee, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.find(ctx, filter)
}

// CountByStatus returns how many committees are in each status.
func (s *Store) CountByStatus(ctx context.Context) (map[string]int64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]int64{}
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			N      int64  `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Status] = row.N
	}
	return out, cur.Err()
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Committee, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "committee_name_ci", Value: 1},
		{Key: "_id", Value: 1},
	})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Committee{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeSlices stores empty arrays rather than null so queries on
// members.* behave the same for new and formed committees.
func normalizeSlices(c *models.Committee) {
	if c.Members == nil {
		c.Members = []models.RosterEntry{}
	}
	if c.SuggestedMembers == nil {
		c.SuggestedMembers = []models.RosterEntry{}
	}
}
