package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/committeehub/internal/app/system/paging"
	"github.com/dalemusser/committeehub/internal/app/system/search"
	"github.com/dalemusser/committeehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the MongoDB collection holding user accounts.
const Collection = "users"

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadStatus      = errors.New(`status must be "admin"|"user"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, bson.M{"email_ci": text.Fold(strings.TrimSpace(email))})
}

// GetMany loads the users with the given ids, keyed by id. Missing ids are
// simply absent from the result.
func (s *Store) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, cur.Err()
}

// ListAdmins returns the ids of every enabled admin account. It satisfies
// the committee service's admin directory.
func (s *Store) ListAdmins(ctx context.Context) ([]primitive.ObjectID, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"status": models.UserStatusAdmin, "disabled": bson.M{"$ne": true}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = strings.TrimSpace(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = strings.TrimSpace(u.Email)
	u.EmailCI = text.Fold(u.Email)
	if u.Status == "" {
		u.Status = models.UserStatusUser
	}
	if u.Status != models.UserStatusAdmin && u.Status != models.UserStatusUser {
		return models.User{}, errBadStatus
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// SetStatus changes a user's global status (admin | user).
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if status != models.UserStatusAdmin && status != models.UserStatusUser {
		return errBadStatus
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetDisabled enables or disables an account. Disabled users are signed
// out on their next request and cannot be resolved into committees.
func (s *Store) SetDisabled(ctx context.Context, id primitive.ObjectID, disabled bool) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"disabled":   disabled,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	Status      string // admin | user
	Query       string // name prefix, or email prefix when it contains '@'
	EnabledOnly bool   // skip disabled accounts
}

// List returns one keyset page of users ordered by name, or by email when
// the query is an email search on a fixed status.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.User, paging.Result, error) {
	sortField := "full_name_ci"
	if search.EmailPivotOK(f.Query, f.Status) {
		sortField = "email_ci"
	}

	var clauses []bson.M
	if f.Status != "" {
		clauses = append(clauses, bson.M{"status": f.Status})
	}
	if f.EnabledOnly {
		clauses = append(clauses, bson.M{"disabled": bson.M{"$ne": true}})
	}
	if strings.Contains(f.Query, "@") {
		if m := search.PrefixFilter("email_ci", f.Query); m != nil {
			clauses = append(clauses, m)
		}
	} else if m := search.PrefixFilter("full_name_ci", f.Query); m != nil {
		clauses = append(clauses, m)
	}

	cfg := p.Keyset()
	if w := cfg.KeysetWindow(sortField); w != nil {
		clauses = append(clauses, w)
	}
	filter := bson.M{}
	if len(clauses) > 0 {
		filter["$and"] = clauses
	}

	find := options.Find()
	cfg.ApplyToFind(find, sortField)

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, paging.Result{}, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, paging.Result{}, err
	}
	if cfg.Direction == paging.Backward {
		paging.Reverse(users)
	}
	res := paging.Trim(&users, p)
	key := func(u models.User) string {
		if sortField == "email_ci" {
			return u.EmailCI
		}
		return u.FullNameCI
	}
	paging.BuildCursors(&res, users, key, func(u models.User) primitive.ObjectID { return u.ID })
	return users, res, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}
