package metricsstore

import (
	"context"

	"github.com/dalemusser/committeehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals shown on the admin dashboard and exported as
// gauges.
type Counts struct {
	PendingSuggestions int64 `json:"pending_suggestions"`
	PendingApproval    int64 `json:"pending_approval"`
	Formed             int64 `json:"formed"`
	Users              int64 `json:"users"`
	Admins             int64 `json:"admins"`
	UnreadNotices      int64 `json:"unread_notifications"`
}

// Committees is the total across all persisted statuses.
func (c Counts) Committees() int64 {
	return c.PendingSuggestions + c.PendingApproval + c.Formed
}

// FetchDashboardCounts returns the high-level counts used by the dashboard.
// Intentionally tolerant: on error it returns 0 for that counter.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database) Counts {
	var out Counts

	cur, err := db.Collection("committees").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err == nil {
		defer cur.Close(ctx)
		for cur.Next(ctx) {
			var row struct {
				Status string `bson:"_id"`
				N      int64  `bson:"n"`
			}
			if cur.Decode(&row) != nil {
				continue
			}
			switch row.Status {
			case models.StatusPendingSuggestions:
				out.PendingSuggestions = row.N
			case models.StatusPendingApproval:
				out.PendingApproval = row.N
			case models.StatusFormed:
				out.Formed = row.N
			}
		}
	}

	if n, err := db.Collection("users").CountDocuments(ctx, bson.M{}); err == nil {
		out.Users = n
	}
	if n, err := db.Collection("users").CountDocuments(ctx, bson.M{"status": models.UserStatusAdmin}); err == nil {
		out.Admins = n
	}
	if n, err := db.Collection("notifications").CountDocuments(ctx, bson.M{"read": false}); err == nil {
		out.UnreadNotices = n
	}

	return out
}
