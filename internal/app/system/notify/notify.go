// internal/app/system/notify/notify.go
//
// Package notify delivers workflow notifications to users' inboxes.
package notify

import (
	"context"
	"fmt"
	"strings"

	notificationstore "github.com/dalemusser/committeehub/internal/app/store/notifications"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ctxKey struct{}

// WithDispatchID returns a context tagged with a fresh dispatch id. All
// notifications written under that context share it, so the rows raised by
// one transition can be found together.
func WithDispatchID(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, uuid.NewString())
}

// DispatchID returns the id stored by WithDispatchID, or "".
func DispatchID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Inbox persists notifications.
type Inbox interface {
	InsertMany(ctx context.Context, userIDs []primitive.ObjectID, message, link, dispatchID string) (int64, error)
}

// Notifier writes one inbox row per recipient.
type Notifier struct {
	inbox   Inbox
	log     *zap.Logger
	baseURL string
}

// New creates a Notifier backed by the notifications store.
func New(store *notificationstore.Store, log *zap.Logger) *Notifier {
	return NewWithInbox(store, log)
}

// NewWithInbox creates a Notifier over any Inbox.
func NewWithInbox(inbox Inbox, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{inbox: inbox, log: log}
}

// SetBaseURL makes in-app paths ("/committees/…") absolute. Links that
// already carry a scheme are stored as given.
func (n *Notifier) SetBaseURL(base string) {
	n.baseURL = strings.TrimRight(base, "/")
}

func (n *Notifier) absolute(link string) string {
	if n.baseURL == "" || !strings.HasPrefix(link, "/") {
		return link
	}
	return n.baseURL + link
}

// Notify sends message to every recipient. Zero ids and duplicates are
// dropped. A partial write is reported as an error naming how many rows
// made it.
func (n *Notifier) Notify(ctx context.Context, recipients []primitive.ObjectID, message, link string) error {
	ids := Dedupe(recipients)
	if len(ids) == 0 {
		return nil
	}

	dispatchID := DispatchID(ctx)
	if dispatchID == "" {
		dispatchID = uuid.NewString()
	}

	link = n.absolute(link)
	inserted, err := n.inbox.InsertMany(ctx, ids, message, link, dispatchID)
	if err != nil {
		n.log.Warn("notification write failed",
			zap.String("dispatch_id", dispatchID),
			zap.Int("recipients", len(ids)),
			zap.Int64("inserted", inserted),
			zap.Error(err))
		return fmt.Errorf("notify %d recipients (%d written): %w", len(ids), inserted, err)
	}

	n.log.Debug("notifications written",
		zap.String("dispatch_id", dispatchID),
		zap.Int64("inserted", inserted),
		zap.String("link", link))
	return nil
}

// Dedupe returns ids without zero values or repeats, keeping first-seen order.
func Dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
