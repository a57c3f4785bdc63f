// internal/app/features/committees/handler.go
package committees

import (
	"context"

	"github.com/dalemusser/committeehub/internal/app/committeesvc"
	"github.com/dalemusser/committeehub/internal/app/store/audit"
	"github.com/dalemusser/committeehub/internal/app/system/auditlog"
	"github.com/dalemusser/committeehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserDirectory resolves the user ids named in a request to accounts.
type UserDirectory interface {
	GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
}

// HistoryReader returns a committee's audit trail, newest first.
type HistoryReader interface {
	GetByCommittee(ctx context.Context, committeeID primitive.ObjectID, limit int64) ([]audit.Event, error)
}

// Handler is the shared dependency container for the committees feature.
// Transitions go through the service; the handler only decodes requests,
// resolves people and records audit events.
type Handler struct {
	Svc     *committeesvc.Service
	Users   UserDirectory
	History HistoryReader
	Audit   *auditlog.Logger
	Log     *zap.Logger
}

// NewHandler constructs a committees Handler. history and audit may be nil.
func NewHandler(svc *committeesvc.Service, users UserDirectory, history HistoryReader, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:     svc,
		Users:   users,
		History: history,
		Audit:   auditLog,
		Log:     logger,
	}
}
