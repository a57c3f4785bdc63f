// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/committeehub/internal/app/store/audit"
	"github.com/dalemusser/committeehub/internal/app/system/ratelimit"
	"github.com/dalemusser/committeehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination settings for a category.
const (
	SettingAll = "all" // MongoDB + zap
	SettingDB  = "db"  // MongoDB only
	SettingLog = "log" // zap only
	SettingOff = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls session start/end events.
	Auth string
	// Workflow controls committee transitions and roster changes.
	Workflow string
	// Admin controls account status changes.
	Admin string
}

// Logger records audit events to MongoDB (via audit.Store) and/or zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	return ratelimit.ClientIP(r)
}

func userAgent(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.UserAgent()
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.CommitteeID != nil {
		fields = append(fields, zap.String("committee_id", event.CommitteeID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so tests can pass nil.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryWorkflow:
		setting = l.config.Workflow
	case audit.CategoryAdmin:
		setting = l.config.Admin
	}
	if setting == "" {
		setting = SettingAll
	}
	if setting == SettingOff {
		return
	}

	if setting == SettingAll || setting == SettingLog {
		l.logToZap(event)
	}
	if (setting == SettingAll || setting == SettingDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Session events ---

// SessionStarted logs a bearer token exchanged for a session cookie.
func (l *Logger) SessionStarted(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSessionStarted,
		UserID:    &userID,
		ActorID:   &userID,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
	})
}

// SessionFailed logs a rejected token.
func (l *Logger) SessionFailed(ctx context.Context, r *http.Request, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventSessionFailed,
		IP:            getClientIP(r),
		UserAgent:     userAgent(r),
		Success:       false,
		FailureReason: reason,
	})
}

// SessionEnded logs a logout. userIDStr may be empty if the session had expired.
func (l *Logger) SessionEnded(ctx context.Context, r *http.Request, userIDStr string) {
	event := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSessionEnded,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
	}
	if oid, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
		event.UserID = &oid
		event.ActorID = &oid
	}
	l.Log(ctx, event)
}

// --- Workflow events ---

func (l *Logger) workflow(ctx context.Context, r *http.Request, eventType string, actorID primitive.ObjectID, c models.Committee, details map[string]string) {
	cid := c.ID
	if details == nil {
		details = map[string]string{}
	}
	details["committee_name"] = c.CommitteeName
	if c.Status != "" {
		details["status"] = c.Status
	}
	l.Log(ctx, audit.Event{
		Category:    audit.CategoryWorkflow,
		EventType:   eventType,
		CommitteeID: &cid,
		ActorID:     &actorID,
		IP:          getClientIP(r),
		UserAgent:   userAgent(r),
		Success:     true,
		Details:     details,
	})
}

// CommitteeCreated logs an admin opening a committee.
func (l *Logger) CommitteeCreated(ctx context.Context, r *http.Request, actorID primitive.ObjectID, c models.Committee) {
	l.workflow(ctx, r, audit.EventCommitteeCreated, actorID, c, map[string]string{
		"chairman_email": c.Chairman.Email,
	})
}

// SuggestionsSubmitted logs the chairman's proposal.
func (l *Logger) SuggestionsSubmitted(ctx context.Context, r *http.Request, actorID primitive.ObjectID, c models.Committee) {
	details := map[string]string{"member_count": strconv.Itoa(len(c.SuggestedMembers))}
	if c.SuggestedConvener != nil {
		details["convener_email"] = c.SuggestedConvener.Email
	}
	l.workflow(ctx, r, audit.EventSuggestionsSubmitted, actorID, c, details)
}

// SuggestionsApproved logs an admin committing the proposal.
func (l *Logger) SuggestionsApproved(ctx context.Context, r *http.Request, actorID primitive.ObjectID, c models.Committee) {
	l.workflow(ctx, r, audit.EventSuggestionsApproved, actorID, c, map[string]string{
		"member_count": strconv.Itoa(len(c.Members)),
	})
}

// SuggestionsRejected logs an admin sending the proposal back.
func (l *Logger) SuggestionsRejected(ctx context.Context, r *http.Request, actorID primitive.ObjectID, c models.Committee, reason string) {
	l.workflow(ctx, r, audit.EventSuggestionsRejected, actorID, c, map[string]string{
		"reason": reason,
	})
}

// CommitteeDissolved logs the chairman deleting the committee.
func (l *Logger) CommitteeDissolved(ctx context.Context, r *http.Request, actorID primitive.ObjectID, c models.Committee) {
	l.workflow(ctx, r, audit.EventCommitteeDissolved, actorID, c, nil)
}

// MemberAdded logs a direct roster addition.
func (l *Logger) MemberAdded(ctx context.Context, r *http.Request, actorID primitive.ObjectID, c models.Committee, added models.RosterEntry) {
	l.workflow(ctx, r, audit.EventMemberAdded, actorID, c, map[string]string{
		"member_email": added.Email,
		"member_role":  added.Role,
	})
}

// MemberRemoved logs a roster removal or slot vacancy. key is the chairman
// or convener slot name, or the roster entry id.
func (l *Logger) MemberRemoved(ctx context.Context, r *http.Request, actorID primitive.ObjectID, c models.Committee, key string) {
	l.workflow(ctx, r, audit.EventMemberRemoved, actorID, c, map[string]string{
		"key": key,
	})
}

// TransitionDenied logs a workflow call refused for lack of role.
func (l *Logger) TransitionDenied(ctx context.Context, r *http.Request, actorID primitive.ObjectID, committeeID *primitive.ObjectID, op, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryWorkflow,
		EventType:     audit.EventTransitionDenied,
		CommitteeID:   committeeID,
		ActorID:       &actorID,
		IP:            getClientIP(r),
		UserAgent:     userAgent(r),
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"op": op},
	})
}

// --- Admin events ---

// UserStatusChanged logs an admin changing a user's global status.
func (l *Logger) UserStatusChanged(ctx context.Context, r *http.Request, actorID, userID primitive.ObjectID, from, to string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserStatusChanged,
		UserID:    &userID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
		Details:   map[string]string{"from": from, "to": to},
	})
}

// UserDisabledChanged logs an admin disabling or re-enabling an account.
func (l *Logger) UserDisabledChanged(ctx context.Context, r *http.Request, actorID, userID primitive.ObjectID, disabled bool) {
	eventType := audit.EventUserEnabled
	if disabled {
		eventType = audit.EventUserDisabled
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		UserID:    &userID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
	})
}
