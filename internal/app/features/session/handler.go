// internal/app/features/session/handler.go
package session

import (
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/committeehub/internal/app/features/errors"
	"github.com/dalemusser/committeehub/internal/app/system/auditlog"
	"github.com/dalemusser/committeehub/internal/app/system/auth"
	"github.com/dalemusser/committeehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler exchanges identity-service tokens for session cookies.
// Authentication itself happens elsewhere; this only trusts a signed token.
type Handler struct {
	SessionMgr *auth.SessionManager
	Users      auth.UserFetcher
	Audit      *auditlog.Logger
	Log        *zap.Logger
}

// NewHandler creates a session handler.
func NewHandler(sessionMgr *auth.SessionManager, users auth.UserFetcher, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		SessionMgr: sessionMgr,
		Users:      users,
		Audit:      auditLog,
		Log:        logger,
	}
}

type startRequest struct {
	Token string `json:"token"`
}

// userResponse mirrors the session user.
type userResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Status          string `json:"status,omitempty"`
}

func toResponse(u *auth.SessionUser) userResponse {
	return userResponse{
		IsAuthenticated: true,
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Status:          u.Status,
	}
}

// ServeCurrent handles GET /session: the signed-in user, or
// isAuthenticated=false.
func (h *Handler) ServeCurrent(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.WriteJSON(w, http.StatusOK, userResponse{})
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, toResponse(user))
}

// HandleStart handles POST /session.
//
// The token comes from the JSON body {"token": "..."} or, when the body is
// empty, from the Authorization header or token cookie. The user named by
// the token must exist and be enabled.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	verifier := h.SessionMgr.Tokens()
	if verifier == nil {
		apierrors.Write(w, http.StatusNotFound, apierrors.CodeNotFound, "token sign-in is not configured")
		return
	}

	var req startRequest
	if !apierrors.DecodeOptionalJSON(w, r, &req) {
		return
	}
	raw := strings.TrimSpace(req.Token)
	if raw == "" {
		raw = auth.BearerToken(r)
	}
	if raw == "" {
		apierrors.Write(w, http.StatusBadRequest, apierrors.CodeValidation, "token is required")
		return
	}

	claimed, err := verifier.Verify(raw)
	if err != nil {
		h.Audit.SessionFailed(r.Context(), r, "invalid token")
		h.Log.Info("session token rejected", zap.Error(err))
		apierrors.Write(w, http.StatusUnauthorized, "unauthorized", "token is invalid or expired")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load session user")
	defer cancel()

	user := h.Users.FetchUser(ctx, claimed.ID)
	if user == nil {
		h.Audit.SessionFailed(r.Context(), r, "unknown or disabled user")
		apierrors.Write(w, http.StatusUnauthorized, "unauthorized", "account is not available")
		return
	}

	if err := h.SessionMgr.Login(w, r, user); err != nil {
		h.Log.Error("session save failed", zap.String("user_id", user.ID), zap.Error(err))
		apierrors.Write(w, http.StatusInternalServerError, apierrors.CodeInternal, "could not start session")
		return
	}

	if oid, err := primitive.ObjectIDFromHex(user.ID); err == nil {
		h.Audit.SessionStarted(r.Context(), r, oid)
	}
	h.Log.Info("session started", zap.String("user_id", user.ID))
	apierrors.WriteJSON(w, http.StatusOK, toResponse(user))
}

// HandleEnd handles DELETE /session.
func (h *Handler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if u, ok := auth.CurrentUser(r); ok {
		userID = u.ID
	}

	if err := h.SessionMgr.Logout(w, r); err != nil {
		h.Log.Warn("session clear failed", zap.Error(err))
	}
	if userID != "" {
		h.Audit.SessionEnded(r.Context(), r, userID)
	}
	w.WriteHeader(http.StatusNoContent)
}
