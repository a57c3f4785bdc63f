// internal/app/features/auditlog/types.go
package auditlog

import "github.com/dalemusser/committeehub/internal/app/store/audit"

// listResponse is one page of audit events, newest first.
type listResponse struct {
	Events     []audit.Event `json:"events"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	HasPrev    bool          `json:"has_prev"`
	HasNext    bool          `json:"has_next"`
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventSessionStarted,
		audit.EventSessionFailed,
		audit.EventSessionEnded,
	}

	workflowEvents := []string{
		audit.EventCommitteeCreated,
		audit.EventSuggestionsSubmitted,
		audit.EventSuggestionsApproved,
		audit.EventSuggestionsRejected,
		audit.EventCommitteeDissolved,
		audit.EventMemberAdded,
		audit.EventMemberRemoved,
		audit.EventTransitionDenied,
	}

	adminEvents := []string{
		audit.EventUserStatusChanged,
		audit.EventUserDisabled,
		audit.EventUserEnabled,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryWorkflow:
		return workflowEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(workflowEvents)+len(adminEvents))
		all = append(all, authEvents...)
		all = append(all, workflowEvents...)
		all = append(all, adminEvents...)
		return all
	default:
		return nil
	}
}
