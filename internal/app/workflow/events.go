package workflow

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventKind names the side effect a transition asks the notifier to raise.
type EventKind string

const (
	EventChairmanAppointed   EventKind = "chairman_appointed"
	EventSuggestionsReady    EventKind = "suggestions_ready"
	EventSuggestionsApproved EventKind = "suggestions_approved"
	EventConvenerAssigned    EventKind = "convener_assigned"
	EventMemberAssigned      EventKind = "member_assigned"
	EventSuggestionsRejected EventKind = "suggestions_rejected"
	EventCommitteeDissolved  EventKind = "committee_dissolved"
	EventMemberAdded         EventKind = "member_added"
)

// Event is a notification to raise after a transition commits.
//
// When ToAdmins is set, Recipients is empty and the dispatcher resolves the
// admin list at send time.
type Event struct {
	Kind       EventKind
	Recipients []primitive.ObjectID
	ToAdmins   bool
	Message    string
	Link       string
}

// CommitteeLink is the in-app path for a committee.
func CommitteeLink(id string) string {
	return fmt.Sprintf("/committees/%s", id)
}
