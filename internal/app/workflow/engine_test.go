package workflow_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/dalemusser/committeehub/internal/app/workflow"
	"github.com/dalemusser/committeehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func person(name, email string) models.IdentityRef {
	return models.IdentityRef{UserID: primitive.NewObjectID(), Name: name, Email: email}
}

func adminCaller() workflow.Caller {
	return workflow.Caller{UserID: primitive.NewObjectID(), GlobalStatus: "admin", Name: "Admin", Email: "admin@test.com"}
}

func callerFor(ref models.IdentityRef) workflow.Caller {
	return workflow.Caller{UserID: ref.UserID, GlobalStatus: "user", Name: ref.Name, Email: ref.Email}
}

func members(refs ...models.IdentityRef) []workflow.MemberInput {
	out := make([]workflow.MemberInput, 0, len(refs))
	for _, r := range refs {
		out = append(out, workflow.MemberInput{IdentityRef: r})
	}
	return out
}

func mustCreate(t *testing.T, chairman models.IdentityRef) models.Committee {
	t.Helper()
	res, err := workflow.Create(adminCaller(), workflow.CreateInput{
		Name:     "Curriculum",
		Purpose:  "Revise syllabus",
		Chairman: chairman,
	}, now)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return res.Committee
}

func mustSuggest(t *testing.T, c models.Committee, chairman models.IdentityRef, convener models.IdentityRef, ms ...models.IdentityRef) models.Committee {
	t.Helper()
	res, err := workflow.Suggest(c, callerFor(chairman), workflow.SuggestInput{Convener: convener, Members: members(ms...)}, now)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	return res.Committee
}

func TestCreate_InitialState(t *testing.T) {
	u1 := person("U1", "u1@test.com")
	res, err := workflow.Create(adminCaller(), workflow.CreateInput{
		Name:     "  Curriculum ",
		Purpose:  "Revise syllabus",
		Chairman: u1,
	}, now)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	c := res.Committee

	if c.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if c.CommitteeName != "Curriculum" {
		t.Errorf("name: got %q, want %q", c.CommitteeName, "Curriculum")
	}
	if c.Status != models.StatusPendingSuggestions {
		t.Errorf("status: got %q, want %q", c.Status, models.StatusPendingSuggestions)
	}
	if len(c.Members) != 0 {
		t.Errorf("expected no members, got %d", len(c.Members))
	}
	if c.Convener != nil {
		t.Error("expected no convener")
	}
	if c.Chairman.UserID != u1.UserID {
		t.Errorf("chairman: got %v, want %v", c.Chairman.UserID, u1.UserID)
	}
	if c.CreatedBy.Name != "Admin" {
		t.Errorf("created_by: got %q", c.CreatedBy.Name)
	}

	if len(res.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(res.Events))
	}
	ev := res.Events[0]
	if ev.Kind != workflow.EventChairmanAppointed {
		t.Errorf("event kind: got %q", ev.Kind)
	}
	if len(ev.Recipients) != 1 || ev.Recipients[0] != u1.UserID {
		t.Errorf("event recipients: got %v", ev.Recipients)
	}
	if ev.Link != "/committees/"+c.ID.Hex() {
		t.Errorf("event link: got %q", ev.Link)
	}
}

func TestCreate_Validation(t *testing.T) {
	chair := person("Chair", "chair@test.com")
	tests := []struct {
		name string
		in   workflow.CreateInput
	}{
		{"missing name", workflow.CreateInput{Purpose: "p", Chairman: chair}},
		{"blank name", workflow.CreateInput{Name: "   ", Purpose: "p", Chairman: chair}},
		{"missing purpose", workflow.CreateInput{Name: "n", Chairman: chair}},
		{"missing chairman", workflow.CreateInput{Name: "n", Purpose: "p"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := workflow.Create(adminCaller(), tt.in, now)
			if !errors.Is(err, workflow.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if len(res.Events) != 0 {
				t.Errorf("expected no events, got %d", len(res.Events))
			}
		})
	}
}

func TestCreate_NonAdminForbidden(t *testing.T) {
	chair := person("Chair", "chair@test.com")
	_, err := workflow.Create(callerFor(chair), workflow.CreateInput{Name: "n", Purpose: "p", Chairman: chair}, now)
	if !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestSuggest_NonChairmanForbidden(t *testing.T) {
	chair := person("Chair", "chair@test.com")
	c := mustCreate(t, chair)
	other := person("Other", "other@test.com")

	callers := map[string]workflow.Caller{
		"admin":    adminCaller(),
		"stranger": callerFor(other),
	}
	for name, caller := range callers {
		t.Run(name, func(t *testing.T) {
			_, err := workflow.Suggest(c, caller, workflow.SuggestInput{
				Convener: person("Conv", "conv@test.com"),
				Members:  members(person("M", "m@test.com")),
			}, now)
			if !errors.Is(err, workflow.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
			if c.Status != models.StatusPendingSuggestions {
				t.Errorf("status changed to %q", c.Status)
			}
		})
	}
}

func TestSuggest_DuplicateEmailBetweenConvenerAndMember(t *testing.T) {
	chair := person("Chair", "chair@test.com")
	c := mustCreate(t, chair)
	before := c.Clone()

	convener := person("Conv", "dup@test.com")
	member := person("Member", "DUP@test.com")
	res, err := workflow.Suggest(c, callerFor(chair), workflow.SuggestInput{
		Convener: convener,
		Members:  members(member),
	}, now)
	if !errors.Is(err, workflow.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(res.Events) != 0 {
		t.Errorf("expected no events, got %d", len(res.Events))
	}
	if !reflect.DeepEqual(before, c) {
		t.Error("committee mutated after failed suggestion")
	}
}

func TestSuggest_Validation(t *testing.T) {
	chair := person("Chair", "chair@test.com")
	c := mustCreate(t, chair)
	conv := person("Conv", "conv@test.com")
	m1 := person("M1", "m1@test.com")

	tests := []struct {
		name string
		in   workflow.SuggestInput
	}{
		{"no convener", workflow.SuggestInput{Members: members(m1)}},
		{"no members", workflow.SuggestInput{Convener: conv}},
		{"chairman as convener", workflow.SuggestInput{Convener: chair, Members: members(m1)}},
		{"chairman as member", workflow.SuggestInput{Convener: conv, Members: members(m1, chair)}},
		{"same member twice", workflow.SuggestInput{Convener: conv, Members: members(m1, m1)}},
		{"convener as member", workflow.SuggestInput{Convener: conv, Members: members(conv)}},
		{"member missing email", workflow.SuggestInput{Convener: conv, Members: members(models.IdentityRef{UserID: primitive.NewObjectID(), Name: "x"})}},
		{"bad role", workflow.SuggestInput{Convener: conv, Members: []workflow.MemberInput{{IdentityRef: m1, Role: "treasurer"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := workflow.Suggest(c, callerFor(chair), tt.in, now)
			if !errors.Is(err, workflow.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestSuggest_WrongStatus(t *testing.T) {
	chair := person("Chair", "chair@test.com")
	c := mustSuggest(t, mustCreate(t, chair), chair, person("Conv", "conv@test.com"), person("M", "m@test.com"))

	_, err := workflow.Suggest(c, callerFor(chair), workflow.SuggestInput{
		Convener: person("Conv2", "conv2@test.com"),
		Members:  members(person("M2", "m2@test.com")),
	}, now)
	if !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestSuggest_NotifiesAdmins(t *testing.T) {
	chair := person("Chair", "chair@test.com")
	c := mustCreate(t, chair)
	res, err := workflow.Suggest(c, callerFor(chair), workflow.SuggestInput{
		Convener: person("Conv", "conv@test.com"),
		Members:  []workflow.MemberInput{{IdentityRef: person("M", "m@test.com"), Role: "Member"}},
	}, now)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if res.Committee.Status != models.StatusPendingApproval {
		t.Errorf("status: got %q", res.Committee.Status)
	}
	if res.Committee.SuggestedMembers[0].Role != models.RosterRoleMember {
		t.Errorf("role: got %q", res.Committee.SuggestedMembers[0].Role)
	}
	if len(res.Events) != 1 || !res.Events[0].ToAdmins || len(res.Events[0].Recipients) != 0 {
		t.Fatalf("expected a single admin-addressed event, got %+v", res.Events)
	}
}

func TestRejectThenResubmit(t *testing.T) {
	chair := person("Chair", "chair@test.com")
	c := mustCreate(t, chair)
	c = mustSuggest(t, c, chair, person("Conv", "conv@test.com"), person("M1", "m1@test.com"), person("M2", "m2@test.com"))
	staged := c.Clone()

	res, err := workflow.Reject(c, adminCaller(), workflow.RejectInput{Reason: "needs more diversity"}, now)
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	rejected := res.Committee
	if rejected.Status != models.StatusPendingSuggestions {
		t.Errorf("status: got %q", rejected.Status)
	}
	if rejected.AdminComment == nil || *rejected.AdminComment != "needs more diversity" {
		t.Errorf("admin comment: got %v", rejected.AdminComment)
	}
	if !reflect.DeepEqual(rejected.SuggestedConvener, staged.SuggestedConvener) {
		t.Error("suggested convener changed on reject")
	}
	if !reflect.DeepEqual(rejected.SuggestedMembers, staged.SuggestedMembers) {
		t.Error("suggested members changed on reject")
	}
	if len(res.Events) != 1 || res.Events[0].Recipients[0] != chair.UserID {
		t.Fatalf("expected one event for the chairman, got %+v", res.Events)
	}

	newConv := person("Conv B", "convb@test.com")
	newMember := person("M3", "m3@test.com")
	again, err := workflow.Suggest(rejected, callerFor(chair), workflow.SuggestInput{
		Convener: newConv,
		Members:  members(newMember),
	}, now)
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	c = again.Committee
	if c.AdminComment != nil {
		t.Errorf("expected admin comment cleared, got %q", *c.AdminComment)
	}
	if c.SuggestedConvener == nil || c.SuggestedConvener.UserID != newConv.UserID {
		t.Errorf("suggested convener not replaced: %+v", c.SuggestedConvener)
	}
	if len(c.SuggestedMembers) != 1 || c.SuggestedMembers[0].UserID != newMember.UserID {
		t.Errorf("suggested members not replaced: %+v", c.SuggestedMembers)
	}
}

func TestReject_RequiresReason(t *testing.T) {
	chair := person("Chair", "chair@test.com")
	c := mustSuggest(t, mustCreate(t, chair), chair, person("Conv", "conv@test.com"), person("M", "m@test.com"))

	_, err := workflow.Reject(c, adminCaller(), workflow.RejectInput{Reason: "  "}, now)
	if !errors.Is(err, workflow.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	_, err = workflow.Reject(c, callerFor(chair), workflow.RejectInput{Reason: "no"}, now)
	if !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestApprove_WrongStatusAndTwice(t *testing.T) {
	chair := person("Chair", "chair@test.com")
	c := mustCreate(t, chair)

	if _, err := workflow.Approve(c, adminCaller(), now); !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("approve in pending_suggestions: expected ErrInvalidTransition, got %v", err)
	}

	c = mustSuggest(t, c, chair, person("Conv", "conv@test.com"), person("M", "m@test.com"))
	first, err := workflow.Approve(c, adminCaller(), now)
	if err != nil {
		t.Fatalf("first approve failed: %v", err)
	}
	_, err = workflow.Approve(first.Committee, adminCaller(), now)
	if !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("second approve: expected ErrInvalidTransition, got %v", err)
	}
}

func TestEndToEnd_CreateSuggestApprove(t *testing.T) {
	u1 := person("U1", "u1@test.com")
	u2 := person("U2", "u2@test.com")
	u3 := person("U3", "u3@test.com")
	u4 := person("U4", "u4@test.com")

	c := mustCreate(t, u1)
	if c.Status != models.StatusPendingSuggestions {
		t.Fatalf("status after create: %q", c.Status)
	}
	c = mustSuggest(t, c, u1, u2, u3, u4)
	if c.Status != models.StatusPendingApproval {
		t.Fatalf("status after suggest: %q", c.Status)
	}

	res, err := workflow.Approve(c, adminCaller(), now)
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	c = res.Committee
	if c.Status != models.StatusFormed {
		t.Errorf("status: got %q", c.Status)
	}
	if c.Convener == nil || c.Convener.UserID != u2.UserID {
		t.Errorf("convener: got %+v", c.Convener)
	}
	if len(c.Members) != 2 || c.Members[0].UserID != u3.UserID || c.Members[1].UserID != u4.UserID {
		t.Errorf("members: got %+v", c.Members)
	}
	if c.SuggestedConvener != nil || len(c.SuggestedMembers) != 0 {
		t.Error("expected staging fields cleared")
	}

	if len(res.Events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(res.Events))
	}
	want := []primitive.ObjectID{u1.UserID, u2.UserID, u3.UserID, u4.UserID}
	for i, ev := range res.Events {
		if len(ev.Recipients) != 1 || ev.Recipients[0] != want[i] {
			t.Errorf("event %d recipients: got %v, want %v", i, ev.Recipients, want[i])
		}
	}
}

func TestEndToEnd_RejectThenDissolve(t *testing.T) {
	u1 := person("U1", "u1@test.com")
	c := mustSuggest(t, mustCreate(t, u1), u1, person("U2", "u2@test.com"), person("U3", "u3@test.com"))

	res, err := workflow.Reject(c, adminCaller(), workflow.RejectInput{Reason: "duplicate member"}, now)
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if *res.Committee.AdminComment != "duplicate member" {
		t.Errorf("admin comment: got %q", *res.Committee.AdminComment)
	}
	if len(res.Events) != 1 {
		t.Errorf("expected 1 event, got %d", len(res.Events))
	}

	out, err := workflow.Dissolve(res.Committee, callerFor(u1))
	if err != nil {
		t.Fatalf("Dissolve failed: %v", err)
	}
	if !out.Dissolved() {
		t.Error("expected result to be dissolved")
	}
}

func TestDissolve_OnlyChairman(t *testing.T) {
	u1 := person("U1", "u1@test.com")
	u2 := person("U2", "u2@test.com")
	u3 := person("U3", "u3@test.com")
	c := mustSuggest(t, mustCreate(t, u1), u1, u2, u3)
	res, err := workflow.Approve(c, adminCaller(), now)
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	for name, caller := range map[string]workflow.Caller{
		"convener": callerFor(u2),
		"member":   callerFor(u3),
		"admin":    adminCaller(),
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := workflow.Dissolve(res.Committee, caller); !errors.Is(err, workflow.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		})
	}
}

func TestErrorKindAndMessage(t *testing.T) {
	_, err := workflow.Create(adminCaller(), workflow.CreateInput{}, now)
	if workflow.Kind(err) != workflow.ErrValidation {
		t.Errorf("Kind: got %v", workflow.Kind(err))
	}
	if workflow.Message(err) != "committee name is required" {
		t.Errorf("Message: got %q", workflow.Message(err))
	}
	if workflow.Kind(errors.New("boom")) != nil {
		t.Error("expected nil kind for a foreign error")
	}
}
