package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/committeehub/internal/app/system/notify"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type call struct {
	ids        []primitive.ObjectID
	message    string
	link       string
	dispatchID string
}

type fakeInbox struct {
	calls []call
	err   error
}

func (f *fakeInbox) InsertMany(_ context.Context, ids []primitive.ObjectID, message, link, dispatchID string) (int64, error) {
	f.calls = append(f.calls, call{ids: ids, message: message, link: link, dispatchID: dispatchID})
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(ids)), nil
}

func TestDedupe(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	got := notify.Dedupe([]primitive.ObjectID{a, primitive.NilObjectID, b, a})
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("Dedupe = %v, want [%v %v]", got, a, b)
	}
}

func TestNotify_WritesOnceWithSharedDispatchID(t *testing.T) {
	inbox := &fakeInbox{}
	n := notify.NewWithInbox(inbox, zap.NewNop())
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	ctx := notify.WithDispatchID(context.Background())
	if err := n.Notify(ctx, []primitive.ObjectID{a, b, a}, "hello", "/committees/x"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(inbox.calls) != 1 {
		t.Fatalf("InsertMany called %d times, want 1", len(inbox.calls))
	}
	c := inbox.calls[0]
	if len(c.ids) != 2 {
		t.Errorf("recipients = %d, want 2", len(c.ids))
	}
	if c.dispatchID != notify.DispatchID(ctx) {
		t.Errorf("dispatch id = %q, want %q", c.dispatchID, notify.DispatchID(ctx))
	}
	if c.message != "hello" || c.link != "/committees/x" {
		t.Errorf("unexpected payload %+v", c)
	}
}

func TestNotify_NoRecipientsIsNoop(t *testing.T) {
	inbox := &fakeInbox{}
	n := notify.NewWithInbox(inbox, nil)
	if err := n.Notify(context.Background(), []primitive.ObjectID{primitive.NilObjectID}, "x", ""); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(inbox.calls) != 0 {
		t.Errorf("InsertMany should not be called, got %d calls", len(inbox.calls))
	}
}

func TestNotify_GeneratesDispatchIDWhenMissing(t *testing.T) {
	inbox := &fakeInbox{}
	n := notify.NewWithInbox(inbox, nil)
	if err := n.Notify(context.Background(), []primitive.ObjectID{primitive.NewObjectID()}, "x", ""); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if inbox.calls[0].dispatchID == "" {
		t.Error("expected a generated dispatch id")
	}
}

func TestNotify_WrapsStoreError(t *testing.T) {
	boom := errors.New("boom")
	n := notify.NewWithInbox(&fakeInbox{err: boom}, nil)
	err := n.Notify(context.Background(), []primitive.ObjectID{primitive.NewObjectID()}, "x", "")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapping %v", err, boom)
	}
}

func TestNotify_BaseURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		link string
		want string
	}{
		{"no base", "", "/committees/x", "/committees/x"},
		{"relative made absolute", "https://hub.example.org/", "/committees/x", "https://hub.example.org/committees/x"},
		{"absolute kept", "https://hub.example.org", "https://other.example/y", "https://other.example/y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inbox := &fakeInbox{}
			n := notify.NewWithInbox(inbox, zap.NewNop())
			n.SetBaseURL(tt.base)
			if err := n.Notify(context.Background(), []primitive.ObjectID{primitive.NewObjectID()}, "m", tt.link); err != nil {
				t.Fatalf("Notify: %v", err)
			}
			if got := inbox.calls[0].link; got != tt.want {
				t.Errorf("link = %q, want %q", got, tt.want)
			}
		})
	}
}
