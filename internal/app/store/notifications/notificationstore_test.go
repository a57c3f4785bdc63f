package notificationstore_test

import (
	"errors"
	"testing"
	"time"

	notificationstore "github.com/dalemusser/committeehub/internal/app/store/notifications"
	"github.com/dalemusser/committeehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_InsertMany(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	n, err := store.InsertMany(ctx, []primitive.ObjectID{a, b}, "hello", "/committees/1", "d-1")
	if err != nil {
		t.Fatalf("InsertMany failed: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}

	rows, err := store.ByDispatch(ctx, "d-1")
	if err != nil {
		t.Fatalf("ByDispatch failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ByDispatch returned %d rows, want 2", len(rows))
	}
	for _, r := range rows {
		if r.Read || r.Message != "hello" || r.Link != "/committees/1" {
			t.Errorf("unexpected row: %+v", r)
		}
	}
}

func TestStore_InsertMany_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	n, err := store.InsertMany(ctx, nil, "x", "", "")
	if err != nil || n != 0 {
		t.Errorf("InsertMany(nil) = %d, %v", n, err)
	}
}

func TestStore_InsertMany_ZeroRecipient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.InsertMany(ctx, []primitive.ObjectID{primitive.NewObjectID(), primitive.NilObjectID}, "x", "", "d")
	if !errors.Is(err, notificationstore.ErrZeroRecipient) {
		t.Errorf("expected ErrZeroRecipient, got %v", err)
	}
	rows, _ := store.ByDispatch(ctx, "d")
	if len(rows) != 0 {
		t.Errorf("nothing should be written, got %d", len(rows))
	}
}

func TestStore_ReadState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	for _, msg := range []string{"one", "two", "three"} {
		if _, err := store.InsertMany(ctx, []primitive.ObjectID{user}, msg, "", ""); err != nil {
			t.Fatalf("InsertMany failed: %v", err)
		}
	}

	all, err := store.ListForUser(ctx, user, false, 0)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListForUser returned %d, want 3", len(all))
	}

	if err := store.MarkRead(ctx, stranger, all[0].ID); !errors.Is(err, notificationstore.ErrNotFound) {
		t.Errorf("MarkRead by stranger: expected ErrNotFound, got %v", err)
	}
	if err := store.MarkRead(ctx, user, all[0].ID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	unread, _ := store.CountUnread(ctx, user)
	if unread != 2 {
		t.Errorf("CountUnread = %d, want 2", unread)
	}
	onlyUnread, _ := store.ListForUser(ctx, user, true, 0)
	if len(onlyUnread) != 2 {
		t.Errorf("ListForUser(unread) = %d, want 2", len(onlyUnread))
	}

	n, err := store.MarkAllRead(ctx, user)
	if err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if n != 2 {
		t.Errorf("MarkAllRead modified %d, want 2", n)
	}
	if unread, _ := store.CountUnread(ctx, user); unread != 0 {
		t.Errorf("CountUnread after MarkAllRead = %d", unread)
	}
}

func TestStore_DeleteReadBefore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	if _, err := store.InsertMany(ctx, []primitive.ObjectID{user}, "old", "", "d-old"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.MarkAllRead(ctx, user); err != nil {
		t.Fatal(err)
	}
	if _, err := store.InsertMany(ctx, []primitive.ObjectID{user}, "unread", "", "d-new"); err != nil {
		t.Fatal(err)
	}

	n, err := store.DeleteReadBefore(ctx, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("DeleteReadBefore failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	left, err := store.ListForUser(ctx, user, false, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 || left[0].Message != "unread" {
		t.Errorf("remaining = %+v, want only the unread row", left)
	}
}
