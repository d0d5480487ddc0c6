package service_test

import (
	"errors"
	"testing"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/repository"
	"github.com/lanzy-lanzy/tailoring/internal/testutil"
)

func TestDeleteNotificationScopedToRecipient(t *testing.T) {
	e := newEnv(t)
	testutil.SeedAdmin(t, e.db)
	testutil.SeedTailor(t, e.db, "tailor-001", "Maria Santos")

	n := &entity.Notification{
		RecipientID: "tailor-001",
		Type:        entity.NotificationTaskAssigned,
		Title:       "New task",
		Message:     "Order ORD-0001 has been assigned to you.",
	}
	if err := e.notifSvc.Notify(ctxb(), n); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	// Someone else's notification cannot be deleted.
	err := e.notifSvc.Delete(ctxb(), n.ID, "test-admin-001")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound deleting another user's notification, got %v", err)
	}

	if err := e.notifSvc.Delete(ctxb(), n.ID, "tailor-001"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var remaining int64
	e.db.Model(&entity.Notification{}).Where("recipient_id = ?", "tailor-001").Count(&remaining)
	if remaining != 0 {
		t.Errorf("Expected notification removed, found %d rows", remaining)
	}
}
