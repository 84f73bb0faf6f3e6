package access

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"atrium/internal/domain"
	"atrium/internal/domain/models"
	"atrium/internal/domain/models/content"
	"atrium/internal/rooms"
)

const (
	adminID     = "user-admin"
	moderatorID = "user-moderator"
	memberID    = "user-member"
	strangerID  = "user-stranger"
)

func newTestEvaluator(t *testing.T) (*rooms.StaticDirectory, *RoleBasedEvaluator) {
	t.Helper()

	directory := rooms.NewStaticDirectory()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	evaluator := NewEvaluator(directory, logger).(*RoleBasedEvaluator)
	return directory, evaluator
}

func addRoom(d *rooms.StaticDirectory, isPublic bool) string {
	roomID := d.AddRoom(models.Room{AdminID: adminID, IsPublic: isPublic})
	d.AddMember(roomID, moderatorID, models.RoleModerator)
	d.AddMember(roomID, memberID, models.RoleMember)
	return roomID
}

func TestEvaluate_NotesFolder(t *testing.T) {
	_, evaluator := newTestEvaluator(t)

	folder := &content.Folder{ID: "f1", Kind: content.KindNotes, OwnerID: memberID, Name: "Drafts"}

	tests := []struct {
		name     string
		actorID  string
		expected models.Grant
	}{
		{name: "owner has full access", actorID: memberID, expected: models.FullAccess()},
		{name: "any other user has nothing", actorID: strangerID, expected: models.Grant{}},
		{name: "room admin status is irrelevant", actorID: adminID, expected: models.Grant{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grant, err := evaluator.Evaluate(context.Background(), tt.actorID, folder)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if grant != tt.expected {
				t.Errorf("grant = %+v, want %+v", grant, tt.expected)
			}
		})
	}
}

func TestEvaluate_RoomFolder(t *testing.T) {
	directory, evaluator := newTestEvaluator(t)
	roomID := addRoom(directory, true)

	folder := &content.Folder{ID: "f1", Kind: content.KindRoom, OwnerID: adminID, RoomID: &roomID, Name: "Materials"}

	tests := []struct {
		name     string
		actorID  string
		expected models.Grant
	}{
		{name: "admin has full access without membership row", actorID: adminID, expected: models.FullAccess()},
		{name: "moderator has full access", actorID: moderatorID, expected: models.FullAccess()},
		{name: "member reads only", actorID: memberID, expected: models.ReadOnly()},
		{name: "non-member has nothing even in a public room", actorID: strangerID, expected: models.Grant{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grant, err := evaluator.Evaluate(context.Background(), tt.actorID, folder)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if grant != tt.expected {
				t.Errorf("grant = %+v, want %+v", grant, tt.expected)
			}
		})
	}
}

func TestEvaluate_RoomFolderMissingRoom(t *testing.T) {
	_, evaluator := newTestEvaluator(t)

	missing := "room-gone"
	folder := &content.Folder{ID: "f1", Kind: content.KindRoom, OwnerID: adminID, RoomID: &missing}

	_, err := evaluator.Evaluate(context.Background(), memberID, folder)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found for a folder of a deleted room, got %v", err)
	}
}

func TestEvaluate_RoomFolderWithoutRoomID(t *testing.T) {
	_, evaluator := newTestEvaluator(t)

	folder := &content.Folder{ID: "f1", Kind: content.KindRoom, OwnerID: adminID}

	_, err := evaluator.Evaluate(context.Background(), memberID, folder)
	if !errors.Is(err, domain.ErrInternal) {
		t.Errorf("expected internal error for room folder without room id, got %v", err)
	}
}

func TestEvaluateScope_Notes(t *testing.T) {
	_, evaluator := newTestEvaluator(t)

	grant, err := evaluator.EvaluateScope(context.Background(), memberID, content.NotesScope(memberID))
	if err != nil {
		t.Fatalf("EvaluateScope() error = %v", err)
	}
	if grant != models.FullAccess() {
		t.Errorf("owner grant = %+v, want full access", grant)
	}

	grant, err = evaluator.EvaluateScope(context.Background(), strangerID, content.NotesScope(memberID))
	if err != nil {
		t.Fatalf("EvaluateScope() error = %v", err)
	}
	if grant != (models.Grant{}) {
		t.Errorf("foreign grant = %+v, want none", grant)
	}
}

func TestEvaluateScope_PublicRoomReadableByNonMembers(t *testing.T) {
	directory, evaluator := newTestEvaluator(t)
	publicRoom := addRoom(directory, true)

	grant, err := evaluator.EvaluateScope(context.Background(), strangerID, content.RoomScope(publicRoom))
	if err != nil {
		t.Fatalf("EvaluateScope() error = %v", err)
	}
	if grant != models.ReadOnly() {
		t.Errorf("public room root grant = %+v, want read only", grant)
	}
}

func TestEvaluateScope_PrivateRoomHiddenFromNonMembers(t *testing.T) {
	directory, evaluator := newTestEvaluator(t)
	privateRoom := addRoom(directory, false)

	grant, err := evaluator.EvaluateScope(context.Background(), strangerID, content.RoomScope(privateRoom))
	if err != nil {
		t.Fatalf("EvaluateScope() error = %v", err)
	}
	if grant != (models.Grant{}) {
		t.Errorf("private room root grant = %+v, want none", grant)
	}
}

func TestEvaluateScope_MissingRoom(t *testing.T) {
	_, evaluator := newTestEvaluator(t)

	_, err := evaluator.EvaluateScope(context.Background(), memberID, content.RoomScope("room-gone"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found for missing room, got %v", err)
	}
}
