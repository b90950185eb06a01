package repos

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/happypath-backend/internal/repos/testutil"
	"github.com/yungbote/happypath-backend/internal/types"
)

func TestMessageRepo_UnreadCountsOnlyOthersMessages(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	repo := NewMessageRepo(db, log)

	teacher := testutil.SeedUser(t, ctx, tx, "teacher@msg.test", types.RoleTeacher)
	parent := testutil.SeedUser(t, ctx, tx, "parent@msg.test", types.RoleParent)
	convo := testutil.SeedConversation(t, ctx, tx, teacher.ID, parent.ID, nil)

	testutil.SeedMessage(t, ctx, tx, convo.ID, teacher.ID, types.RoleTeacher, "hello")
	testutil.SeedMessage(t, ctx, tx, convo.ID, teacher.ID, types.RoleTeacher, "how is it going")
	testutil.SeedMessage(t, ctx, tx, convo.ID, parent.ID, types.RoleParent, "fine thanks")

	count, err := repo.UnreadCount(ctx, tx, convo.ID, parent.ID)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 unread for parent, got %d", count)
	}

	// own messages never count as unread
	count, err = repo.UnreadCount(ctx, tx, convo.ID, teacher.ID)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 unread for teacher, got %d", count)
	}
}

func TestMessageRepo_MarkConversationReadIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	repo := NewMessageRepo(db, log)

	teacher := testutil.SeedUser(t, ctx, tx, "teacher2@msg.test", types.RoleTeacher)
	parent := testutil.SeedUser(t, ctx, tx, "parent2@msg.test", types.RoleParent)
	convo := testutil.SeedConversation(t, ctx, tx, teacher.ID, parent.ID, nil)

	testutil.SeedMessage(t, ctx, tx, convo.ID, teacher.ID, types.RoleTeacher, "one")
	testutil.SeedMessage(t, ctx, tx, convo.ID, teacher.ID, types.RoleTeacher, "two")

	now := time.Now().UTC()
	if err := repo.MarkConversationRead(ctx, tx, convo.ID, parent.ID, now); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := repo.MarkConversationRead(ctx, tx, convo.ID, parent.ID, now.Add(time.Second)); err != nil {
		t.Fatalf("second mark read: %v", err)
	}

	count, err := repo.UnreadCount(ctx, tx, convo.ID, parent.ID)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 unread after mark read, got %d", count)
	}
}
