package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/happypath-backend/internal/repos/testutil"
	"github.com/yungbote/happypath-backend/internal/types"
)

func TestEventRepo_ListForSessionsWindow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	repo := NewEventRepo(db, log)

	student := testutil.SeedUser(t, ctx, tx, "student@event.test", types.RoleStudent)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	session := testutil.SeedSession(t, ctx, tx, student.ID, base, nil)

	testutil.SeedAttentionEvent(t, ctx, tx, session.ID, base.Add(5*time.Minute), 0.8)
	testutil.SeedAttentionEvent(t, ctx, tx, session.ID, base.Add(30*time.Minute), 0.3)
	testutil.SeedEmotionEvent(t, ctx, tx, session.ID, base.Add(26*time.Hour), "happy")

	from := base
	to := base.Add(24 * time.Hour)
	events, err := repo.ListForSessions(ctx, tx, []uuid.UUID{session.ID}, from, to)
	if err != nil {
		t.Fatalf("list for sessions: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events inside window, got %d", len(events))
	}
	if !events[0].TS.Before(events[1].TS) {
		t.Fatal("expected events ordered by ts ascending")
	}
}

func TestEventRepo_CreateBatchAssignsIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	repo := NewEventRepo(db, log)

	student := testutil.SeedUser(t, ctx, tx, "student2@event.test", types.RoleStudent)
	session := testutil.SeedSession(t, ctx, tx, student.ID, time.Now().UTC(), nil)

	score := 0.5
	events := []*types.Event{
		{SessionID: session.ID, TS: time.Now().UTC(), Type: types.EventTypeAttention, AttentionScore: &score},
		{SessionID: session.ID, TS: time.Now().UTC(), Type: types.EventTypeEmotion, EmotionLabel: "neutral"},
	}
	created, err := repo.CreateBatch(ctx, tx, events)
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}
	for _, e := range created {
		if e.ID == uuid.Nil {
			t.Fatal("expected generated event id")
		}
	}

	count, err := repo.CountBySession(ctx, tx, session.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 events, got %d", count)
	}
}
