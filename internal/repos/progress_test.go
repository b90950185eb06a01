package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/happypath-backend/internal/repos/testutil"
	"github.com/yungbote/happypath-backend/internal/types"
)

func TestProgressRepo_UpsertPingNeverRegresses(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	repo := NewProgressRepo(db, log)
	student := testutil.SeedUser(t, ctx, tx, "student@progress.test", types.RoleStudent)
	lessonID := "lesson-colors-1"
	now := time.Now().UTC()

	first, err := repo.UpsertPing(ctx, tx, &types.Progress{
		UserID:      student.ID,
		LessonID:    lessonID,
		PositionSec: 120,
		DurationSec: 300,
		Percent:     40,
		LastPingAt:  now,
	})
	if err != nil {
		t.Fatalf("first ping: %v", err)
	}
	if first.Percent != 40 {
		t.Fatalf("expected percent 40, got %d", first.Percent)
	}

	// A stale ping must not pull anything backwards.
	second, err := repo.UpsertPing(ctx, tx, &types.Progress{
		UserID:      student.ID,
		LessonID:    lessonID,
		PositionSec: 60,
		DurationSec: 300,
		Percent:     20,
		LastPingAt:  now.Add(time.Second),
	})
	if err != nil {
		t.Fatalf("stale ping: %v", err)
	}
	if second.Percent != 40 {
		t.Fatalf("percent regressed to %d", second.Percent)
	}
	if second.PositionSec != 120 {
		t.Fatalf("position regressed to %v", second.PositionSec)
	}
}

func TestProgressRepo_CompletedIsSticky(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	repo := NewProgressRepo(db, log)
	student := testutil.SeedUser(t, ctx, tx, "student2@progress.test", types.RoleStudent)
	lessonID := "lesson-shapes-1"
	now := time.Now().UTC()

	if _, err := repo.UpsertPing(ctx, tx, &types.Progress{
		UserID:      student.ID,
		LessonID:    lessonID,
		PositionSec: 290,
		DurationSec: 300,
		Percent:     100,
		Completed:   true,
		LastPingAt:  now,
	}); err != nil {
		t.Fatalf("completing ping: %v", err)
	}

	after, err := repo.UpsertPing(ctx, tx, &types.Progress{
		UserID:      student.ID,
		LessonID:    lessonID,
		PositionSec: 10,
		DurationSec: 300,
		Percent:     3,
		LastPingAt:  now.Add(time.Second),
	})
	if err != nil {
		t.Fatalf("ping after completion: %v", err)
	}
	if !after.Completed {
		t.Fatal("completed flag must be one-way")
	}
	if after.Percent != 100 {
		t.Fatalf("expected percent pinned to 100, got %d", after.Percent)
	}
	if after.PositionSec != after.DurationSec {
		t.Fatalf("expected position pinned to duration, got %v/%v", after.PositionSec, after.DurationSec)
	}
}

func TestProgressRepo_UpsertPingRecomputesPercentFromMergedRow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	repo := NewProgressRepo(db, log)
	student := testutil.SeedUser(t, ctx, tx, "student3@progress.test", types.RoleStudent)
	lessonID := "lesson-animals-1"
	now := time.Now().UTC()

	if _, err := repo.UpsertPing(ctx, tx, &types.Progress{
		UserID:      student.ID,
		LessonID:    lessonID,
		PositionSec: 10,
		DurationSec: 200,
		Percent:     5,
		LastPingAt:  now,
	}); err != nil {
		t.Fatalf("first ping: %v", err)
	}

	// A ping that saw a shorter duration merges against the longer known
	// one: 90s into a 200s video is 45%, not the ping's claimed 90%.
	merged, err := repo.UpsertPing(ctx, tx, &types.Progress{
		UserID:      student.ID,
		LessonID:    lessonID,
		PositionSec: 90,
		DurationSec: 100,
		Percent:     90,
		LastPingAt:  now.Add(time.Second),
	})
	if err != nil {
		t.Fatalf("second ping: %v", err)
	}
	if merged.Percent != 45 {
		t.Fatalf("percent = %d, want 45", merged.Percent)
	}
	if merged.PositionSec != 90 || merged.DurationSec != 200 {
		t.Fatalf("merged row = %v/%v, want 90/200", merged.PositionSec, merged.DurationSec)
	}
}

func TestProgressRepo_UpsertPingOnSQLite(t *testing.T) {
	sqliteDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	if err := sqliteDB.AutoMigrate(&types.Progress{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	log := testutil.Logger(t)
	repo := NewProgressRepo(sqliteDB, log)
	userID := uuid.New()
	now := time.Now().UTC()

	if _, err := repo.UpsertPing(ctx, nil, &types.Progress{
		UserID:      userID,
		LessonID:    "lesson-sqlite-1",
		PositionSec: 10,
		DurationSec: 200,
		Percent:     5,
		LastPingAt:  now,
	}); err != nil {
		t.Fatalf("first ping: %v", err)
	}
	merged, err := repo.UpsertPing(ctx, nil, &types.Progress{
		UserID:      userID,
		LessonID:    "lesson-sqlite-1",
		PositionSec: 90,
		DurationSec: 100,
		Percent:     90,
		LastPingAt:  now.Add(time.Second),
	})
	if err != nil {
		t.Fatalf("second ping: %v", err)
	}
	if merged.Percent != 45 {
		t.Fatalf("percent = %d, want 45", merged.Percent)
	}
}
