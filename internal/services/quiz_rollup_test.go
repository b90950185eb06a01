package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/happypath-backend/internal/repos"
	"github.com/yungbote/happypath-backend/internal/repos/testutil"
	"github.com/yungbote/happypath-backend/internal/requestdata"
	"github.com/yungbote/happypath-backend/internal/types"
)

func TestRollupAttemptsByUser(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	later := base.Add(time.Hour)

	attempts := []*types.QuizAttempt{
		{UserID: alice, ScorePct: 40, StartedAt: base, CompletedAt: &base},
		{UserID: bob, ScorePct: 90, StartedAt: base, CompletedAt: &base},
		{UserID: alice, ScorePct: 70, StartedAt: later, CompletedAt: &later},
	}

	rollups := rollupAttemptsByUser(attempts)
	if len(rollups) != 2 {
		t.Fatalf("expected 2 rollups, got %d", len(rollups))
	}
	// best score first
	if rollups[0].UserID != bob || rollups[0].BestScorePct != 90 || rollups[0].Attempts != 1 {
		t.Fatalf("unexpected first rollup: %+v", rollups[0])
	}
	if rollups[1].UserID != alice || rollups[1].BestScorePct != 70 || rollups[1].Attempts != 2 {
		t.Fatalf("unexpected second rollup: %+v", rollups[1])
	}
	if rollups[1].LastAttemptAt == nil || !rollups[1].LastAttemptAt.Equal(later) {
		t.Fatalf("last attempt at = %v, want %v", rollups[1].LastAttemptAt, later)
	}
}

func TestRollupAttemptsByUserEmpty(t *testing.T) {
	if rollups := rollupAttemptsByUser(nil); len(rollups) != 0 {
		t.Fatalf("expected no rollups, got %d", len(rollups))
	}
}

func TestQuizServiceParentSeesOnlyLinkedChildren(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	userRepo := repos.NewUserRepo(tx, log)
	guardianRepo := repos.NewGuardianAssignmentRepo(tx, log)
	quizRepo := repos.NewQuizRepo(tx, log)
	attemptRepo := repos.NewQuizAttemptRepo(tx, log)

	guardianSvc := NewGuardianService(tx, log, userRepo, guardianRepo, nil)
	accessSvc := NewAccessService(log, guardianSvc)
	quizSvc := NewQuizService(tx, log, quizRepo, attemptRepo, accessSvc)

	admin := testutil.SeedUser(t, ctx, tx, "admin@rollup.test", types.RoleAdmin)
	teacher := testutil.SeedUser(t, ctx, tx, "teacher@rollup.test", types.RoleTeacher)
	parent := testutil.SeedUser(t, ctx, tx, "parent@rollup.test", types.RoleParent)
	child := testutil.SeedUser(t, ctx, tx, "child@rollup.test", types.RoleStudent)
	other := testutil.SeedUser(t, ctx, tx, "other@rollup.test", types.RoleStudent)
	testutil.SeedGuardianAssignment(t, ctx, tx, parent.ID, child.ID, admin.ID)

	lesson := testutil.SeedLesson(t, ctx, tx, teacher.ID, types.LessonStatusPublished)
	quiz := testutil.SeedQuiz(t, ctx, tx, lesson.ID.String(), teacher.ID, true)

	now := time.Now().UTC()
	seedAttempt := func(userID uuid.UUID, score int) {
		t.Helper()
		if _, err := attemptRepo.Create(ctx, tx, &types.QuizAttempt{
			UserID:      userID,
			QuizID:      quiz.ID,
			LessonID:    quiz.LessonID,
			StartedAt:   now,
			CompletedAt: &now,
			Answers:     datatypes.JSON("[]"),
			ScorePct:    score,
			Status:      types.AttemptStatusCompleted,
		}); err != nil {
			t.Fatalf("seed attempt: %v", err)
		}
	}
	seedAttempt(child.ID, 80)
	seedAttempt(other.ID, 95)

	asParent := requestdata.RequestData{UserID: parent.ID, Role: types.RoleParent}

	attempts, err := quizSvc.AttemptsForQuiz(ctx, asParent, quiz.ID)
	if err != nil {
		t.Fatalf("attempts for quiz: %v", err)
	}
	if len(attempts) != 1 || attempts[0].UserID != child.ID {
		t.Fatalf("parent should see only the linked child's attempts, got %d", len(attempts))
	}

	rollups, err := quizSvc.SummaryForQuiz(ctx, asParent, quiz.ID)
	if err != nil {
		t.Fatalf("summary for quiz: %v", err)
	}
	if len(rollups) != 1 || rollups[0].UserID != child.ID || rollups[0].BestScorePct != 80 {
		t.Fatalf("unexpected parent rollups: %+v", rollups)
	}

	asTeacher := requestdata.RequestData{UserID: teacher.ID, Role: types.RoleTeacher}
	rollups, err = quizSvc.SummaryForQuiz(ctx, asTeacher, quiz.ID)
	if err != nil {
		t.Fatalf("summary for quiz as teacher: %v", err)
	}
	if len(rollups) != 2 || rollups[0].BestScorePct != 95 {
		t.Fatalf("teacher rollups should cover every student best-first, got %+v", rollups)
	}
}
