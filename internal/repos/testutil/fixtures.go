package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/happypath-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, role string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Name:     "Test User",
		Email:    email,
		Password: "pw",
		Role:     role,
		IsActive: true,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedGuardianAssignment(tb testing.TB, ctx context.Context, tx *gorm.DB, parentID, studentID, assignedBy uuid.UUID) *types.GuardianAssignment {
	tb.Helper()
	ga := &types.GuardianAssignment{
		ID:         uuid.New(),
		ParentID:   parentID,
		StudentID:  studentID,
		AssignedBy: assignedBy,
	}
	if err := tx.WithContext(ctx).Create(ga).Error; err != nil {
		tb.Fatalf("seed guardian assignment: %v", err)
	}
	return ga
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, startedAt time.Time, endedAt *time.Time) *types.Session {
	tb.Helper()
	s := &types.Session{
		ID:        uuid.New(),
		UserID:    userID,
		StartedAt: startedAt,
		EndedAt:   endedAt,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func SeedAttentionEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, ts time.Time, score float64) *types.Event {
	tb.Helper()
	e := &types.Event{
		ID:             uuid.New(),
		SessionID:      sessionID,
		TS:             ts,
		Type:           types.EventTypeAttention,
		AttentionScore: &score,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed attention event: %v", err)
	}
	return e
}

func SeedEmotionEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, ts time.Time, label string) *types.Event {
	tb.Helper()
	e := &types.Event{
		ID:           uuid.New(),
		SessionID:    sessionID,
		TS:           ts,
		Type:         types.EventTypeEmotion,
		EmotionLabel: label,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed emotion event: %v", err)
	}
	return e
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, createdBy uuid.UUID, status string) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID:        uuid.New(),
		Title:     "Counting to Ten",
		Category:  "numbers",
		Level:     "beginner",
		Status:    status,
		CreatedBy: createdBy,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedQuiz(tb testing.TB, ctx context.Context, tx *gorm.DB, lessonID string, createdBy uuid.UUID, active bool) *types.Quiz {
	tb.Helper()
	q := &types.Quiz{
		ID:        uuid.New(),
		LessonID:  lessonID,
		Title:     "Quiz",
		IsActive:  active,
		CreatedBy: createdBy,
		Settings: types.QuizSettings{
			MaxAttempts:  3,
			PassingScore: 60,
		},
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

func SeedProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonID string, percent int, completed bool) *types.Progress {
	tb.Helper()
	p := &types.Progress{
		ID:         uuid.New(),
		UserID:     userID,
		LessonID:   lessonID,
		Percent:    percent,
		Completed:  completed,
		LastPingAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed progress: %v", err)
	}
	return p
}

func SeedConversation(tb testing.TB, ctx context.Context, tx *gorm.DB, teacherID, parentID uuid.UUID, childID *uuid.UUID) *types.Conversation {
	tb.Helper()
	c := &types.Conversation{
		ID:        uuid.New(),
		TeacherID: teacherID,
		ParentID:  parentID,
		ChildID:   childID,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed conversation: %v", err)
	}
	return c
}

func SeedMessage(tb testing.TB, ctx context.Context, tx *gorm.DB, convoID, senderID uuid.UUID, senderRole, text string) *types.Message {
	tb.Helper()
	m := &types.Message{
		ID:             uuid.New(),
		ConversationID: convoID,
		SenderID:       senderID,
		SenderRole:     senderRole,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed message: %v", err)
	}
	return m
}
