package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/repos"
	"github.com/yungbote/happypath-backend/internal/repos/testutil"
	"github.com/yungbote/happypath-backend/internal/types"
)

func TestGuardianServiceAssignBatchIsAllOrNothing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	userRepo := repos.NewUserRepo(tx, log)
	guardianRepo := repos.NewGuardianAssignmentRepo(tx, log)
	svc := NewGuardianService(tx, log, userRepo, guardianRepo, nil)

	admin := testutil.SeedUser(t, ctx, tx, "admin@assign.test", types.RoleAdmin)
	parentA := testutil.SeedUser(t, ctx, tx, "parent-a@assign.test", types.RoleParent)
	parentB := testutil.SeedUser(t, ctx, tx, "parent-b@assign.test", types.RoleParent)
	taken := testutil.SeedUser(t, ctx, tx, "taken@assign.test", types.RoleStudent)
	free := testutil.SeedUser(t, ctx, tx, "free@assign.test", types.RoleStudent)
	testutil.SeedGuardianAssignment(t, ctx, tx, parentA.ID, taken.ID, admin.ID)

	_, err := svc.Assign(ctx, admin.ID, parentB.ID, []uuid.UUID{taken.ID, free.ID}, "")
	if err == nil {
		t.Fatal("expected conflict for batch containing an already-assigned student")
	}
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Fatalf("expected conflict status, got: %v", err)
	}
	conflicts, ok := apiErr.Details.([]AssignConflict)
	if !ok || len(conflicts) != 1 {
		t.Fatalf("expected one conflict detail, got %+v", apiErr.Details)
	}
	if conflicts[0].StudentID != taken.ID {
		t.Fatalf("conflict names student %s, want %s", conflicts[0].StudentID, taken.ID)
	}

	// The conflict-free student must not have been linked.
	linked, err := guardianRepo.Exists(ctx, tx, parentB.ID, free.ID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if linked {
		t.Fatal("conflicting batch must commit nothing")
	}
}

func TestGuardianServiceAssignLinksWholeBatch(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	userRepo := repos.NewUserRepo(tx, log)
	guardianRepo := repos.NewGuardianAssignmentRepo(tx, log)
	svc := NewGuardianService(tx, log, userRepo, guardianRepo, nil)

	admin := testutil.SeedUser(t, ctx, tx, "admin2@assign.test", types.RoleAdmin)
	parent := testutil.SeedUser(t, ctx, tx, "parent@assign.test", types.RoleParent)
	s1 := testutil.SeedUser(t, ctx, tx, "s1@assign.test", types.RoleStudent)
	s2 := testutil.SeedUser(t, ctx, tx, "s2@assign.test", types.RoleStudent)

	assignments, err := svc.Assign(ctx, admin.ID, parent.ID, []uuid.UUID{s1.ID, s2.ID}, "fall term")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if len(assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(assignments))
	}
	for _, studentID := range []uuid.UUID{s1.ID, s2.ID} {
		linked, err := guardianRepo.Exists(ctx, tx, parent.ID, studentID)
		if err != nil {
			t.Fatalf("exists: %v", err)
		}
		if !linked {
			t.Fatalf("student %s not linked", studentID)
		}
	}
}
