package services

import (
	"context"
	"testing"

	"github.com/yungbote/happypath-backend/internal/repos"
	"github.com/yungbote/happypath-backend/internal/repos/testutil"
	"github.com/yungbote/happypath-backend/internal/types"
)

func TestUserServiceDeleteRemovesGuardianLinks(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	userRepo := repos.NewUserRepo(tx, log)
	guardianRepo := repos.NewGuardianAssignmentRepo(tx, log)
	svc := NewUserService(tx, log, userRepo, guardianRepo)

	admin := testutil.SeedUser(t, ctx, tx, "admin@userdelete.test", types.RoleAdmin)
	parent := testutil.SeedUser(t, ctx, tx, "parent@userdelete.test", types.RoleParent)
	student := testutil.SeedUser(t, ctx, tx, "student@userdelete.test", types.RoleStudent)
	testutil.SeedGuardianAssignment(t, ctx, tx, parent.ID, student.ID, admin.ID)

	if err := svc.Delete(ctx, student.ID); err != nil {
		t.Fatalf("delete student: %v", err)
	}

	linked, err := guardianRepo.Exists(ctx, tx, parent.ID, student.ID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if linked {
		t.Fatal("deleting a student must remove their guardian link")
	}
	if _, err := userRepo.GetByID(ctx, tx, student.ID); !repos.IsNotFound(err) {
		t.Fatalf("expected student gone, got: %v", err)
	}
}

func TestUserServiceDeleteParentRemovesAllLinks(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	userRepo := repos.NewUserRepo(tx, log)
	guardianRepo := repos.NewGuardianAssignmentRepo(tx, log)
	svc := NewUserService(tx, log, userRepo, guardianRepo)

	admin := testutil.SeedUser(t, ctx, tx, "admin2@userdelete.test", types.RoleAdmin)
	parent := testutil.SeedUser(t, ctx, tx, "parent2@userdelete.test", types.RoleParent)
	s1 := testutil.SeedUser(t, ctx, tx, "s1@userdelete.test", types.RoleStudent)
	s2 := testutil.SeedUser(t, ctx, tx, "s2@userdelete.test", types.RoleStudent)
	testutil.SeedGuardianAssignment(t, ctx, tx, parent.ID, s1.ID, admin.ID)
	testutil.SeedGuardianAssignment(t, ctx, tx, parent.ID, s2.ID, admin.ID)

	if err := svc.Delete(ctx, parent.ID); err != nil {
		t.Fatalf("delete parent: %v", err)
	}

	remaining, err := guardianRepo.ListByParent(ctx, tx, parent.ID)
	if err != nil {
		t.Fatalf("list by parent: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no assignments left, got %d", len(remaining))
	}
}
