package repos

import (
	"context"
	"testing"

	"github.com/yungbote/happypath-backend/internal/repos/testutil"
	"github.com/yungbote/happypath-backend/internal/types"
)

func TestGuardianAssignmentRepo_StudentHasAtMostOneGuardian(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	repo := NewGuardianAssignmentRepo(db, log)

	admin := testutil.SeedUser(t, ctx, tx, "admin@guardian.test", types.RoleAdmin)
	parentA := testutil.SeedUser(t, ctx, tx, "parent-a@guardian.test", types.RoleParent)
	parentB := testutil.SeedUser(t, ctx, tx, "parent-b@guardian.test", types.RoleParent)
	student := testutil.SeedUser(t, ctx, tx, "student@guardian.test", types.RoleStudent)

	if _, err := repo.Create(ctx, tx, &types.GuardianAssignment{
		ParentID:   parentA.ID,
		StudentID:  student.ID,
		AssignedBy: admin.ID,
	}); err != nil {
		t.Fatalf("first assignment: %v", err)
	}

	_, err := repo.Create(ctx, tx, &types.GuardianAssignment{
		ParentID:   parentB.ID,
		StudentID:  student.ID,
		AssignedBy: admin.ID,
	})
	if err == nil {
		t.Fatal("expected unique violation for second guardian")
	}
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got: %v", err)
	}
}

func TestGuardianAssignmentRepo_ExistsAndDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	repo := NewGuardianAssignmentRepo(db, log)

	admin := testutil.SeedUser(t, ctx, tx, "admin2@guardian.test", types.RoleAdmin)
	parent := testutil.SeedUser(t, ctx, tx, "parent2@guardian.test", types.RoleParent)
	student := testutil.SeedUser(t, ctx, tx, "student2@guardian.test", types.RoleStudent)

	testutil.SeedGuardianAssignment(t, ctx, tx, parent.ID, student.ID, admin.ID)

	linked, err := repo.Exists(ctx, tx, parent.ID, student.ID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !linked {
		t.Fatal("expected link to exist")
	}

	n, err := repo.DeleteByStudent(ctx, tx, student.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row deleted, got %d", n)
	}

	linked, err = repo.Exists(ctx, tx, parent.ID, student.ID)
	if err != nil {
		t.Fatalf("exists after delete: %v", err)
	}
	if linked {
		t.Fatal("expected link gone after delete")
	}
}
