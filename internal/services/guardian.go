package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/happypath-backend/internal/apierr"
	redisclient "github.com/yungbote/happypath-backend/internal/clients/redis"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/repos"
	"github.com/yungbote/happypath-backend/internal/types"
)

// AssignConflict names one student of a bulk assignment that cannot be
// linked, carried on the Conflict error as details.
type AssignConflict struct {
	StudentID uuid.UUID `json:"student_id"`
	Reason    string    `json:"reason"`
}

type GuardianService interface {
	// Assign links every student to the parent or none of them: any
	// conflicting student fails the whole batch with a Conflict error
	// listing the conflicts, and nothing is committed.
	Assign(ctx context.Context, adminID, parentID uuid.UUID, studentIDs []uuid.UUID, note string) ([]*types.GuardianAssignment, error)
	Unassign(ctx context.Context, assignmentID uuid.UUID) error
	ChildrenOf(ctx context.Context, parentID uuid.UUID) ([]*types.User, error)
	GuardianOf(ctx context.Context, studentID uuid.UUID) (*types.User, error)
	IsLinked(ctx context.Context, parentID, studentID uuid.UUID) (bool, error)
	ListAssignments(ctx context.Context, filter repos.GuardianListFilter) ([]*types.GuardianAssignment, error)
}

type guardianService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	guardianRepo repos.GuardianAssignmentRepo
	linkCache    redisclient.LinkCache
}

func NewGuardianService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	guardianRepo repos.GuardianAssignmentRepo,
	linkCache redisclient.LinkCache,
) GuardianService {
	serviceLog := log.With("service", "GuardianService")
	return &guardianService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		guardianRepo: guardianRepo,
		linkCache:    linkCache,
	}
}

func (gs *guardianService) Assign(ctx context.Context, adminID, parentID uuid.UUID, studentIDs []uuid.UUID, note string) ([]*types.GuardianAssignment, error) {
	if len(studentIDs) == 0 {
		return nil, apierr.Validation("student_ids must not be empty")
	}

	parent, err := gs.userRepo.GetByID(ctx, nil, parentID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("parent not found")
		}
		return nil, apierr.Internal(err)
	}
	if parent.Role != types.RoleParent {
		return nil, apierr.Validation("user %s is not a parent account", parentID)
	}

	conflicts := []AssignConflict{}
	for _, studentID := range studentIDs {
		student, err := gs.userRepo.GetByID(ctx, nil, studentID)
		if err != nil {
			if repos.IsNotFound(err) {
				conflicts = append(conflicts, AssignConflict{StudentID: studentID, Reason: "student not found"})
				continue
			}
			return nil, apierr.Internal(err)
		}
		if student.Role != types.RoleStudent {
			conflicts = append(conflicts, AssignConflict{StudentID: studentID, Reason: "not a student account"})
			continue
		}
		if _, err := gs.guardianRepo.GetByStudent(ctx, nil, studentID); err == nil {
			conflicts = append(conflicts, AssignConflict{StudentID: studentID, Reason: "student already has a guardian"})
			continue
		} else if !repos.IsNotFound(err) {
			return nil, apierr.Internal(err)
		}
	}
	if len(conflicts) > 0 {
		return nil, apierr.Conflict("%d of %d students cannot be assigned", len(conflicts), len(studentIDs)).
			WithDetails(conflicts)
	}

	// All rows go in one transaction so a batch is linked entirely or not at
	// all. The unique index on student_id still decides who wins when two
	// admins race past the pre-check.
	assignments := make([]*types.GuardianAssignment, 0, len(studentIDs))
	err = gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, studentID := range studentIDs {
			assignment := &types.GuardianAssignment{
				ID:         uuid.New(),
				ParentID:   parentID,
				StudentID:  studentID,
				AssignedBy: adminID,
				Note:       note,
			}
			if _, err := gs.guardianRepo.Create(ctx, tx, assignment); err != nil {
				return err
			}
			assignments = append(assignments, assignment)
		}
		return nil
	})
	if err != nil {
		if repos.IsUniqueViolation(err) {
			return nil, apierr.Conflict("student already has a guardian")
		}
		return nil, apierr.Internal(err)
	}

	if gs.linkCache != nil {
		for _, a := range assignments {
			gs.linkCache.InvalidateStudent(ctx, a.StudentID)
		}
	}
	gs.log.Info("guardian assignment completed",
		"parent_id", parentID,
		"assigned", len(assignments))
	return assignments, nil
}

func (gs *guardianService) Unassign(ctx context.Context, assignmentID uuid.UUID) error {
	assignment, err := gs.guardianRepo.GetByID(ctx, nil, assignmentID)
	if err != nil {
		if repos.IsNotFound(err) {
			return apierr.NotFound("assignment not found")
		}
		return apierr.Internal(err)
	}
	if _, err := gs.guardianRepo.DeleteByID(ctx, nil, assignmentID); err != nil {
		return apierr.Internal(err)
	}
	if gs.linkCache != nil {
		gs.linkCache.InvalidateStudent(ctx, assignment.StudentID)
	}
	return nil
}

func (gs *guardianService) ChildrenOf(ctx context.Context, parentID uuid.UUID) ([]*types.User, error) {
	assignments, err := gs.guardianRepo.ListByParent(ctx, nil, parentID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	ids := make([]uuid.UUID, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.StudentID)
	}
	children, err := gs.userRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return children, nil
}

func (gs *guardianService) GuardianOf(ctx context.Context, studentID uuid.UUID) (*types.User, error) {
	assignment, err := gs.guardianRepo.GetByStudent(ctx, nil, studentID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, nil
		}
		return nil, apierr.Internal(err)
	}
	parent, err := gs.userRepo.GetByID(ctx, nil, assignment.ParentID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, nil
		}
		return nil, apierr.Internal(err)
	}
	return parent, nil
}

func (gs *guardianService) IsLinked(ctx context.Context, parentID, studentID uuid.UUID) (bool, error) {
	if gs.linkCache != nil {
		if linked, ok := gs.linkCache.Get(ctx, parentID, studentID); ok {
			return linked, nil
		}
	}
	linked, err := gs.guardianRepo.Exists(ctx, nil, parentID, studentID)
	if err != nil {
		return false, apierr.Internal(err)
	}
	if gs.linkCache != nil {
		gs.linkCache.Set(ctx, parentID, studentID, linked)
	}
	return linked, nil
}

func (gs *guardianService) ListAssignments(ctx context.Context, filter repos.GuardianListFilter) ([]*types.GuardianAssignment, error) {
	assignments, err := gs.guardianRepo.ListAll(ctx, nil, filter)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return assignments, nil
}
