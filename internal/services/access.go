package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/requestdata"
	"github.com/yungbote/happypath-backend/internal/types"
)

// AccessService is the single predicate for "may this caller see this
// learner's data". Every read path over sessions, progress, attempts and
// reports goes through it; none of them carry their own role logic.
type AccessService interface {
	// CanViewLearner returns nil when access is granted. Teachers and admins
	// may view any learner, parents only linked children, students only
	// themselves.
	CanViewLearner(ctx context.Context, viewer requestdata.RequestData, learnerID uuid.UUID) error
}

type accessService struct {
	log      *logger.Logger
	guardian GuardianService
}

func NewAccessService(log *logger.Logger, guardian GuardianService) AccessService {
	serviceLog := log.With("service", "AccessService")
	return &accessService{log: serviceLog, guardian: guardian}
}

func (as *accessService) CanViewLearner(ctx context.Context, viewer requestdata.RequestData, learnerID uuid.UUID) error {
	switch viewer.Role {
	case types.RoleAdmin, types.RoleTeacher:
		return nil
	case types.RoleStudent:
		if viewer.UserID == learnerID {
			return nil
		}
		return apierr.Forbidden("students may only view their own data")
	case types.RoleParent:
		linked, err := as.guardian.IsLinked(ctx, viewer.UserID, learnerID)
		if err != nil {
			return err
		}
		if linked {
			return nil
		}
		return apierr.Forbidden("not a guardian of this student")
	default:
		return apierr.Forbidden("role %q may not view learner data", viewer.Role)
	}
}
