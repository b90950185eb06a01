package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/requestdata"
	"github.com/yungbote/happypath-backend/internal/types"
)

type stubGuardianService struct {
	GuardianService
	linked map[[2]uuid.UUID]bool
}

func (s *stubGuardianService) IsLinked(ctx context.Context, parentID, studentID uuid.UUID) (bool, error) {
	return s.linked[[2]uuid.UUID{parentID, studentID}], nil
}

func TestCanViewLearner(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	parentID := uuid.New()
	studentID := uuid.New()
	otherStudentID := uuid.New()

	guardian := &stubGuardianService{linked: map[[2]uuid.UUID]bool{
		{parentID, studentID}: true,
	}}
	access := NewAccessService(log, guardian)
	ctx := context.Background()

	tests := []struct {
		name       string
		viewer     requestdata.RequestData
		learnerID  uuid.UUID
		wantStatus int
	}{
		{name: "teacher sees anyone", viewer: requestdata.RequestData{UserID: uuid.New(), Role: types.RoleTeacher}, learnerID: studentID},
		{name: "admin sees anyone", viewer: requestdata.RequestData{UserID: uuid.New(), Role: types.RoleAdmin}, learnerID: studentID},
		{name: "student sees self", viewer: requestdata.RequestData{UserID: studentID, Role: types.RoleStudent}, learnerID: studentID},
		{name: "student blocked from others", viewer: requestdata.RequestData{UserID: studentID, Role: types.RoleStudent}, learnerID: otherStudentID, wantStatus: 403},
		{name: "parent sees linked child", viewer: requestdata.RequestData{UserID: parentID, Role: types.RoleParent}, learnerID: studentID},
		{name: "parent blocked from unlinked", viewer: requestdata.RequestData{UserID: parentID, Role: types.RoleParent}, learnerID: otherStudentID, wantStatus: 403},
		{name: "unknown role blocked", viewer: requestdata.RequestData{UserID: uuid.New(), Role: "auditor"}, learnerID: studentID, wantStatus: 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := access.CanViewLearner(ctx, tt.viewer, tt.learnerID)
			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("expected access, got %v", err)
				}
				return
			}
			var apiErr *apierr.Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *apierr.Error, got %v", err)
			}
			if apiErr.Status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", apiErr.Status, tt.wantStatus)
			}
		})
	}
}
