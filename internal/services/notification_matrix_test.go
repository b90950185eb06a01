package services

import (
	"testing"

	"github.com/yungbote/happypath-backend/internal/types"
)

func TestCanNotifyMatrix(t *testing.T) {
	tests := []struct {
		sender    string
		recipient string
		want      bool
	}{
		{types.RoleAdmin, types.RoleParent, true},
		{types.RoleAdmin, types.RoleTeacher, true},
		{types.RoleAdmin, types.RoleStudent, false},
		{types.RoleAdmin, types.RoleAdmin, false},
		{types.RoleTeacher, types.RoleParent, true},
		{types.RoleTeacher, types.RoleTeacher, false},
		{types.RoleTeacher, types.RoleStudent, false},
		{types.RoleParent, types.RoleParent, true},
		{types.RoleParent, types.RoleTeacher, false},
		{types.RoleParent, types.RoleStudent, false},
		{types.RoleStudent, types.RoleParent, false},
		{"", types.RoleParent, false},
	}

	for _, tt := range tests {
		if got := canNotify(tt.sender, tt.recipient); got != tt.want {
			t.Errorf("canNotify(%q, %q) = %v, want %v", tt.sender, tt.recipient, got, tt.want)
		}
	}
}
