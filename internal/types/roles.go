package types

const (
	RoleStudent = "student"
	RoleParent  = "parent"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// PublicRoles are the roles self-registration may pick. Admin accounts are
// created only through the admin API or the seed command.
var PublicRoles = []string{RoleStudent, RoleParent, RoleTeacher}

var AllRoles = []string{RoleStudent, RoleParent, RoleTeacher, RoleAdmin}

func ValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func ValidPublicRole(role string) bool {
	for _, r := range PublicRoles {
		if r == role {
			return true
		}
	}
	return false
}
