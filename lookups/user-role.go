package lookups

// Symbols of legal values
const (
	UserRoleGuest int32 = iota
	UserRoleMember
	UserRoleModerator
	UserRoleAdmin
)

// UserRole returns a "generic" string for a given value
func UserRole(value int32) string {

	var str = ""

	switch {
	case value == UserRoleGuest:
		str = "guest"
	case value == UserRoleMember:
		str = "member"
	case value == UserRoleModerator:
		str = "moderator"
	case value == UserRoleAdmin:
		str = "admin"
	}

	return str
}
