package domain

type Role string

const (
	RoleRenter Role = "renter"
	RoleHost   Role = "host"
)

// ParseRole maps a stored role selector to a Role. Unknown or empty values
// fall back to RoleRenter.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleHost:
		return RoleHost
	default:
		return RoleRenter
	}
}

// User is a signed-up account. ID, Email and Role are fixed once created;
// only Name and AvatarURL may change.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func (u *User) IsHost() bool {
	return u != nil && u.Role == RoleHost
}

// DeviceToken is a push registration for one of a user's devices.
type DeviceToken struct {
	ID       string `json:"id,omitempty"`
	UserID   string `json:"user_id"`
	Token    string `json:"token"`
	Platform string `json:"platform"` // "ios" or "android"
}
