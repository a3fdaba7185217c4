package entity

// Role is the authorization role carried by a user and its tokens.
type Role string

const (
	RoleCivilian Role = "civilian"
	RoleShelter  Role = "shelter"
)

func (r Role) Valid() bool {
	return r == RoleCivilian || r == RoleShelter
}
