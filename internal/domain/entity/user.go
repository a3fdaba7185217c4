package entity

import "time"

// User is the aggregate root for accounts.
// Password holds the PBKDF2 "salt:key" hash and is never serialized.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
	Role      Role      `json:"type"`
	ShelterID *string   `json:"shelterId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ShelterRef returns the shelter reference or "" when unset.
func (u *User) ShelterRef() string {
	if u.ShelterID == nil {
		return ""
	}
	return *u.ShelterID
}
