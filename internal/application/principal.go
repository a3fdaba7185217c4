package application

import (
	"github.com/oksasatya/pawpatrol/internal/domain/entity"
	"github.com/oksasatya/pawpatrol/pkg/helpers"
)

// Principal is the authenticated caller as described by its token.
// Role and ShelterID reflect the token at issue time and may be stale.
type Principal struct {
	UserID    string
	Name      string
	Role      entity.Role
	ShelterID string
}

func PrincipalFromClaims(c *helpers.Claims) Principal {
	if c == nil {
		return Principal{}
	}
	return Principal{UserID: c.UserID, Name: c.Name, Role: entity.Role(c.Role), ShelterID: c.ShelterID}
}

func tokenPayload(u *entity.User) helpers.TokenPayload {
	return helpers.TokenPayload{UserID: u.ID, Name: u.Name, Role: string(u.Role), ShelterID: u.ShelterRef()}
}
