package application

import (
	"fmt"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
)

type Resource string

type Action string

const (
	ResourceReport  Resource = "report"
	ResourceMedia   Resource = "media"
	ResourceShelter Resource = "shelter"

	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionSetStatus Action = "set_status"
)

// Rule grants an action to callers holding Role, and to the record owner
// when AllowOwner is set. A rule with neither admits any authenticated caller.
type Rule struct {
	Role       entity.Role
	AllowOwner bool
}

var (
	anyAuthenticated    = Rule{}
	ownerOrShelterStaff = Rule{Role: entity.RoleShelter, AllowOwner: true}
	// anyShelterStaff is not scoped to the caller's own shelter: any
	// shelter-role user may manage any shelter record.
	anyShelterStaff = Rule{Role: entity.RoleShelter}
)

var policies = map[Resource]map[Action]Rule{
	ResourceReport: {
		ActionCreate:    anyAuthenticated,
		ActionUpdate:    ownerOrShelterStaff,
		ActionDelete:    ownerOrShelterStaff,
		ActionSetStatus: anyShelterStaff,
	},
	ResourceMedia: {
		ActionCreate: ownerOrShelterStaff,
		ActionUpdate: ownerOrShelterStaff,
		ActionDelete: ownerOrShelterStaff,
	},
	ResourceShelter: {
		ActionCreate: anyAuthenticated,
		ActionUpdate: anyShelterStaff,
		ActionDelete: anyShelterStaff,
	},
}

func (r Rule) allows(p Principal, ownerID string) bool {
	if p.UserID == "" {
		return false
	}
	if r.Role == "" && !r.AllowOwner {
		return true
	}
	if r.AllowOwner && ownerID != "" && p.UserID == ownerID {
		return true
	}
	return r.Role != "" && p.Role == r.Role
}

// Authorize checks p against the policy for (res, act). ownerID is the
// user owning the record, "" when there is none. Unknown pairs are denied.
func Authorize(p Principal, res Resource, act Action, ownerID string) error {
	rule, ok := policies[res][act]
	if !ok || !rule.allows(p, ownerID) {
		return fmt.Errorf("%w: cannot %s %s", ErrForbidden, act, res)
	}
	return nil
}

// GateRole returns the role a route must require up front for (res, act):
// set only when the rule admits a role and no owner.
func GateRole(res Resource, act Action) (entity.Role, bool) {
	rule, ok := policies[res][act]
	if !ok || rule.AllowOwner || rule.Role == "" {
		return "", false
	}
	return rule.Role, true
}
