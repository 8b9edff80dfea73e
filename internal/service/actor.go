package service

import "github.com/iliyamo/takedown-tracker/internal/model"

// Actor identifies the authenticated caller of a transition. It is
// built by the handlers from JWT claims; services trust it and apply
// role and ownership rules on top.
type Actor struct {
	ID       uint64
	Role     string
	Username string
}

// isStaff reports whether the actor may triage reports and create
// missions: admins, lieutenants and elites.
func (a Actor) isStaff() bool {
	switch a.Role {
	case model.RoleAdmin, model.RoleLieutenant, model.RoleElite:
		return true
	}
	return false
}

// isCommand reports whether the actor holds a command role (admin or
// lieutenant), required for hard deletes.
func (a Actor) isCommand() bool {
	return a.Role == model.RoleAdmin || a.Role == model.RoleLieutenant
}
