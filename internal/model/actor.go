package model

import "github.com/google/uuid"

// Actor is the identity performing an operation, as supplied by the
// session layer.
type Actor struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
	Banned bool      `json:"banned"`
}

// ActorFromProfile builds an actor from the current state of a profile.
func ActorFromProfile(p *Profile) Actor {
	return Actor{UserID: p.ID, Role: p.Role, Banned: p.Banned}
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
