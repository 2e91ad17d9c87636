// Package guard decides whether a view may render for the current session.
package guard

import "santamartha/storefront/internal/models"

// LoginPath is where rejected visitors are sent.
const LoginPath = "/login"

type Requirement int

const (
	RequireSession Requirement = iota
	RequireAdmin
)

type Session struct {
	Authenticated bool
	Role          models.UserRole
}

type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Evaluate is a pure predicate over the session. Callers evaluate it on every
// request; the decision is never cached.
func Evaluate(session Session, requirement Requirement) Decision {
	if !session.Authenticated {
		return Decision{RedirectTo: LoginPath}
	}
	if requirement == RequireAdmin && session.Role != models.UserRoleAdmin {
		return Decision{RedirectTo: LoginPath}
	}
	return Decision{Allowed: true}
}
