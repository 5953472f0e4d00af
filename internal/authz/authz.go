// Package authz implements the authorization decision engine. Every
// privileged operation is gated by one of two hard-coded strategies: a
// global-role check with an ownership fallback, and a project-scoped
// membership check. A decision of Deny is a normal return value; only storage
// faults surface as errors, and a fault always comes back paired with Deny so
// callers fail closed.
package authz

import (
	"github.com/aonuma/project-management-api/internal/models"
	"github.com/aonuma/project-management-api/internal/repository"
)

// Decision is the outcome of a policy evaluation.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "ALLOW"
	}
	return "DENY"
}

// Principal is the authenticated identity attempting an operation.
type Principal struct {
	ID   uint64
	Name string
	Role models.GlobalRole
}

// Scope names a capability an operation requires against a scoped resource.
const (
	ScopeView   = "view"
	ScopeModify = "modify"
	ScopeTask   = "task"
)

// ResourceProject is the only resource kind the resource-scoped strategy
// constrains.
const ResourceProject = "project"

// Descriptor is the explicit per-operation policy record. Operations declare
// it next to their route instead of carrying authorization metadata in
// decorators, and IDParam names the path parameter that supplies the resource
// or owner id rather than relying on argument position.
type Descriptor struct {
	// AllowedRoles, when non-empty, subjects the operation to the global-role
	// strategy.
	AllowedRoles []models.GlobalRole

	// Resource, when set to "project", subjects the operation to the
	// resource-scoped membership strategy.
	Resource string

	// Scopes are the capabilities the operation requires against Resource.
	Scopes []string

	// IDParam names the path parameter carrying the project id (resource
	// strategy) or the subject user id (ownership fallback).
	IDParam string
}

// Evaluator decides whether a principal may perform an operation. Membership
// lookups go straight to the store on every call; nothing is cached.
type Evaluator struct {
	members repository.MemberRepository
}

// NewEvaluator creates a new Evaluator.
func NewEvaluator(members repository.MemberRepository) *Evaluator {
	return &Evaluator{members: members}
}

// DecideGlobal applies the global-role strategy with ownership fallback:
// a principal without a role is denied; an operation without role
// requirements allows anyone; a principal whose role is not allowed is
// denied; a global admin bypasses the ownership check; everyone else is
// allowed only when acting on their own id.
func (e *Evaluator) DecideGlobal(principal Principal, allowedRoles []models.GlobalRole, ownerID uint64) Decision {
	if principal.Role == "" {
		return Deny
	}

	if len(allowedRoles) == 0 {
		return Allow
	}

	roleIsAllowed := false
	for _, role := range allowedRoles {
		if principal.Role == role {
			roleIsAllowed = true
			break
		}
	}
	if !roleIsAllowed {
		return Deny
	}

	if principal.Role == models.GlobalRoleAdmin {
		return Allow
	}

	if principal.ID == ownerID {
		return Allow
	}

	return Deny
}

// DecideResource applies the resource-scoped membership strategy. Operations
// on resources other than "project" are allowed unconditionally; "modify"
// requires an admin membership, "view" and "task" require any membership, and
// project operations with no matching scope are denied. A failed membership
// lookup returns Deny together with the error.
func (e *Evaluator) DecideResource(principal Principal, desc Descriptor, resourceID uint64) (Decision, error) {
	if desc.Resource != ResourceProject {
		return Allow, nil
	}

	if containsScope(desc.Scopes, ScopeModify) {
		allowed, err := e.members.CheckAdmin(principal.ID, resourceID)
		if err != nil {
			return Deny, err
		}
		if allowed {
			return Allow, nil
		}
		return Deny, nil
	}

	if containsScope(desc.Scopes, ScopeView) || containsScope(desc.Scopes, ScopeTask) {
		allowed, err := e.members.CheckMember(principal.ID, resourceID)
		if err != nil {
			return Deny, err
		}
		if allowed {
			return Allow, nil
		}
		return Deny, nil
	}

	return Deny, nil
}

func containsScope(scopes []string, scope string) bool {
	for _, s := range scopes {
		if s == scope {
			return true
		}
	}
	return false
}
