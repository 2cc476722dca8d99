package gameshelf

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-errors"
)

// Rule describes who may perform a verb on a resource kind. The zero
// value requires authentication and ownership with no overrides.
type Rule struct {
	// Verb and Kind feed the caller-facing denial messages
	Verb string
	Kind string
	// AdminOnly gates on role alone; ownership never enters the decision
	AdminOnly bool
	// AdminOverride lets admins act on records they do not own
	AdminOverride bool
	// DenySelfTarget refuses the action when the actor is the target
	// record, even when the role check alone would pass
	DenySelfTarget bool
	// AnyAuthenticated skips the ownership check entirely; any signed-in
	// caller passes once the target exists
	AnyAuthenticated bool
}

// AnyUser allows any authenticated caller once the target exists. Used
// by comment creation against the parent game and by own-wishlist reads.
func AnyUser(verb, kind string) Rule {
	return Rule{Verb: verb, Kind: kind, AnyAuthenticated: true}
}

// OwnerOrAdmin allows the record owner and any admin. Used by comment
// update/delete.
func OwnerOrAdmin(verb, kind string) Rule {
	return Rule{Verb: verb, Kind: kind, AdminOverride: true}
}

// OwnerOnly allows the record owner alone, with no admin carve-out. Used
// by wishlist entries.
func OwnerOnly(verb, kind string) Rule {
	return Rule{Verb: verb, Kind: kind}
}

// AdminOnly allows admins regardless of ownership. Used by catalog and
// user management.
func AdminOnly(verb, kind string) Rule {
	return Rule{Verb: verb, Kind: kind, AdminOnly: true}
}

// AdminNotSelf allows admins except when the target is their own record.
// Used by admin user deletion.
func AdminNotSelf(verb, kind string) Rule {
	return Rule{Verb: verb, Kind: kind, AdminOnly: true, DenySelfTarget: true}
}

// Target is the snapshot of the resource under authorization. The guard
// is a pure function of (claims, rule, target); it never reaches into
// the store itself.
type Target struct {
	ID      string
	OwnerID string
	Found   bool
}

// CollectionTarget stands in for operations with no single record, such
// as create and list. The identifier and existence checks pass trivially.
func CollectionTarget() Target {
	return Target{ID: "*", Found: true}
}

// AuthorizeRequest runs the authentication and identifier steps of the
// rule only. Endpoints call it before payload validation and store
// reads, then call Authorize with the loaded target snapshot for the
// existence and ownership/role steps. Keeping both stages here prevents
// the check order from drifting between handlers.
func AuthorizeRequest(claims *SessionClaims, rule Rule, targetID string) error {
	if claims == nil {
		return ErrAuthenticationRequired(rule)
	}

	if strings.TrimSpace(targetID) == "" {
		return ErrTargetIDMissing(rule)
	}

	return nil
}

// Authorize decides whether the session behind claims may perform the
// rule's verb against the target. The check order is load-bearing:
// authentication, then target identifier presence, then resource
// existence, then ownership/role. Swapping existence and ownership would
// leak existence information asymmetrically; swapping authentication and
// identifier checks would leak resource shape to anonymous callers.
func Authorize(claims *SessionClaims, rule Rule, target Target) error {
	if claims == nil {
		return ErrAuthenticationRequired(rule)
	}

	if strings.TrimSpace(target.ID) == "" {
		return ErrTargetIDMissing(rule)
	}

	if !target.Found {
		return ErrTargetNotFound(rule)
	}

	if rule.DenySelfTarget && claims.UserID() == target.ID {
		return ErrActionForbidden(rule)
	}

	if rule.AdminOnly {
		if !claims.IsAdmin() {
			return ErrActionForbidden(rule)
		}
		return nil
	}

	if rule.AnyAuthenticated {
		return nil
	}

	if claims.UserID() == target.OwnerID {
		return nil
	}

	if rule.AdminOverride && claims.IsAdmin() {
		return nil
	}

	return ErrActionForbidden(rule)
}

// ErrAuthenticationRequired is the 401 denial for the rule
func ErrAuthenticationRequired(rule Rule) *errors.Error {
	return errors.New(
		fmt.Sprintf("Authentication required to %s a %s.", rule.Verb, rule.Kind),
		errors.CategoryAuth,
	).WithCode(errors.CodeUnauthorized).
		WithTextCode("authentication_required").
		WithMetadata(map[string]any{"verb": rule.Verb, "kind": rule.Kind})
}

// ErrTargetIDMissing is the 400 denial when the resource identifier
// could not be resolved from the request path
func ErrTargetIDMissing(rule Rule) *errors.Error {
	return errors.New(
		fmt.Sprintf("%s ID is missing.", capitalize(rule.Kind)),
		errors.CategoryBadInput,
	).WithCode(errors.CodeBadRequest).
		WithTextCode("target_id_missing").
		WithMetadata(map[string]any{"kind": rule.Kind})
}

// ErrTargetNotFound is the 404 denial. Existence is checked before
// ownership, so a 403 from this guard always implies the resource exists.
func ErrTargetNotFound(rule Rule) *errors.Error {
	return errors.New(
		fmt.Sprintf("%s not found.", capitalize(rule.Kind)),
		errors.CategoryNotFound,
	).WithCode(errors.CodeNotFound).
		WithTextCode("target_not_found").
		WithMetadata(map[string]any{"kind": rule.Kind})
}

// ErrActionForbidden is the 403 denial for authenticated callers with
// insufficient rights
func ErrActionForbidden(rule Rule) *errors.Error {
	return errors.New(
		fmt.Sprintf("Unauthorized to %s this %s.", rule.Verb, rule.Kind),
		errors.CategoryAuthz,
	).WithCode(errors.CodeForbidden).
		WithTextCode("action_forbidden").
		WithMetadata(map[string]any{"verb": rule.Verb, "kind": rule.Kind})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
