// Package permissions answers feature and limit questions for a user against
// the plan catalog. Every function is pure and safe to call with a nil user.
package permissions

import (
	"strings"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/plans"
)

// WildcardFeature, when contained in any feature description of a plan,
// grants every feature.
const WildcardFeature = "all features"

// Evaluator resolves plans through Plans. The zero value uses the built-in
// catalog.
type Evaluator struct {
	Plans plans.Finder
}

var std = Evaluator{}

func (e Evaluator) finder() plans.Finder {
	if e.Plans == nil {
		return plans.Standard()
	}
	return e.Plans
}

func (e Evaluator) planOf(u *domain.User) (domain.Plan, bool) {
	if u.Plan == nil {
		return domain.Plan{}, false
	}
	return e.finder().Find(*u.Plan)
}

// HasFeatureAccess reports whether u may use feature.
//
// The enterprise plan grants every feature regardless of its listed
// descriptions. This blanket override is intentional and kept pending
// product confirmation.
func (e Evaluator) HasFeatureAccess(u *domain.User, feature string) bool {
	if u == nil {
		return false
	}
	if u.Role == domain.RoleAdmin {
		return true
	}

	plan, ok := e.planOf(u)
	if !ok {
		return false
	}

	want := strings.ToLower(feature)
	for _, f := range plan.Features {
		f = strings.ToLower(f)
		if strings.Contains(f, WildcardFeature) || strings.Contains(f, want) {
			return true
		}
	}

	return plan.ID == domain.PlanEnterprise
}

// IsWithinLimit reports whether u may consume one more unit of key given
// current units already in use. A user sitting exactly at the limit is over
// it.
func (e Evaluator) IsWithinLimit(u *domain.User, key domain.LimitKey, current int) bool {
	if u == nil {
		return false
	}
	if u.Role == domain.RoleAdmin {
		return true
	}

	plan, ok := e.planOf(u)
	if !ok {
		return false
	}

	limit, ok := plan.Limits.Get(key)
	if !ok {
		return false
	}
	if limit == domain.Unbounded {
		return true
	}
	return current < limit
}

// HasFeatureAccess evaluates against the built-in catalog.
func HasFeatureAccess(u *domain.User, feature string) bool {
	return std.HasFeatureAccess(u, feature)
}

// IsWithinLimit evaluates against the built-in catalog.
func IsWithinLimit(u *domain.User, key domain.LimitKey, current int) bool {
	return std.IsWithinLimit(u, key, current)
}

func RoleIs(u *domain.User, role domain.Role) bool {
	return u != nil && u.Role == role
}

func IsAdmin(u *domain.User) bool   { return RoleIs(u, domain.RoleAdmin) }
func IsAnalyst(u *domain.User) bool { return RoleIs(u, domain.RoleAnalyst) }
func IsClient(u *domain.User) bool  { return RoleIs(u, domain.RoleClient) }
