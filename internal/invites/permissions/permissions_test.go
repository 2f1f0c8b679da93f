package permissions_test

import (
	"testing"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/permissions"
	"github.com/aussiebroadwan/invitedesk/internal/invites/plans"
	"github.com/stretchr/testify/require"
)

func planPtr(p domain.PlanID) *domain.PlanID { return &p }

func user(role domain.Role, plan *domain.PlanID) *domain.User {
	return &domain.User{ID: "u1", Role: role, Plan: plan}
}

func TestHasFeatureAccess(t *testing.T) {
	tests := []struct {
		name    string
		user    *domain.User
		feature string
		want    bool
	}{
		{"nil user", nil, "api", false},
		{"admin without plan", user(domain.RoleAdmin, nil), "anything", true},
		{"analyst without plan", user(domain.RoleAnalyst, nil), "basic", false},
		{"unknown plan", user(domain.RoleClient, planPtr("platinum")), "basic", false},
		{"basic matches substring", user(domain.RoleClient, planPtr(domain.PlanBasic)), "basic system", true},
		{"basic is case insensitive", user(domain.RoleClient, planPtr(domain.PlanBasic)), "BASIC", true},
		{"basic missing feature", user(domain.RoleClient, planPtr(domain.PlanBasic)), "dedicated api", false},
		{"pro missing feature", user(domain.RoleAnalyst, planPtr(domain.PlanPro)), "priority support", false},
		{"enterprise listed feature", user(domain.RoleClient, planPtr(domain.PlanEnterprise)), "dedicated api", true},
		{"enterprise blanket override", user(domain.RoleClient, planPtr(domain.PlanEnterprise)), "reports", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, permissions.HasFeatureAccess(tt.user, tt.feature))
		})
	}
}

func TestHasFeatureAccess_Wildcard(t *testing.T) {
	e := permissions.Evaluator{Plans: plans.NewCatalog(domain.Plan{
		ID:       "unlimited",
		Features: []string{"Includes ALL FEATURES of the platform"},
	})}

	u := user(domain.RoleClient, planPtr("unlimited"))
	require.True(t, e.HasFeatureAccess(u, "reports"))
	require.True(t, e.HasFeatureAccess(u, "anything else"))
}

func TestIsWithinLimit(t *testing.T) {
	tests := []struct {
		name    string
		user    *domain.User
		key     domain.LimitKey
		current int
		want    bool
	}{
		{"nil user", nil, domain.LimitUsers, 0, false},
		{"admin is unlimited", user(domain.RoleAdmin, nil), domain.LimitUsers, 1_000_000, true},
		{"no plan", user(domain.RoleAnalyst, nil), domain.LimitUsers, 0, false},
		{"unknown plan", user(domain.RoleAnalyst, planPtr("nope")), domain.LimitUsers, 0, false},
		{"unknown key", user(domain.RoleAnalyst, planPtr(domain.PlanPro)), domain.LimitKey("seats"), 0, false},
		{"basic users below", user(domain.RoleAnalyst, planPtr(domain.PlanBasic)), domain.LimitUsers, 0, true},
		{"basic users at limit", user(domain.RoleAnalyst, planPtr(domain.PlanBasic)), domain.LimitUsers, 1, false},
		{"basic agents zero", user(domain.RoleAnalyst, planPtr(domain.PlanBasic)), domain.LimitAgents, 0, false},
		{"pro history below", user(domain.RoleClient, planPtr(domain.PlanPro)), domain.LimitHistoryDays, 364, true},
		{"pro history at limit", user(domain.RoleClient, planPtr(domain.PlanPro)), domain.LimitHistoryDays, 365, false},
		{"enterprise history unbounded", user(domain.RoleClient, planPtr(domain.PlanEnterprise)), domain.LimitHistoryDays, 1_000_000_000, true},
		{"enterprise users at limit", user(domain.RoleClient, planPtr(domain.PlanEnterprise)), domain.LimitUsers, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, permissions.IsWithinLimit(tt.user, tt.key, tt.current))
		})
	}
}

func TestRoleChecks(t *testing.T) {
	require.False(t, permissions.IsAdmin(nil))
	require.False(t, permissions.RoleIs(nil, domain.RoleClient))

	admin := user(domain.RoleAdmin, nil)
	analyst := user(domain.RoleAnalyst, planPtr(domain.PlanBasic))
	client := user(domain.RoleClient, planPtr(domain.PlanBasic))

	require.True(t, permissions.IsAdmin(admin))
	require.False(t, permissions.IsAnalyst(admin))
	require.True(t, permissions.IsAnalyst(analyst))
	require.True(t, permissions.IsClient(client))
	require.False(t, permissions.IsClient(analyst))
}
