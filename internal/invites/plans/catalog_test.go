package plans_test

import (
	"testing"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/plans"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	ps := plans.List()
	require.Len(t, ps, 3)
	require.Equal(t, domain.PlanBasic, ps[0].ID)
	require.Equal(t, domain.PlanPro, ps[1].ID)
	require.Equal(t, domain.PlanEnterprise, ps[2].ID)

	require.Equal(t, 0, ps[0].Price)
	require.Equal(t, 97, ps[1].Price)
	require.Equal(t, 299, ps[2].Price)
}

func TestListReturnsCopy(t *testing.T) {
	ps := plans.List()
	ps[0].Name = "mutated"
	ps[0].Features[0] = "mutated"

	again := plans.List()
	require.Equal(t, "Basic", again[0].Name)
	require.Equal(t, "Basic system access", again[0].Features[0])
}

func TestFind(t *testing.T) {
	tests := []struct {
		name   string
		id     domain.PlanID
		found  bool
		limits domain.Limits
	}{
		{"basic", domain.PlanBasic, true, domain.Limits{Agents: 0, HistoryDays: 7, Users: 1}},
		{"pro", domain.PlanPro, true, domain.Limits{Agents: 1, HistoryDays: 365, Users: 3}},
		{"enterprise", domain.PlanEnterprise, true, domain.Limits{Agents: 1, HistoryDays: domain.Unbounded, Users: 10}},
		{"unknown", domain.PlanID("platinum"), false, domain.Limits{}},
		{"empty", domain.PlanID(""), false, domain.Limits{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := plans.Find(tt.id)
			require.Equal(t, tt.found, ok)
			require.Equal(t, tt.limits, p.Limits)
		})
	}
}

func TestNewCatalogKeepsOrder(t *testing.T) {
	c := plans.NewCatalog(
		domain.Plan{ID: "b"},
		domain.Plan{ID: "a"},
	)
	ps := c.List()
	require.Equal(t, domain.PlanID("b"), ps[0].ID)
	require.Equal(t, domain.PlanID("a"), ps[1].ID)
}
