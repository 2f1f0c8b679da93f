package http

import (
	"net/http"

	"github.com/aussiebroadwan/invitedesk/internal/invites/plans"
	"github.com/aussiebroadwan/invitedesk/pkg/httpx"
	"github.com/aussiebroadwan/invitedesk/pkg/invitesdk"
)

// PlansHandler lists the plan catalog.
//
//	@Summary		List plans
//	@Description	Returns the subscription plans in catalog order. A limit of -1 is unbounded.
//	@Tags			Plans
//	@Produce		json
//	@Success		200	{object}	invitesdk.PlansResponse	"The plan catalog"
//	@Router			/v1/plans [get].
func PlansHandler(catalog *plans.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := catalog.List()
		out := invitesdk.PlansResponse{Plans: make([]invitesdk.Plan, len(list))}
		for i, p := range list {
			out.Plans[i] = toPlan(p)
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}
