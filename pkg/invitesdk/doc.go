/*
Package invitesdk is a client for the invitation service.

Public endpoints are methods on Client:

	client := invitesdk.NewClient("https://invites.example.com")

	// One-time setup
	boot, err := client.Bootstrap(ctx, bootstrapToken, invitesdk.BootstrapRequest{...})

	// Registration page
	lookup, err := client.LookupInvitation(ctx, code)
	reg, err := client.Register(ctx, invitesdk.RegisterRequest{Code: code, ...})

Authenticated endpoints live on Session, created from an access token:

	admin := client.WithToken(boot.Token.AccessToken)
	inv, err := admin.CreateInvitation(ctx, invitesdk.CreateInvitationRequest{
		Email: "analyst@example.com",
		Role:  "analyst",
	})

Non-2xx responses are returned as *APIError; use IsCode to branch on them:

	if invitesdk.IsCode(err, invitesdk.CodeInvitationExpired) {
		// ask for a new invitation
	}

Set Client.Lang to receive localized error descriptions, status labels and
expiry texts ("en" or "pt-BR").
*/
package invitesdk
