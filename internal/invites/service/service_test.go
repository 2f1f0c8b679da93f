package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/authctx"
	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store/drivers/sqlite"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store/storetest"
	"github.com/aussiebroadwan/invitedesk/pkg/cryptox"
	"github.com/aussiebroadwan/invitedesk/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// clock is a settable time source shared by the services under test.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu    sync.Mutex
	sent  []string
	links []string
	err   error
}

func (n *recordingNotifier) NotifyInvitation(_ context.Context, inv domain.Invitation, link string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, inv.Email)
	n.links = append(n.links, link)
	return n.err
}

type fixture struct {
	st          store.Store
	clk         *clock
	notifier    *recordingNotifier
	invitations *InvitationService
	clients     *AnalystClientService
	tokens      *TokenIssuer
	verifier    jwtx.Verifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	clk := &clock{now: storetest.Now}
	notifier := &recordingNotifier{}

	return &fixture{
		st:       st,
		clk:      clk,
		notifier: notifier,
		invitations: &InvitationService{
			Store:    st,
			Notifier: notifier,
			Origin:   "https://app.example.com/",
			Now:      clk.Now,
		},
		clients: &AnalystClientService{Store: st, Now: clk.Now},
		tokens: &TokenIssuer{
			Signer: signer,
			Issuer: "invites-service",
			TTL:    time.Hour,
		},
		verifier: jwtx.NewVerifierEdDSA(keys, "invites-service", nil),
	}
}

func as(u domain.User) context.Context {
	return authctx.WithCaller(context.Background(), authctx.Caller{ID: u.ID, Role: u.Role})
}
