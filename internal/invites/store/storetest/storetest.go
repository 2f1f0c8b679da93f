// Package storetest is a behavioural suite every store driver must pass.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store"
	"github.com/aussiebroadwan/invitedesk/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, migrated store.
type Factory func(t *testing.T) store.Store

// Run executes the suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("create and lookup", func(t *testing.T) { testCreateAndLookup(t, newStore(t)) })
	t.Run("list ordering", func(t *testing.T) { testListOrdering(t, newStore(t)) })
	t.Run("accept", func(t *testing.T) { testAccept(t, newStore(t)) })
	t.Run("accept concurrently", func(t *testing.T) { testAcceptConcurrently(t, newStore(t)) })
	t.Run("cancel", func(t *testing.T) { testCancel(t, newStore(t)) })
	t.Run("analyst clients", func(t *testing.T) { testAnalystClients(t, newStore(t)) })
	t.Run("transaction rollback", func(t *testing.T) { testRollback(t, newStore(t)) })
}

// Now is the fixed clock used by the suite, truncated to what every driver
// can round-trip.
var Now = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

// SeedUser inserts a user with the given role.
func SeedUser(t *testing.T, st store.Store, role domain.Role) domain.User {
	t.Helper()

	id := idx.New().String()
	u := domain.User{
		ID:           id,
		Name:         string(role) + " " + id[len(id)-4:],
		Email:        id + "@example.com",
		Role:         role,
		Status:       domain.UserActive,
		PasswordHash: "x",
		CreatedAt:    Now,
	}
	if role != domain.RoleAdmin {
		p := domain.PlanBasic
		u.Plan = &p
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

// SeedInvitation inserts a pending invitation from inviter for role.
func SeedInvitation(t *testing.T, st store.Store, inviter domain.User, role domain.Role, createdAt time.Time, ttl time.Duration) domain.Invitation {
	t.Helper()

	inv, err := st.Invitations().CreateInvitation(context.Background(), domain.Invitation{
		ID:            idx.New().String(),
		Code:          idx.New().String(),
		Email:         "invitee-" + idx.New().String() + "@example.com",
		Role:          role,
		InvitedBy:     inviter.ID,
		InvitedByRole: inviter.Role,
		ExpiresAt:     createdAt.Add(ttl),
		Metadata:      map[string]any{"plan": "pro"},
		CreatedAt:     createdAt,
	})
	require.NoError(t, err)
	return inv
}

func testUsers(t *testing.T, st store.Store) {
	ctx := context.Background()

	empty, err := st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	admin := SeedUser(t, st, domain.RoleAdmin)
	analyst := SeedUser(t, st, domain.RoleAnalyst)

	empty, err = st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)

	got, err := st.Users().GetUserByID(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, admin.Email, got.Email)
	require.Nil(t, got.Plan)
	require.Equal(t, Now, got.CreatedAt)

	got, err = st.Users().GetUserByEmail(ctx, analyst.Email)
	require.NoError(t, err)
	require.Equal(t, analyst.ID, got.ID)
	require.NotNil(t, got.Plan)
	require.Equal(t, domain.PlanBasic, *got.Plan)

	dup := analyst
	dup.ID = idx.New().String()
	require.ErrorIs(t, st.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)

	_, err = st.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	login := Now.Add(time.Hour)
	require.NoError(t, st.Users().TouchLastLogin(ctx, analyst.ID, login))
	got, err = st.Users().GetUserByID(ctx, analyst.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	require.Equal(t, login, *got.LastLoginAt)
}

func testCreateAndLookup(t *testing.T, st store.Store) {
	ctx := context.Background()
	admin := SeedUser(t, st, domain.RoleAdmin)

	inv := SeedInvitation(t, st, admin, domain.RoleAnalyst, Now, 7*24*time.Hour)
	require.Equal(t, domain.StatusPending, inv.Status)
	require.Equal(t, Now.Add(7*24*time.Hour), inv.ExpiresAt)
	require.Equal(t, "pro", inv.Metadata["plan"])
	require.Nil(t, inv.AcceptedAt)
	require.Nil(t, inv.AcceptedBy)

	byCode, err := st.Invitations().GetInvitationByCode(ctx, inv.Code)
	require.NoError(t, err)
	require.Equal(t, inv.ID, byCode.ID)

	byID, err := st.Invitations().GetInvitationByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, inv.Code, byID.Code)

	_, err = st.Invitations().GetInvitationByCode(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)

	dup := inv
	dup.ID = idx.New().String()
	_, err = st.Invitations().CreateInvitation(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func testListOrdering(t *testing.T, st store.Store) {
	ctx := context.Background()
	admin := SeedUser(t, st, domain.RoleAdmin)
	analyst := SeedUser(t, st, domain.RoleAnalyst)

	first := SeedInvitation(t, st, admin, domain.RoleAnalyst, Now, time.Hour)
	second := SeedInvitation(t, st, admin, domain.RoleAnalyst, Now.Add(time.Minute), time.Hour)
	other := SeedInvitation(t, st, analyst, domain.RoleClient, Now.Add(2*time.Minute), time.Hour)

	mine, err := st.Invitations().ListInvitationsByInviter(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, second.ID, mine[0].ID)
	require.Equal(t, first.ID, mine[1].ID)

	none, err := st.Invitations().ListInvitationsByInviter(ctx, "nobody")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)

	all, err := st.Invitations().ListAllInvitations(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, other.ID, all[0].ID)
	require.Equal(t, analyst.Name, all[0].InviterName)
	require.Equal(t, analyst.Email, all[0].InviterEmail)
	require.Empty(t, all[0].AcceptedByName)
}

func testAccept(t *testing.T, st store.Store) {
	ctx := context.Background()
	admin := SeedUser(t, st, domain.RoleAdmin)
	newcomer := SeedUser(t, st, domain.RoleAnalyst)

	inv := SeedInvitation(t, st, admin, domain.RoleAnalyst, Now, 7*24*time.Hour)

	at := Now.Add(time.Hour)
	accepted, err := st.Invitations().AcceptInvitation(ctx, inv.Code, newcomer.ID, at)
	require.NoError(t, err)
	require.Equal(t, domain.StatusAccepted, accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)
	require.Equal(t, at, *accepted.AcceptedAt)
	require.NotNil(t, accepted.AcceptedBy)
	require.Equal(t, newcomer.ID, *accepted.AcceptedBy)

	_, err = st.Invitations().AcceptInvitation(ctx, inv.Code, newcomer.ID, at)
	require.ErrorIs(t, err, store.ErrAlreadyAccepted)

	_, err = st.Invitations().AcceptInvitation(ctx, "missing", newcomer.ID, at)
	require.ErrorIs(t, err, store.ErrNotFound)

	stale := SeedInvitation(t, st, admin, domain.RoleAnalyst, Now, 7*24*time.Hour)
	_, err = st.Invitations().AcceptInvitation(ctx, stale.Code, newcomer.ID, Now.Add(8*24*time.Hour))
	require.ErrorIs(t, err, store.ErrExpired)

	// Expiry is never written back.
	reread, err := st.Invitations().GetInvitationByCode(ctx, stale.Code)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, reread.Status)

	cancelled := SeedInvitation(t, st, admin, domain.RoleAnalyst, Now, 7*24*time.Hour)
	_, err = st.Invitations().CancelInvitation(ctx, cancelled.ID, admin.ID, false, Now)
	require.NoError(t, err)
	_, err = st.Invitations().AcceptInvitation(ctx, cancelled.Code, newcomer.ID, at)
	require.ErrorIs(t, err, store.ErrCancelled)

	all, err := st.Invitations().ListAllInvitations(ctx)
	require.NoError(t, err)
	for _, row := range all {
		if row.ID == inv.ID {
			require.Equal(t, newcomer.Name, row.AcceptedByName)
			require.Equal(t, newcomer.Email, row.AcceptedByEmail)
		}
	}
}

func testAcceptConcurrently(t *testing.T, st store.Store) {
	ctx := context.Background()
	admin := SeedUser(t, st, domain.RoleAdmin)
	inv := SeedInvitation(t, st, admin, domain.RoleAnalyst, Now, 7*24*time.Hour)

	const attempts = 8
	users := make([]domain.User, attempts)
	for i := range users {
		users[i] = SeedUser(t, st, domain.RoleAnalyst)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for i := range attempts {
		wg.Add(1)
		go func(u domain.User) {
			defer wg.Done()
			_, err := st.Invitations().AcceptInvitation(ctx, inv.Code, u.ID, Now.Add(time.Minute))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}(users[i])
	}
	wg.Wait()

	require.Equal(t, 1, successes)
	require.Len(t, failures, attempts-1)
	for _, err := range failures {
		require.ErrorIs(t, err, store.ErrAlreadyAccepted)
	}
}

func testCancel(t *testing.T, st store.Store) {
	ctx := context.Background()
	admin := SeedUser(t, st, domain.RoleAdmin)
	analyst := SeedUser(t, st, domain.RoleAnalyst)
	otherAnalyst := SeedUser(t, st, domain.RoleAnalyst)

	inv := SeedInvitation(t, st, analyst, domain.RoleClient, Now, time.Hour)

	_, err := st.Invitations().CancelInvitation(ctx, inv.ID, otherAnalyst.ID, false, Now)
	require.ErrorIs(t, err, store.ErrNotInviter)

	cancelled, err := st.Invitations().CancelInvitation(ctx, inv.ID, analyst.ID, false, Now.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.Equal(t, Now.Add(time.Minute), cancelled.UpdatedAt)

	_, err = st.Invitations().CancelInvitation(ctx, inv.ID, analyst.ID, false, Now)
	require.ErrorIs(t, err, store.ErrNotPending)

	// Admins may cancel anything pending.
	other := SeedInvitation(t, st, analyst, domain.RoleClient, Now, time.Hour)
	cancelled, err = st.Invitations().CancelInvitation(ctx, other.ID, admin.ID, true, Now)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, cancelled.Status)

	_, err = st.Invitations().CancelInvitation(ctx, "missing", admin.ID, true, Now)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Accepted invitations stay accepted.
	accepted := SeedInvitation(t, st, analyst, domain.RoleClient, Now, time.Hour)
	client := SeedUser(t, st, domain.RoleClient)
	_, err = st.Invitations().AcceptInvitation(ctx, accepted.Code, client.ID, Now.Add(time.Minute))
	require.NoError(t, err)

	_, err = st.Invitations().CancelInvitation(ctx, accepted.ID, analyst.ID, false, Now.Add(2*time.Minute))
	require.ErrorIs(t, err, store.ErrNotPending)
	_, err = st.Invitations().CancelInvitation(ctx, accepted.ID, admin.ID, true, Now.Add(2*time.Minute))
	require.ErrorIs(t, err, store.ErrNotPending)

	current, err := st.Invitations().GetInvitationByID(ctx, accepted.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusAccepted, current.Status)
	require.Equal(t, client.ID, *current.AcceptedBy)
}

func testAnalystClients(t *testing.T, st store.Store) {
	ctx := context.Background()
	analyst := SeedUser(t, st, domain.RoleAnalyst)
	c1 := SeedUser(t, st, domain.RoleClient)
	c2 := SeedUser(t, st, domain.RoleClient)
	repo := st.AnalystClients()

	ids, err := repo.ListClientIDs(ctx, analyst.ID)
	require.NoError(t, err)
	require.NotNil(t, ids)
	require.Empty(t, ids)

	has, err := repo.Has(ctx, analyst.ID, c1.ID)
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, repo.Add(ctx, analyst.ID, c1.ID, Now))
	require.NoError(t, repo.Add(ctx, analyst.ID, c1.ID, Now))
	require.NoError(t, repo.Add(ctx, analyst.ID, c2.ID, Now))

	has, err = repo.Has(ctx, analyst.ID, c1.ID)
	require.NoError(t, err)
	require.True(t, has)

	ids, err = repo.ListClientIDs(ctx, analyst.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{c1.ID, c2.ID}, ids)

	require.NoError(t, repo.Remove(ctx, analyst.ID, c1.ID))
	require.NoError(t, repo.Remove(ctx, analyst.ID, c1.ID))

	ids, err = repo.ListClientIDs(ctx, analyst.ID)
	require.NoError(t, err)
	require.Equal(t, []string{c2.ID}, ids)

	require.Error(t, repo.Add(ctx, analyst.ID, "no-such-user", Now))
}

func testRollback(t *testing.T, st store.Store) {
	ctx := context.Background()
	admin := SeedUser(t, st, domain.RoleAdmin)
	newcomer := SeedUser(t, st, domain.RoleAnalyst)
	inv := SeedInvitation(t, st, admin, domain.RoleAnalyst, Now, time.Hour)

	err := st.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Invitations().AcceptInvitation(ctx, inv.Code, newcomer.ID, Now); err != nil {
			return err
		}
		return store.ErrNotFound
	})
	require.ErrorIs(t, err, store.ErrNotFound)

	reread, err := st.Invitations().GetInvitationByCode(ctx, inv.Code)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, reread.Status)
}
