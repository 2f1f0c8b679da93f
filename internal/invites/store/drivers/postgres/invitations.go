package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store"
	"github.com/jackc/pgx/v5"
)

const invitationColumns = `id, code, email, role, invited_by, invited_by_role, status,
	expires_at, accepted_at, accepted_by, metadata, created_at, updated_at`

const joinedInvitationColumns = `i.id, i.code, i.email, i.role, i.invited_by, i.invited_by_role, i.status,
	i.expires_at, i.accepted_at, i.accepted_by, i.metadata, i.created_at, i.updated_at,
	inviter.name, inviter.email, acceptor.name, acceptor.email`

type invitationsRepo struct {
	db querier
}

func scanInvitation(row pgx.Row, extra ...any) (domain.Invitation, error) {
	var (
		inv        domain.Invitation
		role       string
		inviterRol string
		status     string
		metadata   []byte
	)

	dest := []any{
		&inv.ID, &inv.Code, &inv.Email, &role, &inv.InvitedBy, &inviterRol, &status,
		&inv.ExpiresAt, &inv.AcceptedAt, &inv.AcceptedBy, &metadata, &inv.CreatedAt, &inv.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return domain.Invitation{}, err
	}

	inv.Role = domain.Role(role)
	inv.InvitedByRole = domain.Role(inviterRol)
	inv.Status = domain.InvitationStatus(status)
	inv.ExpiresAt = inv.ExpiresAt.UTC()
	inv.AcceptedAt = utc(inv.AcceptedAt)
	md, err := decodeMetadata(metadata)
	if err != nil {
		return domain.Invitation{}, fmt.Errorf("invitation %s: %w", inv.ID, err)
	}
	inv.Metadata = md
	inv.CreatedAt = inv.CreatedAt.UTC()
	inv.UpdatedAt = inv.UpdatedAt.UTC()
	return inv, nil
}

func collectInvitations(rows pgx.Rows) ([]domain.Invitation, error) {
	defer rows.Close()

	out := []domain.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitationsRepo) CreateInvitation(
	ctx context.Context,
	inv domain.Invitation,
) (domain.Invitation, error) {
	metadata, err := encodeMetadata(inv.Metadata)
	if err != nil {
		return domain.Invitation{}, err
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO invitations (
			id, code, email, role, invited_by, invited_by_role, status,
			expires_at, metadata, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7, $8::jsonb, $9, $9)
		RETURNING `+invitationColumns,
		inv.ID, inv.Code, inv.Email, string(inv.Role), inv.InvitedBy, string(inv.InvitedByRole),
		inv.ExpiresAt.UTC(), string(metadata), inv.CreatedAt.UTC(),
	)

	created, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapConstraint(err)
	}
	return created, nil
}

func (r *invitationsRepo) GetInvitationByCode(ctx context.Context, code string) (domain.Invitation, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE code = $1`, code)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) ListInvitationsByInviter(
	ctx context.Context,
	inviterID string,
) ([]domain.Invitation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+invitationColumns+`
		FROM invitations
		WHERE invited_by = $1
		ORDER BY created_at DESC, id DESC`, inviterID)
	if err != nil {
		return nil, err
	}
	return collectInvitations(rows)
}

func (r *invitationsRepo) ListAllInvitations(ctx context.Context) ([]domain.Invitation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+joinedInvitationColumns+`
		FROM invitations i
		LEFT JOIN users inviter ON inviter.id = i.invited_by
		LEFT JOIN users acceptor ON acceptor.id = i.accepted_by
		ORDER BY i.created_at DESC, i.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Invitation{}
	for rows.Next() {
		var inviterName, inviterEmail, acceptorName, acceptorEmail *string
		inv, err := scanInvitation(rows, &inviterName, &inviterEmail, &acceptorName, &acceptorEmail)
		if err != nil {
			return nil, err
		}
		inv.InviterName = deref(inviterName)
		inv.InviterEmail = deref(inviterEmail)
		inv.AcceptedByName = deref(acceptorName)
		inv.AcceptedByEmail = deref(acceptorEmail)
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitationsRepo) AcceptInvitation(
	ctx context.Context,
	code, userID string,
	now time.Time,
) (domain.Invitation, error) {
	now = now.UTC()

	// Row locking makes concurrent updates re-check the predicate, so only
	// one caller can observe the pending row.
	row := r.db.QueryRow(ctx, `
		UPDATE invitations
		SET status = 'accepted', accepted_at = $1, accepted_by = $2, updated_at = $1
		WHERE code = $3 AND status = 'pending' AND expires_at > $1
		RETURNING `+invitationColumns,
		now, userID, code,
	)

	inv, err := scanInvitation(row)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Invitation{}, err
	}

	current, err := r.GetInvitationByCode(ctx, code)
	if err != nil {
		return domain.Invitation{}, err
	}
	return domain.Invitation{}, store.ClassifyUnchanged(current, now)
}

func (r *invitationsRepo) CancelInvitation(
	ctx context.Context,
	id, callerID string,
	privileged bool,
	now time.Time,
) (domain.Invitation, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE invitations
		SET status = 'cancelled', updated_at = $1
		WHERE id = $2 AND status = 'pending' AND ($4::boolean OR invited_by = $3)
		RETURNING `+invitationColumns,
		now.UTC(), id, callerID, privileged,
	)

	inv, err := scanInvitation(row)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Invitation{}, err
	}

	current, err := r.GetInvitationByID(ctx, id)
	if err != nil {
		return domain.Invitation{}, err
	}
	if !privileged && current.InvitedBy != callerID {
		return domain.Invitation{}, store.ErrNotInviter
	}
	return domain.Invitation{}, store.ErrNotPending
}
