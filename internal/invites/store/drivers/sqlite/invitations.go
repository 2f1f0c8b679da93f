package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store"
)

const invitationColumns = `id, code, email, role, invited_by, invited_by_role, status,
	expires_at, accepted_at, accepted_by, metadata, created_at, updated_at`

const joinedInvitationColumns = `i.id, i.code, i.email, i.role, i.invited_by, i.invited_by_role, i.status,
	i.expires_at, i.accepted_at, i.accepted_by, i.metadata, i.created_at, i.updated_at,
	inviter.name, inviter.email, acceptor.name, acceptor.email`

type invitationsRepo struct {
	db dbtx
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner, extra ...any) (domain.Invitation, error) {
	var (
		inv        domain.Invitation
		role       string
		inviterRol string
		status     string
		expiresAt  int64
		acceptedAt sql.NullInt64
		acceptedBy sql.NullString
		metadata   string
		createdAt  int64
		updatedAt  int64
	)

	dest := []any{
		&inv.ID, &inv.Code, &inv.Email, &role, &inv.InvitedBy, &inviterRol, &status,
		&expiresAt, &acceptedAt, &acceptedBy, &metadata, &createdAt, &updatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return domain.Invitation{}, err
	}

	inv.Role = domain.Role(role)
	inv.InvitedByRole = domain.Role(inviterRol)
	inv.Status = domain.InvitationStatus(status)
	inv.ExpiresAt = fromMillis(expiresAt)
	inv.AcceptedAt = mapNullMillis(acceptedAt)
	inv.AcceptedBy = mapNullStringPtr(acceptedBy)
	md, err := decodeMetadata(metadata)
	if err != nil {
		return domain.Invitation{}, fmt.Errorf("invitation %s: %w", inv.ID, err)
	}
	inv.Metadata = md
	inv.CreatedAt = fromMillis(createdAt)
	inv.UpdatedAt = fromMillis(updatedAt)
	return inv, nil
}

func (r *invitationsRepo) CreateInvitation(
	ctx context.Context,
	inv domain.Invitation,
) (domain.Invitation, error) {
	metadata, err := encodeMetadata(inv.Metadata)
	if err != nil {
		return domain.Invitation{}, err
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO invitations (
			id, code, email, role, invited_by, invited_by_role, status,
			expires_at, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, 'pending', ?, ?, ?, ?)
		RETURNING `+invitationColumns,
		inv.ID, inv.Code, inv.Email, string(inv.Role), inv.InvitedBy, string(inv.InvitedByRole),
		toMillis(inv.ExpiresAt), metadata, toMillis(inv.CreatedAt), toMillis(inv.CreatedAt),
	)

	created, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapConstraint(err)
	}
	return created, nil
}

func (r *invitationsRepo) GetInvitationByCode(ctx context.Context, code string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE code = ?`, code)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
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
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+invitationColumns+`
		FROM invitations
		WHERE invited_by = ?
		ORDER BY created_at DESC, id DESC`, inviterID)
	if err != nil {
		return nil, err
	}
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

func (r *invitationsRepo) ListAllInvitations(ctx context.Context) ([]domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx, `
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
		var inviterName, inviterEmail, acceptorName, acceptorEmail sql.NullString
		inv, err := scanInvitation(rows, &inviterName, &inviterEmail, &acceptorName, &acceptorEmail)
		if err != nil {
			return nil, err
		}
		inv.InviterName = mapNullString(inviterName)
		inv.InviterEmail = mapNullString(inviterEmail)
		inv.AcceptedByName = mapNullString(acceptorName)
		inv.AcceptedByEmail = mapNullString(acceptorEmail)
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitationsRepo) AcceptInvitation(
	ctx context.Context,
	code, userID string,
	now time.Time,
) (domain.Invitation, error) {
	ms := toMillis(now)

	// The WHERE clause is the authority on validity; a prior read is never
	// trusted.
	row := r.db.QueryRowContext(ctx, `
		UPDATE invitations
		SET status = 'accepted', accepted_at = ?, accepted_by = ?, updated_at = ?
		WHERE code = ? AND status = 'pending' AND expires_at > ?
		RETURNING `+invitationColumns,
		ms, userID, ms, code, ms,
	)

	inv, err := scanInvitation(row)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
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
	row := r.db.QueryRowContext(ctx, `
		UPDATE invitations
		SET status = 'cancelled', updated_at = ?
		WHERE id = ? AND status = 'pending' AND (invited_by = ? OR ?)
		RETURNING `+invitationColumns,
		toMillis(now), id, callerID, privileged,
	)

	inv, err := scanInvitation(row)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
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
