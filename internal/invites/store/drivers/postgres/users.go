package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, phone, organization, role, plan, status,
	password_hash, last_login_at, created_at, updated_at`

type usersRepo struct {
	db querier
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u      domain.User
		role   string
		plan   *string
		status string
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Organization, &role, &plan, &status,
		&u.PasswordHash, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.Role = domain.Role(role)
	u.Plan = mapUserPlan(plan)
	u.Status = domain.UserStatus(status)
	u.LastLoginAt = utc(u.LastLoginAt)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	var plan *string
	if u.Plan != nil {
		p := string(*u.Plan)
		plan = &p
	}
	status := u.Status
	if status == "" {
		status = domain.UserActive
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (
			id, name, email, phone, organization, role, plan, status,
			password_hash, last_login_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
		u.ID, u.Name, u.Email, u.Phone, u.Organization, string(u.Role), plan, string(status),
		u.PasswordHash, utc(u.LastLoginAt), u.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET last_login_at = $1, updated_at = $1 WHERE id = $2`,
		at.UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var empty bool
	err := r.db.QueryRow(ctx, `SELECT NOT EXISTS (SELECT 1 FROM users)`).Scan(&empty)
	return empty, err
}
