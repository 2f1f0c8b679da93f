package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
)

const userColumns = `id, name, email, phone, organization, role, plan, status,
	password_hash, last_login_at, created_at, updated_at`

type usersRepo struct {
	db dbtx
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u         domain.User
		role      string
		plan      sql.NullString
		status    string
		lastLogin sql.NullInt64
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Organization, &role, &plan, &status,
		&u.PasswordHash, &lastLogin, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.Role = domain.Role(role)
	u.Plan = mapUserPlan(plan)
	u.Status = domain.UserStatus(status)
	u.LastLoginAt = mapNullMillis(lastLogin)
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	var plan sql.NullString
	if u.Plan != nil {
		plan = sql.NullString{String: string(*u.Plan), Valid: true}
	}
	status := u.Status
	if status == "" {
		status = domain.UserActive
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, name, email, phone, organization, role, plan, status,
			password_hash, last_login_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.Phone, u.Organization, string(u.Role), plan, string(status),
		u.PasswordHash, mapOptionalMillis(u.LastLoginAt), toMillis(u.CreatedAt), toMillis(u.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ?, updated_at = ? WHERE id = ?`,
		toMillis(at), toMillis(at), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}
