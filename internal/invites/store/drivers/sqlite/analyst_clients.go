package sqlite

import (
	"context"
	"time"
)

type analystClientsRepo struct {
	db dbtx
}

func (r *analystClientsRepo) Has(ctx context.Context, analystID, clientID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM analyst_clients WHERE analyst_id = ? AND client_id = ?
		)`, analystID, clientID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *analystClientsRepo) ListClientIDs(ctx context.Context, analystID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT client_id
		FROM analyst_clients
		WHERE analyst_id = ?
		ORDER BY client_id`, analystID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *analystClientsRepo) Add(ctx context.Context, analystID, clientID string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO analyst_clients (analyst_id, client_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (analyst_id, client_id) DO NOTHING`,
		analystID, clientID, toMillis(now))
	return err
}

func (r *analystClientsRepo) Remove(ctx context.Context, analystID, clientID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM analyst_clients WHERE analyst_id = ? AND client_id = ?`,
		analystID, clientID)
	return err
}
