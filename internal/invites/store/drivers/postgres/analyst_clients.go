package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type analystClientsRepo struct {
	db querier
}

func (r *analystClientsRepo) Has(ctx context.Context, analystID, clientID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM analyst_clients WHERE analyst_id = $1 AND client_id = $2
		)`, analystID, clientID).Scan(&exists)
	return exists, err
}

func (r *analystClientsRepo) ListClientIDs(ctx context.Context, analystID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT client_id
		FROM analyst_clients
		WHERE analyst_id = $1
		ORDER BY client_id`, analystID)
	if err != nil {
		return nil, err
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (r *analystClientsRepo) Add(ctx context.Context, analystID, clientID string, now time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO analyst_clients (analyst_id, client_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (analyst_id, client_id) DO NOTHING`,
		analystID, clientID, now.UTC())
	return err
}

func (r *analystClientsRepo) Remove(ctx context.Context, analystID, clientID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM analyst_clients WHERE analyst_id = $1 AND client_id = $2`,
		analystID, clientID)
	return err
}
