package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kobenguyent/note-hub/internal/model"
)

type ShareRepository struct {
	pool *pgxpool.Pool
}

func NewShareRepository(pool *pgxpool.Pool) *ShareRepository {
	return &ShareRepository{pool: pool}
}

// Upsert creates a grant or, when one already exists for the (note,
// grantee) pair, updates its edit flag. The unique constraint keeps the
// pair to at most one active grant.
func (r *ShareRepository) Upsert(ctx context.Context, g model.ShareGrant) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO share_grants (id, note_id, grantor_id, grantee_id, can_edit, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (note_id, grantee_id) DO UPDATE SET can_edit = EXCLUDED.can_edit`,
		g.ID, g.NoteID, g.GrantorID, g.GranteeID, g.CanEdit, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert share grant: %w", err)
	}
	return nil
}

// Find returns the active grant for the (note, grantee) pair, if any. Every
// access decision calls this afresh so a revocation is effective on the
// very next check.
func (r *ShareRepository) Find(ctx context.Context, noteID string, granteeID string) (model.ShareGrant, error) {
	var g model.ShareGrant
	err := r.pool.QueryRow(ctx,
		`SELECT id, note_id, grantor_id, grantee_id, can_edit, created_at
		 FROM share_grants WHERE note_id = $1 AND grantee_id = $2`, noteID, granteeID).
		Scan(&g.ID, &g.NoteID, &g.GrantorID, &g.GranteeID, &g.CanEdit, &g.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.ShareGrant{}, model.ErrShareNotFound
	}
	if err != nil {
		return model.ShareGrant{}, fmt.Errorf("find share grant: %w", err)
	}
	return g, nil
}

func (r *ShareRepository) ListByNote(ctx context.Context, noteID string) ([]model.ShareGrant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, note_id, grantor_id, grantee_id, can_edit, created_at
		 FROM share_grants WHERE note_id = $1 ORDER BY created_at`, noteID)
	if err != nil {
		return nil, fmt.Errorf("list share grants: %w", err)
	}
	defer rows.Close()

	grants := make([]model.ShareGrant, 0)
	for rows.Next() {
		var g model.ShareGrant
		if err := rows.Scan(&g.ID, &g.NoteID, &g.GrantorID, &g.GranteeID, &g.CanEdit, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan share grant: %w", err)
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

func (r *ShareRepository) Revoke(ctx context.Context, noteID string, granteeID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM share_grants WHERE note_id = $1 AND grantee_id = $2`, noteID, granteeID)
	if err != nil {
		return fmt.Errorf("revoke share grant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrShareNotFound
	}
	return nil
}
