package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kobenguyent/note-hub/internal/model"
)

type NoteRepository struct {
	pool *pgxpool.Pool
}

func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

func (r *NoteRepository) Create(ctx context.Context, n model.Note) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notes (id, owner_id, title, body, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.OwnerID, n.Title, n.Body, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (r *NoteRepository) FindByID(ctx context.Context, id string) (model.Note, error) {
	var n model.Note
	err := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, title, body, created_at, updated_at
		 FROM notes WHERE id = $1`, id).
		Scan(&n.ID, &n.OwnerID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Note{}, model.ErrNoteNotFound
	}
	if err != nil {
		return model.Note{}, fmt.Errorf("find note: %w", err)
	}
	return n, nil
}

// Update never touches owner_id; note ownership is immutable.
func (r *NoteRepository) Update(ctx context.Context, n model.Note) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notes SET title = $2, body = $3, updated_at = $4 WHERE id = $1`,
		n.ID, n.Title, n.Body, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNoteNotFound
	}
	return nil
}

// Delete removes the note; its share grants go with it via ON DELETE CASCADE.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNoteNotFound
	}
	return nil
}

// ListVisible returns the notes a user owns plus the ones shared with them,
// newest first.
func (r *NoteRepository) ListVisible(ctx context.Context, userID string) ([]model.Note, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, owner_id, title, body, created_at, updated_at
		 FROM notes
		 WHERE owner_id = $1
		    OR id IN (SELECT note_id FROM share_grants WHERE grantee_id = $1)
		 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
