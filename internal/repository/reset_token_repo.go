package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kobenguyent/note-hub/internal/model"
)

type ResetTokenRepository struct {
	pool *pgxpool.Pool
}

func NewResetTokenRepository(pool *pgxpool.Pool) *ResetTokenRepository {
	return &ResetTokenRepository{pool: pool}
}

// Issue stores a fresh reset token and retires the user's previous unused
// tokens in the same transaction, so at most one token is redeemable per
// user at any time.
func (r *ResetTokenRepository) Issue(ctx context.Context, t model.PasswordResetToken) error {
	err := WithTx(ctx, r.pool, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.Exec(ctx,
			`UPDATE password_reset_tokens SET used = TRUE WHERE user_id = $1 AND NOT used`,
			t.UserID); err != nil {
			return fmt.Errorf("retire previous reset tokens: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO password_reset_tokens (id, user_id, token, expires_at, used, created_at)
			 VALUES ($1, $2, $3, $4, FALSE, $5)`,
			t.ID, t.UserID, t.Token, t.ExpiresAt, t.CreatedAt); err != nil {
			return fmt.Errorf("store reset token: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}
	return nil
}

func (r *ResetTokenRepository) Find(ctx context.Context, token string) (model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, token, expires_at, used, created_at
		 FROM password_reset_tokens WHERE token = $1`, token).
		Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.Used, &t.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.PasswordResetToken{}, model.ErrInvalidToken
	}
	if err != nil {
		return model.PasswordResetToken{}, fmt.Errorf("find reset token: %w", err)
	}
	return t, nil
}

// Consume marks the token used and stores the new password hash atomically.
// The guarded UPDATE makes a concurrent double-redeem lose the race and
// surface as ErrTokenAlreadyUsed.
func (r *ResetTokenRepository) Consume(ctx context.Context, tokenID string, userID string, passwordHash string) error {
	return WithTx(ctx, r.pool, func(ctx context.Context, tx DBTX) error {
		tag, err := tx.Exec(ctx,
			`UPDATE password_reset_tokens SET used = TRUE WHERE id = $1 AND NOT used`, tokenID)
		if err != nil {
			return fmt.Errorf("consume reset token: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrTokenAlreadyUsed
		}

		tag, err = tx.Exec(ctx,
			`UPDATE users SET password_hash = $2 WHERE id = $1`, userID, passwordHash)
		if err != nil {
			return fmt.Errorf("store new password hash: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrUserNotFound
		}

		return nil
	})
}
