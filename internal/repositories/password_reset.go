package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/recipebox/auth-service/internal/logger"
	"github.com/recipebox/auth-service/internal/models"
)

// PasswordResetReadRepository handles password reset read operations.
type PasswordResetReadRepository struct {
	db *sqlx.DB
}

func NewPasswordResetReadRepository(db *sqlx.DB) *PasswordResetReadRepository {
	return &PasswordResetReadRepository{db: db}
}

// GetByUserAndToken returns the reset request matching the (user, token)
// pair, expired or not. Expiry is checked by the caller so an expired token
// can be reported distinctly from an unknown one. Returns (nil, nil) when no
// request matches.
func (r *PasswordResetReadRepository) GetByUserAndToken(ctx context.Context, userID int64, token string) (*models.PasswordResetDB, error) {
	const query = `
		SELECT id, user_id, token, expires_at, created_at
		FROM password_resets
		WHERE user_id = $1 AND token = $2
		LIMIT 1
	`

	var reset models.PasswordResetDB
	err := r.db.GetContext(ctx, &reset, query, userID, token)

	// Log with query in single line
	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &reset, nil
}

// PasswordResetWriteRepository handles password reset write operations.
type PasswordResetWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewPasswordResetWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *PasswordResetWriteRepository {
	return &PasswordResetWriteRepository{db: db, txGetter: txGetter}
}

func (r *PasswordResetWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new reset request. Several outstanding requests per user are
// allowed; each stays valid until consumed or expired.
func (r *PasswordResetWriteRepository) Save(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	const query = `
		INSERT INTO password_resets (user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	args := []any{userID, token, expiresAt}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result", rowsAffected,
		"error", err,
	)

	return err
}

// Delete removes a consumed reset request so the token cannot be replayed.
func (r *PasswordResetWriteRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM password_resets WHERE id = $1`

	res, err := r.executor(ctx).ExecContext(ctx, query, id)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"result", rowsAffected,
		"error", err,
	)

	return err
}

// DeleteExpired removes reset requests past their expiry and returns how many
// were removed. Called periodically so unused requests do not accumulate.
func (r *PasswordResetWriteRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM password_resets WHERE expires_at <= NOW()`

	res, err := r.executor(ctx).ExecContext(ctx, query)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"result", rowsAffected,
		"error", err,
	)

	return rowsAffected, err
}
