package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestPasswordResetReadRepository_GetByUserAndToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPasswordResetReadRepository(db)

		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at"}).
			AddRow(int64(7), int64(1), "resettoken", now.Add(time.Hour), now)

		mock.ExpectQuery("SELECT id, user_id, token, expires_at, created_at FROM password_resets").
			WithArgs(int64(1), "resettoken").
			WillReturnRows(rows)

		reset, err := repo.GetByUserAndToken(ctx, 1, "resettoken")
		assert.NoError(t, err)
		assert.NotNil(t, reset)
		assert.Equal(t, int64(7), reset.ID)
		assert.Equal(t, "resettoken", reset.Token)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPasswordResetReadRepository(db)

		mock.ExpectQuery("SELECT id, user_id, token, expires_at, created_at FROM password_resets").
			WithArgs(int64(1), "missing").
			WillReturnError(sql.ErrNoRows)

		reset, err := repo.GetByUserAndToken(ctx, 1, "missing")
		assert.NoError(t, err)
		assert.Nil(t, reset)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("QueryError", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPasswordResetReadRepository(db)

		mock.ExpectQuery("SELECT id, user_id, token, expires_at, created_at FROM password_resets").
			WithArgs(int64(1), "resettoken").
			WillReturnError(sql.ErrConnDone)

		reset, err := repo.GetByUserAndToken(ctx, 1, "resettoken")
		assert.Error(t, err)
		assert.Nil(t, reset)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPasswordResetWriteRepository_Save(t *testing.T) {
	ctx := context.Background()

	db, mock := newMockDB(t)
	repo := NewPasswordResetWriteRepository(db, nil)

	expiresAt := time.Now().Add(time.Hour)

	mock.ExpectExec("INSERT INTO password_resets").
		WithArgs(int64(1), "resettoken", expiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(ctx, 1, "resettoken", expiresAt)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetWriteRepository_Delete(t *testing.T) {
	ctx := context.Background()

	db, mock := newMockDB(t)
	repo := NewPasswordResetWriteRepository(db, nil)

	mock.ExpectExec("DELETE FROM password_resets WHERE id").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(ctx, 7)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetWriteRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()

	t.Run("RemovesRows", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPasswordResetWriteRepository(db, nil)

		mock.ExpectExec("DELETE FROM password_resets WHERE expires_at").
			WillReturnResult(sqlmock.NewResult(0, 3))

		n, err := repo.DeleteExpired(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), n)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ExecError", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPasswordResetWriteRepository(db, nil)

		mock.ExpectExec("DELETE FROM password_resets WHERE expires_at").
			WillReturnError(sql.ErrConnDone)

		_, err := repo.DeleteExpired(ctx)
		assert.Error(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPasswordResetWriteRepository_UsesContextTx(t *testing.T) {
	ctx := context.Background()

	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM password_resets WHERE id").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	assert.NoError(t, err)

	repo := NewPasswordResetWriteRepository(db, func(ctx context.Context) *sqlx.Tx { return tx })

	err = repo.Delete(ctx, 7)
	assert.NoError(t, err)

	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
