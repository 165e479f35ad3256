package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return db, sqlMock
}

func TestFindPrivateForUserGroupsAuthorAndMembership(t *testing.T) {
	db, sqlMock := newMockDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	// The author/member alternative must stay inside the is_private filter.
	sqlMock.ExpectQuery(`SELECT \* FROM "threads" WHERE is_private = \$1 AND \(author_id = \$2 OR id IN \(SELECT .*thread_id.* FROM "thread_members" WHERE user_id = \$3\)\) ORDER BY created_at DESC,id DESC`).
		WithArgs(true, userID.String(), userID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "is_private"}))

	threads, err := repo.FindPrivateForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, threads)
	require.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestDeleteMissingThreadIsNotFound(t *testing.T) {
	db, sqlMock := newMockDB(t)
	repo := NewRepository(db)
	id := uuid.New()

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(`DELETE FROM "threads" WHERE id = \$1`).
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	sqlMock.ExpectCommit()

	err := repo.Delete(context.Background(), id)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, sqlMock.ExpectationsWereMet())
}
