package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"anoa.com/threadboard/internal/entity"
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

func TestCreatePostIncrementsPostCountInSameTransaction(t *testing.T) {
	db, sqlMock := newMockDB(t)
	repo := NewPostRepository(db)
	post := &entity.Post{ThreadID: uuid.New(), AuthorID: uuid.New(), Content: "hi"}

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(`INSERT INTO "posts"`).WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec(`UPDATE "threads" SET "post_count"=post_count \+ \$1 WHERE id = \$2`).
		WithArgs(1, post.ThreadID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), post))
	require.NotEqual(t, uuid.Nil, post.ID)
	require.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCreatePostForMissingThreadRollsBack(t *testing.T) {
	db, sqlMock := newMockDB(t)
	repo := NewPostRepository(db)

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(`INSERT INTO "posts"`).WillReturnError(&pgconn.PgError{Code: "23503"})
	sqlMock.ExpectRollback()

	err := repo.Create(context.Background(), &entity.Post{ThreadID: uuid.New(), AuthorID: uuid.New(), Content: "hi"})
	require.ErrorIs(t, err, gorm.ErrForeignKeyViolated)
	require.NoError(t, sqlMock.ExpectationsWereMet())
}
