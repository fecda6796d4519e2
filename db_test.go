package pandey

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type gadget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func (g *gadget) GetID() uint { return g.ID }

func newMockDB(t *testing.T) (DBService, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return NewDBServiceFromGorm(db, 0, &gadget{}), mock
}

func TestRepositoryFindOne(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository[*gadget](db, testLogger(), WithTableName[*gadget]("gadgets"))

	mock.ExpectQuery(`SELECT \* FROM "gadgets" WHERE gadgets.id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "Router"))

	g, err := repo.FindOneByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Router", g.Name)

	mock.ExpectQuery(`SELECT \* FROM "gadgets" WHERE gadgets.slug = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err = repo.FindOneBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryFindPage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository[*gadget](db, testLogger(),
		WithTableName[*gadget]("gadgets"),
		WithDefaultOrder[*gadget]("gadgets.name ASC"),
	)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "gadgets" WHERE name ILIKE \$1`).
		WithArgs("%rou%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT \* FROM "gadgets" WHERE name ILIKE \$1 ORDER BY gadgets.name ASC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(9, "Router Pro"))

	page, err := repo.FindPage(context.Background(), ListQuery{
		Page:   2,
		Limit:  2,
		Scopes: []Scope{Where("name ILIKE ?", LikePattern("rou"))},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, uint(9), page.Items[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOneMissingRow(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "gadgets" WHERE "gadgets"."id" = \$1`).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := db.DeleteOne(context.Background(), 4, &gadget{})
	assert.ErrorIs(t, err, ErrRecordNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, TranslateError(nil))
	assert.ErrorIs(t, TranslateError(gorm.ErrDuplicatedKey), ErrConflict)
	assert.ErrorIs(t, TranslateError(gorm.ErrForeignKeyViolated), ErrConflict)
	assert.ErrorIs(t, TranslateError(gorm.ErrRecordNotFound), ErrRecordNotFound)

	other := errors.New("timeout")
	assert.Equal(t, other, TranslateError(other))
}
