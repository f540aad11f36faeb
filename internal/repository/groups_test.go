package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pvmail/internal/models"
)

func setupMockGroupsDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *GroupsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewGroupsRepository(db, zap.NewNop())
	return db, mock, repo
}

func TestGetGroup_Success(t *testing.T) {
	db, mock, repo := setupMockGroupsDB(t)
	defer db.Close()

	id := uuid.New().String()
	rows := sqlmock.NewRows([]string{"id", "name", "enabled"}).
		AddRow(id, "ops", true)

	mock.ExpectQuery(`FROM "groups"`).
		WithArgs("ops").
		WillReturnRows(rows)

	g, err := repo.GetGroup(context.Background(), "ops")

	require.NoError(t, err)
	assert.Equal(t, id, g.ID)
	assert.Equal(t, "ops", g.Name)
	assert.True(t, g.Enabled)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGroup_NotFound(t *testing.T) {
	db, mock, repo := setupMockGroupsDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM "groups"`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	g, err := repo.GetGroup(context.Background(), "ghost")

	assert.Nil(t, g)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGroup_Success(t *testing.T) {
	db, mock, repo := setupMockGroupsDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO "groups"`).
		WithArgs(sqlmock.AnyArg(), "ops", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := repo.CreateGroup(context.Background(), &models.Group{Name: "ops", Enabled: true})

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGroup_DuplicateName(t *testing.T) {
	db, mock, repo := setupMockGroupsDB(t)
	defer db.Close()

	// Second group named "ops" is rejected by the uniqueness constraint.
	mock.ExpectExec(`INSERT INTO "groups"`).
		WithArgs(sqlmock.AnyArg(), "ops", false).
		WillReturnError(&pq.Error{Code: "23505"})

	id, err := repo.CreateGroup(context.Background(), &models.Group{Name: "ops", Enabled: false})

	assert.Empty(t, id)
	assert.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGroup_EmptyName(t *testing.T) {
	db, mock, repo := setupMockGroupsDB(t)
	defer db.Close()

	id, err := repo.CreateGroup(context.Background(), &models.Group{Enabled: true})

	assert.Empty(t, id)
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetEnabled_Success(t *testing.T) {
	db, mock, repo := setupMockGroupsDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE "groups"`).
		WithArgs("ops", false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetEnabled(context.Background(), "ops", false)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetEnabled_NotFound(t *testing.T) {
	db, mock, repo := setupMockGroupsDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE "groups"`).
		WithArgs("ghost", true).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetEnabled(context.Background(), "ghost", true)

	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListGroups_Success(t *testing.T) {
	db, mock, repo := setupMockGroupsDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "enabled"}).
		AddRow(uuid.New().String(), "cryo", true).
		AddRow(uuid.New().String(), "ops", false)

	mock.ExpectQuery(`FROM "groups"`).WillReturnRows(rows)

	groups, err := repo.ListGroups(context.Background())

	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "cryo", groups[0].Name)
	assert.False(t, groups[1].Enabled)

	require.NoError(t, mock.ExpectationsWereMet())
}
