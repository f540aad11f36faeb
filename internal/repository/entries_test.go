package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pvmail/internal/models"
)

func setupMockEntriesDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *EntriesRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewEntriesRepository(db, zap.NewNop())
	return db, mock, repo
}

func testEntry(groupID string) *models.Entry {
	return &models.Entry{
		Pvname:         "PV:TEMP1",
		AlarmValues:    "50.0",
		Condition:      "superior than",
		EmailTimeout:   60,
		Emails:         "a@x.com:b@x.com",
		Group:          "ops",
		GroupID:        groupID,
		Subject:        "Temp alarm",
		Unit:           "C",
		WarningMessage: "Temperature high",
	}
}

func expectEntryInsert(mock sqlmock.Sqlmock, e *models.Entry) *sqlmock.ExpectedExec {
	return mock.ExpectExec("INSERT INTO entries").
		WithArgs(
			sqlmock.AnyArg(),
			e.Pvname,
			e.AlarmValues,
			e.Condition,
			e.EmailTimeout,
			e.Emails,
			e.Group,
			e.GroupID,
			e.Subject,
			e.Unit,
			e.WarningMessage,
		)
}

func TestInsert_Success(t *testing.T) {
	db, mock, repo := setupMockEntriesDB(t)
	defer db.Close()

	e := testEntry(uuid.New().String())
	expectEntryInsert(mock, e).WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := repo.Insert(context.Background(), e)

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_DuplicatePvnameAllowed(t *testing.T) {
	db, mock, repo := setupMockEntriesDB(t)
	defer db.Close()

	// Two rules watching the same pvname with identical fields both land:
	// entries carry no uniqueness constraint.
	e := testEntry(uuid.New().String())
	expectEntryInsert(mock, e).WillReturnResult(sqlmock.NewResult(0, 1))
	expectEntryInsert(mock, e).WillReturnResult(sqlmock.NewResult(0, 1))

	first, err := repo.Insert(context.Background(), e)
	require.NoError(t, err)
	second, err := repo.Insert(context.Background(), e)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func entryRows(entries ...*models.Entry) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "pvname", "alarm_values", "condition", "email_timeout",
		"emails", "group", "group_id", "subject", "unit", "warning_message",
	})
	for _, e := range entries {
		rows.AddRow(e.ID, e.Pvname, e.AlarmValues, e.Condition, e.EmailTimeout,
			e.Emails, e.Group, e.GroupID, e.Subject, e.Unit, e.WarningMessage)
	}
	return rows
}

func TestListEntries_Success(t *testing.T) {
	db, mock, repo := setupMockEntriesDB(t)
	defer db.Close()

	e := testEntry(uuid.New().String())
	e.ID = uuid.New().String()

	mock.ExpectQuery("FROM entries").WillReturnRows(entryRows(e))

	entries, err := repo.ListEntries(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, e.Pvname, entries[0].Pvname)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, entries[0].EmailList())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListMissingGroupID(t *testing.T) {
	db, mock, repo := setupMockEntriesDB(t)
	defer db.Close()

	e := testEntry(ZeroUUID)
	e.ID = uuid.New().String()

	mock.ExpectQuery("FROM entries").
		WithArgs(ZeroUUID).
		WillReturnRows(entryRows(e))

	entries, err := repo.ListMissingGroupID(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ZeroUUID, entries[0].GroupID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetGroupID_Success(t *testing.T) {
	db, mock, repo := setupMockEntriesDB(t)
	defer db.Close()

	entryID := uuid.New().String()
	groupID := uuid.New().String()

	mock.ExpectExec("UPDATE entries").
		WithArgs(entryID, groupID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetGroupID(context.Background(), entryID, groupID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetGroupID_EntryNotFound(t *testing.T) {
	db, mock, repo := setupMockEntriesDB(t)
	defer db.Close()

	entryID := uuid.New().String()
	groupID := uuid.New().String()

	mock.ExpectExec("UPDATE entries").
		WithArgs(entryID, groupID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetGroupID(context.Background(), entryID, groupID)

	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
