package store

import (
	"context"
	stderrors "errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"los-bridge/internal/common/logger"
	"los-bridge/internal/models"
)

func newApplicationStore(t *testing.T) (*ApplicationStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewApplicationStore(db, logger.NewTestLogger(t)), mock
}

var applicationColumns = []string{
	"id", "new_user_id", "legacy_user_id", "status", "data",
	"los_push_status", "los_pushed_at", "created_at", "updated_at",
}

func TestApplicationStore_GetApplication(t *testing.T) {
	store, mock := newApplicationStore(t)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM loan_applications")).
		WithArgs("app-42").
		WillReturnRows(sqlmock.NewRows(applicationColumns).AddRow(
			"app-42", "user-7", nil, "submitted",
			[]byte(`{"loanAmount":350000,"productType":"purchase"}`),
			nil, nil, now, now,
		))

	app, err := store.GetApplication(context.Background(), "app-42")

	require.NoError(t, err)
	assert.Equal(t, "app-42", app.ID)
	require.NotNil(t, app.NewUserID)
	assert.Equal(t, "user-7", *app.NewUserID)
	assert.Nil(t, app.LegacyUserID)
	assert.Nil(t, app.LOSPushStatus)
	assert.Nil(t, app.LOSPushedAt)
	assert.Equal(t, 350000.0, app.Data["loanAmount"])
	assert.Equal(t, "purchase", app.Data["productType"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationStore_GetApplication_PreviouslyPushed(t *testing.T) {
	store, mock := newApplicationStore(t)

	now := time.Now().UTC()
	pushedAt := now.Add(-time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("FROM loan_applications")).
		WithArgs("app-42").
		WillReturnRows(sqlmock.NewRows(applicationColumns).AddRow(
			"app-42", nil, "legacy-3", "submitted", []byte(`{}`),
			"failed", pushedAt, now, now,
		))

	app, err := store.GetApplication(context.Background(), "app-42")

	require.NoError(t, err)
	require.NotNil(t, app.LOSPushStatus)
	assert.Equal(t, models.PushStatusFailed, *app.LOSPushStatus)
	require.NotNil(t, app.LOSPushedAt)
	assert.True(t, app.LOSPushedAt.Equal(pushedAt))
	require.NotNil(t, app.LegacyUserID)
	assert.Equal(t, "legacy-3", *app.LegacyUserID)
}

func TestApplicationStore_GetApplication_NullData(t *testing.T) {
	store, mock := newApplicationStore(t)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM loan_applications")).
		WithArgs("app-42").
		WillReturnRows(sqlmock.NewRows(applicationColumns).AddRow(
			"app-42", nil, nil, "submitted", nil,
			nil, nil, now, now,
		))

	app, err := store.GetApplication(context.Background(), "app-42")

	require.NoError(t, err)
	// An empty document, never a nil map.
	assert.NotNil(t, app.Data)
	assert.Empty(t, app.Data)
}

func TestApplicationStore_GetApplication_NotFound(t *testing.T) {
	store, mock := newApplicationStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM loan_applications")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(applicationColumns))

	app, err := store.GetApplication(context.Background(), "missing")

	require.Error(t, err)
	assert.Nil(t, app)
	assert.True(t, stderrors.Is(err, ErrApplicationNotFound))
}

func TestApplicationStore_UpdatePushStatus(t *testing.T) {
	store, mock := newApplicationStore(t)

	pushedAt := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE loan_applications")).
		WithArgs("app-42", "sent", pushedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdatePushStatus(context.Background(), "app-42", models.PushStatusSent, pushedAt)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationStore_UpdatePushStatus_NoRowMatched(t *testing.T) {
	store, mock := newApplicationStore(t)

	pushedAt := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE loan_applications")).
		WithArgs("missing", "failed", pushedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdatePushStatus(context.Background(), "missing", models.PushStatusFailed, pushedAt)

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrApplicationNotFound))
}

func TestApplicationStore_RecordPushAttempt(t *testing.T) {
	store, mock := newApplicationStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO los_push_attempts")).
		WithArgs(sqlmock.AnyArg(), "app-42", "sent", "", int64(1500), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	attempt := &models.PushAttempt{
		ApplicationID: "app-42",
		Outcome:       models.PushStatusSent,
		Duration:      1500 * time.Millisecond,
	}
	err := store.RecordPushAttempt(context.Background(), attempt)

	require.NoError(t, err)
	// The store fills in the row id and timestamp.
	assert.NotEmpty(t, attempt.ID)
	assert.False(t, attempt.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
