package store

import (
	"context"
	stderrors "errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileStore(t *testing.T) (*ProfileStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewProfileStore(db), mock
}

var profileColumns = []string{"id", "full_name", "email", "phone"}

func TestProfileStore_GetProfile(t *testing.T) {
	store, mock := newProfileStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles")).
		WithArgs("user-7").
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
			"user-7", "Jane A. Doe", "jane@example.com", "555-0100",
		))

	p, err := store.GetProfile(context.Background(), "user-7")

	require.NoError(t, err)
	assert.Equal(t, "user-7", p.ID)
	assert.Equal(t, "Jane A. Doe", p.FullName)
	assert.Equal(t, "jane@example.com", p.Email)
	assert.Equal(t, "555-0100", p.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileStore_GetProfile_NullContactFields(t *testing.T) {
	store, mock := newProfileStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles")).
		WithArgs("user-7").
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
			"user-7", "Jane Doe", nil, nil,
		))

	p, err := store.GetProfile(context.Background(), "user-7")

	require.NoError(t, err)
	assert.Empty(t, p.Email)
	assert.Empty(t, p.Phone)
}

func TestProfileStore_GetProfile_NotFound(t *testing.T) {
	store, mock := newProfileStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(profileColumns))

	p, err := store.GetProfile(context.Background(), "missing")

	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, stderrors.Is(err, ErrProfileNotFound))
}

func TestProfileStore_GetLegacyProfile(t *testing.T) {
	store, mock := newProfileStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("legacy-3").
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
			"legacy-3", "Sam Smith", "sam@example.com", nil,
		))

	p, err := store.GetLegacyProfile(context.Background(), "legacy-3")

	require.NoError(t, err)
	assert.Equal(t, "legacy-3", p.ID)
	assert.Equal(t, "Sam Smith", p.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
