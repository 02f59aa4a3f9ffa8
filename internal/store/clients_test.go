// internal/store/clients_test.go
package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"francis-backend/internal/common/errors"
	"francis-backend/internal/common/logger"
	"francis-backend/internal/models"
)

func newClientStore(t *testing.T) (*ClientStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewClientStore(db, logger.NewTestLogger(t)), mock
}

func strPtr(s string) *string { return &s }

func TestClientStore_Create(t *testing.T) {
	store, mock := newClientStore(t)

	mock.ExpectExec("INSERT INTO client_profiles").
		WithArgs(sqlmock.AnyArg(), "advisor-1", "Jean Dupont", "nouveau",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	profile := &models.ClientProfile{Prenom: strPtr("Jean"), Nom: strPtr("Dupont")}
	created, err := store.Create(context.Background(), "advisor-1", profile)
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientStore_Get(t *testing.T) {
	store, mock := newClientStore(t)

	stored := &models.ClientProfile{ID: "client-1", Prenom: strPtr("Marie")}
	data, err := json.Marshal(stored)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT data FROM client_profiles").
		WithArgs("client-1", "advisor-1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(data))

	profile, err := store.Get(context.Background(), "advisor-1", "client-1")
	require.NoError(t, err)

	assert.Equal(t, "client-1", profile.ID)
	require.NotNil(t, profile.Prenom)
	assert.Equal(t, "Marie", *profile.Prenom)
}

func TestClientStore_GetNotFound(t *testing.T) {
	store, mock := newClientStore(t)

	mock.ExpectQuery("SELECT data FROM client_profiles").
		WithArgs("missing", "advisor-1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	_, err := store.Get(context.Background(), "advisor-1", "missing")
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeProfileNotFound, stdErr.Code)
}

func TestClientStore_GetScopedToAdvisor(t *testing.T) {
	store, mock := newClientStore(t)

	// The owning advisor is part of the lookup key: another advisor's id
	// yields no rows, not a leak.
	mock.ExpectQuery("SELECT data FROM client_profiles").
		WithArgs("client-1", "other-advisor").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	_, err := store.Get(context.Background(), "other-advisor", "client-1")
	assert.Error(t, err)
}

func TestClientStore_List(t *testing.T) {
	store, mock := newClientStore(t)

	first, _ := json.Marshal(&models.ClientProfile{ID: "c1"})
	second, _ := json.Marshal(&models.ClientProfile{ID: "c2"})
	mock.ExpectQuery("SELECT data FROM client_profiles").
		WithArgs("advisor-1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(first).AddRow(second))

	profiles, err := store.List(context.Background(), "advisor-1")
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "c1", profiles[0].ID)
	assert.Equal(t, "c2", profiles[1].ID)
}

func TestClientStore_UpdateNotFound(t *testing.T) {
	store, mock := newClientStore(t)

	mock.ExpectExec("UPDATE client_profiles").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Update(context.Background(), "advisor-1", &models.ClientProfile{ID: "missing"})
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeProfileNotFound, stdErr.Code)
}

func TestClientStore_Delete(t *testing.T) {
	store, mock := newClientStore(t)

	mock.ExpectExec("DELETE FROM client_profiles").
		WithArgs("client-1", "advisor-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Delete(context.Background(), "advisor-1", "client-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
