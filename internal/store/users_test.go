// internal/store/users_test.go
package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"francis-backend/internal/common/logger"
	"francis-backend/internal/models"
)

func newUserStore(t *testing.T) (*UserStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db, logger.NewTestLogger(t)), mock
}

func TestUserStore_Upsert(t *testing.T) {
	store, mock := newUserStore(t)

	mock.ExpectExec("INSERT INTO user_profiles").
		WithArgs("user-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	profile := &models.UserProfile{ID: "user-1", Email: strPtr("jean@example.fr")}
	require.NoError(t, store.Upsert(context.Background(), profile))

	assert.False(t, profile.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_PatchMergesFields(t *testing.T) {
	store, mock := newUserStore(t)

	stored := &models.UserProfile{ID: "user-1", Email: strPtr("jean@example.fr"), Profession: strPtr("Salarié")}
	data, err := json.Marshal(stored)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT data FROM user_profiles").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(data))
	mock.ExpectExec("INSERT INTO user_profiles").
		WillReturnResult(sqlmock.NewResult(0, 1))

	patched, err := store.Patch(context.Background(), "user-1", map[string]interface{}{
		"profession":     "Indépendant",
		"nombre_enfants": 2,
	})
	require.NoError(t, err)

	require.NotNil(t, patched.Profession)
	assert.Equal(t, "Indépendant", *patched.Profession)
	require.NotNil(t, patched.NombreEnfants)
	assert.Equal(t, 2, *patched.NombreEnfants)
	require.NotNil(t, patched.Email)
	assert.Equal(t, "jean@example.fr", *patched.Email, "untouched fields survive the patch")
}

func TestUserStore_PatchNullClearsField(t *testing.T) {
	store, mock := newUserStore(t)

	stored := &models.UserProfile{ID: "user-1", Profession: strPtr("Salarié")}
	data, err := json.Marshal(stored)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT data FROM user_profiles").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(data))
	mock.ExpectExec("INSERT INTO user_profiles").
		WillReturnResult(sqlmock.NewResult(0, 1))

	patched, err := store.Patch(context.Background(), "user-1", map[string]interface{}{
		"profession": nil,
	})
	require.NoError(t, err)
	assert.Nil(t, patched.Profession)
}

func TestUserStore_PatchUnknownUser(t *testing.T) {
	store, mock := newUserStore(t)

	mock.ExpectQuery("SELECT data FROM user_profiles").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	_, err := store.Patch(context.Background(), "missing", map[string]interface{}{"profession": "x"})
	assert.Error(t, err)
}
