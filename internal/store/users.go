// internal/store/users.go
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/goccy/go-json"

	commonerrors "francis-backend/internal/common/errors"
	"francis-backend/internal/common/logger"
	"francis-backend/internal/models"
)

type UserStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewUserStore(db *sql.DB, log logger.Logger) *UserStore {
	return &UserStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "user-store"}),
	}
}

func (s *UserStore) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM user_profiles WHERE id = $1`, userID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, commonerrors.NewProfileNotFoundError(userID)
	}
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("select user profile", err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("unmarshal user profile", err)
	}
	return &profile, nil
}

// Upsert stores the full profile document, creating the row on first write.
func (s *UserStore) Upsert(ctx context.Context, profile *models.UserProfile) error {
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	data, err := json.Marshal(profile)
	if err != nil {
		return commonerrors.NewQueryExecutionFailedError("marshal user profile", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_profiles (id, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET data = $2, updated_at = $4`,
		profile.ID, data, profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		return commonerrors.NewQueryExecutionFailedError("upsert user profile", err)
	}
	return nil
}

// Patch merges the given fields into the stored document. Only keys present
// in fields are touched; a null value clears the field.
func (s *UserStore) Patch(ctx context.Context, userID string, fields map[string]interface{}) (*models.UserProfile, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	doc, err := json.Marshal(current)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("marshal user profile", err)
	}
	var merged map[string]interface{}
	if err := json.Unmarshal(doc, &merged); err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("unmarshal user profile", err)
	}
	for k, v := range fields {
		if v == nil {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}
	merged["id"] = userID

	patched, err := json.Marshal(merged)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("marshal user profile", err)
	}
	var profile models.UserProfile
	if err := json.Unmarshal(patched, &profile); err != nil {
		return nil, commonerrors.NewInvalidPayloadError("patch produced an invalid profile: " + err.Error())
	}

	if err := s.Upsert(ctx, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
