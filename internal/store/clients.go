// internal/store/clients.go
// Package store persists client and user profiles in PostgreSQL. Profiles are
// stored as a JSONB document alongside a few promoted columns used for
// listing and filtering, so schema migrations are not needed every time the
// questionnaire grows a field.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	commonerrors "francis-backend/internal/common/errors"
	"francis-backend/internal/common/logger"
	"francis-backend/internal/models"
)

type ClientStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewClientStore(db *sql.DB, log logger.Logger) *ClientStore {
	return &ClientStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "client-store"}),
	}
}

// Create inserts a new client profile owned by the given advisor and returns
// it with its generated id.
func (s *ClientStore) Create(ctx context.Context, advisorID string, profile *models.ClientProfile) (*models.ClientProfile, error) {
	now := time.Now().UTC()
	profile.ID = uuid.New().String()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	data, err := json.Marshal(profile)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("marshal client profile", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO client_profiles (id, advisor_id, display_name, statut_dossier, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		profile.ID, advisorID, profile.DisplayName(), statusOf(profile), data, now, now)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("insert client profile", err)
	}

	s.logger.Info("client profile created", map[string]interface{}{
		"clientId":  profile.ID,
		"advisorId": advisorID,
	})
	return profile, nil
}

// Get loads a client profile, scoped to the advisor who owns it.
func (s *ClientStore) Get(ctx context.Context, advisorID, clientID string) (*models.ClientProfile, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM client_profiles
		WHERE id = $1 AND advisor_id = $2`, clientID, advisorID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, commonerrors.NewProfileNotFoundError(clientID)
	}
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("select client profile", err)
	}

	var profile models.ClientProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("unmarshal client profile", err)
	}
	return &profile, nil
}

// List returns every client profile of an advisor, most recently updated
// first.
func (s *ClientStore) List(ctx context.Context, advisorID string) ([]*models.ClientProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT data FROM client_profiles
		WHERE advisor_id = $1
		ORDER BY updated_at DESC`, advisorID)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("list client profiles", err)
	}
	defer rows.Close()

	var profiles []*models.ClientProfile
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, commonerrors.NewQueryExecutionFailedError("scan client profile", err)
		}
		var profile models.ClientProfile
		if err := json.Unmarshal(data, &profile); err != nil {
			return nil, commonerrors.NewQueryExecutionFailedError("unmarshal client profile", err)
		}
		profiles = append(profiles, &profile)
	}
	return profiles, rows.Err()
}

// Update replaces the stored document. The caller merges partial updates into
// a loaded profile first; last write wins.
func (s *ClientStore) Update(ctx context.Context, advisorID string, profile *models.ClientProfile) error {
	profile.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(profile)
	if err != nil {
		return commonerrors.NewQueryExecutionFailedError("marshal client profile", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE client_profiles
		SET display_name = $1, statut_dossier = $2, data = $3, updated_at = $4
		WHERE id = $5 AND advisor_id = $6`,
		profile.DisplayName(), statusOf(profile), data, profile.UpdatedAt, profile.ID, advisorID)
	if err != nil {
		return commonerrors.NewQueryExecutionFailedError("update client profile", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return commonerrors.NewProfileNotFoundError(profile.ID)
	}
	return nil
}

// Delete removes a client profile, scoped to its advisor.
func (s *ClientStore) Delete(ctx context.Context, advisorID, clientID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM client_profiles
		WHERE id = $1 AND advisor_id = $2`, clientID, advisorID)
	if err != nil {
		return commonerrors.NewQueryExecutionFailedError("delete client profile", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return commonerrors.NewProfileNotFoundError(clientID)
	}
	return nil
}

func statusOf(profile *models.ClientProfile) string {
	if profile.StatutDossier != nil {
		return *profile.StatutDossier
	}
	return "nouveau"
}
