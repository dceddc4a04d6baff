// internal/store/application_store.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"los-bridge/internal/common/logger"
	"los-bridge/internal/models"

	"github.com/google/uuid"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
)

// ApplicationStore reads loan applications and writes the push outcome back.
type ApplicationStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewApplicationStore(db *sql.DB, log logger.Logger) *ApplicationStore {
	return &ApplicationStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "applications"}),
	}
}

// GetApplication fetches one loan application by id, including the JSONB
// wizard-field document.
func (s *ApplicationStore) GetApplication(ctx context.Context, id string) (*models.LoanApplication, error) {
	var (
		app          models.LoanApplication
		newUserID    sql.NullString
		legacyUserID sql.NullString
		pushStatus   sql.NullString
		pushedAt     sql.NullTime
		dataJSON     []byte
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, new_user_id, legacy_user_id, status, data,
		       los_push_status, los_pushed_at, created_at, updated_at
		FROM loan_applications
		WHERE id = $1`, id).Scan(
		&app.ID, &newUserID, &legacyUserID, &app.Status, &dataJSON,
		&pushStatus, &pushedAt, &app.CreatedAt, &app.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrApplicationNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query application %s: %w", id, err)
	}

	if newUserID.Valid {
		app.NewUserID = &newUserID.String
	}
	if legacyUserID.Valid {
		app.LegacyUserID = &legacyUserID.String
	}
	if pushStatus.Valid {
		ps := models.PushStatus(pushStatus.String)
		app.LOSPushStatus = &ps
	}
	if pushedAt.Valid {
		app.LOSPushedAt = &pushedAt.Time
	}

	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &app.Data); err != nil {
			return nil, fmt.Errorf("decode application data for %s: %w", id, err)
		}
	}
	if app.Data == nil {
		app.Data = map[string]interface{}{}
	}

	return &app, nil
}

// UpdatePushStatus writes the push status and timestamp as a single UPDATE so
// the pair can never diverge.
func (s *ApplicationStore) UpdatePushStatus(ctx context.Context, id string, status models.PushStatus, pushedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE loan_applications
		SET los_push_status = $2, los_pushed_at = $3, updated_at = $3
		WHERE id = $1`,
		id, string(status), pushedAt,
	)
	if err != nil {
		return fmt.Errorf("update push status for %s: %w", id, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update push status for %s: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrApplicationNotFound, id)
	}

	return nil
}

// RecordPushAttempt inserts one audit row per push attempt. Callers treat
// failures as non-critical.
func (s *ApplicationStore) RecordPushAttempt(ctx context.Context, attempt *models.PushAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO los_push_attempts (id, application_id, outcome, error_code, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		attempt.ID,
		attempt.ApplicationID,
		string(attempt.Outcome),
		attempt.ErrorCode,
		attempt.Duration.Milliseconds(),
		attempt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert push attempt for %s: %w", attempt.ApplicationID, err)
	}

	return nil
}
