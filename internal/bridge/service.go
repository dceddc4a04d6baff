// internal/bridge/service.go
package bridge

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"los-bridge/internal/common/errors"
	"los-bridge/internal/common/logger"
	"los-bridge/internal/common/los"
	"los-bridge/internal/common/metrics"
	"los-bridge/internal/models"
)

const integrationLabel = "los"

// ApplicationStore provides read access to loan applications and write access
// limited to the push status/timestamp pair plus the audit trail.
type ApplicationStore interface {
	GetApplication(ctx context.Context, id string) (*models.LoanApplication, error)
	UpdatePushStatus(ctx context.Context, id string, status models.PushStatus, pushedAt time.Time) error
	RecordPushAttempt(ctx context.Context, attempt *models.PushAttempt) error
}

// ProfileStore is the read-only identity lookup.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	GetLegacyProfile(ctx context.Context, id string) (*models.Profile, error)
}

// WebhookClient delivers one payload to the LOS endpoint.
type WebhookClient interface {
	Push(ctx context.Context, payload interface{}) error
}

type ServiceDependencies struct {
	Applications ApplicationStore
	Profiles     ProfileStore
	// Client is nil when no webhook URL is configured; pushes then short-circuit
	// to a recorded failure without any network attempt.
	Client WebhookClient
	Logger logger.Logger
}

// Service maps one loan application to the LOS field schema, delivers it, and
// records the outcome on the application record. It performs no retries and
// holds no state between pushes; concurrent pushes for different applications
// are independent.
type Service struct {
	apps     ApplicationStore
	profiles ProfileStore
	client   WebhookClient
	logger   logger.Logger
}

func NewService(deps ServiceDependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	return &Service{
		apps:     deps.Applications,
		profiles: deps.Profiles,
		client:   deps.Client,
		logger:   log,
	}
}

// Push runs one delivery attempt for the given application id.
//
// The outcome (sent/failed) and timestamp are persisted together in a single
// update, exactly once per attempt, on every path below except an application
// that cannot be loaded at all. On failure the error is returned to the caller
// after persistence; callers decide whether to retry.
func (s *Service) Push(ctx context.Context, applicationID string) error {
	start := time.Now()
	metrics.PushesActive.WithLabelValues(integrationLabel).Inc()
	defer metrics.PushesActive.WithLabelValues(integrationLabel).Dec()

	log := s.logger.WithFields(map[string]interface{}{
		"applicationId": applicationID,
	})

	app, err := s.apps.GetApplication(ctx, applicationID)
	if err != nil {
		metrics.PushesFailed.WithLabelValues(integrationLabel, errors.CodeOf(err)).Inc()
		log.Error("failed to load application for push", map[string]interface{}{
			"error": err.Error(),
		})
		if _, ok := errors.AsStandardError(err); ok {
			return err
		}
		return errors.NewApplicationLookupFailedError(err)
	}

	var pushErr *errors.StandardError

	if s.client == nil {
		// Integration disabled: no network I/O, straight to the recorded outcome.
		log.Warn("LOS webhook URL not configured, recording push as failed", nil)
		pushErr = errors.NewWebhookNotConfiguredError()
	} else {
		payload := BuildPayload(app)
		s.enrichBorrower(ctx, app, payload, log)
		pushErr = s.deliver(ctx, payload, log)
	}

	status := models.PushStatusSent
	if pushErr != nil {
		status = models.PushStatusFailed
	}

	// Status and timestamp are written as a pair, unconditionally, before any
	// error is returned.
	pushedAt := time.Now().UTC()
	if err := s.apps.UpdatePushStatus(ctx, app.ID, status, pushedAt); err != nil {
		log.Error("failed to persist push status", map[string]interface{}{
			"status": string(status),
			"error":  err.Error(),
		})
		if pushErr == nil {
			pushErr = errors.NewStatusUpdateFailedError(err)
			status = models.PushStatusFailed
		}
	}

	s.recordAttempt(ctx, app.ID, status, pushErr, time.Since(start), log)

	metrics.PushDuration.WithLabelValues(integrationLabel).Observe(time.Since(start).Seconds())
	if pushErr != nil {
		metrics.PushesFailed.WithLabelValues(integrationLabel, string(pushErr.Code)).Inc()
		return pushErr
	}

	metrics.PushesCompleted.WithLabelValues(integrationLabel).Inc()
	log.Info("application pushed to LOS", map[string]interface{}{
		"pushedAt": pushedAt.Format(time.RFC3339),
	})
	return nil
}

// enrichBorrower fills the identity fields from the profile store. A missing
// profile or a lookup error never aborts the push; the fields stay nil.
func (s *Service) enrichBorrower(ctx context.Context, app *models.LoanApplication, payload *Payload, log logger.Logger) {
	id, legacy := app.BorrowerID()
	if id == "" {
		log.Warn("application has no borrower id, pushing without identity fields", nil)
		return
	}

	var profile *models.Profile
	var err error
	if legacy {
		profile, err = s.profiles.GetLegacyProfile(ctx, id)
	} else {
		profile, err = s.profiles.GetProfile(ctx, id)
	}
	if err != nil {
		log.Warn("profile lookup failed, pushing without identity fields", map[string]interface{}{
			"borrowerId": id,
			"legacy":     legacy,
			"error":      err.Error(),
		})
		return
	}

	first, last := splitFullName(profile.FullName)
	payload.BorrowerFirstName = &first
	payload.BorrowerLastName = &last
	payload.BorrowerEmail = &profile.Email
	payload.BorrowerMobilePhone = &profile.Phone
}

// deliver sends the payload and translates transport failures. The HTTP status
// code and response body stay in the logs; the returned error carries neither.
func (s *Service) deliver(ctx context.Context, payload *Payload, log logger.Logger) *errors.StandardError {
	err := s.client.Push(ctx, payload)
	if err == nil {
		return nil
	}

	var de *los.DeliveryError
	if stderrors.As(err, &de) {
		log.Error("LOS webhook rejected payload", map[string]interface{}{
			"statusCode":   de.StatusCode,
			"responseBody": de.Body,
		})
		return errors.NewDeliveryFailedError(de)
	}

	log.Error("LOS webhook request failed", map[string]interface{}{
		"error": err.Error(),
	})
	return errors.NewDeliveryFailedError(err)
}

// recordAttempt writes the audit row. Non-critical: log and move on.
func (s *Service) recordAttempt(ctx context.Context, applicationID string, outcome models.PushStatus, pushErr *errors.StandardError, duration time.Duration, log logger.Logger) {
	attempt := &models.PushAttempt{
		ApplicationID: applicationID,
		Outcome:       outcome,
		Duration:      duration,
		CreatedAt:     time.Now().UTC(),
	}
	if pushErr != nil {
		attempt.ErrorCode = string(pushErr.Code)
	}

	if err := s.apps.RecordPushAttempt(ctx, attempt); err != nil {
		log.Warn("push attempt audit insert failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// splitFullName takes the first whitespace token as the first name and joins
// the remaining tokens as the last name, which may be empty for a single-token
// full name.
func splitFullName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
