// internal/models/application.go
package models

import "time"

// PushStatus is the recorded outcome of the most recent LOS push attempt.
type PushStatus string

const (
	PushStatusSent   PushStatus = "sent"
	PushStatusFailed PushStatus = "failed"
)

// LoanApplication is one submitted loan application. The wizard fields live in
// Data, a flat JSON document persisted in a JSONB column; the bridge reads it
// and only ever writes back the push status/timestamp pair.
type LoanApplication struct {
	ID            string                 `json:"id"`
	NewUserID     *string                `json:"newUserId,omitempty"`
	LegacyUserID  *string                `json:"legacyUserId,omitempty"`
	Status        string                 `json:"status"`
	Data          map[string]interface{} `json:"data"`
	LOSPushStatus *PushStatus            `json:"losPushStatus,omitempty"`
	LOSPushedAt   *time.Time             `json:"losPushedAt,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// BorrowerID returns the profile id to enrich the payload with. The new-style
// user id takes precedence over the legacy id when both are set.
func (a *LoanApplication) BorrowerID() (id string, legacy bool) {
	if a.NewUserID != nil && *a.NewUserID != "" {
		return *a.NewUserID, false
	}
	if a.LegacyUserID != nil && *a.LegacyUserID != "" {
		return *a.LegacyUserID, true
	}
	return "", false
}

// PushAttempt is one audit row recorded per push attempt. It supplements the
// two-field status on the application itself and is never load-bearing:
// failing to record it does not fail the push.
type PushAttempt struct {
	ID            string        `json:"id"`
	ApplicationID string        `json:"applicationId"`
	Outcome       PushStatus    `json:"outcome"`
	ErrorCode     string        `json:"errorCode,omitempty"`
	Duration      time.Duration `json:"duration"`
	CreatedAt     time.Time     `json:"createdAt"`
}
