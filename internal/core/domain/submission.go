package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus represents the lifecycle state of a tracked stake submission.
type SubmissionStatus string

const (
	SubmissionStatusPending   SubmissionStatus = "PENDING"
	SubmissionStatusConfirmed SubmissionStatus = "CONFIRMED"
	SubmissionStatusActivated SubmissionStatus = "ACTIVATED"
	SubmissionStatusFailed    SubmissionStatus = "FAILED"
)

// TrackedSubmission is one submitted stake transaction being watched for its
// on-chain outcome. Only the monitor's poll loop mutates it.
type TrackedSubmission struct {
	ID            uuid.UUID        `json:"id"`
	Signature     string           `json:"signature"`
	StakeAccount  string           `json:"stake_account"`
	Owner         string           `json:"owner"`
	Validator     string           `json:"validator"`
	Lamports      uint64           `json:"lamports"`
	Status        SubmissionStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	ConfirmedAt   *time.Time       `json:"confirmed_at,omitempty"`
	ActivatedAt   *time.Time       `json:"activated_at,omitempty"`
	LastCheckedAt *time.Time       `json:"last_checked_at,omitempty"`
}

// IsTerminal returns true once the submission left the active set.
func (s *TrackedSubmission) IsTerminal() bool {
	return s.Status == SubmissionStatusActivated || s.Status == SubmissionStatusFailed
}

// CanTransitionTo reports whether moving to the target status is a legal step.
// The machine is PENDING -> CONFIRMED -> ACTIVATED, with FAILED reachable from
// PENDING or CONFIRMED but never from ACTIVATED.
func (s *TrackedSubmission) CanTransitionTo(target SubmissionStatus) bool {
	switch s.Status {
	case SubmissionStatusPending:
		return target == SubmissionStatusConfirmed || target == SubmissionStatusFailed
	case SubmissionStatusConfirmed:
		return target == SubmissionStatusActivated || target == SubmissionStatusFailed
	default:
		return false
	}
}
