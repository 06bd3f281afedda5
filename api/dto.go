/*
dto.go - Request and response shapes for the HTTP API

PURPOSE:
  Decouples the JSON contract from the domain model. Domain types that
  already carry the right JSON tags (Period, Worker, Settlement, the
  summary/check types) are returned directly; this file only holds the
  request bodies and the thin response wrappers around them.

NAMING CONVENTION:
  - *Request: request body types from clients
  - *Response: response wrappers where a bare domain type is not enough

VALIDATION:
  Handlers validate; DTOs are pure data carriers. Money fields are
  decimal.Decimal so amounts survive the JSON boundary without float
  rounding.

SEE ALSO:
  - handlers.go: uses these types
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/hazri/wagebook/ledger"
)

// =============================================================================
// AUTH
// =============================================================================

// RegisterRequest creates a contractor account.
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"companyName"`
}

// LoginRequest signs a contractor in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the session token and the account it belongs to.
type AuthResponse struct {
	Token      string             `json:"token"`
	Contractor *ledger.Contractor `json:"contractor"`
}

// =============================================================================
// WORKERS
// =============================================================================

// CreateWorkerRequest registers a worker under the contractor.
type CreateWorkerRequest struct {
	Name          string          `json:"name"`
	Role          string          `json:"role"`
	ContactNumber string          `json:"contactNumber"`
	Address       string          `json:"address"`
	DailyWage     decimal.Decimal `json:"wagesPerDay"`
}

// UpdateWorkerRequest patches a worker's profile. Zero-valued fields are
// left untouched.
type UpdateWorkerRequest struct {
	Name          string           `json:"name"`
	Role          string           `json:"role"`
	ContactNumber string           `json:"contactNumber"`
	Address       string           `json:"address"`
	DailyWage     *decimal.Decimal `json:"wagesPerDay,omitempty"`
}

// SetActiveRequest toggles a worker in or out of the active roster.
type SetActiveRequest struct {
	Active bool `json:"isActive"`
}

// DeleteWorkersRequest removes workers and their entire ledger history.
type DeleteWorkersRequest struct {
	WorkerIDs []string `json:"workerIds"`
}

// =============================================================================
// RECORDS (periods)
// =============================================================================

// OpenRecordRequest opens the current month's ledger record for a worker.
type OpenRecordRequest struct {
	WorkerID string `json:"workerId"`
}

// OpenRecordResponse returns the opened record; Settled is present only
// when opening first closed out a pending previous month.
type OpenRecordResponse struct {
	Record  *ledger.Period           `json:"record"`
	Settled *ledger.SettlementResult `json:"settled,omitempty"`
}

// AdvanceRequest is the optional cash advance attached to an entry.
type AdvanceRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Purpose string          `json:"purpose"`
}

// AttendanceRequest records one day's attendance.
type AttendanceRequest struct {
	DayOfMonth int             `json:"dayOfMonth"`
	Presence   string          `json:"presence"`
	Wage       decimal.Decimal `json:"wageAmount"`
	Advance    *AdvanceRequest `json:"advance,omitempty"`
}

// AttendanceUpdateRequest amends an entry; nil fields are untouched. An
// advance with amount zero removes the entry's advance.
type AttendanceUpdateRequest struct {
	DayOfMonth int              `json:"dayOfMonth"`
	Presence   *string          `json:"presence,omitempty"`
	Wage       *decimal.Decimal `json:"wageAmount,omitempty"`
	Advance    *AdvanceRequest  `json:"advance,omitempty"`
}

// AttendanceDeleteRequest removes an entry.
type AttendanceDeleteRequest struct {
	DayOfMonth int `json:"dayOfMonth"`
}

// BatchAttendanceEntry is one worker's slot in a batch submission.
type BatchAttendanceEntry struct {
	WorkerID   string          `json:"workerId"`
	WorkerName string          `json:"workerName"`
	RecordID   string          `json:"recordId"`
	Wage       decimal.Decimal `json:"wageAmount"`
	Advance    *AdvanceRequest `json:"advance,omitempty"`
}

// BatchAttendanceRequest marks today's attendance for many workers with
// one shared presence value.
type BatchAttendanceRequest struct {
	Presence string                 `json:"presence"`
	Entries  []BatchAttendanceEntry `json:"entries"`
}

// BatchAttendanceResponse reports per-worker outcomes.
type BatchAttendanceResponse struct {
	Outcomes []ledger.BatchOutcome `json:"results"`
}

// SettleRequest settles the record up to a day of the month.
type SettleRequest struct {
	DayOfMonth int `json:"dayOfMonth"`
}

// AdjustRequest records a cash installment against the newest settlement.
type AdjustRequest struct {
	DayOfMonth int             `json:"dayOfMonth"`
	Amount     decimal.Decimal `json:"amount"`
}

// DeleteRecordsRequest bulk-deletes a worker's old monthly records.
type DeleteRecordsRequest struct {
	WorkerID  string   `json:"workerId"`
	RecordIDs []string `json:"recordIds"`
}

// DeleteRecordsResponse reports how many records were removed.
type DeleteRecordsResponse struct {
	Deleted int `json:"deleted"`
}

// =============================================================================
// COMMON
// =============================================================================

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
