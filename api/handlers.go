/*
handlers.go - HTTP handlers for the wage ledger API

PURPOSE:
  Exposes the ledger service over REST. Handles HTTP request/response,
  JSON serialization, tenancy checks, and delegates everything else to
  the ledger package.

ENDPOINTS:
  Auth:
    POST   /api/auth/register           Create contractor account
    POST   /api/auth/login              Sign in, returns bearer token
    GET    /api/auth/me                 Current account

  Workers:
    GET    /api/workers                 Roster with summary flags (?active=)
    POST   /api/workers                 Register worker (opens first record)
    GET    /api/workers/{id}            Worker detail with summary
    PATCH  /api/workers/{id}            Patch profile fields
    POST   /api/workers/{id}/active     Toggle active / inactive
    POST   /api/workers/delete          Bulk delete with per-worker outcomes
    GET    /api/workers/{id}/calendar   Month view of entries + settlements
    GET    /api/workers/{id}/records    Recorded months of a year

  Records:
    POST   /api/records                 Open current month's record
    GET    /api/records/{id}            Full record document
    POST   /api/records/{id}/attendance Record a day
    PATCH  /api/records/{id}/attendance Amend a day
    DELETE /api/records/{id}/attendance Remove a day
    GET    /api/records/{id}/attendance/today  Marked today?
    POST   /api/attendance/batch        One presence, many workers
    POST   /api/records/{id}/settle     Settle up to a day
    POST   /api/records/{id}/adjust     Cash installment on newest settlement
    GET    /api/records/{id}/settlements        Settlement history
    GET    /api/records/{id}/settlements/{day}  One settlement (0 = newest)
    GET    /api/records/{id}/settlement/today   Settled today?
    GET    /api/records/{id}/export.xlsx        Month sheet download
    GET    /api/records/{id}/receipt.pdf        Settlement receipt download
    POST   /api/records/delete          Bulk delete old monthly records

  Rollover:
    GET    /api/rollover/check          Has the month advanced?
    POST   /api/rollover                Park periods, advance running date

TENANCY:
  Every protected handler resolves the contractor id from the request
  context and refuses to touch another tenant's workers or records.
  Foreign records answer 404, never 403, so ids do not leak.

ERROR HANDLING:
  Domain errors carry a kind that maps to an HTTP status:
  - 400: validation errors, invalid input
  - 404: worker/record/entry not found
  - 409: duplicate day, record already open
  - 500: everything else

SEE ALSO:
  - dto.go: request/response data structures
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hazri/wagebook/auth"
	"github.com/hazri/wagebook/ledger"
	"github.com/hazri/wagebook/report"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Svc      *ledger.Service
	Secret   []byte
	TokenTTL time.Duration
}

// NewHandler creates a new handler around the ledger service.
func NewHandler(svc *ledger.Service, secret []byte, tokenTTL time.Duration) *Handler {
	return &Handler{Svc: svc, Secret: secret, TokenTTL: tokenTTL}
}

// contractor resolves the authenticated tenant or writes a 401.
func (h *Handler) contractor(w http.ResponseWriter, r *http.Request) (ledger.ContractorID, bool) {
	id, ok := auth.ContractorID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", nil)
		return "", false
	}
	return ledger.ContractorID(id), true
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// Register creates a contractor account and signs it in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "name and a valid email are required", nil)
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters", nil)
		return
	}

	ctx := r.Context()
	if _, err := h.Svc.Store.ContractorByEmail(ctx, req.Email); err == nil {
		writeError(w, http.StatusConflict, "an account with this email already exists", nil)
		return
	} else if ledger.KindOf(err) != ledger.KindNotFound {
		writeError(w, http.StatusInternalServerError, "failed to check account", err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create account", err)
		return
	}
	today := h.Svc.Cal.Today()
	c := &ledger.Contractor{
		ID:           ledger.ContractorID(newRequestID()),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CompanyName:  strings.TrimSpace(req.CompanyName),
		RunningDate:  ledger.RunningDate{Year: today.Year, MonthIndex: today.MonthIndex},
	}
	if err := h.Svc.Store.SaveContractor(ctx, c); err != nil {
		// The store enforces email uniqueness; the lookup above can lose
		// a race against a concurrent register.
		if errors.Is(err, ledger.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "an account with this email already exists", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create account", err)
		return
	}
	h.writeAuthResponse(w, http.StatusCreated, c)
}

// Login signs a contractor in.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	c, err := h.Svc.Store.ContractorByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || !auth.CheckPassword(c.PasswordHash, req.Password) {
		// Same answer for unknown email and wrong password.
		writeError(w, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}
	h.writeAuthResponse(w, http.StatusOK, c)
}

// Me returns the authenticated account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.contractor(w, r)
	if !ok {
		return
	}
	c, err := h.Svc.Store.Contractor(r.Context(), contractorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) writeAuthResponse(w http.ResponseWriter, status int, c *ledger.Contractor) {
	token, err := auth.IssueToken(string(c.ID), h.Secret, h.TokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token", err)
		return
	}
	writeJSON(w, status, AuthResponse{Token: token, Contractor: c})
}

// =============================================================================
// WORKER HANDLERS
// =============================================================================

// ListWorkers returns the contractor's roster with summary flags.
// ?active=false lists deactivated workers instead.
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.contractor(w, r)
	if !ok {
		return
	}
	active := r.URL.Query().Get("active") != "false"
	workers, err := h.Svc.ListWorkers(r.Context(), contractorID, active)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workers)
}

// CreateWorker registers a worker and opens their first monthly record.
func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.contractor(w, r)
	if !ok {
		return
	}
	var req CreateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	worker, err := h.Svc.CreateWorker(r.Context(), contractorID, ledger.WorkerInput{
		Name:          req.Name,
		Role:          ledger.Role(req.Role),
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
		DailyWage:     req.DailyWage,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, worker)
}

// GetWorker returns one worker with the current-month summary.
func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.contractor(w, r)
	if !ok {
		return
	}
	detail, err := h.Svc.WorkerDetail(r.Context(), contractorID, ledger.WorkerID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// UpdateWorker patches profile fields.
func (h *Handler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.contractor(w, r)
	if !ok {
		return
	}
	var req UpdateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	worker, err := h.Svc.UpdateWorker(r.Context(), contractorID, ledger.WorkerID(chi.URLParam(r, "id")), ledger.WorkerPatch{
		Name:          req.Name,
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
		Role:          ledger.Role(req.Role),
		DailyWage:     req.DailyWage,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, worker)
}

// SetWorkerActive toggles the worker's roster status.
func (h *Handler) SetWorkerActive(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.contractor(w, r)
	if !ok {
		return
	}
	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	worker, err := h.Svc.SetWorkerActive(r.Context(), contractorID, ledger.WorkerID(chi.URLParam(r, "id")), req.Active)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, worker)
}

// DeleteWorkers removes workers and their history, one outcome each.
func (h *Handler) DeleteWorkers(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.contractor(w, r)
	if !ok {
		return
	}
	var req DeleteWorkersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	ids := make([]ledger.WorkerID, len(req.WorkerIDs))
	for i, id := range req.WorkerIDs {
		ids[i] = ledger.WorkerID(id)
	}
	outcomes, err := h.Svc.DeleteWorkers(r.Context(), contractorID, ids)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BatchAttendanceResponse{Outcomes: outcomes})
}

// WorkerCalendar returns the month view of entries and settlements.
// ?month= selects a month index of the current year; default is now.
func (h *Handler) WorkerCalendar(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.contractor(w, r)
	if !ok {
		return
	}
	workerID := ledger.WorkerID(chi.URLParam(r, "id"))
	if _, err := h.Svc.WorkerDetail(r.Context(), contractorID, workerID); err != nil {
		writeDomainError(w, err)
		return
	}
	monthIndex := -1
	if v := r.URL.Query().Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 11 {
			writeError(w, http.StatusBadRequest, "month must be an index from 0 to 11", nil)
			return
		}
		monthIndex = n
	}
	events, err := h.Svc.CalendarEvents(r.Context(), workerID, monthIndex)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// WorkerRecords lists a worker's recorded months. ?year= defaults to the
// current year.
func (h *Handler) WorkerRecords(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.contractor(w, r)
	if !ok {
		return
	}
	workerID := ledger.WorkerID(chi.URLParam(r, "id"))
	if _, err := h.Svc.WorkerDetail(r.Context(), contractorID, workerID); err != nil {
		writeDomainError(w, err)
		return
	}
	year := h.Svc.Cal.Today().Year
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year", nil)
			return
		}
		year = n
	}
	months, err := h.Svc.PeriodMonths(r.Context(), workerID, year)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, months)
}

// =============================================================================
// RECORD HANDLERS
// =============================================================================

// ownedRecord loads a record and verifies it belongs to the tenant.
// Foreign and missing records are indistinguishable to the caller.
func (h *Handler) ownedRecord(r *http.Request, contractorID ledger.ContractorID, id ledger.PeriodID) (*ledger.Period, *ledger.Worker, error) {
	p, err := h.Svc.Store.Period(r.Context(), id)
	if err != nil {
		return nil, nil, err
	}
	worker, err := h.Svc.Store.Worker(r.Context(), p.WorkerID)
	if err != nil {
		return nil, nil, err
	}
	if worker.ContractorID != contractorID {
		return nil, nil, ledger.ErrPeriodNotFound
	}
	return p, worker, nil
}

// recordParam pulls the tenant and the record id out of the request.
func (h *Handler) recordParam(w http.ResponseWriter, r *http.Request) (ledger.ContractorID, ledger.PeriodID, bool) {
	contractorID, ok := h.contractor(w, r)
	if !ok {
		return "", "", false
	}
	id := ledger.PeriodID(chi.URLParam(r, "id"))
	if _, _, err := h.ownedRecord(r, contractorID, id); err != nil {
		writeDomainError(w, err)
		return "", "", false
	}
	return contractorID, id, true
}

// OpenRecord opens the current month's record for a worker.
func (h *Handler) OpenRecord(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.contractor(w, r)
	if !ok {
		return
	}
	var req OpenRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	workerID := ledger.WorkerID(req.WorkerID)
	if _, err := h.Svc.WorkerDetail(r.Context(), contractorID, workerID); err != nil {
		writeDomainError(w, err)
		return
	}
	record, settled, err := h.Svc.OpenPeriod(r.Context(), workerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if settled != nil {
		settlementsPerformed.Inc()
	}
	writeJSON(w, http.StatusCreated, OpenRecordResponse{Record: record, Settled: settled})
}

// GetRecord returns the full record document.
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.recordParam(w, r)
	if !ok {
		return
	}
	record, err := h.Svc.GetPeriod(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// AddAttendance records one day's attendance.
func (h *Handler) AddAttendance(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.recordParam(w, r)
	if !ok {
		return
	}
	var req AttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	in := ledger.AttendanceInput{
		DayOfMonth: req.DayOfMonth,
		Presence:   ledger.Presence(req.Presence),
		Wage:       req.Wage,
	}
	if req.Advance != nil {
		in.AdvanceAmount = req.Advance.Amount
		in.AdvancePurpose = req.Advance.Purpose
	}
	entry, err := h.Svc.RecordAttendance(r.Context(), id, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	attendanceRecorded.Inc()
	writeJSON(w, http.StatusCreated, entry)
}

// UpdateAttendance amends a day's entry.
func (h *Handler) UpdateAttendance(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.recordParam(w, r)
	if !ok {
		return
	}
	var req AttendanceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	upd := ledger.EntryUpdate{Wage: req.Wage}
	if req.Presence != nil {
		p := ledger.Presence(*req.Presence)
		upd.Presence = &p
	}
	if req.Advance != nil {
		amount := req.Advance.Amount
		upd.AdvanceAmount = &amount
		upd.AdvancePurpose = req.Advance.Purpose
	}
	entry, err := h.Svc.UpdateAttendance(r.Context(), id, req.DayOfMonth, upd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// DeleteAttendance removes a day's entry.
func (h *Handler) DeleteAttendance(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.recordParam(w, r)
	if !ok {
		return
	}
	var req AttendanceDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.Svc.DeleteAttendance(r.Context(), id, req.DayOfMonth); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// AttendanceToday reports whether today's entry exists.
func (h *Handler) AttendanceToday(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.recordParam(w, r)
	if !ok {
		return
	}
	done, err := h.Svc.AttendanceDoneToday(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"alreadyMarked": done})
}

// BatchAttendance marks today for many workers with one presence value.
func (h *Handler) BatchAttendance(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.contractor(w, r)
	if !ok {
		return
	}
	var req BatchAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if len(req.Entries) == 0 {
		writeError(w, http.StatusBadRequest, "entries are required", nil)
		return
	}
	entries := make([]ledger.BatchEntry, len(req.Entries))
	for i, e := range req.Entries {
		if _, _, err := h.ownedRecord(r, contractorID, ledger.PeriodID(e.RecordID)); err != nil {
			writeDomainError(w, fmt.Errorf("record %s: %w", e.RecordID, err))
			return
		}
		entries[i] = ledger.BatchEntry{
			WorkerID:   ledger.WorkerID(e.WorkerID),
			WorkerName: e.WorkerName,
			PeriodID:   ledger.PeriodID(e.RecordID),
			Wage:       e.Wage,
		}
		if e.Advance != nil {
			entries[i].AdvanceAmount = e.Advance.Amount
			entries[i].AdvancePurpose = e.Advance.Purpose
		}
	}
	outcomes, err := h.Svc.RecordAttendanceBatch(r.Context(), entries, ledger.Presence(req.Presence))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	for _, o := range outcomes {
		if o.Done {
			attendanceRecorded.Inc()
		}
	}
	writeJSON(w, http.StatusOK, BatchAttendanceResponse{Outcomes: outcomes})
}

// SettleRecord settles the record up to a day.
func (h *Handler) SettleRecord(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.recordParam(w, r)
	if !ok {
		return
	}
	var req SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	result, err := h.Svc.Settle(r.Context(), id, req.DayOfMonth)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	settlementsPerformed.Inc()
	writeJSON(w, http.StatusCreated, result)
}

// AdjustSettlement records a cash installment against the newest settlement.
func (h *Handler) AdjustSettlement(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.recordParam(w, r)
	if !ok {
		return
	}
	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	settlement, err := h.Svc.Adjust(r.Context(), id, req.DayOfMonth, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	adjustmentsApplied.Inc()
	writeJSON(w, http.StatusOK, settlement)
}

// ListSettlements returns the record's settlement history.
func (h *Handler) ListSettlements(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.recordParam(w, r)
	if !ok {
		return
	}
	settlements, err := h.Svc.Settlements(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if settlements == nil {
		settlements = []ledger.Settlement{}
	}
	writeJSON(w, http.StatusOK, settlements)
}

// GetSettlement returns one settlement; day 0 means the newest.
func (h *Handler) GetSettlement(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.recordParam(w, r)
	if !ok {
		return
	}
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil || day < 0 {
		writeError(w, http.StatusBadRequest, "invalid settlement day", nil)
		return
	}
	settlement, err := h.Svc.SettlementAt(r.Context(), id, day)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settlement)
}

// SettlementToday reports whether the record was settled today.
func (h *Handler) SettlementToday(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.recordParam(w, r)
	if !ok {
		return
	}
	check, err := h.Svc.SettlementDoneToday(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

// DeleteRecords bulk-deletes a worker's old monthly records.
func (h *Handler) DeleteRecords(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.contractor(w, r)
	if !ok {
		return
	}
	var req DeleteRecordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	workerID := ledger.WorkerID(req.WorkerID)
	if _, err := h.Svc.WorkerDetail(r.Context(), contractorID, workerID); err != nil {
		writeDomainError(w, err)
		return
	}
	ids := make([]ledger.PeriodID, len(req.RecordIDs))
	for i, id := range req.RecordIDs {
		ids[i] = ledger.PeriodID(id)
	}
	deleted, err := h.Svc.DeletePeriods(r.Context(), workerID, ids)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteRecordsResponse{Deleted: deleted})
}

// =============================================================================
// EXPORT HANDLERS
// =============================================================================

// ExportRecordXLSX downloads the record as a wage sheet workbook.
func (h *Handler) ExportRecordXLSX(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.contractor(w, r)
	if !ok {
		return
	}
	record, worker, err := h.ownedRecord(r, contractorID, ledger.PeriodID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	data, err := report.BuildMonthSheetXLSX(worker, record)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build sheet", err)
		return
	}
	name := fmt.Sprintf("%s-%04d-%02d.xlsx", worker.Name, record.Year, record.MonthIndex+1)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

// SettlementReceiptPDF downloads a receipt for one settlement.
// ?day= selects the boundary; default is the newest settlement.
func (h *Handler) SettlementReceiptPDF(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.contractor(w, r)
	if !ok {
		return
	}
	record, worker, err := h.ownedRecord(r, contractorID, ledger.PeriodID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	day := 0
	if v := r.URL.Query().Get("day"); v != "" {
		if day, err = strconv.Atoi(v); err != nil || day < 0 {
			writeError(w, http.StatusBadRequest, "invalid settlement day", nil)
			return
		}
	}
	settlement, err := h.Svc.SettlementAt(r.Context(), record.ID, day)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	data, err := report.BuildSettlementReceiptPDF(worker, record, settlement)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build receipt", err)
		return
	}
	name := fmt.Sprintf("%s-settlement-%d.pdf", worker.Name, settlement.DayOfMonth)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

// =============================================================================
// ROLLOVER HANDLERS
// =============================================================================

// RolloverCheck reports whether the calendar passed the running month.
func (h *Handler) RolloverCheck(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.contractor(w, r)
	if !ok {
		return
	}
	changed, err := h.Svc.MonthChanged(r.Context(), contractorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"monthChanged": changed})
}

// Rollover advances the tenant into the new month and reports workers
// still needing a fresh record.
func (h *Handler) Rollover(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.contractor(w, r)
	if !ok {
		return
	}
	result, err := h.Svc.Rollover(r.Context(), contractorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps a ledger error kind onto an HTTP status.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, ledger.KindOf(err).HTTPStatus(), err.Error(), nil)
}

// newRequestID mints an id for records created at the HTTP boundary.
func newRequestID() string {
	return ledger.NewID()
}
