package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
	"github.com/Keira224/gestion-bibliotheque/internal/service"
	"github.com/Keira224/gestion-bibliotheque/pkg/response"
)

type CirculationHandler struct {
	service   *service.CirculationService
	validator *validator.Validate
}

func NewCirculationHandler(service *service.CirculationService) *CirculationHandler {
	return &CirculationHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateLoan handles POST /loans
func (h *CirculationHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	loan, err := h.service.CreateLoan(r.Context(), &req)
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Created(w, loan)
}

// RecordReturn handles POST /loans/{loanId}/return
func (h *CirculationHandler) RecordReturn(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "invalid loan id", err)
		return
	}

	result, err := h.service.RecordReturn(r.Context(), loanID)
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Success(w, result)
}

// Recalculate handles POST /loans/recalculate
func (h *CirculationHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.RecalculateAll(r.Context())
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Success(w, domain.RecalculateResponse{Recalculated: count})
}

// ListLoans handles GET /loans
func (h *CirculationHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	var memberID *uuid.UUID
	if raw := r.URL.Query().Get("member_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "invalid member id", err)
			return
		}
		memberID = &id
	}

	limit, offset := paging(r)

	loans, err := h.service.ListLoans(r.Context(), status, memberID, limit, offset)
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Success(w, loans)
}

// GeneratePenalty handles POST /loans/{loanId}/penalty. The body may carry a
// daily-rate override; otherwise the parameter set's rate applies.
func (h *CirculationHandler) GeneratePenalty(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "invalid loan id", err)
		return
	}

	var req domain.GeneratePenaltyRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid request body", err)
			return
		}
	}

	penalty, err := h.service.GenerateOrUpdatePenalty(r.Context(), loanID, req.DailyRate)
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Success(w, penalty)
}

// PayPenalty handles POST /penalties/{penaltyId}/pay
func (h *CirculationHandler) PayPenalty(w http.ResponseWriter, r *http.Request) {
	penaltyID, err := uuid.Parse(mux.Vars(r)["penaltyId"])
	if err != nil {
		response.BadRequest(w, "invalid penalty id", err)
		return
	}

	penalty, err := h.service.PayPenalty(r.Context(), penaltyID)
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Success(w, penalty)
}

// ListMemberPayments handles GET /members/{memberId}/payments
func (h *CirculationHandler) ListMemberPayments(w http.ResponseWriter, r *http.Request) {
	memberID, err := uuid.Parse(mux.Vars(r)["memberId"])
	if err != nil {
		response.BadRequest(w, "invalid member id", err)
		return
	}

	payments, err := h.service.ListMemberPayments(r.Context(), memberID)
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Success(w, payments)
}

// ListPenalties handles GET /penalties
func (h *CirculationHandler) ListPenalties(w http.ResponseWriter, r *http.Request) {
	var paid *bool
	if raw := r.URL.Query().Get("paid"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, "invalid paid filter", err)
			return
		}
		paid = &value
	}

	limit, offset := paging(r)

	penalties, err := h.service.ListPenalties(r.Context(), paid, limit, offset)
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Success(w, penalties)
}

func paging(r *http.Request) (limit, offset int) {
	limit = 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	return limit, offset
}
