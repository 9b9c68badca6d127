package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
	"github.com/Keira224/gestion-bibliotheque/internal/service"
	"github.com/Keira224/gestion-bibliotheque/pkg/response"
)

type ReservationHandler struct {
	service   *service.ReservationService
	validator *validator.Validate
}

func NewReservationHandler(service *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /reservations
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	reservation, err := h.service.Create(r.Context(), &req)
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Created(w, reservation)
}

// Cancel handles POST /reservations/{reservationId}/cancel
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Cancel)
}

// Validate handles POST /reservations/{reservationId}/validate
func (h *ReservationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Validate)
}

// Refuse handles POST /reservations/{reservationId}/refuse
func (h *ReservationHandler) Refuse(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Refuse)
}

func (h *ReservationHandler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)) {
	id, err := reservationID(r)
	if err != nil {
		response.BadRequest(w, "invalid reservation id", err)
		return
	}

	reservation, err := op(r.Context(), id)
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Success(w, reservation)
}

// List handles GET /reservations
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
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

	reservations, err := h.service.List(r.Context(), status, memberID, limit, offset)
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Success(w, reservations)
}

func reservationID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["reservationId"])
}
