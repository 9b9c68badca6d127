package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
	"github.com/Keira224/gestion-bibliotheque/internal/service"
	"github.com/Keira224/gestion-bibliotheque/pkg/response"
)

// AdminHandler groups catalogue and parameter administration endpoints.
type AdminHandler struct {
	catalog   *service.CatalogService
	params    *service.ParameterService
	validator *validator.Validate
}

func NewAdminHandler(catalog *service.CatalogService, params *service.ParameterService) *AdminHandler {
	return &AdminHandler{
		catalog:   catalog,
		params:    params,
		validator: validator.New(),
	}
}

// CreateWork handles POST /works
func (h *AdminHandler) CreateWork(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateWorkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	work, err := h.catalog.AddWork(r.Context(), &req)
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Created(w, work)
}

// CreateMember handles POST /members
func (h *AdminHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	member, err := h.catalog.RegisterMember(r.Context(), &req)
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Created(w, member)
}

// CreateCopy handles POST /works/{workId}/copies
func (h *AdminHandler) CreateCopy(w http.ResponseWriter, r *http.Request) {
	workID, err := uuid.Parse(mux.Vars(r)["workId"])
	if err != nil {
		response.BadRequest(w, "invalid work id", err)
		return
	}

	var req domain.CreateCopyRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid request body", err)
			return
		}
	}

	copy, err := h.catalog.AddCopy(r.Context(), workID, &req)
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Created(w, copy)
}

// UpdateCopyStatus handles PATCH /copies/{copyId}/status
func (h *AdminHandler) UpdateCopyStatus(w http.ResponseWriter, r *http.Request) {
	copyID, err := uuid.Parse(mux.Vars(r)["copyId"])
	if err != nil {
		response.BadRequest(w, "invalid copy id", err)
		return
	}

	var req domain.UpdateCopyStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	copy, err := h.catalog.SetCopyStatus(r.Context(), copyID, req.Status)
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Success(w, copy)
}

// GetParameters handles GET /parameters
func (h *AdminHandler) GetParameters(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.params.Get(r.Context()))
}

// UpdateParameters handles PUT /parameters
func (h *AdminHandler) UpdateParameters(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateParametersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	params, err := h.params.Update(r.Context(), &req)
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Success(w, params)
}
