package handler

import (
	"net/http"

	"github.com/Keira224/gestion-bibliotheque/internal/service"
	"github.com/Keira224/gestion-bibliotheque/pkg/response"
)

type StatsHandler struct {
	service *service.StatsService
}

func NewStatsHandler(service *service.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Dashboard handles GET /stats/dashboard
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Dashboard(r.Context())
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Success(w, stats)
}

// ListActivities handles GET /activities
func (h *StatsHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	activityType := r.URL.Query().Get("type")
	limit, offset := paging(r)

	activities, err := h.service.ListActivities(r.Context(), activityType, limit, offset)
	if err != nil {
		response.Business(w, err)
		return
	}

	response.Success(w, activities)
}
