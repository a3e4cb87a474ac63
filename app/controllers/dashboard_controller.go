package controllers

import (
	"net/http"

	"inkwell/app/services"

	"go.uber.org/zap"
)

// DashboardController serves the admin summary
type DashboardController struct {
	base
	dashboardService *services.DashboardService
}

func NewDashboardController(dashboardService *services.DashboardService, logger *zap.SugaredLogger) *DashboardController {
	return &DashboardController{base: base{logger: logger}, dashboardService: dashboardService}
}

func (dc *DashboardController) Show(w http.ResponseWriter, r *http.Request) {
	stats, err := dc.dashboardService.Stats(r.Context())
	if err != nil {
		dc.sendError(w, r, err)
		return
	}
	dc.sendJSON(w, http.StatusOK, "Dashboard data retrieved successfully", stats)
}
