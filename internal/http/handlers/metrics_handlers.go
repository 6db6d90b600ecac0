package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics for staff view
// @Tags metrics
// @Produce json
// @Success 200 {object} repo.Metrics
// @Failure 500 {string} string "Internal error"
// @Router /metrics/dashboard [get]
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := metricsRepo.GetDashboardMetrics(r.Context())
	if err != nil {
		logger.Error("failed to fetch metrics", zap.Error(err))
		http.Error(w, "failed to fetch metrics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
