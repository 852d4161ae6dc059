package controllers

import (
	"fmt"
	"net/http"
	"time"

	"consentd/internal/services"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	service   services.ResponseServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status         string  `json:"status"`
	Timestamp      string  `json:"timestamp"`
	ResponsesCount int     `json:"responses_count"`
	Uptime         string  `json:"uptime"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	count, err := hc.service.Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:         "healthy",
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		ResponsesCount: count,
		Uptime:         formatDuration(uptime),
		UptimeSeconds:  uptime.Seconds(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.ResponseServiceInterface) *HealthController {
	return &HealthController{
		service:   service,
		startTime: time.Now(),
	}
}
