package controllers

import (
	"errors"
	"net/http"

	"consentd/internal/models"
	"consentd/internal/providers"
	"consentd/internal/services"
	"consentd/internal/structures"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	conf    *structures.Config
	logger  providers.Logger
	service services.ResponseServiceInterface
	export  services.ExportServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(conf *structures.Config, logger providers.Logger, service services.ResponseServiceInterface, export services.ExportServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		conf:    conf,
		logger:  logger,
		service: service,
		export:  export,
		cache:   cache,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type submitResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ResponseID     any    `json:"response_id"`
	TotalResponses int    `json:"total_responses"`
}

type listResponse struct {
	Total     int             `json:"total"`
	Responses []models.Record `json:"responses"`
}

type clearResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var record models.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, services.ErrNoData.Error())
		return
	}

	receipt, err := ac.service.Submit(record)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoData), errors.Is(err, services.ErrMissingFields):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			ac.logger.Errorf(providers.TypePost, "Submit failed: %s", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	ac.cache.Purge()
	ac.logger.Debugf(providers.TypePost, "Stored response %v (total %d)", receipt.ResponseID, receipt.Total)

	writeJSON(w, http.StatusCreated, submitResponse{
		Success:        true,
		Message:        "Response recorded",
		ResponseID:     receipt.ResponseID,
		TotalResponses: receipt.Total,
	})
}

func (ac *ApiController) ListResponses(w http.ResponseWriter, r *http.Request) {
	department := r.URL.Query().Get("department")
	ac.serveFromCacheOrCompute(w, "list:"+department, func() (any, error) {
		records, err := ac.service.List(department)
		if err != nil {
			return nil, err
		}
		return listResponse{Total: len(records), Responses: records}, nil
	})
}

func (ac *ApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "stats", func() (any, error) {
		summary, err := ac.service.Stats()
		if err != nil {
			return nil, err
		}
		if summary == nil {
			// Asymmetric on purpose: an empty store answers with a
			// message instead of zeroed aggregates.
			return map[string]string{"message": "No responses yet"}, nil
		}
		return summary, nil
	})
}

func (ac *ApiController) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ac.serveExport(w, "application/json", "json", ac.export.JSON)
}

func (ac *ApiController) ExportCSV(w http.ResponseWriter, r *http.Request) {
	ac.serveExport(w, "text/csv", "csv", ac.export.CSV)
}

func (ac *ApiController) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ac.serveExport(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", ac.export.Excel)
}

func (ac *ApiController) serveExport(w http.ResponseWriter, contentType, ext string, render func([]models.Record) ([]byte, error)) {
	records, err := ac.service.All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data, err := render(records)
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Export to %s failed: %s", ext, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+ac.export.Filename(ext)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ClearResponses wipes the whole store. Guarded by the configured admin
// key; an unset key means the endpoint is disabled and always answers 401.
func (ac *ApiController) ClearResponses(w http.ResponseWriter, r *http.Request) {
	adminKey := ac.conf.Admin.APIKey
	if adminKey == "" || r.Header.Get("X-API-Key") != adminKey {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := ac.service.Clear(); err != nil {
		ac.logger.Errorf(providers.TypePost, "Clear failed: %s", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ac.cache.Purge()
	ac.logger.Infof(providers.TypePost, "Store cleared by admin request")

	writeJSON(w, http.StatusOK, clearResponse{
		Success: true,
		Message: "All responses cleared",
	})
}
