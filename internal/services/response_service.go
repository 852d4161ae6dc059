package services

import (
	"errors"
	"math"
	"time"

	"consentd/internal/models"
	"consentd/internal/providers"
	"consentd/internal/storage"
)

var (
	// ErrNoData means the submitted body decoded to nothing usable.
	ErrNoData = errors.New("No data provided")
	// ErrMissingFields means feedback or ratings is absent.
	ErrMissingFields = errors.New("Missing required fields")
)

// SubmitReceipt confirms a stored response. ResponseID echoes the
// submitted sessionId and is null when the client sent none.
type SubmitReceipt struct {
	ResponseID any
	Total      int
}

// StatsSummary aggregates the whole store. Returned as nil when the
// store is empty; the handler answers with a no-data message instead.
type StatsSummary struct {
	TotalResponses    int                `json:"total_responses"`
	AverageRatings    map[string]float64 `json:"average_ratings"`
	FavoriteCounts    map[string]int     `json:"favorite_counts"`
	MostTrustedCounts map[string]int     `json:"most_trusted_counts"`
	LastResponse      string             `json:"last_response"`
}

type ResponseServiceInterface interface {
	Submit(record models.Record) (*SubmitReceipt, error)
	List(department string) ([]models.Record, error)
	All() ([]models.Record, error)
	Stats() (*StatsSummary, error)
	Count() (int, error)
	Clear() error
}

type ResponseService struct {
	store    storage.StoreInterface
	archiver storage.ArchiverInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func NewResponseService(store storage.StoreInterface, archiver storage.ArchiverInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) ResponseServiceInterface {
	return &ResponseService{
		store:    store,
		archiver: archiver,
		logger:   logger,
		metrics:  metrics,
	}
}

// Submit validates presence of the two required keys, stamps the server
// timestamp, and appends the record. Duplicate session ids are stored
// as separate records.
func (rs *ResponseService) Submit(record models.Record) (*SubmitReceipt, error) {
	if len(record) == 0 {
		return nil, ErrNoData
	}
	if !record.Has(models.FieldFeedback) || !record.Has(models.FieldRatings) {
		return nil, ErrMissingFields
	}

	record[models.FieldServerTimestamp] = time.Now().Format(time.RFC3339)

	start := time.Now()
	total, err := rs.store.Append(record)
	if err != nil {
		return nil, err
	}
	rs.metrics.ObservePersistenceDuration(time.Since(start))

	return &SubmitReceipt{
		ResponseID: record[models.FieldSessionID],
		Total:      total,
	}, nil
}

// List returns stored records in insertion order. A non-empty
// department keeps only exact matches on feedback.department; records
// without the field never match.
func (rs *ResponseService) List(department string) ([]models.Record, error) {
	records, err := rs.store.Load()
	if err != nil {
		return nil, err
	}
	if department == "" {
		return records, nil
	}

	filtered := make([]models.Record, 0, len(records))
	for _, r := range records {
		if r.FeedbackField(models.FeedbackDepartment) == department {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (rs *ResponseService) All() ([]models.Record, error) {
	return rs.store.Load()
}

func (rs *ResponseService) Count() (int, error) {
	return rs.store.Count()
}

// Stats computes per-variant rating means (two decimals), frequency
// counts of favorite and mostTrusted values, and the client timestamp
// of the last stored record. Records without a favorite or mostTrusted
// value count under the empty-string bucket.
func (rs *ResponseService) Stats() (*StatsSummary, error) {
	records, err := rs.store.Load()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	ratingSums := make(map[string]float64)
	ratingCounts := make(map[string]int)
	favoriteCounts := make(map[string]int)
	trustCounts := make(map[string]int)

	for _, r := range records {
		for variant, rating := range r.Ratings() {
			ratingSums[variant] += rating
			ratingCounts[variant]++
		}
		favoriteCounts[r.FeedbackField(models.FeedbackFavorite)]++
		trustCounts[r.FeedbackField(models.FeedbackIMostTrust)]++
	}

	averages := make(map[string]float64, len(ratingSums))
	for variant, sum := range ratingSums {
		averages[variant] = math.Round(sum/float64(ratingCounts[variant])*100) / 100
	}

	return &StatsSummary{
		TotalResponses:    len(records),
		AverageRatings:    averages,
		FavoriteCounts:    favoriteCounts,
		MostTrustedCounts: trustCounts,
		LastResponse:      records[len(records)-1].Timestamp(),
	}, nil
}

// Clear archives the current contents (when archival is configured)
// and overwrites the store with an empty sequence. The live store is
// cleared irreversibly; nothing is restorable through the API.
func (rs *ResponseService) Clear() error {
	records, err := rs.store.Load()
	if err != nil {
		return err
	}
	if err := rs.archiver.Archive(records); err != nil {
		return err
	}

	start := time.Now()
	if err := rs.store.Save([]models.Record{}); err != nil {
		return err
	}
	rs.metrics.ObservePersistenceDuration(time.Since(start))

	rs.logger.Infof(providers.TypeApp, "Cleared %d responses", len(records))
	return nil
}
