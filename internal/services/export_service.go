package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"consentd/internal/models"
	"consentd/internal/structures"

	json "github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"
)

const excelSheet = "Responses"

// maxColumnWidth caps the auto-sized Excel column width.
const maxColumnWidth = 50

type ExportServiceInterface interface {
	JSON(records []models.Record) ([]byte, error)
	CSV(records []models.Record) ([]byte, error)
	Excel(records []models.Record) ([]byte, error)
	Filename(ext string) string
}

// ExportService renders the record sequence into downloadable files.
// CSV and Excel flatten each record into a fixed column set with one
// rating column per configured variant; unrated variants render as 0.
type ExportService struct {
	variants []string
}

func NewExportService(conf *structures.Config) ExportServiceInterface {
	variants := make([]string, conf.Study.Variants)
	for i := range variants {
		variants[i] = fmt.Sprintf("variant-%d", i+1)
	}
	return &ExportService{variants: variants}
}

// Filename stamps the download name with the current local time.
func (es *ExportService) Filename(ext string) string {
	return fmt.Sprintf("consent_responses_%s.%s", time.Now().Format("20060102_150405"), ext)
}

// JSON re-serializes the untransformed records, pretty-printed.
func (es *ExportService) JSON(records []models.Record) ([]byte, error) {
	if records == nil {
		records = []models.Record{}
	}
	return json.MarshalIndent(records, "", "  ")
}

func (es *ExportService) CSV(records []models.Record) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{
		"timestamp", "session_id", "participant_name", "participant_email",
		"department", "favorite_design", "most_trusted_design",
		"favorite_reason", "concerns", "total_time_seconds", "interactions_count",
	}
	for _, variant := range es.variants {
		header = append(header, "rating_"+variant)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range records {
		if err := w.Write(es.flatRow(r)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func (es *ExportService) Excel(records []models.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", excelSheet); err != nil {
		return nil, err
	}

	header := []string{
		"Timestamp", "Session ID", "Name", "Email", "Department",
		"Favorite Design", "Most Trusted Design", "Why Favorite",
		"Concerns", "Time Spent (seconds)", "Interactions",
	}
	for i := range es.variants {
		header = append(header, fmt.Sprintf("Rating - Option %d", i+1))
	}

	widths := make([]int, len(header))
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(excelSheet, cell, h); err != nil {
			return nil, err
		}
		widths[col] = len(h)
	}

	for i, r := range records {
		row := es.flatValues(r)
		for col, val := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(excelSheet, cell, val); err != nil {
				return nil, err
			}
			if rendered := len(fmt.Sprint(val)); rendered > widths[col] {
				widths[col] = rendered
			}
		}
	}

	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		w := min(width+2, maxColumnWidth)
		if err := f.SetColWidth(excelSheet, name, name, float64(w)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// flatValues is flatRow with numbers kept numeric, so Excel cells get
// real number types instead of text.
func (es *ExportService) flatValues(r models.Record) []any {
	row := []any{
		r.Timestamp(),
		r.SessionID(),
		r.FeedbackField(models.FeedbackName),
		r.FeedbackField(models.FeedbackEmail),
		r.FeedbackField(models.FeedbackDepartment),
		r.FeedbackField(models.FeedbackFavorite),
		r.FeedbackField(models.FeedbackIMostTrust),
		r.FeedbackField(models.FeedbackWhyFavorite),
		r.FeedbackField(models.FeedbackConcerns),
		r.TotalSeconds(),
		r.InteractionsCount(),
	}
	ratings := r.Ratings()
	for _, variant := range es.variants {
		row = append(row, ratings[variant])
	}
	return row
}

// flatRow renders one record in the shared column order.
func (es *ExportService) flatRow(r models.Record) []string {
	row := []string{
		r.Timestamp(),
		r.SessionID(),
		r.FeedbackField(models.FeedbackName),
		r.FeedbackField(models.FeedbackEmail),
		r.FeedbackField(models.FeedbackDepartment),
		r.FeedbackField(models.FeedbackFavorite),
		r.FeedbackField(models.FeedbackIMostTrust),
		r.FeedbackField(models.FeedbackWhyFavorite),
		r.FeedbackField(models.FeedbackConcerns),
		formatNumber(r.TotalSeconds()),
		strconv.Itoa(r.InteractionsCount()),
	}
	ratings := r.Ratings()
	for _, variant := range es.variants {
		row = append(row, formatNumber(ratings[variant]))
	}
	return row
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
