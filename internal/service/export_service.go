package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/behavior-rubric/internal/models"
	appErrors "github.com/noah-isme/behavior-rubric/pkg/errors"
	"github.com/noah-isme/behavior-rubric/pkg/export"
)

const settingsExportFilename = "behavior_rubric_settings.json"

var csvHeaders = []string{
	"Date", "Student", "Period", "Category", "Score", "Scale Max",
	"Period Total", "Period Max", "Daily Total", "Daily Max", "Percent",
	"Staff", "Period Comment", "Daily Note",
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string, summary []string) ([]byte, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

// ExportResult is a rendered download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the active record to CSV or PDF and round-trips the
// settings as JSON. Rendered files are also kept under the exports directory.
type ExportService struct {
	store   snapshotStore
	csv     csvRenderer
	pdf     pdfRenderer
	storage fileStorage
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(store snapshotStore, storage fileStorage, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{store: store, csv: csv, pdf: pdf, storage: storage, logger: logger}
}

// activeRecord snapshots everything an export needs in one pass under the
// store lock: the materialized (and reconciled) active record plus settings.
type activeRecord struct {
	date     string
	student  models.Student
	record   *models.Record
	settings models.Settings
	summary  models.DailySummary
}

func (s *ExportService) active() (*activeRecord, error) {
	var out *activeRecord
	err := s.store.Update(func(snap *models.Snapshot) error {
		if snap.Date == "" || snap.StudentID == "" {
			return appErrors.Clone(appErrors.ErrValidation, "no active date and student selected")
		}
		student, ok := snap.StudentByID(snap.StudentID)
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "active student not on roster")
		}
		key := models.EntryKey(snap.Date, snap.StudentID)
		rec, ok := snap.Entries[key]
		if !ok || rec == nil {
			rec = models.NewRecord()
			snap.Entries[key] = rec
		}
		reconcileRecord(rec, snap.Settings)
		clone := rec.Clone()
		out = &activeRecord{
			date:     snap.Date,
			student:  student,
			record:   clone,
			settings: snap.Settings.Clone(),
			summary:  ComputeDailySummary(clone, snap.Settings),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecordCSV renders the active record as CSV, one row per (period, category)
// pair, and saves a copy under the exports directory.
func (s *ExportService) RecordCSV() (*ExportResult, error) {
	active, err := s.active()
	if err != nil {
		return nil, err
	}

	periodTotals := make(map[string]models.PeriodTotal, len(active.summary.Periods))
	for _, pt := range active.summary.Periods {
		periodTotals[pt.PeriodID] = pt
	}

	dataset := export.Dataset{Headers: csvHeaders}
	percent := fmt.Sprintf("%d%%", active.summary.Percent)
	for _, period := range active.settings.Periods {
		pt := periodTotals[period.ID]
		for _, category := range active.settings.Categories {
			score := ""
			if v := active.record.Score(period.ID, category.ID); v != nil {
				score = strconv.Itoa(*v)
			}
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Date":           active.date,
				"Student":        active.student.Name,
				"Period":         period.Name,
				"Category":       category.Name,
				"Score":          score,
				"Scale Max":      strconv.Itoa(active.settings.Scale.ScaleMax),
				"Period Total":   strconv.Itoa(pt.Total),
				"Period Max":     strconv.Itoa(pt.Max),
				"Daily Total":    strconv.Itoa(active.summary.DailyTotal),
				"Daily Max":      strconv.Itoa(active.summary.DailyMax),
				"Percent":        percent,
				"Staff":          active.record.Staff,
				"Period Comment": active.record.PeriodComments[period.ID],
				"Daily Note":     active.record.DailyNote,
			})
		}
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	filename := fmt.Sprintf("behavior_rubric_%s_%s.csv", sanitizeFilename(active.student.Name), active.date)
	s.keep(filename, payload)
	return &ExportResult{Filename: filename, ContentType: "text/csv", Payload: payload}, nil
}

// SettingsJSON serializes the current settings with stable field names and
// human-readable indentation.
func (s *ExportService) SettingsJSON() (*ExportResult, error) {
	var settings models.Settings
	s.store.View(func(snap *models.Snapshot) {
		settings = snap.Settings.Clone()
	})
	payload, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode settings")
	}
	payload = append(payload, '\n')
	s.keep(settingsExportFilename, payload)
	return &ExportResult{Filename: settingsExportFilename, ContentType: "application/json", Payload: payload}, nil
}

// PrintPDF renders the non-interactive print surface: the summary block plus
// the full rubric matrix for the active record.
func (s *ExportService) PrintPDF() (*ExportResult, error) {
	active, err := s.active()
	if err != nil {
		return nil, err
	}

	headers := make([]string, 0, len(active.settings.Categories)+2)
	headers = append(headers, "Period")
	for _, category := range active.settings.Categories {
		headers = append(headers, category.Name)
	}
	headers = append(headers, "Total")

	periodTotals := make(map[string]models.PeriodTotal, len(active.summary.Periods))
	for _, pt := range active.summary.Periods {
		periodTotals[pt.PeriodID] = pt
	}

	dataset := export.Dataset{Headers: headers}
	for _, period := range active.settings.Periods {
		row := map[string]string{"Period": period.Name}
		for _, category := range active.settings.Categories {
			if v := active.record.Score(period.ID, category.ID); v != nil {
				row[category.Name] = strconv.Itoa(*v)
			} else {
				row[category.Name] = "-"
			}
		}
		pt := periodTotals[period.ID]
		row["Total"] = fmt.Sprintf("%d / %d", pt.Total, pt.Max)
		dataset.Rows = append(dataset.Rows, row)
	}

	goal := "no"
	if active.summary.GoalMet {
		goal = "yes"
	}
	summary := []string{
		fmt.Sprintf("Student: %s", active.student.Name),
		fmt.Sprintf("Date: %s", active.date),
		fmt.Sprintf("Daily total: %d / %d (%d%%)", active.summary.DailyTotal, active.summary.DailyMax, active.summary.Percent),
		fmt.Sprintf("Goal: %d points, met: %s", active.summary.GoalPoints, goal),
	}
	if active.record.Staff != "" {
		summary = append(summary, fmt.Sprintf("Staff: %s", active.record.Staff))
	}
	if active.record.DailyNote != "" {
		summary = append(summary, fmt.Sprintf("Note: %s", active.record.DailyNote))
	}

	payload, err := s.pdf.Render(dataset, "Behavior Rubric", summary)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	filename := fmt.Sprintf("behavior_rubric_%s_%s.pdf", sanitizeFilename(active.student.Name), active.date)
	s.keep(filename, payload)
	return &ExportResult{Filename: filename, ContentType: "application/pdf", Payload: payload}, nil
}

// keep stores a copy of the rendered file; failures are logged, not fatal.
func (s *ExportService) keep(filename string, payload []byte) {
	if s.storage == nil {
		return
	}
	if _, err := s.storage.Save(filename, payload); err != nil {
		s.logger.Warn("failed to keep export copy", zap.String("filename", filename), zap.Error(err))
	}
}

func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", "\"", "", ":", "-")
	return replacer.Replace(name)
}
