package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/behavior-rubric/internal/models"
	appErrors "github.com/noah-isme/behavior-rubric/pkg/errors"
)

const dateLayout = "2006-01-02"

// snapshotStore is the slice of the snapshot store the services consume.
type snapshotStore interface {
	View(fn func(snap *models.Snapshot))
	Update(fn func(snap *models.Snapshot) error) error
}

// RecordService owns record materialization, scoring and the structural
// repair that keeps every record's matrix in sync with the taxonomy.
type RecordService struct {
	store     snapshotStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRecordService constructs the service.
func NewRecordService(store snapshotStore, validate *validator.Validate, logger *zap.Logger) *RecordService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{store: store, validator: validate, logger: logger}
}

// RecordView couples a record with its derived summary.
type RecordView struct {
	Date        string              `json:"date"`
	StudentID   string              `json:"student_id"`
	StudentName string              `json:"student_name"`
	Record      *models.Record      `json:"record"`
	Summary     models.DailySummary `json:"summary"`
}

// ScoreEdit carries one cell edit. Value is the raw text typed into the
// cell; coercion happens here, never in the UI.
type ScoreEdit struct {
	PeriodID   string `json:"period_id" validate:"required"`
	CategoryID string `json:"category_id" validate:"required"`
	Value      string `json:"value"`
}

// UpdateRecordRequest is a partial patch against one record.
type UpdateRecordRequest struct {
	Scores         []ScoreEdit       `json:"scores" validate:"omitempty,dive"`
	PeriodComments map[string]string `json:"period_comments"`
	DailyNote      *string           `json:"daily_note"`
	Staff          *string           `json:"staff"`
}

// GetOrCreate returns the record for a (date, student) pair, materializing
// it with an all-unset matrix on first access. The record shape is repaired
// against the current taxonomy on every access, so a taxonomy change made
// while another record was active can never leave this one stale.
func (s *RecordService) GetOrCreate(date, studentID string) (*RecordView, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date, expected YYYY-MM-DD")
	}

	var view *RecordView
	err := s.store.Update(func(snap *models.Snapshot) error {
		student, ok := snap.StudentByID(studentID)
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		rec := s.materialize(snap, date, studentID)
		view = s.buildView(date, student, rec, snap.Settings)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Update applies a patch to a record, materializing it first if needed.
// Score values are coerced per the scale; comments, note and staff are
// plain overwrites.
func (s *RecordService) Update(date, studentID string, req UpdateRecordRequest) (*RecordView, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date, expected YYYY-MM-DD")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	var view *RecordView
	err := s.store.Update(func(snap *models.Snapshot) error {
		student, ok := snap.StudentByID(studentID)
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}

		// The whole patch is checked against the taxonomy before anything
		// is applied: a rejected request must leave the record untouched.
		for _, edit := range req.Scores {
			if _, ok := snap.Settings.PeriodByID(edit.PeriodID); !ok {
				return appErrors.Clone(appErrors.ErrValidation, "unknown period "+edit.PeriodID)
			}
			if _, ok := snap.Settings.CategoryByID(edit.CategoryID); !ok {
				return appErrors.Clone(appErrors.ErrValidation, "unknown category "+edit.CategoryID)
			}
		}
		for periodID := range req.PeriodComments {
			if _, ok := snap.Settings.PeriodByID(periodID); !ok {
				return appErrors.Clone(appErrors.ErrValidation, "unknown period "+periodID)
			}
		}

		rec := s.materialize(snap, date, studentID)
		for _, edit := range req.Scores {
			rec.Matrix[edit.PeriodID][edit.CategoryID] = coerceScore(edit.Value, snap.Settings.Scale.ScaleMax)
		}
		for periodID, comment := range req.PeriodComments {
			rec.PeriodComments[periodID] = comment
		}
		if req.DailyNote != nil {
			rec.DailyNote = *req.DailyNote
		}
		if req.Staff != nil {
			rec.Staff = *req.Staff
		}

		view = s.buildView(date, student, rec, snap.Settings)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Selection describes the active (date, student) pair.
type Selection struct {
	Date      string `json:"date"`
	StudentID string `json:"student_id"`
}

// SetSelectionRequest updates the active selection.
type SetSelectionRequest struct {
	Date      string `json:"date" validate:"required"`
	StudentID string `json:"student_id"`
}

// GetSelection returns the persisted active selection.
func (s *RecordService) GetSelection() Selection {
	var sel Selection
	s.store.View(func(snap *models.Snapshot) {
		sel = Selection{Date: snap.Date, StudentID: snap.StudentID}
	})
	return sel
}

// SetSelection persists the active (date, student) pair.
func (s *RecordService) SetSelection(req SetSelectionRequest) (Selection, error) {
	if err := s.validator.Struct(req); err != nil {
		return Selection{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return Selection{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date, expected YYYY-MM-DD")
	}

	var sel Selection
	err := s.store.Update(func(snap *models.Snapshot) error {
		if req.StudentID != "" {
			if _, ok := snap.StudentByID(req.StudentID); !ok {
				return appErrors.Clone(appErrors.ErrNotFound, "student not found")
			}
		}
		snap.Date = req.Date
		snap.StudentID = req.StudentID
		sel = Selection{Date: snap.Date, StudentID: snap.StudentID}
		return nil
	})
	if err != nil {
		return Selection{}, err
	}
	return sel, nil
}

// materialize fetches or lazily creates the entry and repairs its shape.
func (s *RecordService) materialize(snap *models.Snapshot, date, studentID string) *models.Record {
	key := models.EntryKey(date, studentID)
	rec, ok := snap.Entries[key]
	if !ok || rec == nil {
		rec = models.NewRecord()
		snap.Entries[key] = rec
		s.logger.Debug("record materialized", zap.String("date", date), zap.String("student_id", studentID))
	}
	reconcileRecord(rec, snap.Settings)
	return rec
}

func (s *RecordService) buildView(date string, student models.Student, rec *models.Record, settings models.Settings) *RecordView {
	clone := rec.Clone()
	return &RecordView{
		Date:        date,
		StudentID:   student.ID,
		StudentName: student.Name,
		Record:      clone,
		Summary:     ComputeDailySummary(clone, settings),
	}
}

// coerceScore parses raw cell input. Genuinely non-numeric input yields
// unset; numeric input outside [0, scaleMax] is saturated to the nearest
// bound, not rejected.
func coerceScore(raw string, scaleMax int) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	if n < 0 {
		n = 0
	}
	if n > scaleMax {
		n = scaleMax
	}
	return &n
}
