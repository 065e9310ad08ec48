package service

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/behavior-rubric/internal/models"
	appErrors "github.com/noah-isme/behavior-rubric/pkg/errors"
)

// SettingsService owns the rubric taxonomy. Every taxonomy mutation runs the
// reconciliation pass over all materialized records before it returns, so
// totals are always derived from a repaired shape.
type SettingsService struct {
	store     snapshotStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs the service.
func NewSettingsService(store snapshotStore, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{store: store, validator: validate, logger: logger}
}

// Get returns a copy of the current settings.
func (s *SettingsService) Get() models.Settings {
	var settings models.Settings
	s.store.View(func(snap *models.Snapshot) {
		settings = snap.Settings.Clone()
	})
	return settings
}

// importSettingsPayload mirrors the settings JSON shape with every field
// optional, so structural absence is detectable before anything is applied.
type importSettingsPayload struct {
	Categories *[]models.Category `json:"categories"`
	Periods    *[]models.Period   `json:"periods"`
	Scale      *importScale       `json:"scale"`
	GoalPoints *int               `json:"goal_points"`
}

type importScale struct {
	ScaleMax *int           `json:"scale_max"`
	Labels   map[int]string `json:"labels"`
}

// Replace swaps in a full settings object, typically from an imported JSON
// file. The payload is structurally validated first; on any failure the
// previous settings remain untouched. On success the active record is
// reconciled eagerly (all other records repair on their next access).
func (s *SettingsService) Replace(data []byte) (models.Settings, error) {
	settings, err := parseImportedSettings(data)
	if err != nil {
		return models.Settings{}, err
	}

	updateErr := s.store.Update(func(snap *models.Snapshot) error {
		snap.Settings = settings
		if rec, ok := snap.Entries[models.EntryKey(snap.Date, snap.StudentID)]; ok && rec != nil {
			reconcileRecord(rec, snap.Settings)
		}
		return nil
	})
	if updateErr != nil {
		return models.Settings{}, updateErr
	}
	s.logger.Info("settings replaced",
		zap.Int("categories", len(settings.Categories)),
		zap.Int("periods", len(settings.Periods)))
	return settings.Clone(), nil
}

func parseImportedSettings(data []byte) (models.Settings, error) {
	var payload importSettingsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return models.Settings{}, appErrors.Wrap(err, appErrors.ErrImportValidation.Code, appErrors.ErrImportValidation.Status, "settings file is not valid JSON")
	}
	if payload.Categories == nil {
		return models.Settings{}, appErrors.Clone(appErrors.ErrImportValidation, "settings file is missing categories")
	}
	if payload.Periods == nil {
		return models.Settings{}, appErrors.Clone(appErrors.ErrImportValidation, "settings file is missing periods")
	}
	if payload.Scale == nil || payload.Scale.ScaleMax == nil {
		return models.Settings{}, appErrors.Clone(appErrors.ErrImportValidation, "settings file is missing scale")
	}
	if payload.GoalPoints == nil {
		return models.Settings{}, appErrors.Clone(appErrors.ErrImportValidation, "settings file is missing goal_points")
	}
	if *payload.Scale.ScaleMax < 1 {
		return models.Settings{}, appErrors.Clone(appErrors.ErrImportValidation, "scale_max must be at least 1")
	}
	if *payload.GoalPoints < 0 {
		return models.Settings{}, appErrors.Clone(appErrors.ErrImportValidation, "goal_points must not be negative")
	}
	if err := checkUniqueIDs("category", categoryIDs(*payload.Categories)); err != nil {
		return models.Settings{}, err
	}
	if err := checkUniqueIDs("period", periodIDs(*payload.Periods)); err != nil {
		return models.Settings{}, err
	}

	labels := payload.Scale.Labels
	if labels == nil {
		labels = make(map[int]string)
	}
	settings := models.Settings{
		Categories: *payload.Categories,
		Periods:    *payload.Periods,
		Scale:      models.ScaleConfig{ScaleMax: *payload.Scale.ScaleMax, Labels: labels},
		GoalPoints: *payload.GoalPoints,
	}
	return settings, nil
}

func categoryIDs(categories []models.Category) []string {
	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return ids
}

func periodIDs(periods []models.Period) []string {
	ids := make([]string, len(periods))
	for i, p := range periods {
		ids[i] = p.ID
	}
	return ids
}

func checkUniqueIDs(kind string, ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return appErrors.Clone(appErrors.ErrImportValidation, kind+" with empty id")
		}
		if _, dup := seen[id]; dup {
			return appErrors.Clone(appErrors.ErrImportValidation, "duplicate "+kind+" id "+id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// AddTaxonomyRequest optionally names a new category or period.
type AddTaxonomyRequest struct {
	Name string `json:"name"`
}

// RenameRequest carries new display text for a category or period.
type RenameRequest struct {
	Name string `json:"name" validate:"required"`
}

// AddCategory appends a category with a fresh id.
func (s *SettingsService) AddCategory(req AddTaxonomyRequest) (models.Settings, error) {
	name := req.Name
	if name == "" {
		name = "New Category"
	}
	return s.mutateTaxonomy(func(snap *models.Snapshot) error {
		snap.Settings.Categories = append(snap.Settings.Categories, models.Category{ID: uuid.NewString(), Name: name})
		return nil
	})
}

// RenameCategory changes a category's display text. Identity is the id, so
// no record data moves.
func (s *SettingsService) RenameCategory(id string, req RenameRequest) (models.Settings, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Settings{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	return s.mutateTaxonomy(func(snap *models.Snapshot) error {
		for i := range snap.Settings.Categories {
			if snap.Settings.Categories[i].ID == id {
				snap.Settings.Categories[i].Name = req.Name
				return nil
			}
		}
		return appErrors.Clone(appErrors.ErrNotFound, "category not found")
	})
}

// RemoveCategory drops a category from the taxonomy. Stored scores for it
// remain in the records but are never read again.
func (s *SettingsService) RemoveCategory(id string) (models.Settings, error) {
	return s.mutateTaxonomy(func(snap *models.Snapshot) error {
		for i := range snap.Settings.Categories {
			if snap.Settings.Categories[i].ID == id {
				snap.Settings.Categories = append(snap.Settings.Categories[:i], snap.Settings.Categories[i+1:]...)
				return nil
			}
		}
		return appErrors.Clone(appErrors.ErrNotFound, "category not found")
	})
}

// AddPeriod appends a period with a fresh id.
func (s *SettingsService) AddPeriod(req AddTaxonomyRequest) (models.Settings, error) {
	return s.mutateTaxonomy(func(snap *models.Snapshot) error {
		name := req.Name
		if name == "" {
			name = fmt.Sprintf("Period %d", len(snap.Settings.Periods)+1)
		}
		snap.Settings.Periods = append(snap.Settings.Periods, models.Period{ID: uuid.NewString(), Name: name})
		return nil
	})
}

// RenamePeriod changes a period's display text.
func (s *SettingsService) RenamePeriod(id string, req RenameRequest) (models.Settings, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Settings{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	return s.mutateTaxonomy(func(snap *models.Snapshot) error {
		for i := range snap.Settings.Periods {
			if snap.Settings.Periods[i].ID == id {
				snap.Settings.Periods[i].Name = req.Name
				return nil
			}
		}
		return appErrors.Clone(appErrors.ErrNotFound, "period not found")
	})
}

// RemovePeriod drops a period from the taxonomy.
func (s *SettingsService) RemovePeriod(id string) (models.Settings, error) {
	return s.mutateTaxonomy(func(snap *models.Snapshot) error {
		for i := range snap.Settings.Periods {
			if snap.Settings.Periods[i].ID == id {
				snap.Settings.Periods = append(snap.Settings.Periods[:i], snap.Settings.Periods[i+1:]...)
				return nil
			}
		}
		return appErrors.Clone(appErrors.ErrNotFound, "period not found")
	})
}

// SetScaleRequest changes the scale ceiling.
type SetScaleRequest struct {
	ScaleMax int `json:"scale_max" validate:"min=1"`
}

// SetScale changes scale_max. Scores already stored above a lowered ceiling
// are kept as historical data, not clamped retroactively. Labels for newly
// reachable levels default to the level number.
func (s *SettingsService) SetScale(req SetScaleRequest) (models.Settings, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Settings{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "scale_max must be at least 1")
	}
	return s.mutateTaxonomy(func(snap *models.Snapshot) error {
		snap.Settings.Scale.ScaleMax = req.ScaleMax
		for level := 0; level <= req.ScaleMax; level++ {
			if _, ok := snap.Settings.Scale.Labels[level]; !ok {
				snap.Settings.Scale.Labels[level] = strconv.Itoa(level)
			}
		}
		return nil
	})
}

// SetScaleLabelRequest renames one scale level.
type SetScaleLabelRequest struct {
	Label string `json:"label" validate:"required"`
}

// SetScaleLabel changes the display label for one level of the scale.
func (s *SettingsService) SetScaleLabel(level int, req SetScaleLabelRequest) (models.Settings, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Settings{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	return s.mutateTaxonomy(func(snap *models.Snapshot) error {
		if level < 0 || level > snap.Settings.Scale.ScaleMax {
			return appErrors.Clone(appErrors.ErrValidation, "label level outside the scale")
		}
		snap.Settings.Scale.Labels[level] = req.Label
		return nil
	})
}

// SetGoalRequest changes the daily goal threshold.
type SetGoalRequest struct {
	GoalPoints int `json:"goal_points" validate:"min=0"`
}

// SetGoal changes the daily goal threshold.
func (s *SettingsService) SetGoal(req SetGoalRequest) (models.Settings, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Settings{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "goal_points must not be negative")
	}
	return s.mutateTaxonomy(func(snap *models.Snapshot) error {
		snap.Settings.GoalPoints = req.GoalPoints
		return nil
	})
}

// mutateTaxonomy applies fn and then reconciles every materialized record,
// so the repair is ordered strictly before any totals derivation.
func (s *SettingsService) mutateTaxonomy(fn func(snap *models.Snapshot) error) (models.Settings, error) {
	var settings models.Settings
	err := s.store.Update(func(snap *models.Snapshot) error {
		if err := fn(snap); err != nil {
			return err
		}
		reconcileAll(snap)
		settings = snap.Settings.Clone()
		return nil
	})
	if err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}
