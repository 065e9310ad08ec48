package service

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/behavior-rubric/internal/models"
	appErrors "github.com/noah-isme/behavior-rubric/pkg/errors"
)

func newSettingsService(snap *models.Snapshot) (*SettingsService, *fakeStore) {
	store := &fakeStore{snap: snap}
	return NewSettingsService(store, validator.New(), zap.NewNop()), store
}

func TestSettingsReplaceRoundTrip(t *testing.T) {
	svc, _ := newSettingsService(testSnapshot())
	original := testSettings()

	data, err := json.MarshalIndent(original, "", "  ")
	require.NoError(t, err)

	replaced, err := svc.Replace(data)
	require.NoError(t, err)
	assert.Equal(t, original, replaced)
	assert.Equal(t, original, svc.Get())
}

func TestSettingsReplaceMalformedLeavesStateUntouched(t *testing.T) {
	snap := testSnapshot()
	svc, store := newSettingsService(snap)
	before := store.snap.Settings.Clone()

	cases := []string{
		`not json at all`,
		`{"periods": [], "scale": {"scale_max": 3}, "goal_points": 0}`,
		`{"categories": [], "scale": {"scale_max": 3}, "goal_points": 0}`,
		`{"categories": [], "periods": [], "goal_points": 0}`,
		`{"categories": [], "periods": [], "scale": {"scale_max": 3}}`,
		`{"categories": [], "periods": [], "scale": {"scale_max": 0}, "goal_points": 0}`,
		`{"categories": [], "periods": [], "scale": {"scale_max": 3}, "goal_points": -1}`,
		`{"categories": [{"id": "x"}, {"id": "x"}], "periods": [], "scale": {"scale_max": 3}, "goal_points": 0}`,
	}
	for _, payload := range cases {
		_, err := svc.Replace([]byte(payload))
		require.Error(t, err, payload)
		assert.Equal(t, appErrors.ErrImportValidation.Code, appErrors.FromError(err).Code, payload)
		assert.Equal(t, before, store.snap.Settings, payload)
	}
}

func TestSettingsReplaceReconcilesActiveRecord(t *testing.T) {
	snap := testSnapshot()
	snap.Date = "2024-09-02"
	snap.StudentID = "s1"
	rec := models.NewRecord()
	reconcileRecord(rec, snap.Settings)
	snap.Entries[models.EntryKey("2024-09-02", "s1")] = rec

	svc, _ := newSettingsService(snap)
	imported := testSettings()
	imported.Periods = append(imported.Periods, models.Period{ID: "p3", Name: "Period 3"})
	data, err := json.Marshal(imported)
	require.NoError(t, err)

	_, err = svc.Replace(data)
	require.NoError(t, err)
	require.Contains(t, rec.Matrix, "p3")
	assert.Nil(t, rec.Matrix["p3"]["c1"])
}

func TestSettingsRemoveCategoryKeepsStoredScores(t *testing.T) {
	snap := testSnapshot()
	rec := models.NewRecord()
	reconcileRecord(rec, snap.Settings)
	rec.Matrix["p1"]["c2"] = intPtr(2)
	snap.Entries[models.EntryKey("2024-09-02", "s1")] = rec

	svc, _ := newSettingsService(snap)
	updated, err := svc.RemoveCategory("c2")
	require.NoError(t, err)
	require.Len(t, updated.Categories, 1)

	// the cell stays in the record even though it is no longer read
	assert.Equal(t, 2, *rec.Matrix["p1"]["c2"])
}

func TestSettingsScaleReductionKeepsScores(t *testing.T) {
	snap := testSnapshot()
	rec := models.NewRecord()
	reconcileRecord(rec, snap.Settings)
	rec.Matrix["p1"]["c1"] = intPtr(3)
	snap.Entries[models.EntryKey("2024-09-02", "s1")] = rec

	svc, _ := newSettingsService(snap)
	updated, err := svc.SetScale(SetScaleRequest{ScaleMax: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Scale.ScaleMax)
	assert.Equal(t, 3, *rec.Matrix["p1"]["c1"])
}

func TestSettingsScaleIncreaseFillsLabels(t *testing.T) {
	svc, _ := newSettingsService(testSnapshot())
	updated, err := svc.SetScale(SetScaleRequest{ScaleMax: 5})
	require.NoError(t, err)
	assert.Equal(t, "4", updated.Scale.Labels[4])
	assert.Equal(t, "5", updated.Scale.Labels[5])
	// existing labels are untouched
	assert.Equal(t, "3", updated.Scale.Labels[3])
}

func TestSettingsTaxonomyMutationsReconcileAllRecords(t *testing.T) {
	snap := testSnapshot()
	snap.Students = append(snap.Students, models.Student{ID: "s2", Name: "Sam Lee"})
	recA := models.NewRecord()
	reconcileRecord(recA, snap.Settings)
	recB := models.NewRecord()
	reconcileRecord(recB, snap.Settings)
	snap.Entries[models.EntryKey("2024-09-02", "s1")] = recA
	snap.Entries[models.EntryKey("2024-09-03", "s2")] = recB

	svc, _ := newSettingsService(snap)
	updated, err := svc.AddPeriod(AddTaxonomyRequest{})
	require.NoError(t, err)
	newID := updated.Periods[len(updated.Periods)-1].ID

	assert.Contains(t, recA.Matrix, newID)
	assert.Contains(t, recB.Matrix, newID)
}

func TestSettingsRenameUnknownCategory(t *testing.T) {
	svc, _ := newSettingsService(testSnapshot())
	_, err := svc.RenameCategory("ghost", RenameRequest{Name: "Focused"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSettingsGoalValidation(t *testing.T) {
	svc, _ := newSettingsService(testSnapshot())
	_, err := svc.SetGoal(SetGoalRequest{GoalPoints: -1})
	require.Error(t, err)

	updated, err := svc.SetGoal(SetGoalRequest{GoalPoints: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.GoalPoints)
}

func TestSettingsScaleLabelBounds(t *testing.T) {
	svc, _ := newSettingsService(testSnapshot())
	_, err := svc.SetScaleLabel(4, SetScaleLabelRequest{Label: "Beyond"})
	require.Error(t, err)

	updated, err := svc.SetScaleLabel(3, SetScaleLabelRequest{Label: "Excellent"})
	require.NoError(t, err)
	assert.Equal(t, "Excellent", updated.Scale.Labels[3])
}
