package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/behavior-rubric/internal/models"
	"github.com/noah-isme/behavior-rubric/internal/service"
	appErrors "github.com/noah-isme/behavior-rubric/pkg/errors"
)

func newSettingsHandler(t *testing.T) *SettingsHandler {
	t.Helper()
	return NewSettingsHandler(service.NewSettingsService(newTestStore(t), nil, zap.NewNop()))
}

func decodeSettings(t *testing.T, w *httptest.ResponseRecorder) models.Settings {
	t.Helper()
	var body struct {
		Data models.Settings `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data
}

func TestSettingsHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSettingsHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/settings", nil)
	c.Request = req

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)

	settings := decodeSettings(t, w)
	assert.Len(t, settings.Categories, 2)
	assert.Len(t, settings.Periods, 2)
	assert.Equal(t, 3, settings.Scale.ScaleMax)
}

func TestSettingsHandlerAddCategoryWithoutBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSettingsHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/settings/categories", nil)
	c.Request = req

	handler.AddCategory(c)
	require.Equal(t, http.StatusCreated, w.Code)

	settings := decodeSettings(t, w)
	require.Len(t, settings.Categories, 3)
	assert.Equal(t, "New Category", settings.Categories[2].Name)
}

func TestSettingsHandlerImportMalformed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSettingsHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/settings/import", bytes.NewBufferString(`{"categories": []}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Import(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error *appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, appErrors.ErrImportValidation.Code, body.Error.Code)
}

func TestSettingsHandlerImportValid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSettingsHandler(t)

	payload := `{
	  "categories": [{"id": "c9", "name": "Focused"}],
	  "periods": [{"id": "p9", "name": "Morning"}],
	  "scale": {"scale_max": 2, "labels": {"0": "No", "1": "Almost", "2": "Yes"}},
	  "goal_points": 4
	}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/settings/import", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Import(c)
	require.Equal(t, http.StatusOK, w.Code)

	settings := decodeSettings(t, w)
	require.Len(t, settings.Categories, 1)
	assert.Equal(t, "Focused", settings.Categories[0].Name)
	assert.Equal(t, 2, settings.Scale.ScaleMax)
	assert.Equal(t, 4, settings.GoalPoints)
}

func TestSettingsHandlerSetScaleLabelBadLevel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSettingsHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "level", Value: "high"}}
	req, _ := http.NewRequest(http.MethodPut, "/settings/scale/labels/high", bytes.NewBufferString(`{"label":"Great"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.SetScaleLabel(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsHandlerSetGoal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSettingsHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/settings/goal", bytes.NewBufferString(`{"goal_points":10}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.SetGoal(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, decodeSettings(t, w).GoalPoints)
}
