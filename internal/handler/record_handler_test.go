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

	"github.com/noah-isme/behavior-rubric/internal/service"
	appErrors "github.com/noah-isme/behavior-rubric/pkg/errors"
)

func newRecordHandler(t *testing.T) *RecordHandler {
	t.Helper()
	return NewRecordHandler(service.NewRecordService(newTestStore(t), nil, zap.NewNop()))
}

func recordContext(w *httptest.ResponseRecorder, date, studentID string) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{
		{Key: "date", Value: date},
		{Key: "studentId", Value: studentID},
	}
	return c
}

func TestRecordHandlerGetSeedsRecord(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newRecordHandler(t)

	w := httptest.NewRecorder()
	c := recordContext(w, "2024-09-02", "s1")
	req, _ := http.NewRequest(http.MethodGet, "/records/2024-09-02/s1", nil)
	c.Request = req

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data service.RecordView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Alex Doe", body.Data.StudentName)
	require.Contains(t, body.Data.Record.Matrix, "p1")
	assert.Nil(t, body.Data.Record.Matrix["p1"]["c1"])
	assert.Equal(t, 12, body.Data.Summary.DailyMax)
}

func TestRecordHandlerGetUnknownStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newRecordHandler(t)

	w := httptest.NewRecorder()
	c := recordContext(w, "2024-09-02", "ghost")
	req, _ := http.NewRequest(http.MethodGet, "/records/2024-09-02/ghost", nil)
	c.Request = req

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)

	var body struct {
		Error *appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, appErrors.ErrNotFound.Code, body.Error.Code)
}

func TestRecordHandlerUpdateScores(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newRecordHandler(t)

	payload := `{"scores":[{"period_id":"p1","category_id":"c1","value":"9"},{"period_id":"p1","category_id":"c2","value":"abc"}],"daily_note":"good day"}`
	w := httptest.NewRecorder()
	c := recordContext(w, "2024-09-02", "s1")
	req, _ := http.NewRequest(http.MethodPatch, "/records/2024-09-02/s1", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data service.RecordView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	// 9 saturates to the scale max, non-numeric input clears the cell
	require.NotNil(t, body.Data.Record.Matrix["p1"]["c1"])
	assert.Equal(t, 3, *body.Data.Record.Matrix["p1"]["c1"])
	assert.Nil(t, body.Data.Record.Matrix["p1"]["c2"])
	assert.Equal(t, "good day", body.Data.Record.DailyNote)
	assert.Equal(t, 3, body.Data.Summary.DailyTotal)
}

func TestRecordHandlerUpdateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newRecordHandler(t)

	w := httptest.NewRecorder()
	c := recordContext(w, "2024-09-02", "s1")
	req, _ := http.NewRequest(http.MethodPatch, "/records/2024-09-02/s1", bytes.NewBufferString(`{"scores":[`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Update(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordHandlerSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newRecordHandler(t)

	w := httptest.NewRecorder()
	c := recordContext(w, "2024-09-02", "s1")
	req, _ := http.NewRequest(http.MethodGet, "/records/2024-09-02/s1/summary", nil)
	c.Request = req

	handler.Summary(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			DailyMax   int  `json:"daily_max"`
			GoalPoints int  `json:"goal_points"`
			GoalMet    bool `json:"goal_met"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 12, body.Data.DailyMax)
	assert.Equal(t, 6, body.Data.GoalPoints)
	assert.False(t, body.Data.GoalMet)
}

func TestRecordHandlerSelectionRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newRecordHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/selection", bytes.NewBufferString(`{"date":"2024-09-02","student_id":"s1"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.SetSelection(c)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	req, _ = http.NewRequest(http.MethodGet, "/selection", nil)
	c.Request = req

	handler.GetSelection(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data service.Selection `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2024-09-02", body.Data.Date)
	assert.Equal(t, "s1", body.Data.StudentID)
}
