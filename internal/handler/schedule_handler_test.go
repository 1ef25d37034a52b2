package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-directory-api/internal/models"
	"github.com/noah-isme/faculty-directory-api/internal/service"
	"github.com/noah-isme/faculty-directory-api/pkg/response"
)

type scheduleRepoStub struct {
	items    map[int64]*models.ScheduleEntry
	conflict bool
}

func (s *scheduleRepoStub) FindByID(ctx context.Context, id int64) (*models.ScheduleEntry, error) {
	if entry, ok := s.items[id]; ok {
		cp := *entry
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *scheduleRepoStub) HasConflict(ctx context.Context, professorID int64, day, start, end string, excludeID int64) (bool, error) {
	return s.conflict, nil
}

func (s *scheduleRepoStub) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	entry.ID = 7
	return nil
}

func (s *scheduleRepoStub) Update(ctx context.Context, entry *models.ScheduleEntry) error { return nil }

func (s *scheduleRepoStub) Delete(ctx context.Context, id int64) error {
	delete(s.items, id)
	return nil
}

func (s *scheduleRepoStub) ListForProfessor(ctx context.Context, professorID int64) ([]models.ScheduleDetail, error) {
	return nil, nil
}

func (s *scheduleRepoStub) ListAll(ctx context.Context) ([]models.ScheduleRoster, error) {
	return nil, nil
}

type professorCheckerStub struct{ known map[int64]bool }

func (s *professorCheckerStub) FindByID(ctx context.Context, id int64) (*models.ProfessorDetail, error) {
	if s.known[id] {
		return &models.ProfessorDetail{Professor: models.Professor{ID: id}}, nil
	}
	return nil, sql.ErrNoRows
}

type courseCheckerStub struct{ known map[string]bool }

func (s *courseCheckerStub) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return s.known[code], nil
}

func newScheduleHandler(repo *scheduleRepoStub) *ScheduleHandler {
	svc := service.NewScheduleService(
		repo,
		&professorCheckerStub{known: map[int64]bool{1: true}},
		&courseCheckerStub{known: map[string]bool{"CS101": true}},
		nil, nil,
	)
	return NewScheduleHandler(svc)
}

func schedulePayload() map[string]interface{} {
	return map[string]interface{}{
		"professor_id":  1,
		"day_of_week":   "Monday",
		"start_time":    "09:00",
		"end_time":      "11:00",
		"academic_year": "2023-2024",
		"semester":      "1st",
		"course_code":   "CS101",
	}
}

func postJSON(t *testing.T, handler gin.HandlerFunc, target string, payload interface{}, params gin.Params) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params
	handler(c)
	return w
}

func TestScheduleHandlerCreate(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		handler := newScheduleHandler(&scheduleRepoStub{})
		w := postJSON(t, handler.Create, "/schedules", schedulePayload(), nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var envelope response.Envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		data, ok := envelope.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(7), data["id"])
	})

	t.Run("conflict maps to 409", func(t *testing.T) {
		handler := newScheduleHandler(&scheduleRepoStub{conflict: true})
		w := postJSON(t, handler.Create, "/schedules", schedulePayload(), nil)
		require.Equal(t, http.StatusConflict, w.Code)

		var envelope response.Envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "SCHEDULE_CONFLICT", envelope.Error.Code)
	})

	t.Run("unknown course maps to 422", func(t *testing.T) {
		handler := newScheduleHandler(&scheduleRepoStub{})
		payload := schedulePayload()
		payload["course_code"] = "CS999"
		w := postJSON(t, handler.Create, "/schedules", payload, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		handler := newScheduleHandler(&scheduleRepoStub{})
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req, _ := http.NewRequest(http.MethodPost, "/schedules", bytes.NewReader([]byte(`not json`)))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		handler.Create(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestScheduleHandlerUpdate(t *testing.T) {
	repo := &scheduleRepoStub{items: map[int64]*models.ScheduleEntry{
		5: {ID: 5, ProfessorID: 1, DayOfWeek: "Monday", StartTime: "09:00", EndTime: "11:00"},
	}}
	handler := newScheduleHandler(repo)

	t.Run("ok", func(t *testing.T) {
		w := postJSON(t, handler.Update, "/schedules/5", schedulePayload(), gin.Params{{Key: "id", Value: "5"}})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := postJSON(t, handler.Update, "/schedules/abc", schedulePayload(), gin.Params{{Key: "id", Value: "abc"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing entry", func(t *testing.T) {
		w := postJSON(t, handler.Update, "/schedules/99", schedulePayload(), gin.Params{{Key: "id", Value: "99"}})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestScheduleHandlerDelete(t *testing.T) {
	repo := &scheduleRepoStub{items: map[int64]*models.ScheduleEntry{
		5: {ID: 5, ProfessorID: 1, DayOfWeek: "Monday", StartTime: "09:00", EndTime: "11:00"},
	}}
	handler := newScheduleHandler(repo)
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/schedules/5", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	req, _ = http.NewRequest(http.MethodDelete, "/schedules/5", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	handler.Delete(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
