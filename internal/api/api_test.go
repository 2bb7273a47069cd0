package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/service"
	"github.com/hrcadm/sleeptracker/internal/storage"
)

type envelope struct {
	Data      json.RawMessage    `json:"data"`
	Meta      map[string]any     `json:"meta"`
	Error     *internal.AppError `json:"error"`
	RequestID string             `json:"requestId"`
}

type testServer struct {
	router *gin.Engine
	repo   *storage.MemoryStorage
	store  *service.SleepStore
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := storage.NewMemoryStorage()
	n := 0
	store, err := service.NewSleepStore(context.Background(), repo, internal.NopLogger(),
		service.WithClock(func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local) }),
		service.WithIDGenerator(func() string { n++; return fmt.Sprintf("entry-%d", n) }),
	)
	require.NoError(t, err)

	router := NewRouter(NewApp(store, internal.NopLogger(), NewMetrics()))
	return &testServer{router: router, repo: repo, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) (T, envelope) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var out T
	if len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, &out))
	}
	return out, env
}

func entryBody(date, bed, wake string, quality int) map[string]any {
	return map[string]any{
		"date":     date,
		"bedtime":  bed,
		"wakeTime": wake,
		"quality":  quality,
		"mood":     "good",
	}
}

func TestPostEntry(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodPost, "/entries", entryBody("2024-03-09", "23:00", "07:00", 4))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	entry, _ := decode[internal.SleepEntry](t, w)
	assert.Equal(t, "entry-1", entry.ID)
	assert.Equal(t, 480, entry.Duration)
	assert.Equal(t, internal.MoodGood, entry.Mood)
	assert.Equal(t, 1, s.repo.Saves())
}

func TestPostEntry_Invalid(t *testing.T) {
	s := setupServer(t)

	tests := []struct {
		name string
		body any
	}{
		{name: "quality out of range", body: entryBody("2024-03-09", "23:00", "07:00", 6)},
		{name: "malformed clock", body: entryBody("2024-03-09", "25:00", "07:00", 3)},
		{name: "malformed date", body: entryBody("09/03/2024", "23:00", "07:00", 3)},
		{name: "unknown mood", body: map[string]any{"date": "2024-03-09", "bedtime": "23:00", "wakeTime": "07:00", "quality": 3, "mood": "sleepy"}},
		{name: "not json", body: "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/entries", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			_, env := decode[json.RawMessage](t, w)
			require.NotNil(t, env.Error)
			assert.Equal(t, http.StatusBadRequest, env.Error.Status)
		})
	}
	assert.Empty(t, s.store.Entries())
	assert.Zero(t, s.repo.Saves())
}

func TestListEntries(t *testing.T) {
	s := setupServer(t)
	s.do(t, http.MethodPost, "/entries", entryBody("2024-03-01", "23:00", "07:00", 3))
	s.do(t, http.MethodPost, "/entries", entryBody("2024-03-05", "22:00", "06:00", 4))
	s.do(t, http.MethodPost, "/entries", entryBody("2024-03-03", "00:30", "08:00", 5))

	w := s.do(t, http.MethodGet, "/entries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries, env := decode[[]internal.SleepEntry](t, w)
	require.Len(t, entries, 3)
	assert.Equal(t, "2024-03-05", entries[0].Date)
	assert.Equal(t, "2024-03-03", entries[1].Date)
	assert.Equal(t, "2024-03-01", entries[2].Date)
	assert.EqualValues(t, 3, env.Meta["total"])

	w = s.do(t, http.MethodGet, "/entries?limit=1", nil)
	entries, env = decode[[]internal.SleepEntry](t, w)
	assert.Len(t, entries, 1)
	assert.EqualValues(t, 3, env.Meta["total"])

	w = s.do(t, http.MethodGet, "/entries?limit=-2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEntry(t *testing.T) {
	s := setupServer(t)
	s.do(t, http.MethodPost, "/entries", entryBody("2024-03-01", "23:00", "07:00", 3))

	w := s.do(t, http.MethodGet, "/entries/entry-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entry, _ := decode[internal.SleepEntry](t, w)
	assert.Equal(t, "2024-03-01", entry.Date)

	w = s.do(t, http.MethodGet, "/entries/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPatchEntry(t *testing.T) {
	s := setupServer(t)
	s.do(t, http.MethodPost, "/entries", entryBody("2024-03-01", "23:00", "07:00", 3))

	w := s.do(t, http.MethodPatch, "/entries/entry-1", map[string]any{"wakeTime": "06:30", "notes": "alarm"})
	require.Equal(t, http.StatusOK, w.Code)

	entry, ok := s.store.Entry("entry-1")
	require.True(t, ok)
	assert.Equal(t, 450, entry.Duration)
	assert.Equal(t, "alarm", entry.Notes)
	assert.Equal(t, 3, entry.Quality)

	w = s.do(t, http.MethodPatch, "/entries/entry-1", map[string]any{"quality": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPatch, "/entries/missing", map[string]any{"quality": 2})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteEntry(t *testing.T) {
	s := setupServer(t)
	s.do(t, http.MethodPost, "/entries", entryBody("2024-03-01", "23:00", "07:00", 3))

	w := s.do(t, http.MethodDelete, "/entries/entry-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, s.store.Entries())

	w = s.do(t, http.MethodDelete, "/entries/entry-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGoalEndpoints(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodGet, "/goal", nil)
	require.Equal(t, http.StatusOK, w.Code)
	goal, _ := decode[internal.SleepGoal](t, w)
	assert.Equal(t, internal.DefaultGoal(), goal)

	w = s.do(t, http.MethodPut, "/goal", map[string]any{"targetBedtime": "23:00", "targetWakeTime": "06:30", "targetDuration": 7.5})
	require.Equal(t, http.StatusOK, w.Code)
	goal, _ = decode[internal.SleepGoal](t, w)
	assert.Equal(t, 7.5, goal.TargetDuration)
	assert.Equal(t, "23:00", s.store.Goal().TargetBedtime)

	for _, target := range []float64{7.25, 13, 3.5} {
		w = s.do(t, http.MethodPut, "/goal", map[string]any{"targetBedtime": "23:00", "targetWakeTime": "06:30", "targetDuration": target})
		assert.Equal(t, http.StatusBadRequest, w.Code, "target %v", target)
	}
	assert.Equal(t, 7.5, s.store.Goal().TargetDuration)
}

func TestGoalProgressEndpoint(t *testing.T) {
	s := setupServer(t)
	s.do(t, http.MethodPost, "/entries", entryBody("2024-03-09", "23:00", "03:00", 3))

	w := s.do(t, http.MethodGet, "/goal/progress", nil)
	require.Equal(t, http.StatusOK, w.Code)
	progress, _ := decode[service.GoalProgress](t, w)
	assert.Equal(t, 4.0, progress.AverageDuration)
	assert.Equal(t, 50.0, progress.Percent)
	assert.Equal(t, 0, progress.MetDays)
	assert.Equal(t, 1, progress.TotalDays)
}

func TestStatsEndpoint(t *testing.T) {
	s := setupServer(t)
	s.do(t, http.MethodPost, "/entries", entryBody("2024-03-10", "23:00", "07:00", 5))
	s.do(t, http.MethodPost, "/entries", entryBody("2024-03-09", "23:00", "06:00", 2))

	w := s.do(t, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary, _ := decode[service.Summary](t, w)
	assert.Equal(t, service.DefaultWindow, summary.Window)
	assert.Equal(t, 3.5, summary.AverageQuality)
	assert.Equal(t, 7.5, summary.AverageDuration)
	assert.Equal(t, 2, summary.Streak)
	require.NotNil(t, summary.LastEntry)
	assert.Equal(t, "2024-03-10", summary.LastEntry.Date)
	assert.Len(t, summary.Recent, 2)

	w = s.do(t, http.MethodGet, "/stats?window=1", nil)
	summary, _ = decode[service.Summary](t, w)
	assert.Equal(t, 5.0, summary.AverageQuality)

	w = s.do(t, http.MethodGet, "/stats/trend", nil)
	require.Equal(t, http.StatusOK, w.Code)
	trend, _ := decode[[]service.TrendPoint](t, w)
	require.Len(t, trend, service.TrendDays)
	assert.Equal(t, "2024-03-10", trend[len(trend)-1].Date)
	assert.Equal(t, 8.0, trend[len(trend)-1].Duration)
}

func TestPersistenceFailure(t *testing.T) {
	s := setupServer(t)
	s.repo.FailWith(errors.New("disk full"))

	w := s.do(t, http.MethodPost, "/entries", entryBody("2024-03-09", "23:00", "07:00", 4))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	_, env := decode[json.RawMessage](t, w)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "disk full")
	assert.Equal(t, w.Header().Get("X-Request-ID"), env.RequestID)
}

func TestHealthAndMetrics(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	s.do(t, http.MethodPost, "/entries", entryBody("2024-03-09", "23:00", "07:00", 4))

	w = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "sleeptracker_http_requests_total")
	assert.Contains(t, body, `sleeptracker_store_mutations_total{op="add",result="ok"} 1`)
	assert.Contains(t, body, "sleeptracker_entries 1")
}
