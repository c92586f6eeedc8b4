package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worktally/attendance-backend-go/internal/config"
	"github.com/worktally/attendance-backend-go/internal/domain/attendance"
	"github.com/worktally/attendance-backend-go/internal/domain/employee"
	"github.com/worktally/attendance-backend-go/internal/handler/http/response"
	"github.com/worktally/attendance-backend-go/internal/pkg/clock"
	"github.com/worktally/attendance-backend-go/internal/pkg/notify"
	"github.com/worktally/attendance-backend-go/internal/pkg/sse"
	"github.com/worktally/attendance-backend-go/internal/repository/memory"
	archiveService "github.com/worktally/attendance-backend-go/internal/service/archive"
	attendanceService "github.com/worktally/attendance-backend-go/internal/service/attendance"
	payrollService "github.com/worktally/attendance-backend-go/internal/service/payroll"
)

func newTestServer(t *testing.T) (*httptest.Server, *clock.Fixed) {
	t.Helper()

	clk := &clock.Fixed{Current: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	repo := memory.NewAttendanceRepository()
	history := memory.NewHistoryRepository()
	directory := memory.NewEmployeeDirectory(
		employee.Employee{ID: "EMP-001", Name: "Ayu Lestari", Email: "ayu@example.com", HourlyRate: decimal.NewFromInt(100), Active: true},
		employee.Employee{ID: "EMP-002", Name: "Budi Santoso", Email: "budi@example.com", HourlyRate: decimal.NewFromInt(50), Active: true},
	)

	hub := sse.NewHub()
	notifier := notify.NewMulti(notify.NewSSENotifier(hub))

	attendanceSvc := attendanceService.NewAttendanceService(clk, repo, history, directory, notifier)
	payrollSvc := payrollService.NewPayrollService(repo, history, directory)
	archiveSvc := archiveService.NewArchiveService(repo, history, notifier, nil)

	cfg := &config.Config{}
	cfg.App.Env = "test"

	router := NewRouter(
		cfg,
		NewAttendanceHandler(attendanceSvc, clk),
		NewPayrollHandler(payrollSvc, clk),
		NewArchiveHandler(archiveSvc, clk),
		NewEventsHandler(hub),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, clk
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, response.Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope response.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestAttendanceEndpoints(t *testing.T) {
	t.Run("check-in then check-out", func(t *testing.T) {
		server, clk := newTestServer(t)

		resp, envelope := doJSON(t, http.MethodPost, server.URL+"/api/v1/attendance/check-in",
			map[string]string{"employee_id": "EMP-001"})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.True(t, envelope.Success)

		clk.Advance(8*time.Hour + 30*time.Minute)
		resp, envelope = doJSON(t, http.MethodPost, server.URL+"/api/v1/attendance/check-out",
			map[string]string{"employee_id": "EMP-001"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		data, ok := envelope.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, 8.5, data["working_hours"])
		assert.Equal(t, 8.5, data["elapsed_hours"])
		assert.Equal(t, "out", data["status"])
	})

	t.Run("double check-in returns conflict", func(t *testing.T) {
		server, _ := newTestServer(t)

		resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/attendance/check-in",
			map[string]string{"employee_id": "EMP-001"})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, envelope := doJSON(t, http.MethodPost, server.URL+"/api/v1/attendance/check-in",
			map[string]string{"employee_id": "EMP-001"})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "CONFLICT", envelope.Error.Code)
	})

	t.Run("check-out without check-in returns not found", func(t *testing.T) {
		server, _ := newTestServer(t)

		resp, envelope := doJSON(t, http.MethodPost, server.URL+"/api/v1/attendance/check-out",
			map[string]string{"employee_id": "EMP-001"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
	})

	t.Run("missing employee id fails validation", func(t *testing.T) {
		server, _ := newTestServer(t)

		resp, envelope := doJSON(t, http.MethodPost, server.URL+"/api/v1/attendance/check-in",
			map[string]string{})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		require.NotNil(t, envelope.Error)
		assert.Contains(t, envelope.Error.Details, "employee_id")
	})

	t.Run("unknown employee returns not found", func(t *testing.T) {
		server, _ := newTestServer(t)

		resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/attendance/check-in",
			map[string]string{"employee_id": "EMP-404"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("today listing and stats", func(t *testing.T) {
		server, _ := newTestServer(t)

		_, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/attendance/check-in",
			map[string]string{"employee_id": "EMP-001"})

		resp, envelope := doJSON(t, http.MethodGet, server.URL+"/api/v1/attendance/today", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		data, ok := envelope.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(1), data["total_records"])

		resp, envelope = doJSON(t, http.MethodGet, server.URL+"/api/v1/attendance/stats", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		data, ok = envelope.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(2), data["total_employees"])
		assert.Equal(t, float64(1), data["present_count"])
	})

	t.Run("history rejects bad query params", func(t *testing.T) {
		server, _ := newTestServer(t)

		resp, _ := doJSON(t, http.MethodGet,
			server.URL+"/api/v1/attendance/history?employee_id=EMP-001&year=2025&month=13", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodGet,
			server.URL+"/api/v1/attendance/history?employee_id=EMP-001&year=x&month=3", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestPayrollEndpoints(t *testing.T) {
	t.Run("summary after a worked day", func(t *testing.T) {
		server, clk := newTestServer(t)

		_, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/attendance/check-in",
			map[string]string{"employee_id": "EMP-002"})
		clk.Advance(8*time.Hour + 30*time.Minute)
		_, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/attendance/check-out",
			map[string]string{"employee_id": "EMP-002"})

		resp, envelope := doJSON(t, http.MethodGet,
			server.URL+"/api/v1/payroll?employee_id=EMP-002", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		data, ok := envelope.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "425", data["daily"], "8.5h at a 50 rate")
	})

	t.Run("monthly report validates month", func(t *testing.T) {
		server, _ := newTestServer(t)

		resp, _ := doJSON(t, http.MethodGet,
			server.URL+"/api/v1/payroll/report?year=2025&month=0", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestArchiveEndpoint(t *testing.T) {
	server, clk := newTestServer(t)

	_, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/attendance/check-in",
		map[string]string{"employee_id": "EMP-001"})
	clk.Advance(8 * time.Hour)
	_, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/attendance/check-out",
		map[string]string{"employee_id": "EMP-001"})

	// Next day: archive yesterday.
	clk.Advance(16 * time.Hour)
	resp, envelope := doJSON(t, http.MethodPost, server.URL+"/api/v1/archive/run", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["archived_count"])
	assert.Equal(t, "2025-03-10", data["date"])

	// The archived day shows up in history.
	resp, envelope = doJSON(t, http.MethodGet,
		server.URL+"/api/v1/attendance/history?employee_id=EMP-001&year=2025&month=3", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	rows, ok := envelope.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)
}

func TestArchiveEndpointPartialFailure(t *testing.T) {
	clk := &clock.Fixed{Current: time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)}
	repo := memory.NewAttendanceRepository()
	history := memory.NewHistoryRepository()
	history.FailFor = map[string]error{"EMP-002": errors.New("history insert refused")}

	yesterday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"EMP-001", "EMP-002"} {
		checkout := yesterday.Add(17 * time.Hour)
		_, _, err := repo.CreateIfAbsent(context.Background(), attendance.Record{
			EmployeeID:         id,
			Date:               yesterday,
			CheckinTime:        yesterday.Add(9 * time.Hour),
			CurrentCheckinTime: yesterday.Add(9 * time.Hour),
			CheckoutTime:       &checkout,
			Status:             attendance.StatusOut,
			WorkingHours:       8,
		})
		require.NoError(t, err)
	}

	handler := NewArchiveHandler(archiveService.NewArchiveService(repo, history, nil, nil), clk)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/archive/run",
		bytes.NewBufferString(`{"date":"2025-03-10"}`))
	handler.Run(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var envelope response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.NotNil(t, envelope.Error)

	// The partial result rides along so the caller can see what got through.
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["archived_count"])
	failures, ok := data["failures"].([]interface{})
	require.True(t, ok)
	require.Len(t, failures, 1)
	failure, ok := failures[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "EMP-002", failure["employee_id"])
}
