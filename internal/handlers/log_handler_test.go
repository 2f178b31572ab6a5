package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saeid-a/CoachLogBack/internal/models"
	"github.com/saeid-a/CoachLogBack/internal/services"
)

type stubLogService struct {
	historyResult []models.DailyLog
	historyErr    error
	saveResult    *models.DailyLog
	saveErr       error
	lastActor     models.Identity
	lastUserID    uuid.UUID
	lastEntry     models.LogEntry
}

func (s *stubLogService) FetchHistory(_ context.Context, actor models.Identity, userID uuid.UUID) ([]models.DailyLog, error) {
	s.lastActor = actor
	s.lastUserID = userID
	return s.historyResult, s.historyErr
}

func (s *stubLogService) SaveLog(_ context.Context, actor models.Identity, userID uuid.UUID, entry models.LogEntry) (*models.DailyLog, error) {
	s.lastActor = actor
	s.lastUserID = userID
	s.lastEntry = entry
	return s.saveResult, s.saveErr
}

func (s *stubLogService) StudentHistory(_ context.Context, actor models.Identity, studentID uuid.UUID) ([]models.DailyLog, error) {
	s.lastActor = actor
	s.lastUserID = studentID
	return s.historyResult, s.historyErr
}

func withIdentity(userID uuid.UUID, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID.String())
		c.Locals("role", role)
		return c.Next()
	}
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestSaveLogAcceptsLooseNumbers(t *testing.T) {
	userID := uuid.New()
	service := &stubLogService{saveResult: &models.DailyLog{ID: 3, UserID: userID, LogDate: "2024-05-01", Steps: 1200}}
	handler := NewLogHandler(service)

	app := fiber.New()
	app.Use(withIdentity(userID, models.RoleStudent))
	app.Put("/api/v1/logs", handler.SaveLog)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/logs", strings.NewReader(`{
		"log_date": "2024-05-01",
		"steps": "1200",
		"weight": "",
		"calories": null,
		"sleep_hours": 7.5,
		"activity_level": "cardio"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastUserID != userID || service.lastActor.UserID != userID {
		t.Fatalf("expected save for session user %s", userID)
	}
	if service.lastEntry.Steps.Int() != 1200 || service.lastEntry.Weight.IsSet() || service.lastEntry.SleepHours.Float() != 7.5 {
		t.Fatalf("unexpected entry %+v", service.lastEntry)
	}

	var body struct {
		Log models.DailyLog `json:"log"`
	}
	decodeBody(t, resp, &body)
	if body.Log.ID != 3 {
		t.Fatalf("expected saved log in response, got %+v", body.Log)
	}
}

func TestLogHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: fmt.Errorf("%w: unknown activity level", services.ErrValidation), status: http.StatusBadRequest},
		{err: services.ErrAccessDenied, status: http.StatusForbidden},
		{err: fmt.Errorf("%w: save log: boom", services.ErrStorage), status: http.StatusInternalServerError},
		{err: errors.New("unexpected"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			handler := NewLogHandler(&stubLogService{saveErr: tt.err})
			app := fiber.New()
			app.Use(withIdentity(uuid.New(), models.RoleStudent))
			app.Put("/api/v1/logs", handler.SaveLog)

			req := httptest.NewRequest(http.MethodPut, "/api/v1/logs", strings.NewReader(`{}`))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}

func TestValidationErrorMessageIsSurfaced(t *testing.T) {
	handler := NewLogHandler(&stubLogService{saveErr: fmt.Errorf("%w: %s", services.ErrValidation, "log_date must be YYYY-MM-DD")})
	app := fiber.New()
	app.Use(withIdentity(uuid.New(), models.RoleStudent))
	app.Put("/api/v1/logs", handler.SaveLog)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/logs", strings.NewReader(`{"log_date":"yesterday"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	decodeBody(t, resp, &body)
	if body["error"] != "log_date must be YYYY-MM-DD" {
		t.Fatalf("unexpected error message %q", body["error"])
	}
}

func TestListLogsRequiresIdentity(t *testing.T) {
	handler := NewLogHandler(&stubLogService{})
	app := fiber.New()
	app.Get("/api/v1/logs", handler.ListLogs)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestStudentLogsParsesStudentID(t *testing.T) {
	coachID := uuid.New()
	studentID := uuid.New()
	service := &stubLogService{historyResult: []models.DailyLog{{LogDate: "2024-05-02"}, {LogDate: "2024-05-01"}}}
	handler := NewLogHandler(service)

	app := fiber.New()
	app.Use(withIdentity(coachID, models.RoleCoach))
	app.Get("/api/v1/coach/students/:id/logs", handler.StudentLogs)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/coach/students/"+studentID.String()+"/logs", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastUserID != studentID || service.lastActor.UserID != coachID {
		t.Fatalf("unexpected call actor=%s student=%s", service.lastActor.UserID, service.lastUserID)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/coach/students/42/logs", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", resp.StatusCode)
	}
}

func TestStudentLogsPaginatesOnRequest(t *testing.T) {
	studentID := uuid.New()
	logs := make([]models.DailyLog, 0, 12)
	for day := 12; day >= 1; day-- {
		logs = append(logs, models.DailyLog{LogDate: fmt.Sprintf("2024-05-%02d", day)})
	}
	handler := NewLogHandler(&stubLogService{historyResult: logs})

	app := fiber.New()
	app.Use(withIdentity(uuid.New(), models.RoleCoach))
	app.Get("/api/v1/coach/students/:id/logs", handler.StudentLogs)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/coach/students/"+studentID.String()+"/logs?page=2&limit=5", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Logs       []models.DailyLog `json:"logs"`
		Pagination paginationMeta    `json:"pagination"`
	}
	decodeBody(t, resp, &body)
	if len(body.Logs) != 5 || body.Logs[0].LogDate != "2024-05-07" {
		t.Fatalf("unexpected page: %+v", body.Logs)
	}
	if body.Pagination.Total != 12 || body.Pagination.TotalPages != 3 {
		t.Fatalf("unexpected pagination: %+v", body.Pagination)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/coach/students/"+studentID.String()+"/logs?page=9", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	decodeBody(t, resp, &body)
	if len(body.Logs) != 0 {
		t.Fatalf("expected empty page, got %d logs", len(body.Logs))
	}
}

func TestStudentLogsHugePageIsEmpty(t *testing.T) {
	logs := []models.DailyLog{{LogDate: "2024-05-03"}, {LogDate: "2024-05-02"}, {LogDate: "2024-05-01"}}
	handler := NewLogHandler(&stubLogService{historyResult: logs})

	app := fiber.New()
	app.Use(withIdentity(uuid.New(), models.RoleCoach))
	app.Get("/api/v1/coach/students/:id/logs", handler.StudentLogs)

	target := "/api/v1/coach/students/" + uuid.NewString() + "/logs?page=4611686018427387904&limit=4"
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Logs []models.DailyLog `json:"logs"`
	}
	decodeBody(t, resp, &body)
	if len(body.Logs) != 0 {
		t.Fatalf("expected empty page, got %d logs", len(body.Logs))
	}
}

func TestPaginateBounds(t *testing.T) {
	items := []int{1, 2, 3}
	if got := paginate(items, parsePositiveInt("4611686018427387904", 1), 4); len(got) != 0 {
		t.Fatalf("expected empty page, got %v", got)
	}
	if got := paginate(items, 2, 2); len(got) != 1 || got[0] != 3 {
		t.Fatalf("expected last item, got %v", got)
	}
	if got := paginate(items, 1, 50); len(got) != 3 {
		t.Fatalf("expected all items, got %v", got)
	}
}
