package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/clinicdesk-ai/internal/admin"
	"github.com/wolfman30/clinicdesk-ai/internal/appointments"
	"github.com/wolfman30/clinicdesk-ai/internal/conversation"
	"github.com/wolfman30/clinicdesk-ai/internal/feedback"
	httpmiddleware "github.com/wolfman30/clinicdesk-ai/internal/http/middleware"
	"github.com/wolfman30/clinicdesk-ai/internal/observability/metrics"
	"github.com/wolfman30/clinicdesk-ai/internal/patients"
	"github.com/wolfman30/clinicdesk-ai/internal/webchat"
	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

const testSecret = "router-secret"

type fixedGeneration bool

func (g fixedGeneration) GenerationAvailable(context.Context) bool { return bool(g) }

type testStack struct {
	handler  http.Handler
	patients *patients.InMemoryRepository
}

func newTestRouter(t *testing.T, mutate ...func(*Config)) *testStack {
	t.Helper()
	logger := logging.New("error")
	patientRepo := patients.NewInMemoryRepository()
	apptRepo := appointments.NewInMemoryRepository(patientRepo)
	fbRepo := feedback.NewInMemoryRepository(patientRepo)
	convLog := conversation.NewMemoryLog()
	reg := prometheus.NewRegistry()

	engine := conversation.NewEngine(conversation.EngineDeps{
		Sessions:     conversation.NewMemorySessionStore(),
		Log:          convLog,
		Patients:     patientRepo,
		Appointments: apptRepo,
		Feedback:     fbRepo,
		Metrics:      metrics.NewConversationMetrics(reg),
		Logger:       logger,
	}, conversation.EngineConfig{})

	cfg := &Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(engine, logger),
		WebChatHandler:      webchat.NewHandler(engine, logger),
		AppointmentsHandler: appointments.NewHandler(apptRepo, logger),
		FeedbackHandler:     feedback.NewHandler(fbRepo, logger),
		AdminHandler:        admin.NewHandler(admin.NewMemoryReporter(convLog, apptRepo, fbRepo, time.UTC), nil, logger),
		Generation:          fixedGeneration(false),
		MetricsHandler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		AdminAuthSecret:     testSecret,
	}
	for _, m := range mutate {
		m(cfg)
	}
	return &testStack{handler: New(cfg), patients: patientRepo}
}

func (s *testStack) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func TestRouterHealthEndpoint(t *testing.T) {
	stack := newTestRouter(t)
	rr := stack.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","generation":"unavailable"}`, rr.Body.String())

	stack = newTestRouter(t, func(c *Config) { c.Generation = fixedGeneration(true) })
	rr = stack.do(http.MethodGet, "/health", "", nil)
	assert.JSONEq(t, `{"status":"ok","generation":"available"}`, rr.Body.String())
}

func TestRouterChatEndpoint(t *testing.T) {
	stack := newTestRouter(t)

	rr := stack.do(http.MethodPost, "/api/chat", `{"message":"Hello"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp conversation.TurnResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, conversation.IntentInquiry, resp.Intent)
	assert.NotEmpty(t, resp.Response)

	rr = stack.do(http.MethodPost, "/api/chat", `{"message":"  "}`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Invalid message"}`, rr.Body.String())

	rr = stack.do(http.MethodPost, "/api/chat", "message=hi", map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
}

func TestRouterChatRateLimited(t *testing.T) {
	stack := newTestRouter(t, func(c *Config) { c.ChatLimiter = httpmiddleware.NewRateLimiter(0.001, 1) })

	assert.Equal(t, http.StatusOK, stack.do(http.MethodPost, "/api/chat", `{"message":"Hello"}`, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, stack.do(http.MethodPost, "/api/chat", `{"message":"Hello"}`, nil).Code)
	assert.Equal(t, http.StatusOK, stack.do(http.MethodGet, "/api/feedback", "", nil).Code, "only chat is limited")
}

func TestRouterAppointmentsEndpoints(t *testing.T) {
	stack := newTestRouter(t)
	p, err := stack.patients.Create(context.Background(), &patients.CreatePatientRequest{Name: "Jane Smith", Phone: "08023456789"})
	require.NoError(t, err)

	body := `{"patientId":` + jsonInt(p.ID) + `,"date":"2026-10-20","time":"2:30 PM","reason":"Follow-up"}`
	rr := stack.do(http.MethodPost, "/api/appointments", body, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":true`)

	rr = stack.do(http.MethodPost, "/api/appointments", `{"date":"2026-10-20"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = stack.do(http.MethodGet, "/api/appointments?date=2026-10-20", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list appointments.ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Appointments, 1)
	assert.Equal(t, "Jane Smith", list.Appointments[0].Name)
	assert.Equal(t, appointments.StatusConfirmed, list.Appointments[0].Status)
}

func TestRouterAdminRequiresToken(t *testing.T) {
	stack := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, stack.do(http.MethodGet, "/api/admin/summary", "", nil).Code)

	token, err := httpmiddleware.IssueAdminToken(testSecret, "staff", time.Minute)
	require.NoError(t, err)
	rr := stack.do(http.MethodGet, "/api/admin/summary", "", map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, rr.Code)

	var summary admin.Summary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, "N/A", summary.PeakInquiryTime)
}

func TestRouterAdminOpenWithoutSecret(t *testing.T) {
	stack := newTestRouter(t, func(c *Config) { c.AdminAuthSecret = "" })
	assert.Equal(t, http.StatusOK, stack.do(http.MethodGet, "/api/admin/summary", "", nil).Code)
}

func TestRouterMetricsEndpoint(t *testing.T) {
	stack := newTestRouter(t)
	stack.do(http.MethodPost, "/api/chat", `{"message":"What are your hours?"}`, nil)

	rr := stack.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "clinicdesk_conversation_turns_total")
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
