package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/wolfman30/clinicdesk-ai/internal/config"
	"github.com/wolfman30/clinicdesk-ai/internal/conversation"
	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

func memoryConfig() *appconfig.Config {
	return &appconfig.Config{
		SessionBackend:     appconfig.SessionBackendMemory,
		ClinicName:         "Test Clinic",
		ClinicTimezone:     "UTC",
		GenerationTimeout:  time.Second,
		ChatRateLimitRPS:   100,
		ChatRateLimitBurst: 100,
	}
}

func TestBuildRequiresConfig(t *testing.T) {
	_, err := Build(context.Background(), nil, nil, Options{})
	require.Error(t, err)
}

func TestBuildInMemoryApp(t *testing.T) {
	cfg := memoryConfig()
	cfg.SeedDemoData = true

	app, err := Build(context.Background(), cfg, logging.New("error"), Options{})
	require.NoError(t, err)
	defer app.Close()
	assert.False(t, app.Records.Persistent)

	john, err := app.Records.Patients.FindByPhone(context.Background(), "08012345678")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", john.Name)

	res, err := app.Engine.HandleTurn(context.Background(), conversation.TurnRequest{Message: "What are your hours?"})
	require.NoError(t, err)
	assert.Equal(t, conversation.IntentInquiry, res.Intent)

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.JSONEq(t, `{"status":"ok","generation":"unavailable"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildSessionStoreRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.SessionBackend = appconfig.SessionBackendRedis
	cfg.RedisAddr = mr.Addr()
	cfg.SessionTTL = time.Hour
	cfg.SessionLockTimeout = time.Second

	store, closeFn, err := BuildSessionStore(context.Background(), cfg, logging.New("error"))
	require.NoError(t, err)
	defer closeFn()
	_, ok := store.(*conversation.RedisSessionStore)
	assert.True(t, ok)
}

func TestBuildSessionStoreRedisUnreachable(t *testing.T) {
	cfg := memoryConfig()
	cfg.SessionBackend = appconfig.SessionBackendRedis
	cfg.RedisAddr = "127.0.0.1:1"

	_, _, err := BuildSessionStore(context.Background(), cfg, logging.New("error"))
	assert.Error(t, err)
}

func TestBuildGeneratorWithoutProviders(t *testing.T) {
	gen := BuildGenerator(context.Background(), memoryConfig(), logging.New("error"))
	_, ok := gen.(conversation.NoopGenerator)
	assert.True(t, ok)
}

func TestBuildLLMClientGroqOnly(t *testing.T) {
	cfg := memoryConfig()
	cfg.GroqAPIKey = "gsk-test"
	cfg.GroqBaseURL = "http://127.0.0.1:1/openai/v1"
	cfg.GroqModel = "llama-3.1-8b-instant"

	chain := BuildLLMClient(context.Background(), cfg, logging.New("error"))
	assert.Equal(t, 1, chain.Len())
}

func TestBuildAlerter(t *testing.T) {
	logger := logging.New("error")
	cfg := memoryConfig()
	assert.Nil(t, BuildAlerter(context.Background(), cfg, logger))

	cfg.StaffAlertEmail = "staff@example.com"
	assert.NotNil(t, BuildAlerter(context.Background(), cfg, logger))
}
