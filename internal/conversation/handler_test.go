package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

type stubTurnHandler struct {
	last TurnRequest
	res  *TurnResult
	err  error
}

func (s *stubTurnHandler) HandleTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	s.last = req
	return s.res, s.err
}

func TestHandler_Chat(t *testing.T) {
	stub := &stubTurnHandler{res: &TurnResult{SessionID: "abc", Response: "How can I help you today?", Intent: IntentInquiry}}
	h := NewHandler(stub, logging.Default())

	body, _ := json.Marshal(ChatRequest{Message: "hello", SessionID: "abc"})
	rec := httptest.NewRecorder()
	h.Chat(rec, httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "How can I help you today?", resp["response"])
	assert.Equal(t, "inquiry", resp["intent"])
	assert.Equal(t, "abc", resp["session_id"])
	assert.Equal(t, "hello", stub.last.Message)
}

func TestHandler_ChatSessionHeader(t *testing.T) {
	stub := &stubTurnHandler{res: &TurnResult{SessionID: "from-header", Response: "ok", Intent: IntentInquiry}}
	h := NewHandler(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"message":"hi"}`))
	req.Header.Set("X-Session-ID", "from-header")
	h.Chat(httptest.NewRecorder(), req)
	assert.Equal(t, "from-header", stub.last.SessionID)
}

func TestHandler_ChatErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		msg    string
	}{
		{name: "bad json", body: `{`, status: http.StatusBadRequest, msg: "Invalid message"},
		{name: "non-string message", body: `{"message": 42}`, status: http.StatusBadRequest, msg: "Invalid message"},
		{name: "blank message", body: `{"message":" "}`, err: ErrInvalidMessage, status: http.StatusBadRequest, msg: "Invalid message"},
		{name: "engine failure", body: `{"message":"book"}`, err: errors.New("pq: connection refused"), status: http.StatusInternalServerError, msg: "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&stubTurnHandler{err: tt.err}, nil)
			rec := httptest.NewRecorder()
			h.Chat(rec, httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.msg)
			assert.NotContains(t, rec.Body.String(), "pq:")
		})
	}
}

func TestHandler_ChatEndToEnd(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.engine, nil)

	rec := httptest.NewRecorder()
	h.Chat(rec, httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"message":"I want to book an appointment"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var first TurnResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&first))
	assert.Equal(t, IntentAppointment, first.Intent)
	require.NotEmpty(t, first.SessionID)

	body, _ := json.Marshal(ChatRequest{Message: "My name is John, 08012345678, tomorrow at 10am", SessionID: first.SessionID})
	rec = httptest.NewRecorder()
	h.Chat(rec, httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Appointment confirmed!")
}
