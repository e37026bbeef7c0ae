package webchat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/clinicdesk-ai/internal/conversation"
	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

type stubEngine struct {
	mu   sync.Mutex
	reqs []conversation.TurnRequest
	err  error
}

func (s *stubEngine) HandleTurn(_ context.Context, req conversation.TurnRequest) (*conversation.TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	return &conversation.TurnResult{
		SessionID: req.SessionID,
		Response:  "echo: " + req.Message,
		Intent:    conversation.IntentInquiry,
	}, nil
}

func (s *stubEngine) requests() []conversation.TurnRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]conversation.TurnRequest(nil), s.reqs...)
}

func dial(t *testing.T, engine conversation.TurnHandler, query string) *websocket.Conn {
	t.Helper()
	h := NewHandler(engine, logging.New("error"))
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat" + query
	conn, err := websocket.Dial(url, "", srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func receive(t *testing.T, conn *websocket.Conn) OutboundMessage {
	t.Helper()
	var msg OutboundMessage
	require.NoError(t, websocket.JSON.Receive(conn, &msg))
	return msg
}

func TestWebSocket_MintsSessionAndAnswers(t *testing.T) {
	engine := &stubEngine{}
	conn := dial(t, engine, "")

	hello := receive(t, conn)
	assert.Equal(t, "session", hello.Type)
	require.NotEmpty(t, hello.SessionID)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "What are your hours?"}))
	reply := receive(t, conn)
	assert.Equal(t, OutboundMessage{
		Type:      "message",
		Role:      "assistant",
		Text:      "echo: What are your hours?",
		Intent:    "inquiry",
		SessionID: hello.SessionID,
	}, reply)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "thanks"}))
	receive(t, conn)

	reqs := engine.requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, hello.SessionID, reqs[0].SessionID)
	assert.Equal(t, hello.SessionID, reqs[1].SessionID)
}

func TestWebSocket_ResumesSession(t *testing.T) {
	engine := &stubEngine{}
	conn := dial(t, engine, "?session=sess-42")

	assert.Equal(t, "sess-42", receive(t, conn).SessionID)
	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "hi"}))
	assert.Equal(t, "sess-42", receive(t, conn).SessionID)
}

func TestWebSocket_PingAndBlankMessages(t *testing.T) {
	engine := &stubEngine{}
	conn := dial(t, engine, "")
	receive(t, conn)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "   "}))
	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "typing"}))
	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "ping"}))

	assert.Equal(t, "pong", receive(t, conn).Type)
	assert.Empty(t, engine.requests())
}

func TestWebSocket_EngineError(t *testing.T) {
	conn := dial(t, &stubEngine{err: errors.New("store down")}, "")
	receive(t, conn)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "book me in"}))
	reply := receive(t, conn)
	assert.Equal(t, "error", reply.Type)
	assert.Equal(t, errorReply, reply.Text)
}
