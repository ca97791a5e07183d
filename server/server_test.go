package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contractx "github.com/storepilot/storepilot/agent/contract"
)

type stubAgent struct {
	resp contractx.AgentResponse
	err  error

	gotUserID  string
	gotMessage string
}

func (s *stubAgent) HandleMessage(ctx context.Context, userID, message string) (contractx.AgentResponse, error) {
	s.gotUserID = userID
	s.gotMessage = message
	return s.resp, s.err
}

func newTestRouter(t *testing.T, agent *stubAgent) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewRouter(NewHandler(agent), Config{Port: "8080", AllowOrigins: []string{"*"}})
}

func postChat(t *testing.T, r *gin.Engine, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t, &stubAgent{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChatHappyPath(t *testing.T) {
	agent := &stubAgent{resp: contractx.AgentResponse{
		Content: "Order 44 is now marked as shipped.",
		Intent:  contractx.IntentOrderUpdate,
		Steps:   []string{"Finding the order", "Updating its status"},
	}}
	r := newTestRouter(t, agent)

	w := postChat(t, r, `{"message":"mark order #44 as shipped"}`, map[string]string{
		"X-User-ID": "user_1",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user_1", agent.gotUserID)
	assert.Equal(t, "mark order #44 as shipped", agent.gotMessage)

	var resp contractx.AgentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, contractx.IntentOrderUpdate, resp.Intent)
	assert.Contains(t, resp.Content, "shipped")
	assert.Len(t, resp.Steps, 2)
}

func TestChatBodyUserIDFallback(t *testing.T) {
	agent := &stubAgent{resp: contractx.AgentResponse{
		Content: "Hello!",
		Intent:  contractx.IntentGeneralQuery,
		Steps:   []string{},
	}}
	r := newTestRouter(t, agent)

	w := postChat(t, r, `{"message":"hi","user_id":"user_2"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user_2", agent.gotUserID)
}

func TestChatHeaderWinsOverBody(t *testing.T) {
	agent := &stubAgent{resp: contractx.AgentResponse{Intent: contractx.IntentGeneralQuery, Steps: []string{}, Content: "ok"}}
	r := newTestRouter(t, agent)

	w := postChat(t, r, `{"message":"hi","user_id":"body_user"}`, map[string]string{
		"X-User-ID": "header_user",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "header_user", agent.gotUserID)
}

func TestChatWithoutIdentity(t *testing.T) {
	agent := &stubAgent{}
	r := newTestRouter(t, agent)

	w := postChat(t, r, `{"message":"hi"}`, nil)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, agent.gotUserID, "agent must not be invoked without identity")

	var resp contractx.AgentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, contractx.IntentGeneralQuery, resp.Intent)
	assert.Contains(t, resp.Content, "sign in")
}

func TestChatInvalidBody(t *testing.T) {
	r := newTestRouter(t, &stubAgent{})

	w := postChat(t, r, `{"message":`, map[string]string{"X-User-ID": "user_1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatEmptyMessage(t *testing.T) {
	agent := &stubAgent{err: contractx.ErrValidation}
	r := newTestRouter(t, agent)

	w := postChat(t, r, `{"message":""}`, map[string]string{"X-User-ID": "user_1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatInternalError(t *testing.T) {
	agent := &stubAgent{err: errors.New("model unreachable")}
	r := newTestRouter(t, agent)

	w := postChat(t, r, `{"message":"hi"}`, map[string]string{"X-User-ID": "user_1"})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "model unreachable")
}
