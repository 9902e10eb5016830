package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chatwire/models"
	"chatwire/protocol"
	"chatwire/store"
)

// newTestRouter wires the real handlers over the in-memory store, with the
// auth middleware replaced by a header-driven identity stub.
func newTestRouter(t *testing.T) (*gin.Engine, *store.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := store.NewMemory()
	log := zap.NewNop()
	friends := protocol.NewFriends(m, m, log)
	messages := protocol.NewMessages(m, m, log)

	friendHandler := &FriendHandler{Friends: friends}
	chatHandler := &ChatHandler{Messages: messages, Friends: friends}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", c.GetHeader("X-Test-User"))
	})
	r.GET("/api/friends", friendHandler.List)
	r.GET("/api/friends/requests", friendHandler.Requests)
	r.POST("/api/friends/add", friendHandler.Add)
	r.POST("/api/friends/accept", friendHandler.Accept)
	r.POST("/api/friends/decline", friendHandler.Decline)
	r.POST("/api/message/send", chatHandler.Send)
	r.GET("/api/chats", chatHandler.List)
	r.GET("/api/chats/:id/messages", chatHandler.History)
	return r, m
}

func seedUser(t *testing.T, m *store.Memory, id, name, email string) {
	t.Helper()
	user := models.User{ID: id, Name: name, Email: email}
	raw, err := json.Marshal(user)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, store.UserKey(id), string(raw)))
	require.NoError(t, m.Set(ctx, store.UserEmailKey(email), id))
}

func doJSON(r *gin.Engine, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddFriendStatuses(t *testing.T) {
	r, m := newTestRouter(t)
	seedUser(t, m, "A", "Alice", "alice@example.com")
	seedUser(t, m, "B", "Bob", "bob@example.com")

	// Malformed payload.
	w := doJSON(r, http.MethodPost, "/api/friends/add", "A", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Unknown user.
	w = doJSON(r, http.MethodPost, "/api/friends/add", "A", `{"email":"ghost@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Self-add.
	w = doJSON(r, http.MethodPost, "/api/friends/add", "A", `{"email":"alice@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// First request succeeds, duplicate conflicts.
	w = doJSON(r, http.MethodPost, "/api/friends/add", "A", `{"email":"bob@example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, "/api/friends/add", "A", `{"email":"bob@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAcceptFriendStatuses(t *testing.T) {
	r, m := newTestRouter(t)
	seedUser(t, m, "A", "Alice", "alice@example.com")
	seedUser(t, m, "B", "Bob", "bob@example.com")

	// No pending request.
	w := doJSON(r, http.MethodPost, "/api/friends/accept", "B", `{"id":"A"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	doJSON(r, http.MethodPost, "/api/friends/add", "A", `{"email":"bob@example.com"}`)
	w = doJSON(r, http.MethodPost, "/api/friends/accept", "B", `{"id":"A"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// Accepting again: already friends.
	w = doJSON(r, http.MethodPost, "/api/friends/accept", "B", `{"id":"A"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMessageStatuses(t *testing.T) {
	r, m := newTestRouter(t)
	seedUser(t, m, "A", "Alice", "alice@example.com")
	seedUser(t, m, "B", "Bob", "bob@example.com")
	seedUser(t, m, "C", "Carol", "carol@example.com")

	doJSON(r, http.MethodPost, "/api/friends/add", "A", `{"email":"bob@example.com"}`)
	doJSON(r, http.MethodPost, "/api/friends/accept", "B", `{"id":"A"}`)

	chatID := store.ChatID("A", "B")

	// Stranger to the pair.
	w := doJSON(r, http.MethodPost, "/api/message/send", "C", `{"chatId":"`+chatID+`","text":"hey"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Malformed chat id.
	w = doJSON(r, http.MethodPost, "/api/message/send", "A", `{"chatId":"A--B--C","text":"hey"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing body fields.
	w = doJSON(r, http.MethodPost, "/api/message/send", "A", `{"chatId":"`+chatID+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(r, http.MethodPost, "/api/message/send", "A", `{"chatId":"`+chatID+`","text":"hi"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// History visible to the counterpart, closed to strangers.
	w = doJSON(r, http.MethodGet, "/api/chats/"+chatID+"/messages", "B", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []models.Message `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "hi", resp.Data[0].Text)
	assert.Equal(t, "A", resp.Data[0].SenderID)

	w = doJSON(r, http.MethodGet, "/api/chats/"+chatID+"/messages", "C", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChatListPreviews(t *testing.T) {
	r, m := newTestRouter(t)
	seedUser(t, m, "A", "Alice", "alice@example.com")
	seedUser(t, m, "B", "Bob", "bob@example.com")

	doJSON(r, http.MethodPost, "/api/friends/add", "A", `{"email":"bob@example.com"}`)
	doJSON(r, http.MethodPost, "/api/friends/accept", "B", `{"id":"A"}`)
	doJSON(r, http.MethodPost, "/api/message/send", "A", `{"chatId":"`+store.ChatID("A", "B")+`","text":"hello"}`)

	w := doJSON(r, http.MethodGet, "/api/chats", "B", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []ChatPreview `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, store.ChatID("A", "B"), resp.Data[0].ChatID)
	assert.Equal(t, "A", resp.Data[0].Friend.ID)
	require.NotNil(t, resp.Data[0].LastMessage)
	assert.Equal(t, "hello", resp.Data[0].LastMessage.Text)
}
