package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"texttide/internal/models"
	"texttide/internal/repository"
	"texttide/internal/retention"
	"texttide/internal/services"
)

const (
	agentA = "test-agent-a"
	agentB = "test-agent-b"
)

func newTestRouter(t *testing.T) (*gin.Engine, *repository.MemorySnippetRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemorySnippetRepository()
	svc := services.NewSnippetService(repo, retention.DefaultWindow, zerolog.Nop())

	router := gin.New()
	SetupRoutes(router, svc, zerolog.Nop())
	return router, repo
}

// do issues a request as the given visitor (distinguished by user agent)
// and decodes the JSON response body into out when out is non-nil.
func do(t *testing.T, router *gin.Engine, method, path, agent, body string, out any) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", agent)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func TestCollectionLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	// Create a locked snippet as visitor A
	var created models.SnippetView
	w := do(t, router, http.MethodPost, "/collection", agentA, `{"text":"hello"}`, &created)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, created.ID, 6)
	assert.Equal(t, 0, created.LikesCount)
	assert.False(t, created.HasLiked)
	assert.True(t, created.Editable, "creator view is always editable")

	// Visitor B sees it but may not edit it
	var fetched models.SnippetView
	w = do(t, router, http.MethodGet, "/collection/"+created.ID, agentB, "", &fetched)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, fetched.HasLiked)
	assert.False(t, fetched.Editable)

	w = do(t, router, http.MethodPut, "/collection", agentB, `{"id":"`+created.ID+`","text":"bye"}`, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Like toggle round trip by visitor B
	var like struct {
		HasLiked   bool `json:"hasLiked"`
		LikesCount int  `json:"likesCount"`
	}
	w = do(t, router, http.MethodPatch, "/collection", agentB, `{"id":"`+created.ID+`","action":"like"}`, &like)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, like.HasLiked)
	assert.Equal(t, 1, like.LikesCount)

	w = do(t, router, http.MethodPatch, "/collection", agentB, `{"id":"`+created.ID+`","action":"like"}`, &like)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, like.HasLiked)
	assert.Equal(t, 0, like.LikesCount)

	// Delete succeeds and the snippet is gone afterwards
	w = do(t, router, http.MethodDelete, "/collection", agentB, `{"id":"`+created.ID+`"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/collection/"+created.ID, agentA, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Deleting again still confirms
	w = do(t, router, http.MethodDelete, "/collection", agentA, `{"id":"`+created.ID+`"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListSnippets(t *testing.T) {
	router, _ := newTestRouter(t)

	var first models.SnippetView
	do(t, router, http.MethodPost, "/collection", agentA, `{"text":"first"}`, &first)
	var second models.SnippetView
	do(t, router, http.MethodPost, "/collection", agentA, `{"text":"second","editable":true}`, &second)

	var listed []models.SnippetView
	w := do(t, router, http.MethodGet, "/collection", agentB, "", &listed)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, listed, 2)

	// Most recent first
	assert.Equal(t, second.ID, listed[0].ID)
	assert.Equal(t, first.ID, listed[1].ID)

	// Per-visitor annotation: only the editable snippet is editable for B
	assert.True(t, listed[0].Editable)
	assert.False(t, listed[1].Editable)
	assert.NotNil(t, listed[0].Likes, "likes serializes as an array, not null")
}

func TestCreateSnippet_Validation(t *testing.T) {
	router, repo := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "blank text", body: `{"text":"   "}`},
		{name: "missing text", body: `{}`},
		{name: "malformed json", body: `{"text":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/collection", agentA, tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	persisted, err := repo.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestUpdateSnippet_Errors(t *testing.T) {
	router, _ := newTestRouter(t)

	var created models.SnippetView
	do(t, router, http.MethodPost, "/collection", agentA, `{"text":"hello"}`, &created)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "unknown id", body: `{"id":"zzzzzz","text":"bye"}`, wantCode: http.StatusNotFound},
		{name: "missing id", body: `{"text":"bye"}`, wantCode: http.StatusBadRequest},
		{name: "blank text", body: `{"id":"` + created.ID + `","text":" "}`, wantCode: http.StatusBadRequest},
		{name: "forbidden for stranger", body: `{"id":"` + created.ID + `","text":"bye"}`, wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPut, "/collection", agentB, tt.body, nil)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}

	// The creator succeeds and updatedAt appears
	var updated models.SnippetView
	w := do(t, router, http.MethodPut, "/collection", agentA, `{"id":"`+created.ID+`","text":"bye"}`, &updated)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bye", updated.Text)
	assert.NotNil(t, updated.UpdatedAt)
}

func TestToggleLike_BadRequests(t *testing.T) {
	router, _ := newTestRouter(t)

	var created models.SnippetView
	do(t, router, http.MethodPost, "/collection", agentA, `{"text":"hello"}`, &created)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "unknown action", body: `{"id":"` + created.ID + `","action":"boost"}`, wantCode: http.StatusBadRequest},
		{name: "missing action", body: `{"id":"` + created.ID + `"}`, wantCode: http.StatusBadRequest},
		{name: "missing id", body: `{"action":"like"}`, wantCode: http.StatusBadRequest},
		{name: "unknown id", body: `{"id":"zzzzzz","action":"like"}`, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPatch, "/collection", agentA, tt.body, nil)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name      string
		method    string
		path      string
		wantAllow string
	}{
		{name: "options on collection", method: http.MethodOptions, path: "/collection", wantAllow: "GET, POST, PUT, PATCH, DELETE"},
		{name: "put on item", method: http.MethodPut, path: "/collection/abc123", wantAllow: "GET"},
		{name: "delete on item", method: http.MethodDelete, path: "/collection/abc123", wantAllow: "GET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, tt.method, tt.path, agentA, "", nil)
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.Equal(t, tt.wantAllow, w.Header().Get("Allow"))
		})
	}
}

func TestExpiredSnippetAbsentFromAPI(t *testing.T) {
	router, repo := newTestRouter(t)

	require.NoError(t, repo.Save([]models.Snippet{
		{ID: "stale1", Text: "too old", CreatedAt: time.Now().Add(-31 * 24 * time.Hour), Likes: []string{}},
	}))

	var listed []models.SnippetView
	w := do(t, router, http.MethodGet, "/collection", agentA, "", &listed)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, listed)

	w = do(t, router, http.MethodGet, "/collection/stale1", agentA, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	persisted, err := repo.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/health", agentA, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestContactQueuesEvent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ContactEventsChannel = make(chan models.ContactEvent, 1)
	t.Cleanup(func() { ContactEventsChannel = nil })

	repo := repository.NewMemorySnippetRepository()
	svc := services.NewSnippetService(repo, retention.DefaultWindow, zerolog.Nop())
	router := gin.New()
	SetupRoutes(router, svc, zerolog.Nop())

	w := do(t, router, http.MethodPost, "/contact", agentA,
		`{"name":"Ada","email":"ada@example.com","message":"hi there"}`, nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	select {
	case event := <-ContactEventsChannel:
		assert.Equal(t, "Ada", event.Name)
		assert.Equal(t, "ada@example.com", event.Email)
		assert.False(t, event.ReceivedAt.IsZero())
	default:
		t.Fatal("expected a queued contact event")
	}

	// Invalid submissions are rejected before queueing
	w = do(t, router, http.MethodPost, "/contact", agentA, `{"name":"Ada"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
