package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"commuter_bus/internal/session"
)

type mapKV struct {
	data map[string]string
}

func newMapKV() *mapKV { return &mapKV{data: make(map[string]string)} }

func (m *mapKV) Get(_ context.Context, key string) (string, error) {
	val, ok := m.data[key]
	if !ok {
		return "", session.ErrNotFound
	}
	return val, nil
}

func (m *mapKV) Set(_ context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

func (m *mapKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func withSessionStore(t *testing.T) *session.Store {
	t.Helper()
	prev := sessions
	store := session.NewStore(newMapKV())
	sessions = store
	t.Cleanup(func() { sessions = prev })
	return store
}

func runRequireSession(t *testing.T, token string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)
	RequireSession()(c)
	return w, c
}

func TestRequireSessionAcceptsLiveMatchingSession(t *testing.T) {
	store := withSessionStore(t)
	if err := store.Establish(context.Background(), session.RoleRider, "dev1", session.Record{Email: "ali@example.com"}); err != nil {
		t.Fatalf("establish failed: %v", err)
	}

	token, err := GenerateToken(session.RoleRider, "ali@example.com", "dev1")
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	w, c := runRequireSession(t, token)
	if c.IsAborted() {
		t.Fatalf("expected the request to pass, got %d: %s", w.Code, w.Body.String())
	}
	if got := c.GetString("email"); got != "ali@example.com" {
		t.Fatalf("expected email claim in context, got %q", got)
	}
}

func TestRequireSessionRejectsTokenForReplacedAccount(t *testing.T) {
	store := withSessionStore(t)

	// A rider logs in, then a different rider logs in on the same device.
	// The first rider's token still names a live rider session on dev1,
	// but the record now belongs to someone else.
	firstToken, err := GenerateToken(session.RoleRider, "first@example.com", "dev1")
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}
	if err := store.Establish(context.Background(), session.RoleRider, "dev1", session.Record{Email: "second@example.com"}); err != nil {
		t.Fatalf("establish failed: %v", err)
	}

	w, c := runRequireSession(t, firstToken)
	if !c.IsAborted() || w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a stale token, got %d", w.Code)
	}
}

func TestRequireSessionRejectsRemovedSession(t *testing.T) {
	store := withSessionStore(t)
	if err := store.Establish(context.Background(), session.RoleRider, "dev1", session.Record{Email: "ali@example.com"}); err != nil {
		t.Fatalf("establish failed: %v", err)
	}
	if err := store.Teardown(context.Background(), "dev1"); err != nil {
		t.Fatalf("teardown failed: %v", err)
	}

	token, err := GenerateToken(session.RoleRider, "ali@example.com", "dev1")
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	w, c := runRequireSession(t, token)
	if !c.IsAborted() || w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
}
