package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testHandler() *Handler {
	return &Handler{
		username: "admin",
		password: "iamtheadmin",
		sessions: NewMemorySessionStore(),
	}
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/admin/login", h.LoginHandler)
	r.POST("/admin/logout", h.LogoutHandler)
	r.GET("/admin/ping", h.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func login(t *testing.T, r *gin.Engine, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAdminLogin(t *testing.T) {
	h := testHandler()
	r := newRouter(h)

	if rec := login(t, r, "admin", "wrong"); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", rec.Code)
	}
	if rec := login(t, r, "", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("empty credentials status = %d, want 400", rec.Code)
	}

	rec := login(t, r, "admin", "iamtheadmin")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Token string `json:"token"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Token == "" {
		t.Fatal("login returned no token")
	}
	if !h.sessions.Has(body.Token) {
		t.Error("token not registered in session store")
	}
}

func TestRequireAdmin(t *testing.T) {
	h := testHandler()
	r := newRouter(h)

	// No token.
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", rec.Code)
	}

	// Arbitrary token.
	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("forged token status = %d, want 401", rec.Code)
	}

	// Live session token, via header and via query parameter.
	loginRec := login(t, r, "admin", "iamtheadmin")
	var body struct {
		Token string `json:"token"`
	}
	json.Unmarshal(loginRec.Body.Bytes(), &body)

	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/ping?token="+body.Token, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("query token status = %d, want 200", rec.Code)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	h := testHandler()
	r := newRouter(h)

	loginRec := login(t, r, "admin", "iamtheadmin")
	var body struct {
		Token string `json:"token"`
	}
	json.Unmarshal(loginRec.Body.Bytes(), &body)

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status after logout = %d, want 401", rec.Code)
	}
}

func TestSessionStore_ConcurrentAccess(t *testing.T) {
	s := NewMemorySessionStore()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				tok := newToken()
				s.Add(tok)
				if !s.Has(tok) {
					t.Error("token vanished")
					return
				}
				s.Remove(tok)
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
