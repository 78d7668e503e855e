package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marocbus/internal/backend"
	"marocbus/internal/session"

	"github.com/gin-gonic/gin"
)

func newAuthFixture(t *testing.T, secure bool, backendHandler http.Handler) (*gin.Engine, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(backendHandler)
	t.Cleanup(srv.Close)

	sessions := session.NewManager("test-secret", time.Hour)
	h := AuthHandler{
		API:          backend.New(srv.URL, 5*time.Second),
		Sessions:     sessions,
		CookieSecure: secure,
	}

	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/logout", h.Logout)
	return r, sessions
}

func authBackend(authenticated bool) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/clients/authenticate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode(backend.ClientAuthResult{Authenticated: authenticated, ClientID: 42})
	})
	return mux
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestLoginSetsHardenedCookie(t *testing.T) {
	r, sessions := newAuthFixture(t, true, authBackend(true))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"sara@example.ma","motDePass":"secret","userType":"client"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d body=%s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatalf("session cookie not set")
	}
	if !cookie.Secure || !cookie.HttpOnly {
		t.Fatalf("cookie must be Secure and HttpOnly: %+v", cookie)
	}
	user, err := sessions.Parse(cookie.Value)
	if err != nil {
		t.Fatalf("cookie does not carry a valid session: %v", err)
	}
	if user.UserID != 42 || user.UserType != session.TypeClient {
		t.Fatalf("unexpected session user: %+v", user)
	}
}

func TestLoginDenialIsGeneric(t *testing.T) {
	r, _ := newAuthFixture(t, false, authBackend(false))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"sara@example.ma","motDePass":"wrong","userType":"client"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "email ou mot de passe incorrect") {
		t.Fatalf("denial must stay generic, got %s", rec.Body.String())
	}
	if sessionCookie(rec) != nil {
		t.Fatalf("denied login must not set a cookie")
	}
}

func TestLogoutClearsSecureCookie(t *testing.T) {
	r, _ := newAuthFixture(t, true, authBackend(true))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatalf("logout must rewrite the session cookie")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("cookie not cleared: %+v", cookie)
	}
	if !cookie.Secure {
		t.Fatalf("cleared cookie lost the Secure flag: %+v", cookie)
	}
}
