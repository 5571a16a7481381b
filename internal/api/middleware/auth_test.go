package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/docflow/docflow/config"
	"github.com/docflow/docflow/internal/core/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Helper to create test context
func createTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	return c, w
}

func newAuthService(t *testing.T) (*auth.Service, string) {
	t.Helper()
	svc := auth.NewService(auth.NewMemoryRepository(), &config.JWTConfig{Secret: "mw-secret", ExpirationHours: 1}, zap.NewNop())
	resp, err := svc.Register(context.Background(), &auth.RegisterRequest{
		Email: "viewer@example.com", Password: "password1", Name: "Viewer",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return svc, resp.Token
}

func protectedEngine(m *AuthMiddleware, perm string) *gin.Engine {
	r := gin.New()
	r.GET("/p", m.Authenticate(), m.RequirePermission(perm), func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "session": GetSession(c), "role": GetRole(c)})
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	svc, token := newAuthService(t)
	r := protectedEngine(NewAuthMiddleware(svc), auth.PermDocumentWrite)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"no token", "Bearer", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestAuthenticate_ReadsStoredUser(t *testing.T) {
	repo := auth.NewMemoryRepository()
	svc := auth.NewService(repo, &config.JWTConfig{Secret: "mw-secret", ExpirationHours: 1}, zap.NewNop())
	resp, err := svc.Register(context.Background(), &auth.RegisterRequest{
		Email: "editor@example.com", Password: "password1", Name: "Editor",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	r := protectedEngine(NewAuthMiddleware(svc), auth.PermDocumentWrite)

	call := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set("Authorization", "Bearer "+resp.Token)
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := call(); code != http.StatusOK {
		t.Fatalf("status = %d, want %d", code, http.StatusOK)
	}

	user := *resp.User
	user.Role = auth.RoleViewer
	if err := repo.UpdateUser(context.Background(), &user); err != nil {
		t.Fatalf("update: %v", err)
	}
	if code := call(); code != http.StatusForbidden {
		t.Errorf("after demotion status = %d, want %d", code, http.StatusForbidden)
	}

	user.Role = auth.RoleEditor
	user.Status = auth.UserStatusDisabled
	if err := repo.UpdateUser(context.Background(), &user); err != nil {
		t.Fatalf("update: %v", err)
	}
	if code := call(); code != http.StatusUnauthorized {
		t.Errorf("disabled user status = %d, want %d", code, http.StatusUnauthorized)
	}
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	svc, token := newAuthService(t)
	// a token signed with the same secret but for a user another store knows about
	other := auth.NewService(auth.NewMemoryRepository(), &config.JWTConfig{Secret: "mw-secret", ExpirationHours: 1}, zap.NewNop())
	resp, err := other.Register(context.Background(), &auth.RegisterRequest{
		Email: "ghost@example.com", Password: "password1", Name: "Ghost",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	r := protectedEngine(NewAuthMiddleware(svc), auth.PermDocumentRead)

	for tok, want := range map[string]int{token: http.StatusOK, resp.Token: http.StatusUnauthorized} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("status = %d, want %d", w.Code, want)
		}
	}
}

func TestRequirePermission_DeniesMissingPermission(t *testing.T) {
	svc, token := newAuthService(t)
	// new users are editors, who cannot manage users
	r := protectedEngine(NewAuthMiddleware(svc), auth.PermUserManage)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestRequirePermission_NoPermissionsInContext(t *testing.T) {
	c, w := createTestContext()
	NewAuthMiddleware(nil).RequirePermission(auth.PermDocumentRead)(c)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if !c.IsAborted() {
		t.Error("request should be aborted")
	}
}

func TestGetUserID_Valid(t *testing.T) {
	c, _ := createTestContext()
	expectedID := uuid.New()
	c.Set(ContextUserID, expectedID)

	id, ok := GetUserID(c)
	if !ok {
		t.Error("GetUserID should return true when user_id is set")
	}
	if id != expectedID {
		t.Errorf("GetUserID returned %v, expected %v", id, expectedID)
	}
}

func TestGetUserID_NotSetOrWrongType(t *testing.T) {
	c, _ := createTestContext()
	if _, ok := GetUserID(c); ok {
		t.Error("GetUserID should return false when user_id is not set")
	}

	c.Set(ContextUserID, "not-a-uuid")
	if _, ok := GetUserID(c); ok {
		t.Error("GetUserID should return false when user_id has the wrong type")
	}
}

func TestGetPermissions(t *testing.T) {
	c, _ := createTestContext()
	if perms := GetPermissions(c); perms != nil {
		t.Error("GetPermissions should return nil when not set")
	}

	c.Set(ContextPermissions, "invalid")
	if perms := GetPermissions(c); perms != nil {
		t.Error("GetPermissions should return nil when invalid type")
	}

	c.Set(ContextPermissions, auth.Permissions(auth.RoleViewer))
	if !HasPermission(c, auth.PermDocumentRead) {
		t.Error("viewer should read documents")
	}
	if HasPermission(c, auth.PermDocumentWrite) {
		t.Error("viewer should not write documents")
	}
}

func TestGetRole(t *testing.T) {
	c, _ := createTestContext()
	if role := GetRole(c); role != "" {
		t.Errorf("GetRole = %q, want empty", role)
	}
	c.Set(ContextRole, auth.RoleAdmin)
	if role := GetRole(c); role != auth.RoleAdmin {
		t.Errorf("GetRole = %q, want admin", role)
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, GetIPAddress(c)+"|"+GetUserAgent(c))
	})
	r.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("User-Agent", "docflow-test")
	r.ServeHTTP(w, req)

	if got := w.Body.String(); got != "203.0.113.7|docflow-test" {
		t.Errorf("body = %q", got)
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.FilterMessage("request").All()
	if len(entries) != 2 {
		t.Fatalf("logged %d requests, want 2", len(entries))
	}
	first := entries[0].ContextMap()
	if first["path"] != "/ok" || first["ip"] != "203.0.113.7" {
		t.Errorf("unexpected fields %v", first)
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Errorf("5xx logged at %s, want error", entries[1].Level)
	}
}
