package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inkpost/internal/cache"
	"github.com/inkpost/internal/config"
	handlershared "github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/repository"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func TestResolveAllowedOrigin(t *testing.T) {
	cases := []struct {
		name        string
		origin      string
		allowed     []string
		credentials bool
		want        string
	}{
		{"wildcard", "https://blog.example.com", []string{"*"}, false, "*"},
		{"wildcard with credentials echoes origin", "https://blog.example.com", []string{"*"}, true, "https://blog.example.com"},
		{"allow-list match", "https://admin.example.com", []string{"https://blog.example.com", "https://admin.example.com"}, false, "https://admin.example.com"},
		{"allow-list miss", "https://evil.example.com", []string{"https://blog.example.com"}, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveAllowedOrigin(tc.origin, tc.allowed, tc.credentials); got != tc.want {
				t.Fatalf("want %q got %q", tc.want, got)
			}
		})
	}
}

func TestRequestIDMiddlewareKeepsOrGenerates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, getRequestID(c))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)
	if w.Header().Get(requestIDHeader) != "req-123" || w.Body.String() != "req-123" {
		t.Fatalf("incoming request id should be kept, header=%q body=%q", w.Header().Get(requestIDHeader), w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(requestIDHeader)
	if generated == "" || generated != w.Body.String() {
		t.Fatalf("generated request id should be set on header and context, header=%q body=%q", generated, w.Body.String())
	}
}

type authFixture struct {
	auth *service.AuthService
	user *models.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	cache.Disable()
	dsn := fmt.Sprintf("file:middleware_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := models.Open("sqlite", dsn, models.DBPoolConfig{MaxOpenConns: 1, MaxIdleConns: 1}, false)
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	user := &models.User{Username: "editor", DisplayName: "Editor", PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "middleware-secret"
	cfg.JWT.ExpireHours = 1
	return &authFixture{auth: service.NewAuthService(cfg, repository.NewUserRepository(db)), user: user}
}

func serveWithJWT(secret string, auth *service.AuthService, header string) (int, map[string]interface{}) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware(secret, auth))
	r.GET("/admin/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status_code": 0,
			"user_id":     c.GetUint(handlershared.ContextUserID),
			"username":    c.GetString(handlershared.ContextUsername),
		})
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	code, _ := body["status_code"].(float64)
	return int(code), body
}

func TestJWTAuthMiddlewareRejectsMissingSetup(t *testing.T) {
	if code, _ := serveWithJWT("", nil, "Bearer x"); code != 401 {
		t.Fatalf("missing secret should be 401, got %d", code)
	}
	f := newAuthFixture(t)
	if code, _ := serveWithJWT("middleware-secret", f.auth, ""); code != 401 {
		t.Fatalf("missing header should be 401, got %d", code)
	}
	if code, _ := serveWithJWT("middleware-secret", f.auth, "Token abc"); code != 401 {
		t.Fatalf("non-bearer header should be 401, got %d", code)
	}
}

func TestJWTAuthMiddlewareSetsContext(t *testing.T) {
	f := newAuthFixture(t)
	token, _, err := f.auth.GenerateJWT(f.user)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	code, body := serveWithJWT("middleware-secret", f.auth, "Bearer "+token)
	if code != 0 {
		t.Fatalf("valid token should pass, got %d", code)
	}
	if uint(body["user_id"].(float64)) != f.user.ID || body["username"] != "editor" {
		t.Fatalf("claims not copied to context: %+v", body)
	}
}

func TestJWTAuthMiddlewareRejectsStaleVersion(t *testing.T) {
	f := newAuthFixture(t)
	stale := *f.user
	stale.TokenVersion = f.user.TokenVersion + 1
	token, _, err := f.auth.GenerateJWT(&stale)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if code, _ := serveWithJWT("middleware-secret", f.auth, "Bearer "+token); code != 401 {
		t.Fatalf("token version mismatch should be 401, got %d", code)
	}
}

func TestIsIssuedAfterInvalidBeforeUnix(t *testing.T) {
	issued := jwt.NewNumericDate(time.Unix(1700000000, 0))
	if !isIssuedAfterInvalidBeforeUnix(nil, 0) {
		t.Fatalf("no invalid-before should accept any token")
	}
	if isIssuedAfterInvalidBeforeUnix(nil, 1700000000) {
		t.Fatalf("token without iat should be rejected once invalid-before is set")
	}
	if !isIssuedAfterInvalidBeforeUnix(issued, 1700000000) {
		t.Fatalf("token issued in the same second should be accepted")
	}
	if isIssuedAfterInvalidBeforeUnix(issued, 1700000001) {
		t.Fatalf("token issued before invalid-before should be rejected")
	}
}
