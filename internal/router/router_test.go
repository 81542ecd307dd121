package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inkpost/internal/cache"
	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/provider"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type apiResponse struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.L = zap.NewNop()
	cache.Disable()

	dsn := fmt.Sprintf("file:router_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := models.Open("sqlite", dsn, models.DBPoolConfig{MaxOpenConns: 1, MaxIdleConns: 1}, false)
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if err := models.InitDefaultAuthor(db, models.DefaultAuthorOptions{ID: 1, Username: "admin", Password: "admin-pass-1"}); err != nil {
		t.Fatalf("seed default author failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{}
	cfg.Server.Mode = "release"
	cfg.JWT.SecretKey = "router-secret"
	cfg.JWT.ExpireHours = 1
	cfg.Blog.DefaultAuthorID = 1
	cfg.Blog.PageSize = 20
	cfg.Upload.MediaRoot = t.TempDir()
	cfg.Upload.DefaultThumbnail = "default.jpg"
	cfg.Upload.AllowedExtensions = []string{"png", "jpg"}
	cfg.Security.PasswordPolicy.MinLength = 8

	container, err := provider.NewContainerWithDB(cfg, db, nil)
	if err != nil {
		t.Fatalf("init container failed: %v", err)
	}
	return &testServer{t: t, engine: SetupRouter(cfg, container)}
}

func (s *testServer) do(method, path, token string, body interface{}) apiResponse {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		s.t.Fatalf("%s %s: http status want 200 got %d", method, path, w.Code)
	}
	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		s.t.Fatalf("%s %s: decode response failed: %v (%s)", method, path, err, w.Body.String())
	}
	return resp
}

func (s *testServer) mustOK(method, path, token string, body, out interface{}) {
	s.t.Helper()
	resp := s.do(method, path, token, body)
	if resp.StatusCode != 0 {
		s.t.Fatalf("%s %s: status_code want 0 got %d (%s)", method, path, resp.StatusCode, resp.Msg)
	}
	if out != nil {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			s.t.Fatalf("%s %s: decode data failed: %v", method, path, err)
		}
	}
}

func (s *testServer) login(username, password string) string {
	s.t.Helper()
	var data struct {
		Token string `json:"token"`
	}
	s.mustOK(http.MethodPost, "/api/v1/admin/login", "", gin.H{"username": username, "password": password}, &data)
	if data.Token == "" {
		s.t.Fatalf("login %s returned empty token", username)
	}
	return data.Token
}

type idSlug struct {
	ID     uint   `json:"id"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
}

func TestAdminRequiresToken(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(http.MethodGet, "/api/v1/admin/posts", "", nil)
	if resp.StatusCode != 401 {
		t.Fatalf("missing token should be 401, got %d", resp.StatusCode)
	}
	resp = s.do(http.MethodGet, "/api/v1/admin/posts", "not-a-jwt", nil)
	if resp.StatusCode != 401 {
		t.Fatalf("invalid token should be 401, got %d", resp.StatusCode)
	}
	resp = s.do(http.MethodPost, "/api/v1/admin/login", "", gin.H{"username": "admin", "password": "wrong-pass-1"})
	if resp.StatusCode != 401 {
		t.Fatalf("bad credentials should be 401, got %d", resp.StatusCode)
	}
}

func TestAdminAndPublicPostFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin", "admin-pass-1")

	var tech, golang idSlug
	s.mustOK(http.MethodPost, "/api/v1/admin/categories", token, gin.H{"title": "Tech", "description": "tech posts"}, &tech)
	s.mustOK(http.MethodPost, "/api/v1/admin/categories", token, gin.H{"title": "Go Lang", "description": "go posts", "parent_id": tech.ID}, &golang)
	if golang.Slug != "go-lang" {
		t.Fatalf("category slug want go-lang got %s", golang.Slug)
	}

	var published, draft idSlug
	s.mustOK(http.MethodPost, "/api/v1/admin/posts", token, gin.H{
		"title": "Hello World", "description": "intro", "text": "body", "category_id": golang.ID,
	}, &published)
	s.mustOK(http.MethodPost, "/api/v1/admin/posts", token, gin.H{
		"title": "Secret Plans", "description": "wip", "text": "body", "category_id": tech.ID, "status": "draft",
	}, &draft)
	if published.Slug != "hello-world" || published.Status != "published" {
		t.Fatalf("unexpected published post: %+v", published)
	}

	var adminList []idSlug
	s.mustOK(http.MethodGet, "/api/v1/admin/posts", token, nil, &adminList)
	if len(adminList) != 2 {
		t.Fatalf("admin list should include drafts, got %d", len(adminList))
	}

	var publicList []idSlug
	s.mustOK(http.MethodGet, "/api/v1/public/posts?category=tech", "", nil, &publicList)
	if len(publicList) != 1 || publicList[0].ID != published.ID {
		t.Fatalf("public list under tech should only contain the published child post, got %+v", publicList)
	}

	resp := s.do(http.MethodGet, "/api/v1/public/posts/"+draft.Slug, "", nil)
	if resp.StatusCode != 404 {
		t.Fatalf("draft should be hidden publicly, got %d", resp.StatusCode)
	}
	s.mustOK(http.MethodGet, "/api/v1/public/posts/hello-world", "", nil, nil)

	resp = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/categories/%d", tech.ID), token, nil)
	if resp.StatusCode != 409 {
		t.Fatalf("deleting a category with posts should be 409, got %d", resp.StatusCode)
	}

	resp = s.do(http.MethodPost, "/api/v1/admin/posts", token, gin.H{"title": "No Category"})
	if resp.StatusCode != 422 && resp.StatusCode != 400 {
		t.Fatalf("invalid post should be rejected, got %d", resp.StatusCode)
	}

	s.mustOK(http.MethodDelete, fmt.Sprintf("/api/v1/admin/posts/%d", published.ID), token, nil, nil)
	s.mustOK(http.MethodDelete, fmt.Sprintf("/api/v1/admin/posts/%d", draft.ID), token, nil, nil)
	s.mustOK(http.MethodDelete, fmt.Sprintf("/api/v1/admin/categories/%d", tech.ID), token, nil, nil)

	var tree []json.RawMessage
	s.mustOK(http.MethodGet, "/api/v1/public/categories", "", nil, &tree)
	if len(tree) != 0 {
		t.Fatalf("subtree delete should leave an empty tree, got %d roots", len(tree))
	}
}

func TestAuthorRolePermissions(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin", "admin-pass-1")

	var category idSlug
	s.mustOK(http.MethodPost, "/api/v1/admin/categories", admin, gin.H{"title": "News", "description": "news"}, &category)
	s.mustOK(http.MethodPost, "/api/v1/admin/users", admin, gin.H{
		"username": "writer", "password": "writer-pass-1", "roles": []string{"author"},
	}, nil)

	writer := s.login("writer", "writer-pass-1")

	var me struct {
		Roles []string `json:"roles"`
	}
	s.mustOK(http.MethodGet, "/api/v1/admin/me", writer, nil, &me)
	if len(me.Roles) != 1 || me.Roles[0] != "role:author" {
		t.Fatalf("writer roles want [role:author] got %v", me.Roles)
	}

	resp := s.do(http.MethodPost, "/api/v1/admin/categories", writer, gin.H{"title": "Mine", "description": "x"})
	if resp.StatusCode != 403 {
		t.Fatalf("author should not create categories, got %d", resp.StatusCode)
	}

	var post struct {
		idSlug
		AuthorID uint `json:"author_id"`
	}
	s.mustOK(http.MethodPost, "/api/v1/admin/posts", writer, gin.H{
		"title": "Byline", "description": "d", "text": "t", "category_id": category.ID,
	}, &post)
	if post.AuthorID == 1 || post.AuthorID == 0 {
		t.Fatalf("post author should be the writer, got %d", post.AuthorID)
	}

	resp = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/posts/%d", post.ID), writer, nil)
	if resp.StatusCode != 403 {
		t.Fatalf("author should not delete posts, got %d", resp.StatusCode)
	}
	s.mustOK(http.MethodGet, "/api/v1/admin/categories", writer, nil, nil)
}

func TestPasswordChangeRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin", "admin-pass-1")

	s.mustOK(http.MethodPut, "/api/v1/admin/password", token, gin.H{
		"old_password": "admin-pass-1", "new_password": "admin-pass-2",
	}, nil)

	resp := s.do(http.MethodGet, "/api/v1/admin/me", token, nil)
	if resp.StatusCode != 401 {
		t.Fatalf("old token should be revoked, got %d", resp.StatusCode)
	}
	s.login("admin", "admin-pass-2")
}

func TestEntitySchemaAndPermissionCatalog(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin", "admin-pass-1")

	var schema struct {
		Name string `json:"name"`
		Tree bool   `json:"tree"`
	}
	s.mustOK(http.MethodGet, "/api/v1/admin/schema/category", token, nil, &schema)
	if schema.Name != "category" || !schema.Tree {
		t.Fatalf("unexpected category schema: %+v", schema)
	}

	var catalog []adminPermissionCatalogItem
	s.mustOK(http.MethodGet, "/api/v1/admin/permissions/catalog", token, nil, &catalog)
	found := false
	for _, item := range catalog {
		if item.Object == "/api/v1/admin/login" || item.Object == "/admin/login" {
			t.Fatalf("login should not be part of the catalog")
		}
		if item.Permission == "DELETE:/admin/categories/:id" && item.Module == "categories" {
			found = true
		}
	}
	if !found {
		t.Fatalf("catalog should contain DELETE:/admin/categories/:id, got %+v", catalog)
	}
}

func TestDeriveAdminPermissionModule(t *testing.T) {
	cases := map[string]string{
		"/admin/posts/:id": "posts",
		"/admin":           "admin",
		"":                 "system",
		"/health":          "health",
	}
	for object, want := range cases {
		if got := deriveAdminPermissionModule(object); got != want {
			t.Fatalf("module for %q want %s got %s", object, want, got)
		}
	}
}
