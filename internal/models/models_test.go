package models

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"
)

func openModelsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:models_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := Open("sqlite", dsn, DBPoolConfig{MaxOpenConns: 1, MaxIdleConns: 1}, false)
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func TestPathIDs(t *testing.T) {
	ids := PathIDs("/1/4/9/")
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 4 || ids[2] != 9 {
		t.Fatalf("unexpected ids: %v", ids)
	}
	if got := PathIDs(""); len(got) != 0 {
		t.Fatalf("empty path should yield no ids, got %v", got)
	}
}

func TestCategoryPathHelpers(t *testing.T) {
	c := Category{ID: 9, TreePath: "/1/4/9/", Title: "Go", Slug: "go"}
	if got := c.AncestorIDs(); len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Fatalf("unexpected ancestors: %v", got)
	}
	if c.RootID() != 1 {
		t.Fatalf("expected root 1, got %d", c.RootID())
	}
	if ChildPath(c.TreePath, 12) != "/1/4/9/12/" {
		t.Fatalf("unexpected child path: %s", ChildPath(c.TreePath, 12))
	}
	if ChildPath("", 3) != "/3/" {
		t.Fatalf("unexpected root path: %s", ChildPath("", 3))
	}
	if c.URLPath() != "/categories/go" || c.String() != "Go" {
		t.Fatalf("unexpected display helpers: %s %s", c.URLPath(), c.String())
	}
}

func TestPostDisplayHelpers(t *testing.T) {
	p := Post{Title: "Hello World", Slug: "hello-world", Thumbnail: "default.jpg", Status: "draft"}
	if p.URLPath() != "/posts/hello-world" {
		t.Fatalf("unexpected url: %s", p.URLPath())
	}
	if p.String() != "Hello World" {
		t.Fatalf("unexpected string: %s", p.String())
	}
	if p.IsPublished() || p.HasCustomThumbnail() {
		t.Fatalf("draft with default thumbnail misreported")
	}
}

func TestInitDefaultAuthorIsIdempotent(t *testing.T) {
	db := openModelsTestDB(t)
	opts := DefaultAuthorOptions{ID: 1, Username: "editor", Password: "secret-pass"}
	if err := InitDefaultAuthor(db, opts); err != nil {
		t.Fatalf("init default author failed: %v", err)
	}
	if err := InitDefaultAuthor(db, opts); err != nil {
		t.Fatalf("second init failed: %v", err)
	}

	var users []User
	if err := db.Find(&users).Error; err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if len(users) != 1 || users[0].ID != 1 || !users[0].IsSuper {
		t.Fatalf("unexpected users: %+v", users)
	}
	if users[0].String() != "editor" {
		t.Fatalf("unexpected display name: %s", users[0].String())
	}
}

func TestPostCreatedAtIsInsertOnly(t *testing.T) {
	db := openModelsTestDB(t)
	if err := InitDefaultAuthor(db, DefaultAuthorOptions{ID: 1}); err != nil {
		t.Fatalf("init default author failed: %v", err)
	}
	category := Category{Title: "News", Slug: "news", Description: "d", TreePath: "/1/"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	post := Post{Title: "A", Slug: "a", Description: "d", Text: "t", Thumbnail: "default.jpg", Status: "published", AuthorID: 1, CategoryID: category.ID}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	var stored Post
	if err := db.First(&stored, post.ID).Error; err != nil {
		t.Fatalf("load post failed: %v", err)
	}

	original := stored.CreatedAt
	stored.CreatedAt = stored.CreatedAt.Add(-72 * time.Hour)
	stored.Title = "B"
	if err := db.Save(&stored).Error; err != nil {
		t.Fatalf("save post failed: %v", err)
	}

	var reloaded Post
	if err := db.First(&reloaded, post.ID).Error; err != nil {
		t.Fatalf("reload post failed: %v", err)
	}
	if !reloaded.CreatedAt.Equal(original) {
		t.Fatalf("created_at changed: %v -> %v", original, reloaded.CreatedAt)
	}
	if reloaded.Title != "B" {
		t.Fatalf("title not updated: %s", reloaded.Title)
	}
}

func TestOpenWithZeroPoolKeepsMemoryDatabase(t *testing.T) {
	dsn := fmt.Sprintf("file:models_pool_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := Open("sqlite", dsn, DBPoolConfig{}, false)
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate with zero pool config failed: %v", err)
	}
	if err := InitDefaultAuthor(db, DefaultAuthorOptions{ID: 1, Password: "pool-pass-1"}); err != nil {
		t.Fatalf("seed default author failed: %v", err)
	}
	var count int64
	if err := db.Model(&User{}).Count(&count).Error; err != nil || count != 1 {
		t.Fatalf("tables should survive between statements, count=%d err=%v", count, err)
	}
}

func TestAuthorFallbackFollowsConfiguredID(t *testing.T) {
	db := openModelsTestDB(t)
	if err := InitDefaultAuthor(db, DefaultAuthorOptions{ID: 7, Username: "owner", Password: "owner-pass-1"}); err != nil {
		t.Fatalf("init default author failed: %v", err)
	}
	writer := User{Username: "writer", DisplayName: "Writer", PasswordHash: "x"}
	if err := db.Create(&writer).Error; err != nil {
		t.Fatalf("create writer failed: %v", err)
	}
	category := Category{Title: "News", Slug: "news", Description: "d", TreePath: "/1/"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	post := Post{Title: "A", Slug: "a", Description: "d", Text: "t", Thumbnail: "default.jpg", Status: "published", AuthorID: writer.ID, UpdaterID: &writer.ID, CategoryID: category.ID}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("create post failed: %v", err)
	}

	if err := db.Delete(&User{}, writer.ID).Error; err != nil {
		t.Fatalf("delete writer failed: %v", err)
	}
	var stored Post
	if err := db.First(&stored, post.ID).Error; err != nil {
		t.Fatalf("post should survive author delete: %v", err)
	}
	if stored.AuthorID != 7 || stored.UpdaterID != nil {
		t.Fatalf("expected author 7 and cleared updater, got author=%d updater=%v", stored.AuthorID, stored.UpdaterID)
	}
}

func TestAuthorFallbackStatements(t *testing.T) {
	pg := authorFallbackStatements("postgres", 3)
	if len(pg) != 1 || pg[0] != "ALTER TABLE blog_post ALTER COLUMN author_id SET DEFAULT 3" {
		t.Fatalf("unexpected postgres statements: %v", pg)
	}
	if got := authorFallbackStatements("mysql", 3); len(got) != 0 {
		t.Fatalf("unsupported dialect should be a no-op: %v", got)
	}
}
