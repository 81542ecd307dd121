package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/inkpost/internal/models"

	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repository_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := models.Open("sqlite", dsn, models.DBPoolConfig{MaxOpenConns: 1, MaxIdleConns: 1}, false)
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if err := models.InitDefaultAuthor(db, models.DefaultAuthorOptions{ID: 1, Password: "test-pass"}); err != nil {
		t.Fatalf("seed default author failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func mustCreateCategory(t *testing.T, repo *GormCategoryRepository, title string, parent *models.Category) *models.Category {
	t.Helper()
	category := &models.Category{Title: title, Slug: "cat-" + title, Description: title + " description"}
	if parent != nil {
		category.ParentID = &parent.ID
	}
	if err := repo.Create(category); err != nil {
		t.Fatalf("create category %s failed: %v", title, err)
	}
	return category
}

func mustCreatePost(t *testing.T, db *gorm.DB, slug string, category *models.Category, mutate func(p *models.Post)) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:       slug,
		Slug:        slug,
		Description: "description",
		Text:        "text",
		Thumbnail:   "default.jpg",
		Status:      "published",
		AuthorID:    1,
		CategoryID:  category.ID,
	}
	if mutate != nil {
		mutate(post)
	}
	if err := NewPostRepository(db).Create(post); err != nil {
		t.Fatalf("create post %s failed: %v", slug, err)
	}
	return post
}

func categoryIDs(categories []models.Category) []uint {
	ids := make([]uint, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return ids
}
