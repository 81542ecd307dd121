package repository

import (
	"testing"
	"time"

	"github.com/inkpost/internal/models"
)

func TestPostListPublishedExcludesDrafts(t *testing.T) {
	db := openTestDB(t)
	category := mustCreateCategory(t, NewCategoryRepository(db), "News", nil)
	mustCreatePost(t, db, "live", category, nil)
	mustCreatePost(t, db, "hidden", category, func(p *models.Post) { p.Status = "draft" })

	repo := NewPostRepository(db)
	posts, total, err := repo.ListPublished(PostListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list published failed: %v", err)
	}
	if total != 1 || len(posts) != 1 || posts[0].Slug != "live" {
		t.Fatalf("unexpected published posts: total=%d %+v", total, posts)
	}
	if posts[0].Author == nil || posts[0].Category == nil {
		t.Fatalf("published view must preload author and category")
	}

	if post, err := repo.GetPublishedBySlug("hidden"); err != nil || post != nil {
		t.Fatalf("draft must not be visible by slug: %+v %v", post, err)
	}
	if post, err := repo.GetPublishedBySlug("live"); err != nil || post == nil || post.Author == nil {
		t.Fatalf("published post lookup failed: %+v %v", post, err)
	}

	all, total, err := repo.List(PostListFilter{})
	if err != nil || total != 2 || len(all) != 2 {
		t.Fatalf("admin list should include drafts: total=%d err=%v", total, err)
	}
}

func TestPostDefaultOrderingPinnedThenNewest(t *testing.T) {
	db := openTestDB(t)
	category := mustCreateCategory(t, NewCategoryRepository(db), "News", nil)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	mustCreatePost(t, db, "old", category, func(p *models.Post) { p.CreatedAt = base })
	mustCreatePost(t, db, "new", category, func(p *models.Post) { p.CreatedAt = base.Add(48 * time.Hour) })
	mustCreatePost(t, db, "pinned-old", category, func(p *models.Post) {
		p.CreatedAt = base.Add(-48 * time.Hour)
		p.Fixed = true
	})
	mustCreatePost(t, db, "mid", category, func(p *models.Post) { p.CreatedAt = base.Add(24 * time.Hour) })

	posts, _, err := NewPostRepository(db).List(PostListFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := []string{"pinned-old", "new", "mid", "old"}
	for i, slug := range want {
		if posts[i].Slug != slug {
			t.Fatalf("position %d: want %s got %s", i, slug, posts[i].Slug)
		}
	}
}

func TestPostUpdateKeepsCreatedAtAndRefreshesUpdatedAt(t *testing.T) {
	db := openTestDB(t)
	category := mustCreateCategory(t, NewCategoryRepository(db), "News", nil)
	post := mustCreatePost(t, db, "evolving", category, nil)
	repo := NewPostRepository(db)

	loaded, err := repo.GetByID(post.ID)
	if err != nil || loaded == nil {
		t.Fatalf("load failed: %v", err)
	}
	createdAt, updatedAt := loaded.CreatedAt, loaded.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	loaded.Title = "Evolved"
	loaded.CreatedAt = createdAt.Add(-time.Hour)
	if err := repo.Update(loaded); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	reloaded, _ := repo.GetByID(post.ID)
	if !reloaded.CreatedAt.Equal(createdAt) {
		t.Fatalf("created_at changed: %v -> %v", createdAt, reloaded.CreatedAt)
	}
	if !reloaded.UpdatedAt.After(updatedAt) {
		t.Fatalf("updated_at not refreshed: %v -> %v", updatedAt, reloaded.UpdatedAt)
	}
}

func TestPostListFilters(t *testing.T) {
	db := openTestDB(t)
	categories := NewCategoryRepository(db)
	tech := mustCreateCategory(t, categories, "Tech", nil)
	life := mustCreateCategory(t, categories, "Life", nil)
	mustCreatePost(t, db, "golang-tips", tech, func(p *models.Post) { p.Title = "Golang tips" })
	mustCreatePost(t, db, "gardening", life, func(p *models.Post) { p.Status = "draft" })

	repo := NewPostRepository(db)
	posts, total, err := repo.List(PostListFilter{CategoryIDs: []uint{life.ID}})
	if err != nil || total != 1 || posts[0].Slug != "gardening" {
		t.Fatalf("category filter failed: %d %v", total, err)
	}
	posts, total, err = repo.List(PostListFilter{Search: "golang"})
	if err != nil || total != 1 || posts[0].Slug != "golang-tips" {
		t.Fatalf("search filter failed: %d %v", total, err)
	}
	_, total, err = repo.List(PostListFilter{Status: "draft"})
	if err != nil || total != 1 {
		t.Fatalf("status filter failed: %d %v", total, err)
	}
	count, err := repo.CountByCategoryIDs([]uint{tech.ID, life.ID})
	if err != nil || count != 2 {
		t.Fatalf("count by categories = %d, %v", count, err)
	}
}
