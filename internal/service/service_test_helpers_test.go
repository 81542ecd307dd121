package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/queue"
	"github.com/inkpost/internal/repository"

	"gorm.io/gorm"
)

type fakeCleaner struct {
	mu       sync.Mutex
	payloads []queue.ThumbnailCleanupPayload
}

func (f *fakeCleaner) EnqueueThumbnailCleanup(payload queue.ThumbnailCleanupPayload, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	return nil
}

type blogFixture struct {
	db         *gorm.DB
	cfg        *config.Config
	cleaner    *fakeCleaner
	posts      *PostService
	categories *CategoryService
	users      *UserService
	auth       *AuthService
	userRepo   *repository.GormUserRepository
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.Blog.DefaultAuthorID = 1
	cfg.Blog.PageSize = 20
	cfg.Upload.MediaRoot = t.TempDir()
	cfg.Upload.MaxSize = 1 << 20
	cfg.Upload.DefaultThumbnail = "default.jpg"
	cfg.Upload.AllowedExtensions = []string{"png", "jpg", "jpeg", "gif"}
	cfg.Security.PasswordPolicy.MinLength = 8
	cfg.Security.PasswordPolicy.RequireNumber = true
	return cfg
}

func newBlogFixture(t *testing.T) *blogFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%d?mode=memory&cache=shared", time.Now().UnixNano())
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

	cfg := testConfig(t)
	postRepo := repository.NewPostRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	slugs := NewSlugService(postRepo, categoryRepo)
	cleaner := &fakeCleaner{}
	auth := NewAuthService(cfg, userRepo)

	return &blogFixture{
		db:         db,
		cfg:        cfg,
		cleaner:    cleaner,
		posts:      NewPostService(cfg, postRepo, categoryRepo, userRepo, slugs, cleaner),
		categories: NewCategoryService(categoryRepo, slugs, time.Minute),
		users:      NewUserService(cfg, userRepo, auth),
		auth:       auth,
		userRepo:   userRepo,
	}
}

func (f *blogFixture) category(t *testing.T, title string, parent *models.Category) *models.Category {
	t.Helper()
	input := CreateCategoryInput{Title: title, Description: title + " posts"}
	if parent != nil {
		input.ParentID = &parent.ID
	}
	category, err := f.categories.Create(input)
	if err != nil {
		t.Fatalf("create category %s failed: %v", title, err)
	}
	return category
}

func (f *blogFixture) post(t *testing.T, title string, category *models.Category, mutate func(in *CreatePostInput)) *models.Post {
	t.Helper()
	input := CreatePostInput{Title: title, Description: "summary", Text: "body", CategoryID: category.ID}
	if mutate != nil {
		mutate(&input)
	}
	post, err := f.posts.Create(input, 1)
	if err != nil {
		t.Fatalf("create post %s failed: %v", title, err)
	}
	return post
}

func (f *blogFixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := f.users.Create(CreateUserInput{Username: username, Password: "long-enough-1"})
	if err != nil {
		t.Fatalf("create user %s failed: %v", username, err)
	}
	return user
}
