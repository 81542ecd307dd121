package main

import (
	"errors"
	"os"

	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/provider"
	"github.com/inkpost/internal/service"
)

type categorySeed struct {
	Title       string
	Slug        string
	Description string
	Parent      string
}

type postSeed struct {
	Title       string
	Description string
	Text        string
	Category    string
	Status      string
	Fixed       bool
}

var categorySeeds = []categorySeed{
	{Title: "Tech", Slug: "tech", Description: "Software and tooling"},
	{Title: "Go", Slug: "go", Description: "Notes on Go", Parent: "tech"},
	{Title: "Databases", Slug: "databases", Description: "Storage engines and SQL", Parent: "tech"},
	{Title: "Life", Slug: "life", Description: "Everything else"},
}

var postSeeds = []postSeed{
	{Title: "Welcome", Description: "About this blog", Text: "First post.", Category: "life", Fixed: true},
	{Title: "Context cancellation in practice", Description: "Deadlines and cleanup", Text: "ctx everywhere.", Category: "go"},
	{Title: "Materialized paths for category trees", Description: "Subtree queries with LIKE", Text: "/1/4/9/", Category: "databases"},
	{Title: "Draft: upcoming series", Description: "Not yet public", Text: "TBD", Category: "tech", Status: constants.PostStatusDraft},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.InitDefaultAuthor(models.DB, models.DefaultAuthorOptions{
		ID:       cfg.Blog.DefaultAuthorID,
		Username: cfg.Blog.DefaultAuthorUsername,
		Password: os.Getenv("INK_DEFAULT_AUTHOR_PASSWORD"),
	}); err != nil {
		stdLog.Fatalf("Failed to init default author: %v", err)
	}

	// 队列关闭：种子数据不会产生缩略图清理
	container, err := provider.NewContainerWithDB(cfg, models.DB, nil)
	if err != nil {
		stdLog.Fatalf("Failed to init services: %v", err)
	}

	categoryIDs := make(map[string]uint, len(categorySeeds))
	for _, seed := range categorySeeds {
		existing, err := container.CategoryService.GetBySlug(seed.Slug)
		if err == nil {
			categoryIDs[seed.Slug] = existing.ID
			stdLog.Printf("Category already exists: %s", seed.Slug)
			continue
		}
		if !errors.Is(err, service.ErrNotFound) {
			stdLog.Fatalf("Failed to load category %s: %v", seed.Slug, err)
		}

		input := service.CreateCategoryInput{Title: seed.Title, Slug: seed.Slug, Description: seed.Description}
		if seed.Parent != "" {
			parentID, ok := categoryIDs[seed.Parent]
			if !ok {
				stdLog.Fatalf("Parent category %s must be seeded before %s", seed.Parent, seed.Slug)
			}
			input.ParentID = &parentID
		}
		category, err := container.CategoryService.Create(input)
		if err != nil {
			stdLog.Fatalf("Failed to create category %s: %v", seed.Slug, err)
		}
		categoryIDs[seed.Slug] = category.ID
		stdLog.Printf("Created category: %s (%s)", category.Slug, category.TreePath)
	}

	var existingPosts int64
	if err := models.DB.Model(&models.Post{}).Count(&existingPosts).Error; err != nil {
		stdLog.Fatalf("Failed to count posts: %v", err)
	}
	if existingPosts > 0 {
		stdLog.Printf("Posts already exist (%d), skipping post seeds", existingPosts)
		return
	}

	for _, seed := range postSeeds {
		post, err := container.PostService.Create(service.CreatePostInput{
			Title:       seed.Title,
			Description: seed.Description,
			Text:        seed.Text,
			Status:      seed.Status,
			Fixed:       seed.Fixed,
			CategoryID:  categoryIDs[seed.Category],
		}, cfg.Blog.DefaultAuthorID)
		if err != nil {
			stdLog.Fatalf("Failed to create post %q: %v", seed.Title, err)
		}
		stdLog.Printf("Created post: %s [%s]", post.Slug, post.Status)
	}
}
