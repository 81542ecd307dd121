package public

import (
	"context"

	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/provider"
	"github.com/inkpost/internal/repository"
	"github.com/inkpost/internal/service"
)

type postReader interface {
	ListPublic(ctx context.Context, categorySlug string, page, pageSize int) (*service.PostPage, error)
	GetPublicBySlug(ctx context.Context, slug string) (*models.Post, error)
}

type categoryReader interface {
	PublicTree(ctx context.Context) ([]*repository.CategoryNode, error)
}

// Handler 公开接口，只读且仅返回已发布内容
type Handler struct {
	posts      postReader
	categories categoryReader
	pageSize   int
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{
		posts:      c.PostService,
		categories: c.CategoryService,
		pageSize:   c.Config.Blog.PageSize,
	}
}
