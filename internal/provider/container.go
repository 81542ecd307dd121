package provider

import (
	"time"

	"github.com/inkpost/internal/authz"
	"github.com/inkpost/internal/cache"
	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/queue"
	"github.com/inkpost/internal/repository"
	"github.com/inkpost/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo     repository.UserRepository
	PostRepo     repository.PostRepository
	CategoryRepo repository.CategoryRepository

	// Services
	AuthzService    *authz.Service
	AuthService     *service.AuthService
	UserService     *service.UserService
	UploadService   *service.UploadService
	SlugService     *service.SlugService
	PostService     *service.PostService
	CategoryService *service.CategoryService
}

// NewContainer 初始化容器（使用全局数据库连接）
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c, err := NewContainerWithDB(cfg, models.DB, queueClient)
	if err != nil {
		logger.Errorw("provider_init_container_failed", "error", err)
		panic(err)
	}
	return c
}

// NewContainerWithDB 基于指定数据库初始化容器，queueClient 为空时缩略图同步清理
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) (*Container, error) {
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	if err := c.initServices(db); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
}

func (c *Container) initServices(db *gorm.DB) error {
	authzService, err := authz.NewService(db)
	if err != nil {
		return err
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		return err
	}
	c.AuthzService = authzService

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.UserService = service.NewUserService(c.Config, c.UserRepo, c.AuthService)
	c.UploadService = service.NewUploadService(c.Config)
	c.SlugService = service.NewSlugService(c.PostRepo, c.CategoryRepo)

	var cleaner service.ThumbnailCleaner = c.UploadService
	if c.QueueClient.Enabled() {
		cleaner = c.QueueClient
	}
	c.PostService = service.NewPostService(c.Config, c.PostRepo, c.CategoryRepo, c.UserRepo, c.SlugService, cleaner)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo, c.SlugService, publicCacheTTL(c.Config))
	return nil
}

func publicCacheTTL(cfg *config.Config) time.Duration {
	if cfg.Blog.PublicCacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(cfg.Blog.PublicCacheTTLSeconds) * time.Second
}
