package service

import (
	"context"
	"strings"
	"time"

	"github.com/inkpost/internal/cache"
	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/queue"
	"github.com/inkpost/internal/repository"
)

// ThumbnailCleaner 投递缩略图清理任务
type ThumbnailCleaner interface {
	EnqueueThumbnailCleanup(payload queue.ThumbnailCleanupPayload, delay time.Duration) error
}

// PostService 文章业务服务
type PostService struct {
	cfg          *config.Config
	repo         repository.PostRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	slugs        *SlugService
	cleaner      ThumbnailCleaner
}

// NewPostService 创建文章服务
func NewPostService(
	cfg *config.Config,
	repo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	slugs *SlugService,
	cleaner ThumbnailCleaner,
) *PostService {
	return &PostService{
		cfg:          cfg,
		repo:         repo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		slugs:        slugs,
		cleaner:      cleaner,
	}
}

// CreatePostInput 创建/更新文章输入
type CreatePostInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Slug        string `json:"slug" validate:"max=255"`
	Description string `json:"description" validate:"required,max=500"`
	Text        string `json:"text" validate:"required"`
	Thumbnail   string `json:"thumbnail" validate:"max=255"`
	Status      string `json:"status"`
	AuthorID    uint   `json:"author_id"`
	Fixed       bool   `json:"fixed"`
	CategoryID  uint   `json:"category_id" validate:"required"`
}

// AdminPostFilter 后台文章筛选
type AdminPostFilter struct {
	Page       int
	PageSize   int
	Status     string
	CategoryID uint
	Search     string
}

// PostPage 分页文章结果
type PostPage struct {
	Items []models.Post `json:"items"`
	Total int64         `json:"total"`
}

// ListAdmin 后台文章列表（包含草稿）
func (s *PostService) ListAdmin(filter AdminPostFilter) ([]models.Post, int64, error) {
	repoFilter := repository.PostListFilter{
		Page:          filter.Page,
		PageSize:      filter.PageSize,
		Status:        strings.TrimSpace(filter.Status),
		Search:        filter.Search,
		WithRelations: true,
	}
	if repoFilter.Status != "" && !isAllowedStatus(repoFilter.Status) {
		return nil, 0, ErrInvalidStatus
	}
	if filter.CategoryID != 0 {
		repoFilter.CategoryIDs = []uint{filter.CategoryID}
	}
	return s.repo.List(repoFilter)
}

// Get 获取文章（任意状态）
func (s *PostService) Get(id uint) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// ListPublic 公开文章列表，categorySlug 非空时包含其全部子分类
func (s *PostService) ListPublic(ctx context.Context, categorySlug string, page, pageSize int) (*PostPage, error) {
	categorySlug = strings.TrimSpace(categorySlug)
	return cache.Remember(ctx, s.publicTTL(), func() (*PostPage, error) {
		filter := repository.PostListFilter{Page: page, PageSize: pageSize}
		if categorySlug != "" {
			category, err := s.categoryRepo.GetBySlug(categorySlug)
			if err != nil {
				return nil, err
			}
			if category == nil {
				return nil, ErrNotFound
			}
			ids, err := s.categoryRepo.SubtreeIDs(category)
			if err != nil {
				return nil, err
			}
			filter.CategoryIDs = ids
		}
		posts, total, err := s.repo.ListPublished(filter)
		if err != nil {
			return nil, err
		}
		return &PostPage{Items: posts, Total: total}, nil
	}, "list", categorySlug, page, pageSize)
}

// GetPublicBySlug 公开文章详情，草稿不可见
func (s *PostService) GetPublicBySlug(ctx context.Context, slug string) (*models.Post, error) {
	slug = strings.TrimSpace(slug)
	return cache.Remember(ctx, s.publicTTL(), func() (*models.Post, error) {
		post, err := s.repo.GetPublishedBySlug(slug)
		if err != nil {
			return nil, err
		}
		if post == nil {
			return nil, ErrNotFound
		}
		return post, nil
	}, "detail", slug)
}

// Create 创建文章，actorID 为当前操作人（无作者时作为作者）
func (s *PostService) Create(input CreatePostInput, actorID uint) (*models.Post, error) {
	input, err := s.prepareInput(input)
	if err != nil {
		return nil, err
	}
	authorID, err := s.resolveAuthor(input.AuthorID, actorID)
	if err != nil {
		return nil, err
	}

	post := models.Post{
		Title:       input.Title,
		Description: input.Description,
		Text:        input.Text,
		Thumbnail:   input.Thumbnail,
		Status:      input.Status,
		AuthorID:    authorID,
		Fixed:       input.Fixed,
		CategoryID:  input.CategoryID,
	}
	err = withSlugRetry(func() error {
		slug, err := s.slugs.ForPost(input.Title, input.Slug, nil)
		if err != nil {
			return err
		}
		post.ID = 0
		post.Slug = slug
		return s.repo.Create(&post)
	})
	if err != nil {
		logger.Errorw("post_create_failed", "title", input.Title, "actor_id", actorID, "error", err)
		return nil, err
	}

	logger.Infow("post_created", "post_id", post.ID, "slug", post.Slug, "actor_id", actorID)
	invalidatePublished("post_created", post.ID)
	return &post, nil
}

// Update 更新文章，actorID 记为最后更新人
func (s *PostService) Update(id uint, input CreatePostInput, actorID uint) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	input, err = s.prepareInput(input)
	if err != nil {
		return nil, err
	}
	authorID := post.AuthorID
	if input.AuthorID != 0 && input.AuthorID != post.AuthorID {
		if authorID, err = s.resolveAuthor(input.AuthorID, 0); err != nil {
			return nil, err
		}
	}

	previousThumbnail := post.Thumbnail
	post.Title = input.Title
	post.Description = input.Description
	post.Text = input.Text
	post.Thumbnail = input.Thumbnail
	post.Status = input.Status
	post.AuthorID = authorID
	post.Fixed = input.Fixed
	post.CategoryID = input.CategoryID
	post.UpdaterID = nil
	if actorID != 0 {
		actor, err := s.userRepo.GetByID(actorID)
		if err != nil {
			return nil, err
		}
		if actor != nil {
			post.UpdaterID = &actor.ID
		}
	}
	post.Author, post.Updater, post.Category = nil, nil, nil

	err = withSlugRetry(func() error {
		slug, err := s.slugs.ForPost(input.Title, input.Slug, &id)
		if err != nil {
			return err
		}
		post.Slug = slug
		return s.repo.Update(post)
	})
	if err != nil {
		logger.Errorw("post_update_failed", "post_id", id, "actor_id", actorID, "error", err)
		return nil, err
	}

	if previousThumbnail != post.Thumbnail {
		s.scheduleCleanup(previousThumbnail, post.ID, "replaced")
	}
	invalidatePublished("post_updated", post.ID)
	return post, nil
}

// Delete 删除文章
func (s *PostService) Delete(id uint) error {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.scheduleCleanup(post.Thumbnail, post.ID, "deleted")
	invalidatePublished("post_deleted", post.ID)
	return nil
}

// prepareInput 规范化并校验输入，分类必须存在
func (s *PostService) prepareInput(input CreatePostInput) (CreatePostInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Slug = strings.TrimSpace(input.Slug)
	input.Description = strings.TrimSpace(input.Description)
	input.Thumbnail = strings.TrimSpace(input.Thumbnail)
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))

	if err := validateInput(input); err != nil {
		return input, err
	}

	if input.Status == "" {
		input.Status = constants.PostStatusPublished
	}
	if !isAllowedStatus(input.Status) {
		return input, ErrInvalidStatus
	}

	if input.Thumbnail == "" {
		input.Thumbnail = s.defaultThumbnail()
	}
	if input.Thumbnail != s.defaultThumbnail() {
		if err := ValidateThumbnailName(input.Thumbnail, s.cfg.Upload.AllowedExtensions); err != nil {
			return input, err
		}
	}

	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return input, err
	}
	if category == nil {
		return input, ErrCategoryNotFound
	}
	return input, nil
}

// resolveAuthor 作者优先级：显式指定 > 操作人 > 默认作者
func (s *PostService) resolveAuthor(requested, actorID uint) (uint, error) {
	if requested != 0 {
		user, err := s.userRepo.GetByID(requested)
		if err != nil {
			return 0, err
		}
		if user == nil {
			return 0, ErrAuthorNotFound
		}
		return user.ID, nil
	}
	if actorID != 0 {
		user, err := s.userRepo.GetByID(actorID)
		if err != nil {
			return 0, err
		}
		if user != nil {
			return user.ID, nil
		}
	}
	return s.cfg.Blog.DefaultAuthorID, nil
}

func (s *PostService) scheduleCleanup(thumbnail string, postID uint, reason string) {
	if s.cleaner == nil || thumbnail == "" || thumbnail == s.defaultThumbnail() {
		return
	}
	payload := queue.ThumbnailCleanupPayload{Path: thumbnail, PostID: postID, Reason: reason}
	if err := s.cleaner.EnqueueThumbnailCleanup(payload, 0); err != nil {
		logger.Warnw("thumbnail_cleanup_enqueue_failed", "post_id", postID, "path", thumbnail, "error", err)
	}
}

func (s *PostService) defaultThumbnail() string {
	if name := strings.TrimSpace(s.cfg.Upload.DefaultThumbnail); name != "" {
		return name
	}
	return constants.DefaultThumbnail
}

func (s *PostService) publicTTL() time.Duration {
	if s.cfg.Blog.PublicCacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(s.cfg.Blog.PublicCacheTTLSeconds) * time.Second
}

func isAllowedStatus(status string) bool {
	return status == constants.PostStatusPublished || status == constants.PostStatusDraft
}
