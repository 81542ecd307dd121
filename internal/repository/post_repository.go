package repository

import (
	"errors"
	"strings"

	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostDefaultOrder 默认排序：置顶优先，其次最新
const PostDefaultOrder = "fixed DESC, created_at DESC, id DESC"

// PostRepository 文章数据访问接口
type PostRepository interface {
	List(filter PostListFilter) ([]models.Post, int64, error)
	ListPublished(filter PostListFilter) ([]models.Post, int64, error)
	GetPublishedBySlug(slug string) (*models.Post, error)
	GetByID(id uint) (*models.Post, error)
	Create(post *models.Post) error
	Update(post *models.Post) error
	Delete(id uint) error
	CountBySlug(slug string, excludeID *uint) (int64, error)
	CountByCategoryIDs(categoryIDs []uint) (int64, error)
}

// GormPostRepository GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建文章仓库
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// published 仅包含已发布文章
func (r *GormPostRepository) published() *gorm.DB {
	return r.db.Model(&models.Post{}).Where("blog_post.status = ?", constants.PostStatusPublished)
}

// List 文章列表（后台，包含全部状态）
func (r *GormPostRepository) List(filter PostListFilter) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{})
	if filter.OnlyPublished {
		query = query.Where("blog_post.status = ?", constants.PostStatusPublished)
	}
	return r.list(query, filter)
}

// ListPublished 已发布文章列表，预加载作者与分类
func (r *GormPostRepository) ListPublished(filter PostListFilter) ([]models.Post, int64, error) {
	filter.Status = ""
	filter.WithRelations = true
	return r.list(r.published(), filter)
}

func (r *GormPostRepository) list(query *gorm.DB, filter PostListFilter) ([]models.Post, int64, error) {
	if filter.Status != "" {
		query = query.Where("blog_post.status = ?", filter.Status)
	}
	if len(filter.CategoryIDs) > 0 {
		query = query.Where("blog_post.category_id IN ?", filter.CategoryIDs)
	}
	if filter.AuthorID != 0 {
		query = query.Where("blog_post.author_id = ?", filter.AuthorID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildLikeCondition(r.db, []string{"blog_post.title", "blog_post.slug", "blog_post.description"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Scopes(paginate(filter.Page, filter.PageSize))
	if filter.WithRelations {
		query = query.Preload("Author").Preload("Category")
	}

	var posts []models.Post
	if err := query.Order(PostDefaultOrder).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetPublishedBySlug 根据 slug 获取已发布文章
func (r *GormPostRepository) GetPublishedBySlug(slug string) (*models.Post, error) {
	var post models.Post
	if err := r.published().Preload("Author").Preload("Category").
		Where("blog_post.slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByID 根据 ID 获取文章（任意状态）
func (r *GormPostRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("Author").Preload("Updater").Preload("Category").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create 创建文章
func (r *GormPostRepository) Create(post *models.Post) error {
	return r.db.Omit(clause.Associations).Create(post).Error
}

// Update 更新文章，created_at 为只插入字段不会被写入
func (r *GormPostRepository) Update(post *models.Post) error {
	return r.db.Omit(clause.Associations).Save(post).Error
}

// Delete 删除文章
func (r *GormPostRepository) Delete(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

// CountBySlug 统计 slug 数量
func (r *GormPostRepository) CountBySlug(slug string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Post{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCategoryIDs 统计指定分类下的文章数
func (r *GormPostRepository) CountByCategoryIDs(categoryIDs []uint) (int64, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.Model(&models.Post{}).Where("category_id IN ?", categoryIDs).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
