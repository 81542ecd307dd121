package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/inkpost/internal/cache"
	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/repository"

	"gorm.io/gorm"
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo     repository.CategoryRepository
	slugs    *SlugService
	cacheTTL time.Duration
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository, slugs *SlugService, cacheTTL time.Duration) *CategoryService {
	return &CategoryService{repo: repo, slugs: slugs, cacheTTL: cacheTTL}
}

// CreateCategoryInput 创建/更新分类输入
type CreateCategoryInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Slug        string `json:"slug" validate:"max=255"`
	Description string `json:"description" validate:"required,max=300"`
	ParentID    *uint  `json:"parent_id"`
}

// CategoryDetail 分类详情（含祖先链与直接子分类）
type CategoryDetail struct {
	Category  *models.Category  `json:"category"`
	Ancestors []models.Category `json:"ancestors"`
	Children  []models.Category `json:"children"`
}

// List 获取深度优先展开的分类列表
func (s *CategoryService) List() ([]models.Category, error) {
	return s.repo.FlatTree()
}

// Tree 获取分类树
func (s *CategoryService) Tree() ([]*repository.CategoryNode, error) {
	return s.repo.Tree()
}

// PublicTree 获取公开分类树（带缓存）
func (s *CategoryService) PublicTree(ctx context.Context) ([]*repository.CategoryNode, error) {
	return cache.Remember(ctx, s.cacheTTL, s.repo.Tree, constants.CacheKeyCategoryTree)
}

// Get 获取分类详情
func (s *CategoryService) Get(id uint) (*CategoryDetail, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	ancestors, err := s.repo.Ancestors(category)
	if err != nil {
		return nil, err
	}
	children, err := s.repo.Children(category.ID)
	if err != nil {
		return nil, err
	}
	return &CategoryDetail{Category: category, Ancestors: ancestors, Children: children}, nil
}

// GetBySlug 根据 slug 获取分类
func (s *CategoryService) GetBySlug(slug string) (*models.Category, error) {
	category, err := s.repo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

// SubtreeIDs 分类自身及后代 ID
func (s *CategoryService) SubtreeIDs(category *models.Category) ([]uint, error) {
	return s.repo.SubtreeIDs(category)
}

// Create 创建分类
func (s *CategoryService) Create(input CreateCategoryInput) (*models.Category, error) {
	input = normalizeCategoryInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		parent, err := s.repo.GetByID(*input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrParentNotFound
		}
	}

	category := models.Category{
		Title:       input.Title,
		Description: input.Description,
		ParentID:    input.ParentID,
	}
	err := withSlugRetry(func() error {
		slug, err := s.slugs.ForCategory(input.Title, input.Slug, nil)
		if err != nil {
			return err
		}
		category.ID = 0
		category.Slug = slug
		return s.repo.Create(&category)
	})
	if err != nil {
		return nil, mapCategoryRepoError(err)
	}

	invalidatePublished("category_created", category.ID)
	return &category, nil
}

// Update 更新分类，父分类变化时整棵子树随之移动
func (s *CategoryService) Update(id uint, input CreateCategoryInput) (*models.Category, error) {
	input = normalizeCategoryInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}

	moving := parentChanged(category.ParentID, input.ParentID)
	if moving {
		if err := s.checkMove(category, input.ParentID); err != nil {
			return nil, err
		}
	}

	err = withSlugRetry(func() error {
		slug, err := s.slugs.ForCategory(input.Title, input.Slug, &id)
		if err != nil {
			return err
		}
		category.Title = input.Title
		category.Slug = slug
		category.Description = input.Description
		if moving {
			return s.repo.UpdateAndMove(category, input.ParentID)
		}
		return s.repo.Update(category)
	})
	if err != nil {
		return nil, mapCategoryRepoError(err)
	}
	if moving {
		logger.Infow("category_moved", "category_id", category.ID, "tree_path", category.TreePath)
	}

	invalidatePublished("category_updated", category.ID)
	return category, nil
}

// Delete 删除分类及其子树，子树内有文章时拒绝
func (s *CategoryService) Delete(id uint) error {
	deleted, postCount, err := s.repo.DeleteSubtree(id)
	if err != nil {
		return mapCategoryRepoError(err)
	}
	if postCount > 0 {
		logger.Warnw("category_delete_refused", "category_id", id, "post_count", postCount)
		return ErrCategoryInUse
	}
	logger.Infow("category_subtree_deleted", "category_id", id, "deleted_ids", deleted)
	invalidatePublished("category_deleted", id)
	return nil
}

// checkMove 移动前校验：父分类存在且不在自身子树内
func (s *CategoryService) checkMove(category *models.Category, parentID *uint) error {
	if parentID == nil {
		return nil
	}
	if *parentID == category.ID {
		return ErrCategoryCycle
	}
	parent, err := s.repo.GetByID(*parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return ErrParentNotFound
	}
	if strings.HasPrefix(parent.TreePath, category.TreePath) {
		return ErrCategoryCycle
	}
	return nil
}

func normalizeCategoryInput(input CreateCategoryInput) CreateCategoryInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Slug = strings.TrimSpace(input.Slug)
	input.Description = strings.TrimSpace(input.Description)
	if input.ParentID != nil && *input.ParentID == 0 {
		input.ParentID = nil
	}
	return input
}

func parentChanged(current, next *uint) bool {
	if current == nil || next == nil {
		return current != next
	}
	return *current != *next
}

func mapCategoryRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrTreeCycle):
		return ErrCategoryCycle
	case errors.Is(err, repository.ErrParentMissing):
		return ErrParentNotFound
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrCategoryInUse
	default:
		return err
	}
}
