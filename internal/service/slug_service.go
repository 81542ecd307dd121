package service

import (
	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/repository"
	"github.com/inkpost/internal/slug"
)

// SlugService 为文章与分类分配唯一 slug
type SlugService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
}

// NewSlugService 创建 slug 服务
func NewSlugService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository) *SlugService {
	return &SlugService{postRepo: postRepo, categoryRepo: categoryRepo}
}

// ForPost 计算文章 slug，excludeID 为当前记录（更新时排除自身）
func (s *SlugService) ForPost(title, explicit string, excludeID *uint) (string, error) {
	return slug.Unique(title, explicit, constants.EntityPost, constants.SlugMaxLength, func(candidate string) (bool, error) {
		count, err := s.postRepo.CountBySlug(candidate, excludeID)
		return count > 0, err
	})
}

// ForCategory 计算分类 slug
func (s *SlugService) ForCategory(title, explicit string, excludeID *uint) (string, error) {
	return slug.Unique(title, explicit, constants.EntityCategory, constants.SlugMaxLength, func(candidate string) (bool, error) {
		count, err := s.categoryRepo.CountBySlug(candidate, excludeID)
		return count > 0, err
	})
}

// Suggest 根据实体类型给出建议 slug（后台预填充）
func (s *SlugService) Suggest(entity, title string, excludeID *uint) (string, error) {
	switch entity {
	case constants.EntityCategory:
		return s.ForCategory(title, "", excludeID)
	case constants.EntityPost:
		return s.ForPost(title, "", excludeID)
	default:
		return "", ErrEntityNotConfigured
	}
}
