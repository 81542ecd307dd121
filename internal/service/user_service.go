package service

import (
	"context"
	"errors"
	"strings"

	"github.com/inkpost/internal/cache"
	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/repository"

	"gorm.io/gorm"
)

// UserService 用户（作者）业务服务
type UserService struct {
	cfg  *config.Config
	repo repository.UserRepository
	auth *AuthService
}

// NewUserService 创建用户服务
func NewUserService(cfg *config.Config, repo repository.UserRepository, auth *AuthService) *UserService {
	return &UserService{cfg: cfg, repo: repo, auth: auth}
}

// CreateUserInput 创建用户输入
type CreateUserInput struct {
	Username    string `json:"username" validate:"required,max=150"`
	DisplayName string `json:"display_name" validate:"max=150"`
	Password    string `json:"password" validate:"required"`
	IsSuper     bool   `json:"is_super"`
}

// List 用户列表
func (s *UserService) List(keyword string, page, pageSize int) ([]models.User, int64, error) {
	return s.repo.List(repository.UserListFilter{Page: page, PageSize: pageSize, Keyword: keyword})
}

// Get 获取用户
func (s *UserService) Get(id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// Create 创建用户
func (s *UserService) Create(input CreateUserInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := s.auth.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUsername(input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}

	hash, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Username:     input.Username,
		DisplayName:  input.DisplayName,
		PasswordHash: hash,
		IsSuper:      input.IsSuper,
	}
	if err := s.repo.Create(&user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}
	return &user, nil
}

// Delete 删除用户：文章转给默认作者，更新人置空，默认作者不可删除
func (s *UserService) Delete(id uint) error {
	defaultAuthorID := s.cfg.Blog.DefaultAuthorID
	if id == defaultAuthorID {
		return ErrDefaultAuthorProtected
	}
	fallback, err := s.repo.GetByID(defaultAuthorID)
	if err != nil {
		return err
	}
	if fallback == nil {
		return ErrAuthorNotFound
	}

	reassigned, err := s.repo.ReassignAndDelete(id, defaultAuthorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := cache.DelUserAuthState(context.Background(), id); err != nil {
		logger.Warnw("user_auth_state_delete_failed", "user_id", id, "error", err)
	}
	logger.Infow("user_deleted", "user_id", id, "reassigned_posts", reassigned, "fallback_author_id", defaultAuthorID)
	if reassigned > 0 {
		invalidatePublished("user_deleted", id)
	}
	return nil
}
