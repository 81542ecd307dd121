package service

import (
	"errors"
	"strings"
)

var (
	ErrNotFound               = errors.New("record not found")
	ErrCategoryInUse          = errors.New("category or one of its descendants is referenced by posts")
	ErrCategoryCycle          = errors.New("category cannot become its own ancestor")
	ErrParentNotFound         = errors.New("parent category not found")
	ErrInvalidThumbnail       = errors.New("thumbnail extension not allowed")
	ErrInvalidStatus          = errors.New("status must be published or draft")
	ErrAuthorNotFound         = errors.New("author not found")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrDefaultAuthorProtected = errors.New("default author cannot be deleted")
	ErrUsernameExists         = errors.New("username already exists")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrInvalidPassword        = errors.New("old password is incorrect")
	ErrWeakPassword           = errors.New("password does not satisfy policy")
	ErrUploadTooLarge         = errors.New("upload exceeds size limit")
	ErrEntityNotConfigured    = errors.New("entity has no admin configuration")
)

// ValidationError 字段级校验错误（字段 -> 提示）
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, field := range sortedKeys(e.Fields) {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
