package repository

import "github.com/inkpost/internal/models"

// PostListFilter 查询文章列表的过滤条件
type PostListFilter struct {
	Page          int
	PageSize      int
	Status        string
	CategoryIDs   []uint
	AuthorID      uint
	Search        string
	OnlyPublished bool
	WithRelations bool
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
}

// CategoryNode 分类树节点
type CategoryNode struct {
	models.Category
	Children []*CategoryNode `json:"children"`
}
