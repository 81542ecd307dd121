package models

import (
	"strconv"
	"strings"
	"time"
)

// Category 分类表（物化路径维护层级）
type Category struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                                    // 主键
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`                                 // 名称
	Slug        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`                      // 唯一标识
	Description string    `gorm:"type:text;not null" json:"description"`                                   // 描述
	ParentID    *uint     `gorm:"index" json:"parent_id"`                                                  // 父分类
	Parent      *Category `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"parent,omitempty"` // 父分类关联
	TreePath    string    `gorm:"type:varchar(1024);not null;default:'';index" json:"tree_path"`           // 物化路径 /1/4/9/
	Level       int       `gorm:"not null;default:0" json:"level"`                                         // 深度，根为 0
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                                 // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                                              // 更新时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "app_categories"
}

// String 返回分类名称
func (c Category) String() string {
	return c.Title
}

// URLPath 分类文章列表地址
func (c Category) URLPath() string {
	return "/categories/" + c.Slug
}

// IsRoot 是否为根分类
func (c Category) IsRoot() bool {
	return c.ParentID == nil
}

// AncestorIDs 从物化路径解析祖先 ID（由根到父，不含自身）
func (c Category) AncestorIDs() []uint {
	ids := PathIDs(c.TreePath)
	if len(ids) == 0 {
		return nil
	}
	return ids[:len(ids)-1]
}

// RootID 返回所在树的根分类 ID
func (c Category) RootID() uint {
	ids := PathIDs(c.TreePath)
	if len(ids) == 0 {
		return c.ID
	}
	return ids[0]
}

// ChildPath 计算子节点的物化路径
func ChildPath(parentPath string, id uint) string {
	if parentPath == "" {
		parentPath = "/"
	}
	return parentPath + strconv.FormatUint(uint64(id), 10) + "/"
}

// PathIDs 解析物化路径中的 ID 序列
func PathIDs(path string) []uint {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}
