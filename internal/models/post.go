package models

import (
	"time"

	"github.com/inkpost/internal/constants"
)

// Post 博客文章表
type Post struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                                                                           // 主键
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`                                                                        // 标题
	Slug        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`                                                             // 唯一标识
	Description string    `gorm:"type:text;not null" json:"description"`                                                                          // 摘要
	Text        string    `gorm:"type:text;not null" json:"text"`                                                                                 // 正文
	Thumbnail   string    `gorm:"type:varchar(255);not null;default:'default.jpg'" json:"thumbnail"`                                              // 缩略图（相对媒体目录）
	Status      string    `gorm:"type:varchar(10);not null;default:'published';index:idx_blog_post_fixed_create_status,priority:3" json:"status"` // 状态 published/draft
	CreatedAt   time.Time `gorm:"<-:create;index:idx_blog_post_fixed_create_status,priority:2" json:"created_at"`                                 // 创建时间（仅插入时写入）
	UpdatedAt   time.Time `json:"updated_at"`                                                                                                     // 更新时间
	AuthorID    uint      `gorm:"not null;default:1;index" json:"author_id"`                                                                      // 作者
	Author      *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET DEFAULT" json:"author,omitempty"`                                    // 作者关联
	UpdaterID   *uint     `gorm:"index" json:"updater_id"`                                                                                        // 最后更新人
	Updater     *User     `gorm:"foreignKey:UpdaterID;constraint:OnDelete:SET NULL" json:"updater,omitempty"`                                     // 更新人关联
	Fixed       bool      `gorm:"not null;default:false;index:idx_blog_post_fixed_create_status,priority:1" json:"fixed"`                         // 是否置顶
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`                                                                              // 分类
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`                                   // 分类关联
}

// TableName 指定表名
func (Post) TableName() string {
	return "blog_post"
}

// String 返回文章标题
func (p Post) String() string {
	return p.Title
}

// URLPath 文章详情地址
func (p Post) URLPath() string {
	return "/posts/" + p.Slug
}

// IsPublished 是否已发布
func (p Post) IsPublished() bool {
	return p.Status == constants.PostStatusPublished
}

// HasCustomThumbnail 是否使用了非默认缩略图
func (p Post) HasCustomThumbnail() bool {
	return p.Thumbnail != "" && p.Thumbnail != constants.DefaultThumbnail
}
