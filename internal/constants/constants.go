package constants

// 文章状态常量
const (
	PostStatusPublished = "published"
	PostStatusDraft     = "draft"
)

// 缩略图相关常量
const (
	DefaultThumbnail   = "default.jpg"
	ThumbnailUploadDir = "images/thumbnails"
)

// ThumbnailExtensions 缩略图允许的扩展名（不含点号）
var ThumbnailExtensions = []string{"png", "jpg", "jpeg", "gif"}

// 字段长度限制
const (
	TitleMaxLength               = 255
	SlugMaxLength                = 255
	PostDescriptionMaxLength     = 500
	CategoryDescriptionMaxLength = 300
	StatusMaxLength              = 10
)

// 队列名称常量
const (
	QueueDefault = "default"
	QueueMedia   = "media"
)

// 异步任务类型常量
const (
	TaskThumbnailCleanup = "media:thumbnail_cleanup"
)

// 缓存 key 常量
const (
	CacheKeyPublishedVersion = "posts:published:version"
	CacheKeyPublishedPrefix  = "posts:published"
	CacheKeyCategoryTree     = "categories:tree"
)

// 后台实体名称
const (
	EntityPost     = "post"
	EntityCategory = "category"
)

// 后台内置角色
const (
	RoleEditor = "editor"
	RoleAuthor = "author"
	RoleReader = "reader"
)
