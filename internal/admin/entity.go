package admin

import (
	"strings"

	"github.com/inkpost/internal/constants"
)

// 字段控件类型
const (
	FieldText     = "text"
	FieldTextarea = "textarea"
	FieldRichText = "richtext"
	FieldSlug     = "slug"
	FieldImage    = "image"
	FieldSelect   = "select"
	FieldBool     = "bool"
	FieldRelation = "relation"
	FieldTree     = "tree"
)

// FieldConfig 后台表单字段配置
type FieldConfig struct {
	Name             string   `json:"name"`
	Label            string   `json:"label"`
	Type             string   `json:"type"`
	Required         bool     `json:"required"`
	MaxLength        int      `json:"max_length,omitempty"`
	PrepopulatedFrom string   `json:"prepopulated_from,omitempty"` // 留空时由该字段派生
	Choices          []string `json:"choices,omitempty"`
	Default          string   `json:"default,omitempty"`
	Relation         string   `json:"relation,omitempty"`
	Extensions       []string `json:"extensions,omitempty"`
}

// EntityConfig 后台实体配置
type EntityConfig struct {
	Name         string        `json:"name"`
	Label        string        `json:"label"`
	Fields       []FieldConfig `json:"fields"`
	ListDisplay  []string      `json:"list_display"`
	ListFilter   []string      `json:"list_filter,omitempty"`
	SearchFields []string      `json:"search_fields,omitempty"`
	Ordering     []string      `json:"ordering"`
	Tree         bool          `json:"tree"`
}

// Field 按名称查找字段
func (e EntityConfig) Field(name string) (FieldConfig, bool) {
	for _, field := range e.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldConfig{}, false
}

// Prepopulated 返回需要由其他字段派生的字段（字段 -> 来源字段）
func (e EntityConfig) Prepopulated() map[string]string {
	result := make(map[string]string)
	for _, field := range e.Fields {
		if field.PrepopulatedFrom != "" {
			result[field.Name] = field.PrepopulatedFrom
		}
	}
	return result
}

// PostEntity 文章后台配置
func PostEntity() EntityConfig {
	return EntityConfig{
		Name:  constants.EntityPost,
		Label: "Posts",
		Fields: []FieldConfig{
			{Name: "title", Label: "Title", Type: FieldText, Required: true, MaxLength: constants.TitleMaxLength},
			{Name: "slug", Label: "Slug", Type: FieldSlug, MaxLength: constants.SlugMaxLength, PrepopulatedFrom: "title"},
			{Name: "description", Label: "Description", Type: FieldTextarea, Required: true, MaxLength: constants.PostDescriptionMaxLength},
			{Name: "text", Label: "Text", Type: FieldRichText, Required: true},
			{Name: "category_id", Label: "Category", Type: FieldTree, Required: true, Relation: constants.EntityCategory},
			{Name: "thumbnail", Label: "Thumbnail", Type: FieldImage, Default: constants.DefaultThumbnail, Extensions: constants.ThumbnailExtensions},
			{
				Name:      "status",
				Label:     "Status",
				Type:      FieldSelect,
				MaxLength: constants.StatusMaxLength,
				Choices:   []string{constants.PostStatusPublished, constants.PostStatusDraft},
				Default:   constants.PostStatusPublished,
			},
			{Name: "author_id", Label: "Author", Type: FieldRelation, Relation: "user"},
			{Name: "fixed", Label: "Pinned", Type: FieldBool, Default: "false"},
		},
		ListDisplay:  []string{"title", "category", "author", "status", "fixed", "created_at"},
		ListFilter:   []string{"status", "category_id"},
		SearchFields: []string{"title", "slug", "description"},
		Ordering:     []string{"-fixed", "-created_at"},
	}
}

// CategoryEntity 分类后台配置（树形展示）
func CategoryEntity() EntityConfig {
	return EntityConfig{
		Name:  constants.EntityCategory,
		Label: "Categories",
		Fields: []FieldConfig{
			{Name: "title", Label: "Title", Type: FieldText, Required: true, MaxLength: constants.TitleMaxLength},
			{Name: "slug", Label: "Slug", Type: FieldSlug, MaxLength: constants.SlugMaxLength, PrepopulatedFrom: "title"},
			{Name: "description", Label: "Description", Type: FieldTextarea, Required: true, MaxLength: constants.CategoryDescriptionMaxLength},
			{Name: "parent_id", Label: "Parent", Type: FieldTree, Relation: constants.EntityCategory},
		},
		ListDisplay: []string{"title", "slug", "level"},
		Ordering:    []string{"tree_path", "title"},
		Tree:        true,
	}
}

// Entities 所有已配置的后台实体
func Entities() []EntityConfig {
	return []EntityConfig{PostEntity(), CategoryEntity()}
}

// Lookup 根据名称查找实体配置
func Lookup(name string) (EntityConfig, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, entity := range Entities() {
		if entity.Name == name {
			return entity, true
		}
	}
	return EntityConfig{}, false
}
