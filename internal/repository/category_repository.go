package repository

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/inkpost/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository 分类数据访问接口
type CategoryRepository interface {
	List() ([]models.Category, error)
	GetByID(id uint) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Move(category *models.Category, parentID *uint) error
	UpdateAndMove(category *models.Category, parentID *uint) error
	DeleteSubtree(id uint) (deletedIDs []uint, postCount int64, err error)
	Ancestors(category *models.Category) ([]models.Category, error)
	Descendants(category *models.Category) ([]models.Category, error)
	Children(id uint) ([]models.Category, error)
	Root(category *models.Category) (*models.Category, error)
	SubtreeIDs(category *models.Category) ([]uint, error)
	Tree() ([]*CategoryNode, error)
	FlatTree() ([]models.Category, error)
	CountBySlug(slug string, excludeID *uint) (int64, error)
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// List 全部分类，按层级与名称排序
func (r *GormCategoryRepository) List() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("level ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	sortCategories(categories)
	return categories, nil
}

// GetByID 根据 ID 获取分类
func (r *GormCategoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// GetBySlug 根据 slug 获取分类
func (r *GormCategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// Create 创建分类并写入物化路径
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		parentPath, level := "/", 0
		if category.ParentID != nil {
			parent, err := loadCategory(tx, *category.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return ErrParentMissing
			}
			parentPath, level = parent.TreePath, parent.Level+1
		}

		if err := tx.Omit(clause.Associations).Create(category).Error; err != nil {
			return err
		}

		category.TreePath = models.ChildPath(parentPath, category.ID)
		category.Level = level
		return tx.Model(&models.Category{}).Where("id = ?", category.ID).UpdateColumns(map[string]interface{}{
			"tree_path": category.TreePath,
			"level":     category.Level,
		}).Error
	})
}

// Update 更新分类基础字段（不改变层级）
func (r *GormCategoryRepository) Update(category *models.Category) error {
	return updateCategoryFields(r.db, category)
}

// Move 调整父分类，并在同一事务中重写整棵子树的路径与深度
func (r *GormCategoryRepository) Move(category *models.Category, parentID *uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return moveCategory(tx, category, parentID)
	})
}

// UpdateAndMove 基础字段与层级调整在同一事务内完成，任一失败整体回滚
func (r *GormCategoryRepository) UpdateAndMove(category *models.Category, parentID *uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := updateCategoryFields(tx, category); err != nil {
			return err
		}
		return moveCategory(tx, category, parentID)
	})
}

func updateCategoryFields(db *gorm.DB, category *models.Category) error {
	return db.Model(category).Select("title", "slug", "description", "updated_at").Updates(category).Error
}

func moveCategory(tx *gorm.DB, category *models.Category, parentID *uint) error {
	current, err := loadCategory(tx, category.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return gorm.ErrRecordNotFound
	}

	parentPath, level := "/", 0
	if parentID != nil {
		if *parentID == current.ID {
			return ErrTreeCycle
		}
		parent, err := loadCategory(tx, *parentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return ErrParentMissing
		}
		if strings.HasPrefix(parent.TreePath, current.TreePath) {
			return ErrTreeCycle
		}
		parentPath, level = parent.TreePath, parent.Level+1
	}

	oldPath := current.TreePath
	newPath := models.ChildPath(parentPath, current.ID)
	delta := level - current.Level

	var parentValue interface{} = gorm.Expr("NULL")
	if parentID != nil {
		parentValue = *parentID
	}
	if err := tx.Model(&models.Category{}).Where("id = ?", current.ID).UpdateColumns(map[string]interface{}{
		"parent_id": parentValue,
		"tree_path": newPath,
		"level":     level,
	}).Error; err != nil {
		return err
	}

	var descendants []models.Category
	if err := whereSubtree(tx.Select("id", "tree_path", "level"), current).
		Where("id <> ?", current.ID).
		Find(&descendants).Error; err != nil {
		return err
	}
	for _, d := range descendants {
		rewritten := newPath + strings.TrimPrefix(d.TreePath, oldPath)
		if err := tx.Model(&models.Category{}).Where("id = ?", d.ID).UpdateColumns(map[string]interface{}{
			"tree_path": rewritten,
			"level":     d.Level + delta,
		}).Error; err != nil {
			return fmt.Errorf("rewrite descendant %d path: %w", d.ID, err)
		}
	}

	category.ParentID = parentID
	category.TreePath = newPath
	category.Level = level
	return nil
}

// DeleteSubtree 删除分类及其全部后代
// 子树内存在文章引用时不做任何修改，返回引用数量。
func (r *GormCategoryRepository) DeleteSubtree(id uint) ([]uint, int64, error) {
	var deleted []uint
	var postCount int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		current, err := loadCategory(tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return gorm.ErrRecordNotFound
		}

		var ids []uint
		if err := whereSubtree(tx.Model(&models.Category{}), current).
			Pluck("id", &ids).Error; err != nil {
			return fmt.Errorf("collect subtree ids: %w", err)
		}

		if err := tx.Model(&models.Post{}).Where("category_id IN ?", ids).Count(&postCount).Error; err != nil {
			return fmt.Errorf("count subtree posts: %w", err)
		}
		if postCount > 0 {
			return nil
		}

		if err := tx.Where("id IN ?", ids).Delete(&models.Category{}).Error; err != nil {
			return fmt.Errorf("delete subtree: %w", err)
		}
		deleted = ids
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return deleted, postCount, nil
}

// Ancestors 祖先分类（由根到父）
func (r *GormCategoryRepository) Ancestors(category *models.Category) ([]models.Category, error) {
	ids := category.AncestorIDs()
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	var ancestors []models.Category
	if err := r.db.Where("id IN ?", ids).Order("level ASC").Find(&ancestors).Error; err != nil {
		return nil, err
	}
	return ancestors, nil
}

// Descendants 全部后代分类（不含自身）
func (r *GormCategoryRepository) Descendants(category *models.Category) ([]models.Category, error) {
	var descendants []models.Category
	if err := whereSubtree(r.db, category).Where("id <> ?", category.ID).
		Order("level ASC, id ASC").
		Find(&descendants).Error; err != nil {
		return nil, err
	}
	sortCategories(descendants)
	return descendants, nil
}

// Children 直接子分类，按名称排序
func (r *GormCategoryRepository) Children(id uint) ([]models.Category, error) {
	var children []models.Category
	if err := r.db.Where("parent_id = ?", id).Find(&children).Error; err != nil {
		return nil, err
	}
	sortCategories(children)
	return children, nil
}

// Root 所在树的根分类
func (r *GormCategoryRepository) Root(category *models.Category) (*models.Category, error) {
	rootID := category.RootID()
	if rootID == category.ID {
		return category, nil
	}
	return r.GetByID(rootID)
}

// SubtreeIDs 自身及全部后代的 ID
func (r *GormCategoryRepository) SubtreeIDs(category *models.Category) ([]uint, error) {
	var ids []uint
	if err := whereSubtree(r.db.Model(&models.Category{}), category).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Tree 整个分类森林，子节点按名称排序
func (r *GormCategoryRepository) Tree() ([]*CategoryNode, error) {
	flat, err := r.List()
	if err != nil {
		return nil, err
	}
	return buildTree(flat), nil
}

// FlatTree 深度优先展开的分类列表，Level 可用于缩进展示
func (r *GormCategoryRepository) FlatTree() ([]models.Category, error) {
	tree, err := r.Tree()
	if err != nil {
		return nil, err
	}
	result := make([]models.Category, 0)
	flattenTree(tree, &result)
	return result, nil
}

// CountBySlug 统计 slug 数量
func (r *GormCategoryRepository) CountBySlug(slug string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Category{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// whereSubtree 以路径前缀匹配自身及后代，路径缺失时只匹配自身
func whereSubtree(query *gorm.DB, category *models.Category) *gorm.DB {
	if category.TreePath == "" {
		return query.Where("id = ?", category.ID)
	}
	return query.Where("tree_path LIKE ?", category.TreePath+"%")
}

func loadCategory(tx *gorm.DB, id uint) (*models.Category, error) {
	var category models.Category
	if err := tx.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// buildTree 由扁平列表构建森林，孤立节点（父节点缺失）视为根
func buildTree(flat []models.Category) []*CategoryNode {
	nodes := make(map[uint]*CategoryNode, len(flat))
	for i := range flat {
		nodes[flat[i].ID] = &CategoryNode{Category: flat[i], Children: []*CategoryNode{}}
	}

	roots := make([]*CategoryNode, 0)
	for i := range flat {
		node := nodes[flat[i].ID]
		if flat[i].ParentID != nil {
			if parent, ok := nodes[*flat[i].ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*CategoryNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return lessCategory(nodes[i].Category, nodes[j].Category)
	})
	for _, node := range nodes {
		sortNodes(node.Children)
	}
}

func flattenTree(nodes []*CategoryNode, result *[]models.Category) {
	for _, node := range nodes {
		*result = append(*result, node.Category)
		flattenTree(node.Children, result)
	}
}

func sortCategories(categories []models.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Level != categories[j].Level {
			return categories[i].Level < categories[j].Level
		}
		return lessCategory(categories[i], categories[j])
	})
}

// lessCategory 同级排序：名称忽略大小写，其次 ID
func lessCategory(a, b models.Category) bool {
	ta, tb := strings.ToLower(a.Title), strings.ToLower(b.Title)
	if ta != tb {
		return ta < tb
	}
	return a.ID < b.ID
}
