package repository

import "gorm.io/gorm"

// paginate 分页 scope，pageSize <= 0 表示不分页，页码小于 1 按第 1 页处理
func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}
