package repository

import "errors"

var (
	// ErrTreeCycle 移动分类时目标父节点位于自身子树内
	ErrTreeCycle = errors.New("category cannot be moved under itself or its descendants")
	// ErrParentMissing 父分类不存在
	ErrParentMissing = errors.New("parent category not found")
)
