package authz

import (
	"fmt"

	"github.com/inkpost/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 预置角色：reader 只读，author 可写文章，editor 额外管理分类
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleReader,
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
		},
		{
			Role:     constants.RoleAuthor,
			Inherits: []string{constants.RoleReader},
			Policies: []Policy{
				{Object: "/admin/posts", Action: "POST"},
				{Object: "/admin/posts/:id", Action: "PUT"},
				{Object: "/admin/slugify", Action: "POST"},
				{Object: "/admin/upload/thumbnail", Action: "POST"},
				{Object: "/admin/password", Action: "PUT"},
			},
		},
		{
			Role:     constants.RoleEditor,
			Inherits: []string{constants.RoleAuthor},
			Policies: []Policy{
				{Object: "/admin/posts/:id", Action: "*"},
				{Object: "/admin/categories", Action: "*"},
				{Object: "/admin/categories/:id", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if !s.available() {
		return errUnavailable
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
