package admin

import (
	"strings"

	handlershared "github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
)

// GetUsers 用户列表
func (h *Handler) GetUsers(c *gin.Context) {
	page, pageSize := handlershared.PaginationFromQuery(c, h.Config.Blog.PageSize)
	users, total, err := h.UserService.List(strings.TrimSpace(c.Query("keyword")), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	service.CreateUserInput
	Roles []string `json:"roles"`
}

// CreateUser 创建后台用户并分配角色
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.UserService.Create(req.CreateUserInput)
	if err != nil {
		respondServiceError(c, err, "error.user_not_found", "error.save_failed")
		return
	}
	if len(req.Roles) > 0 {
		if err := h.AuthzService.SetUserRoles(user.ID, req.Roles); err != nil {
			respondError(c, response.CodeBadRequest, "error.role_invalid", err)
			return
		}
	}
	response.Success(c, user)
}

// DeleteUser 删除用户，其文章转给默认作者
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.UserService.Delete(id); err != nil {
		respondServiceError(c, err, "error.user_not_found", "error.delete_failed")
		return
	}
	if err := h.AuthzService.SetUserRoles(id, nil); err != nil {
		requestLog(c).Warnw("admin_user_roles_cleanup_failed", "user_id", id, "error", err)
	}
	response.Success(c, nil)
}

// GetRoles 角色列表及其策略
func (h *Handler) GetRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	result := make([]gin.H, 0, len(roles))
	for _, role := range roles {
		policies, err := h.AuthzService.GetRolePolicies(role)
		if err != nil {
			respondError(c, response.CodeInternal, "error.internal", err)
			return
		}
		result = append(result, gin.H{"role": role, "policies": policies})
	}
	response.Success(c, result)
}

// SetUserRolesRequest 设置角色请求
type SetUserRolesRequest struct {
	Roles []string `json:"roles"`
}

// SetUserRoles 覆盖设置用户角色
func (h *Handler) SetUserRoles(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req SetUserRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if _, err := h.UserService.Get(id); err != nil {
		respondServiceError(c, err, "error.user_not_found", "error.user_fetch_failed")
		return
	}
	if err := h.AuthzService.SetUserRoles(id, req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "error.role_invalid", err)
		return
	}
	roles, err := h.AuthzService.GetUserRoles(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"user_id": id, "roles": roles})
}
