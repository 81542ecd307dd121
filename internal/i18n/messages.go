package i18n

var catalog = map[string]map[string]string{
	LocaleEnUS: {
		"error.bad_request":               "Invalid request",
		"error.validation_failed":         "Validation failed",
		"error.unauthorized":              "Unauthorized",
		"error.forbidden":                 "Permission denied",
		"error.not_found":                 "Resource not found",
		"error.internal":                  "Internal server error",
		"error.id_invalid":                "Invalid id",
		"error.jwt_secret_missing":        "JWT secret is not configured",
		"error.auth_header_missing":       "Authorization header is missing",
		"error.auth_header_invalid":       "Authorization header must be Bearer token",
		"error.token_invalid":             "Token is invalid or expired",
		"error.token_revoked":             "Token has been revoked, please sign in again",
		"error.login_too_many":            "Too many login attempts, try again in %d seconds",
		"error.login_invalid":             "Invalid username or password",
		"error.login_failed":              "Login failed",
		"error.password_old_invalid":      "Old password is incorrect",
		"error.password_weak":             "Password does not satisfy the policy",
		"error.save_failed":               "Save failed",
		"error.delete_failed":             "Delete failed",
		"error.post_not_found":            "Post not found",
		"error.post_fetch_failed":         "Failed to load posts",
		"error.post_status_invalid":       "Status must be published or draft",
		"error.thumbnail_invalid":         "Thumbnail must be a png, jpg, jpeg or gif image",
		"error.author_not_found":          "Author not found",
		"error.category_not_found":        "Category not found",
		"error.category_fetch_failed":     "Failed to load categories",
		"error.category_in_use":           "Category or one of its subcategories still has posts",
		"error.category_cycle":            "A category cannot be moved under itself or its descendants",
		"error.category_parent_not_found": "Parent category not found",
		"error.user_not_found":            "User not found",
		"error.user_fetch_failed":         "Failed to load users",
		"error.username_exists":           "Username already exists",
		"error.default_author_protected":  "The default author cannot be deleted",
		"error.entity_not_configured":     "Entity is not configured for the admin",
		"error.role_invalid":              "Invalid role",
		"error.file_missing":              "File is required",
		"error.upload_failed":             "Upload failed",
		"error.upload_too_large":          "File exceeds the size limit",
		"error.rate_limited":              "Too many requests, try again in %d seconds",
		"error.rate_limit_unavailable":    "Rate limiter is unavailable",
	},
	LocaleZhCN: {
		"error.bad_request":               "请求参数错误",
		"error.validation_failed":         "参数校验失败",
		"error.unauthorized":              "未授权",
		"error.forbidden":                 "无权限访问",
		"error.not_found":                 "资源不存在",
		"error.internal":                  "服务器内部错误",
		"error.id_invalid":                "ID 无效",
		"error.jwt_secret_missing":        "JWT 密钥未配置",
		"error.auth_header_missing":       "缺少认证信息",
		"error.auth_header_invalid":       "认证格式错误",
		"error.token_invalid":             "Token 无效或已过期",
		"error.token_revoked":             "Token 已失效，请重新登录",
		"error.login_too_many":            "登录尝试过多，请 %d 秒后重试",
		"error.login_invalid":             "用户名或密码错误",
		"error.login_failed":              "登录失败",
		"error.password_old_invalid":      "旧密码错误",
		"error.password_weak":             "密码不符合安全策略",
		"error.save_failed":               "保存失败",
		"error.delete_failed":             "删除失败",
		"error.post_not_found":            "文章不存在",
		"error.post_fetch_failed":         "获取文章失败",
		"error.post_status_invalid":       "状态只能是 published 或 draft",
		"error.thumbnail_invalid":         "缩略图仅支持 png、jpg、jpeg、gif",
		"error.author_not_found":          "作者不存在",
		"error.category_not_found":        "分类不存在",
		"error.category_fetch_failed":     "获取分类失败",
		"error.category_in_use":           "该分类或其子分类下仍有文章",
		"error.category_cycle":            "不能将分类移动到自身或其子分类下",
		"error.category_parent_not_found": "父分类不存在",
		"error.user_not_found":            "用户不存在",
		"error.user_fetch_failed":         "获取用户失败",
		"error.username_exists":           "用户名已存在",
		"error.default_author_protected":  "默认作者不可删除",
		"error.entity_not_configured":     "该实体未配置后台",
		"error.role_invalid":              "角色无效",
		"error.file_missing":              "请选择文件",
		"error.upload_failed":             "上传失败",
		"error.upload_too_large":          "文件超过大小限制",
		"error.rate_limited":              "请求过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable":    "限流服务不可用",
	},
}
