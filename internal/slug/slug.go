// Package slug 生成 URL 友好且唯一的 slug
package slug

import (
	"strconv"
	"strings"

	"github.com/inkpost/internal/constants"

	gslug "github.com/gosimple/slug"
)

// ExistsFunc 判断 slug 是否已被其他记录占用
type ExistsFunc func(candidate string) (bool, error)

// Make 将任意文本转为小写、音译、连字符分隔的 slug
func Make(s string) string {
	return truncate(gslug.Make(strings.TrimSpace(s)), constants.SlugMaxLength)
}

// Base 计算 slug 基础值：显式值优先，否则取标题，均为空时回退为 fallback
func Base(title, explicit, fallback string, maxLen int) string {
	base := ""
	if strings.TrimSpace(explicit) != "" {
		base = gslug.Make(explicit)
	}
	if base == "" {
		base = gslug.Make(title)
	}
	if base == "" {
		base = gslug.Make(fallback)
	}
	if base == "" {
		base = constants.EntityPost
	}
	return truncate(base, maxLen)
}

// Unique 生成唯一 slug，冲突时依次尝试 base-2、base-3 ...
// 追加后缀时会截断 base 以保证总长度不超过 maxLen。
func Unique(title, explicit, fallback string, maxLen int, exists ExistsFunc) (string, error) {
	if maxLen <= 0 {
		maxLen = constants.SlugMaxLength
	}
	base := Base(title, explicit, fallback, maxLen)
	taken, err := exists(base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	for n := 2; ; n++ {
		suffix := "-" + strconv.Itoa(n)
		candidate := truncate(base, maxLen-len(suffix)) + suffix
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

// IsValid 判断是否为合法 slug（小写字母、数字、连字符）
func IsValid(s string) bool {
	return s != "" && gslug.IsSlug(s)
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return strings.TrimRight(string(runes[:maxLen]), "-")
}
