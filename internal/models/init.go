package models

import (
	"errors"
	"fmt"

	"github.com/inkpost/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultAuthorOptions 默认作者初始化参数
type DefaultAuthorOptions struct {
	ID       uint
	Username string
	Password string
}

// InitDefaultAuthor 确保默认作者账号存在，并让数据库的作者回落指向该账号
// 文章作者被删除时会回落到该账号，因此其 ID 必须与配置一致。
func InitDefaultAuthor(db *gorm.DB, opts DefaultAuthorOptions) error {
	if opts.ID == 0 {
		opts.ID = 1
	}
	if err := ensureDefaultAuthor(db, opts); err != nil {
		return err
	}
	return SyncAuthorFallback(db, opts.ID)
}

// SyncAuthorFallback 使 blog_post.author_id 的删除回落与配置的默认作者一致
// PostgreSQL 直接修改列默认值；SQLite 不支持修改默认值，改用删除前触发器转移文章。
func SyncAuthorFallback(db *gorm.DB, authorID uint) error {
	statements := authorFallbackStatements(db.Dialector.Name(), authorID)
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("sync author fallback: %w", err)
		}
	}
	return nil
}

func authorFallbackStatements(dialect string, authorID uint) []string {
	post, user := Post{}.TableName(), User{}.TableName()
	switch dialect {
	case "postgres":
		return []string{
			fmt.Sprintf("ALTER TABLE %s ALTER COLUMN author_id SET DEFAULT %d", post, authorID),
		}
	case "sqlite":
		return []string{
			"DROP TRIGGER IF EXISTS trg_blog_post_author_fallback",
			fmt.Sprintf(`CREATE TRIGGER trg_blog_post_author_fallback BEFORE DELETE ON %s
FOR EACH ROW WHEN OLD.id <> %d
BEGIN
	UPDATE %s SET author_id = %d WHERE author_id = OLD.id;
END`, user, authorID, post, authorID),
		}
	default:
		return nil
	}
}

func ensureDefaultAuthor(db *gorm.DB, opts DefaultAuthorOptions) error {
	var existing User
	err := db.First(&existing, opts.ID).Error
	if err == nil {
		if !existing.IsSuper {
			if err := db.Model(&existing).Update("is_super", true).Error; err != nil {
				logger.Warnw("ensure_default_author_super_failed", "user_id", opts.ID, "error", err)
			}
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	username := opts.Username
	if username == "" {
		username = "admin"
	}
	password := opts.Password
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	author := User{
		ID:           opts.ID,
		Username:     username,
		DisplayName:  username,
		PasswordHash: string(hash),
		IsSuper:      true,
	}
	if err := db.Create(&author).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_author_created_with_default_password", "user_id", author.ID, "username", username)
	} else {
		logger.Warnw("default_author_created", "user_id", author.ID, "username", username, "password_hidden", true)
	}
	return nil
}
