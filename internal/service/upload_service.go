package service

import (
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/queue"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
)

// UploadService 缩略图上传服务
type UploadService struct {
	cfg *config.Config
	now func() time.Time
}

// NewUploadService 创建文件上传服务实例
func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{cfg: cfg, now: time.Now}
}

// MediaRoot 媒体文件根目录
func (s *UploadService) MediaRoot() string {
	root := strings.TrimSpace(s.cfg.Upload.MediaRoot)
	if root == "" {
		return "./media"
	}
	return root
}

// SaveThumbnail 保存上传的缩略图，返回相对媒体根目录的路径
// 路径格式：images/thumbnails/YYYY/MM/DD/<uuid>.<ext>
func (s *UploadService) SaveThumbnail(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", ErrInvalidThumbnail
	}
	if s.cfg.Upload.MaxSize > 0 && file.Size > s.cfg.Upload.MaxSize {
		return "", fmt.Errorf("%w (max %d MB)", ErrUploadTooLarge, s.cfg.Upload.MaxSize/1024/1024)
	}

	if err := ValidateThumbnailName(file.Filename, s.cfg.Upload.AllowedExtensions); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// 读取文件头部识别 MIME 类型
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	contentType := http.DetectContentType(buffer[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrInvalidThumbnail
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	if _, _, err := image.DecodeConfig(src); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidThumbnail, err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	now := s.now()
	relPath := path.Join(
		constants.ThumbnailUploadDir,
		now.Format("2006"),
		now.Format("01"),
		now.Format("02"),
		uuid.New().String()+ext,
	)
	savePath := filepath.Join(s.MediaRoot(), filepath.FromSlash(relPath))

	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(savePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	logger.Infow("thumbnail_saved", "path", relPath, "size", file.Size)
	return relPath, nil
}

// RemoveThumbnail 删除缩略图文件，默认图与媒体目录之外的路径会被忽略
func (s *UploadService) RemoveThumbnail(relPath string) error {
	cleaned := path.Clean("/" + strings.TrimSpace(filepath.ToSlash(relPath)))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || cleaned == s.DefaultThumbnail() {
		return nil
	}
	if !strings.HasPrefix(cleaned, constants.ThumbnailUploadDir+"/") {
		logger.Warnw("thumbnail_cleanup_skipped", "path", relPath, "reason", "outside_thumbnail_dir")
		return nil
	}
	full := filepath.Join(s.MediaRoot(), filepath.FromSlash(cleaned))
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// DefaultThumbnail 默认缩略图
func (s *UploadService) DefaultThumbnail() string {
	if name := strings.TrimSpace(s.cfg.Upload.DefaultThumbnail); name != "" {
		return name
	}
	return constants.DefaultThumbnail
}

// ValidateThumbnailName 校验缩略图扩展名
// allowed 只能收窄固定集合，集合外的配置项被忽略。
func ValidateThumbnailName(name string, allowed []string) error {
	extensions := ThumbnailExtensions(allowed)
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(name)))
	if ext == "" || !isAllowedExtension(ext, extensions) {
		return fmt.Errorf("%w: must be one of %s", ErrInvalidThumbnail, strings.Join(extensions, ", "))
	}
	return nil
}

// ThumbnailExtensions 配置与固定集合的交集，交集为空时使用固定集合
func ThumbnailExtensions(configured []string) []string {
	narrowed := make([]string, 0, len(constants.ThumbnailExtensions))
	for _, ext := range constants.ThumbnailExtensions {
		if isAllowedExtension("."+ext, configured) {
			narrowed = append(narrowed, ext)
		}
	}
	if len(narrowed) == 0 {
		return constants.ThumbnailExtensions
	}
	return narrowed
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

// EnqueueThumbnailCleanup 队列未启用时同步清理缩略图
func (s *UploadService) EnqueueThumbnailCleanup(payload queue.ThumbnailCleanupPayload, _ time.Duration) error {
	return s.RemoveThumbnail(payload.Path)
}
