package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

const (
	// MaxUploadSize 单个文件的大小上限。
	MaxUploadSize int64 = 10 << 20

	sniffLength   = 3072
	maxBaseLength = 60
)

var (
	allowedUploadTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}
	unsafeNameChars    = regexp.MustCompile(`[^A-Za-z0-9_-]`)
)

const (
	reasonNoFile     = "No file provided"
	reasonWrongType  = "Only JPEG, PNG, and WebP images are allowed"
	reasonTooLarge   = "File size must be under 10 MB"
	reasonBadContent = "File content is not a JPEG, PNG, or WebP image"

	uploadDirPerm     = 0o755
	defaultUploadStem = "image"
)

// UploadResult 描述已保存的图片。宽高在无法解析时为 0。
type UploadResult struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// UploadService 把图片写入公开静态目录，不修改任何资源记录。
type UploadService struct {
	dir     string
	staging string
	urlPath string
	now     func() time.Time
}

// NewUploadService 构造 UploadService，urlPath 为对外访问前缀，例如 /uploads。
func NewUploadService(dir, urlPath string) *UploadService {
	return &UploadService{
		dir:     dir,
		staging: stagingDir(dir),
		urlPath: "/" + strings.Trim(urlPath, "/"),
		now:     time.Now,
	}
}

// Store 校验并保存一个上传文件。declaredType 为客户端声明的 Content-Type，size 为声明的大小。
func (s *UploadService) Store(filename, declaredType string, size int64, r io.Reader) (UploadResult, error) {
	if r == nil || strings.TrimSpace(filename) == "" {
		return UploadResult{}, rejectUpload(reasonNoFile)
	}
	if !allowedType(declaredType) {
		return UploadResult{}, rejectUpload(reasonWrongType)
	}
	if size > MaxUploadSize {
		return UploadResult{}, rejectUpload(reasonTooLarge)
	}

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return UploadResult{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return UploadResult{}, rejectUpload(reasonNoFile)
	}

	detected := mimetype.Detect(head)
	if !allowedType(detected.String()) {
		return UploadResult{}, rejectUpload(reasonBadContent)
	}

	if err := os.MkdirAll(s.dir, uploadDirPerm); err != nil {
		return UploadResult{}, fmt.Errorf("create upload dir: %w", err)
	}

	name := s.filename(filename, detected)
	// 写入过程中的文件放在公开目录之外，完成后再 rename 进去
	if err := os.MkdirAll(s.staging, uploadDirPerm); err != nil {
		return UploadResult{}, fmt.Errorf("create staging dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.staging, "upload-*")
	if err != nil {
		return UploadResult{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	body := io.MultiReader(bytes.NewReader(head), r)
	written, copyErr := io.Copy(tmp, io.LimitReader(body, MaxUploadSize+1))
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		if copyErr != nil {
			return UploadResult{}, fmt.Errorf("write upload: %w", copyErr)
		}
		return UploadResult{}, fmt.Errorf("close upload: %w", closeErr)
	}
	if written > MaxUploadSize {
		os.Remove(tmpPath)
		return UploadResult{}, rejectUpload(reasonTooLarge)
	}

	target := filepath.Join(s.dir, name)
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return UploadResult{}, fmt.Errorf("move upload: %w", err)
	}
	if err := os.Chmod(target, 0o644); err != nil {
		return UploadResult{}, fmt.Errorf("chmod upload: %w", err)
	}

	result := UploadResult{URL: path.Join(s.urlPath, name)}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(head)); err == nil {
		result.Width, result.Height = cfg.Width, cfg.Height
	} else if f, err := os.Open(target); err == nil {
		if cfg, _, err := image.DecodeConfig(f); err == nil {
			result.Width, result.Height = cfg.Width, cfg.Height
		}
		f.Close()
	}
	return result, nil
}

// stagingDir 返回与上传目录同级的暂存目录，例如 public/uploads -> public/.uploads-staging。
// 同级目录与上传目录位于同一文件系统，rename 不会跨设备。
func stagingDir(dir string) string {
	cleaned := filepath.Clean(dir)
	base := filepath.Base(cleaned)
	if base == "." || base == string(filepath.Separator) {
		base = "uploads"
	}
	return filepath.Join(filepath.Dir(cleaned), "."+base+"-staging")
}

// filename 生成 <纳秒时间戳>-<清洗后的文件名>.<扩展名>。
func (s *UploadService) filename(original string, detected *mimetype.MIME) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	stem = unsafeNameChars.ReplaceAllString(stem, "-")
	if len(stem) > maxBaseLength {
		stem = stem[:maxBaseLength]
	}
	if strings.Trim(stem, "-_") == "" {
		stem = defaultUploadStem
	}

	if len(ext) < 2 || unsafeNameChars.MatchString(ext[1:]) {
		ext = detected.Extension()
	}
	return fmt.Sprintf("%d-%s%s", s.now().UnixNano(), stem, ext)
}

func allowedType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return slices.Contains(allowedUploadTypes, strings.ToLower(mediaType))
}
