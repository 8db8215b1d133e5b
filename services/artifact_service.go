package services

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/google/uuid"

	"roomstay/errors"
	"roomstay/services/logger"
)

// ArtifactService quản lý file trong một thư mục: ảnh upload hoặc PDF
// đã sinh. Tên file luôn được prefix bằng token ngẫu nhiên nên không
// cần khóa chống ghi trùng tên.
type ArtifactService struct {
	dir    string
	logger logger.Logger
}

func NewArtifactService(dir string, l logger.Logger) *ArtifactService {
	if l == nil {
		l = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &ArtifactService{dir: dir, logger: l}
}

// Dir trả về thư mục chứa file của service
func (s *ArtifactService) Dir() string {
	return s.dir
}

// Path trả về đường dẫn trên đĩa của một file theo tên
func (s *ArtifactService) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// SaveUpload lưu file multipart vào thư mục, trả về tên file đã sinh.
// Tên gốc được chuyển về ASCII và làm sạch trước khi ghép với token.
func (s *ArtifactService) SaveUpload(file *multipart.FileHeader) (string, error) {
	if file == nil || file.Filename == "" {
		return "", errors.NewAppError(errors.ErrCodeRequiredField, "Thiếu file upload", errors.ErrEmptyFilename)
	}

	name := newArtifactToken() + "_" + SanitizeFilename(file.Filename)

	src, err := file.Open()
	if err != nil {
		return "", errors.NewAppError(errors.ErrCodeFileError, "Không mở được file upload", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", errors.NewAppError(errors.ErrCodeFileError, "Không tạo được thư mục lưu file", err)
	}

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", errors.NewAppError(errors.ErrCodeFileError, "Không tạo được file", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		// Xóa file ghi dở để không để lại rác
		os.Remove(filepath.Join(s.dir, name))
		return "", errors.NewAppError(errors.ErrCodeFileError, "Không ghi được file", err)
	}

	s.logger.Info("Đã lưu file %s", name)
	return name, nil
}

// Delete xóa một file theo tên
func (s *ArtifactService) Delete(name string) error {
	if name == "" {
		return errors.ErrEmptyFilename
	}
	return os.Remove(filepath.Join(s.dir, name))
}

// SafeDelete xóa file best-effort: lỗi chỉ được log, không trả ra
// ngoài để không che mất lỗi gốc của luồng gọi
func (s *ArtifactService) SafeDelete(name string) {
	if name == "" {
		return
	}
	if err := s.Delete(name); err != nil && !os.IsNotExist(err) {
		s.logger.Error("Không xóa được file %s: %v", name, err)
	}
}

// Exists kiểm tra file có tồn tại trong thư mục không
func (s *ArtifactService) Exists(name string) bool {
	if name == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}

func newArtifactToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// SanitizeFilename chuyển tên file về ASCII và loại ký tự không an toàn
func SanitizeFilename(name string) string {
	if name == "" {
		return "file"
	}
	name = filepath.Base(name)
	name = unidecode.Unidecode(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
