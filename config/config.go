package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"roomstay/constants"
)

// LoadEnv nạp biến môi trường từ tệp `.env`
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvDefault lấy biến môi trường, trả về fallback nếu chưa set
func GetEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// AppURL là base URL dùng để resolve đường dẫn file tĩnh trong response
func AppURL() string {
	return GetEnvDefault("APP_URL", "http://localhost:8080")
}

// StaticDir là thư mục gốc chứa file tĩnh
func StaticDir() string {
	return GetEnvDefault("STATIC_DIR", "static")
}

// ImageDirPath là thư mục chứa ảnh upload
func ImageDirPath() string {
	return filepath.Join(StaticDir(), constants.ImageDir)
}

// PDFDirPath là thư mục chứa PDF đã sinh
func PDFDirPath() string {
	return filepath.Join(StaticDir(), constants.PDFDir)
}

// EnsureStaticDirs tạo các thư mục file tĩnh nếu chưa tồn tại
func EnsureStaticDirs() error {
	for _, dir := range []string{ImageDirPath(), PDFDirPath()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
