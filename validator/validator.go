package validator

import (
	"mime/multipart"
	"strings"

	"roomstay/errors"
)

// ValidateRoomCreate validate form tạo phòng: title, description và
// file ảnh đều bắt buộc
func ValidateRoomCreate(title, description string, image *multipart.FileHeader) *errors.AppError {
	if strings.TrimSpace(title) == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Tiêu đề không được để trống", nil)
	}

	if strings.TrimSpace(description) == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Mô tả không được để trống", nil)
	}

	if image == nil || image.Filename == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Ảnh phòng không được để trống", nil)
	}

	return ValidateImage(image)
}

// ValidateRoomUpdate validate form cập nhật phòng. Field chuỗi rỗng
// hợp lệ (giữ nguyên giá trị cũ), ảnh là tùy chọn nhưng nếu gửi lên
// thì phải là ảnh hợp lệ.
func ValidateRoomUpdate(image *multipart.FileHeader) *errors.AppError {
	if image != nil && image.Filename != "" {
		return ValidateImage(image)
	}
	return nil
}

// ValidateImage kiểm tra file upload có content type ảnh
func ValidateImage(image *multipart.FileHeader) *errors.AppError {
	contentType := image.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return errors.NewAppError(errors.ErrCodeInvalidFormat, "File upload phải là ảnh", nil)
	}
	return nil
}
