package utils

import (
	"time"
)

// ConvertStringToDatetime parse chuỗi thời gian trong file seed, thử
// định dạng có micro giây trước rồi fallback về định dạng thiếu
func ConvertStringToDatetime(dateString string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05.999999", dateString)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", dateString)
}
