package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"roomstay/constants"
)

// Room là model phòng, mỗi phòng sở hữu danh sách tiện ích riêng.
// Image và PDF chỉ lưu tên file, đường dẫn đầy đủ được tính khi trả response.
type Room struct {
	ID          string         `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string         `json:"title" gorm:"uniqueIndex;not null"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	PDF         string         `json:"pdf"`
	Facilities  []RoomFacility `json:"facilities" gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   *time.Time     `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

// RoomFacility là model tiện ích thuộc về đúng một phòng
type RoomFacility struct {
	ID           string     `json:"id" gorm:"type:uuid;primaryKey"`
	FacilityName string     `json:"facilityName" gorm:"index"`
	RoomID       string     `json:"roomId" gorm:"type:uuid;index"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return nil
}

func (f *RoomFacility) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	return nil
}

// Touch đánh dấu phòng vừa bị thay đổi. Gọi tường minh trong mọi
// đường ghi của service. autoUpdateTime phải tắt trong tag vì GORM
// mặc định tự gán field tên UpdatedAt ngay từ Create, trong khi
// updatedAt phải là null cho tới lần sửa đầu tiên.
func (r *Room) Touch() {
	now := time.Now()
	r.UpdatedAt = &now
}

// FacilityNames trả về danh sách tên tiện ích của phòng
func (r *Room) FacilityNames() []string {
	names := make([]string, 0, len(r.Facilities))
	for _, f := range r.Facilities {
		names = append(names, f.FacilityName)
	}
	return names
}

// FacilitiesCount trả về số tiện ích của phòng
func (r *Room) FacilitiesCount() int {
	return len(r.Facilities)
}

// CreatedAtStr trả về ngày tạo theo định dạng hiển thị
func (r *Room) CreatedAtStr() string {
	return r.CreatedAt.Format(constants.DateOutputFormat)
}

// UpdatedAtStr trả về ngày sửa cuối, nil nếu phòng chưa từng bị sửa
func (r *Room) UpdatedAtStr() *string {
	if r.UpdatedAt == nil {
		return nil
	}
	s := r.UpdatedAt.Format(constants.DateOutputFormat)
	return &s
}
