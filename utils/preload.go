package utils

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"gorm.io/gorm"

	"roomstay/models"
)

const dummyDataPath = "data/dummy_rooms.json"

type seedRoom struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Facilities  []string `json:"facilities"`
}

// PreloadRooms nạp dữ liệu mẫu vào DB lúc khởi động. Phòng đã tồn
// tại (theo title) được bỏ qua. Lỗi seed chỉ log, không làm app chết.
func PreloadRooms(db *gorm.DB) {
	raw, err := os.ReadFile(dummyDataPath)
	if err != nil {
		log.Printf("Không đọc được file dữ liệu mẫu: %v", err)
		return
	}

	var seeds []seedRoom
	if err := json.Unmarshal(raw, &seeds); err != nil {
		log.Printf("File dữ liệu mẫu không phải JSON hợp lệ: %v", err)
		return
	}

	for _, seed := range seeds {
		if seed.Title == "" {
			log.Println("Bỏ qua bản ghi seed thiếu title")
			continue
		}

		var count int64
		if err := db.Model(&models.Room{}).Where("title = ?", seed.Title).Count(&count).Error; err != nil {
			log.Printf("Lỗi khi kiểm tra phòng seed '%s': %v", seed.Title, err)
			continue
		}
		if count > 0 {
			continue
		}

		if err := insertSeedRoom(db, seed); err != nil {
			log.Printf("Lỗi khi seed phòng '%s': %v", seed.Title, err)
		}
	}
}

func insertSeedRoom(db *gorm.DB, seed seedRoom) error {
	room := models.Room{
		Title:       seed.Title,
		Description: seed.Description,
		Image:       seed.Image,
	}

	if seed.CreatedAt != "" {
		if t, err := ConvertStringToDatetime(seed.CreatedAt); err == nil {
			room.CreatedAt = t
		}
	}
	if seed.UpdatedAt != "" {
		if t, err := ConvertStringToDatetime(seed.UpdatedAt); err == nil {
			room.UpdatedAt = &t
		}
	}

	now := time.Now()
	for _, name := range seed.Facilities {
		if name == "" {
			continue
		}
		room.Facilities = append(room.Facilities, models.RoomFacility{
			FacilityName: name,
			CreatedAt:    now,
		})
	}

	return db.Create(&room).Error
}
