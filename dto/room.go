package dto

import (
	"mime/multipart"

	"roomstay/constants"
	"roomstay/models"
)

// RoomCreateInput là dữ liệu đầu vào khi tạo phòng, image là file upload bắt buộc
type RoomCreateInput struct {
	Title       string
	Description string
	Image       *multipart.FileHeader
	Facilities  []string
}

// RoomUpdateInput là dữ liệu đầu vào khi cập nhật toàn bộ phòng.
// Image nil nghĩa là giữ nguyên ảnh cũ, Facilities nil nghĩa là không đụng tới tiện ích.
type RoomUpdateInput struct {
	Title       string
	Description string
	Image       *multipart.FileHeader
	Facilities  *[]string
}

// RoomPartialUpdate là dữ liệu cập nhật từng phần, chỉ field khác nil
// và khác chuỗi rỗng mới được ghi đè
type RoomPartialUpdate struct {
	Title       *string
	Description *string
	Image       *string
	PDF         *string
}

// RoomFacilityResponse là DTO cho một tiện ích của phòng
type RoomFacilityResponse struct {
	ID           string `json:"id"`
	FacilityName string `json:"facility_name"`
}

// RoomSummary là DTO rút gọn cho danh sách phòng
type RoomSummary struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	FacilitiesCount int     `json:"facilities_count"`
	CreatedAtStr    string  `json:"created_at_str"`
	UpdatedAtStr    *string `json:"updated_at_str"`
}

// RoomDetailResponse là DTO đầy đủ cho một phòng
type RoomDetailResponse struct {
	ID           string                 `json:"id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	ImagePath    string                 `json:"image_path"`
	PDFPath      *string                `json:"pdf_path"`
	Facilities   []RoomFacilityResponse `json:"facilities"`
	CreatedAtStr string                 `json:"created_at_str"`
	UpdatedAtStr *string                `json:"updated_at_str"`
}

// RoomListResponse là DTO phân trang cho danh sách phòng
type RoomListResponse struct {
	CurrentPage int           `json:"current_page"`
	PageSize    int           `json:"page_size"`
	NextPage    *int          `json:"next_page"`
	PrevPage    *int          `json:"prev_page"`
	Data        []RoomSummary `json:"data"`
}

// NewRoomSummary chuyển model Room sang DTO rút gọn
func NewRoomSummary(room *models.Room) RoomSummary {
	return RoomSummary{
		ID:              room.ID,
		Title:           room.Title,
		Description:     room.Description,
		FacilitiesCount: room.FacilitiesCount(),
		CreatedAtStr:    room.CreatedAtStr(),
		UpdatedAtStr:    room.UpdatedAtStr(),
	}
}

// NewRoomDetail chuyển model Room sang DTO đầy đủ, đường dẫn file
// được resolve từ appURL tại thời điểm trả response
func NewRoomDetail(room *models.Room, appURL string) RoomDetailResponse {
	facilities := make([]RoomFacilityResponse, 0, len(room.Facilities))
	for _, f := range room.Facilities {
		facilities = append(facilities, RoomFacilityResponse{
			ID:           f.ID,
			FacilityName: f.FacilityName,
		})
	}

	var imagePath string
	if room.Image != "" {
		imagePath = appURL + constants.ImageURLPrefix + "/" + room.Image
	}

	var pdfPath *string
	if room.PDF != "" {
		p := appURL + constants.PDFURLPrefix + "/" + room.PDF
		pdfPath = &p
	}

	return RoomDetailResponse{
		ID:           room.ID,
		Title:        room.Title,
		Description:  room.Description,
		ImagePath:    imagePath,
		PDFPath:      pdfPath,
		Facilities:   facilities,
		CreatedAtStr: room.CreatedAtStr(),
		UpdatedAtStr: room.UpdatedAtStr(),
	}
}
