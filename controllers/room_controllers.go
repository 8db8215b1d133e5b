package controllers

import (
	"encoding/json"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"roomstay/config"
	"roomstay/constants"
	"roomstay/dto"
	"roomstay/errors"
	"roomstay/response"
	"roomstay/services"
	"roomstay/validator"
)

type RoomController struct {
	service *services.RoomService
	rdb     *redis.Client
	appURL  string
}

func NewRoomController(service *services.RoomService, rdb *redis.Client, appURL string) *RoomController {
	return &RoomController{
		service: service,
		rdb:     rdb,
		appURL:  appURL,
	}
}

// HealthCheck là liveness probe
func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

// GetRooms trả về danh sách phòng có phân trang
func (ctl *RoomController) GetRooms(c *gin.Context) {
	page := 1
	size := constants.DefaultPaginationSize

	if pageStr := c.Query("page"); pageStr != "" {
		if parsedPage, err := strconv.Atoi(pageStr); err == nil && parsedPage >= 1 {
			page = parsedPage
		}
	}
	if sizeStr := c.Query("size"); sizeStr != "" {
		if parsedSize, err := strconv.Atoi(sizeStr); err == nil && parsedSize >= 1 {
			size = parsedSize
		}
	}

	resp, err := ctl.service.ListRooms(page, size)
	if err != nil {
		ctl.handleRoomError(c, err)
		return
	}

	response.Success(c, resp)
}

// GetRoomDetail trả về chi tiết một phòng, ưu tiên lấy từ cache Redis
func (ctl *RoomController) GetRoomDetail(c *gin.Context) {
	id := c.Param("id")

	cacheKey := services.RoomDetailCacheKey(id)
	if ctl.rdb != nil {
		var cached dto.RoomDetailResponse
		if err := services.GetFromRedis(config.Ctx, ctl.rdb, cacheKey, &cached); err == nil && cached.ID != "" {
			response.Success(c, cached)
			return
		}
	}

	room, err := ctl.service.GetRoomByID(id)
	if err != nil {
		ctl.handleRoomError(c, err)
		return
	}

	detail := dto.NewRoomDetail(room, ctl.appURL)

	if ctl.rdb != nil {
		if err := services.SetToRedis(config.Ctx, ctl.rdb, cacheKey, detail, services.RoomCacheTTL); err != nil {
			log.Printf("Lỗi khi lưu chi tiết phòng vào Redis: %v", err)
		}
	}

	response.Success(c, detail)
}

// CreateRoom tạo phòng mới từ multipart form: title, description,
// image (file) và facilities (chuỗi JSON mảng tên tiện ích)
func (ctl *RoomController) CreateRoom(c *gin.Context) {
	title := c.PostForm("title")
	description := c.PostForm("description")
	facilitiesStr, hasFacilities := c.GetPostForm("facilities")

	image, err := c.FormFile("image")
	if err != nil {
		image = nil
	}

	if appErr := validator.ValidateRoomCreate(title, description, image); appErr != nil {
		ctl.handleRoomError(c, appErr)
		return
	}

	if !hasFacilities {
		response.UnprocessableEntity(c, "Danh sách tiện ích không được để trống")
		return
	}

	facilities, ok := parseFacilities(facilitiesStr)
	if !ok {
		response.BadRequest(c, "Danh sách tiện ích không phải JSON hợp lệ")
		return
	}

	room, err := ctl.service.CreateRoom(dto.RoomCreateInput{
		Title:       title,
		Description: description,
		Image:       image,
		Facilities:  facilities,
	})
	if err != nil {
		ctl.handleRoomError(c, err)
		return
	}

	response.Success(c, dto.NewRoomDetail(room, ctl.appURL))
}

// UpdateRoom cập nhật toàn bộ phòng. Mọi field form phải có mặt,
// nhưng giá trị rỗng sẽ giữ nguyên dữ liệu cũ. Ảnh là tùy chọn.
func (ctl *RoomController) UpdateRoom(c *gin.Context) {
	id := c.Param("id")

	title, hasTitle := c.GetPostForm("title")
	description, hasDescription := c.GetPostForm("description")
	facilitiesStr, hasFacilities := c.GetPostForm("facilities")
	if !hasTitle || !hasDescription || !hasFacilities {
		response.UnprocessableEntity(c, "Thiếu trường bắt buộc")
		return
	}

	image, err := c.FormFile("image")
	if err != nil {
		image = nil
	}
	if appErr := validator.ValidateRoomUpdate(image); appErr != nil {
		ctl.handleRoomError(c, appErr)
		return
	}

	facilities, ok := parseFacilities(facilitiesStr)
	if !ok {
		response.BadRequest(c, "Danh sách tiện ích không phải JSON hợp lệ")
		return
	}

	room, err := ctl.service.UpdateRoom(id, dto.RoomUpdateInput{
		Title:       title,
		Description: description,
		Image:       image,
		Facilities:  &facilities,
	})
	if err != nil {
		ctl.handleRoomError(c, err)
		return
	}

	ctl.invalidateRoomCache(id)

	response.Success(c, dto.NewRoomDetail(room, ctl.appURL))
}

// CreateRoomPDF render PDF cho phòng và gắn đường dẫn vào bản ghi
func (ctl *RoomController) CreateRoomPDF(c *gin.Context) {
	id := c.Param("id")

	room, err := ctl.service.GenerateRoomPDF(id)
	if err != nil {
		ctl.handleRoomError(c, err)
		return
	}

	ctl.invalidateRoomCache(id)

	response.Success(c, dto.NewRoomDetail(room, ctl.appURL))
}

// DeleteRoom xóa phòng và tiện ích của nó
func (ctl *RoomController) DeleteRoom(c *gin.Context) {
	id := c.Param("id")

	if err := ctl.service.DeleteRoom(id); err != nil {
		ctl.handleRoomError(c, err)
		return
	}

	ctl.invalidateRoomCache(id)

	response.SuccessWithMessage(c, "Xóa phòng thành công", nil)
}

// parseFacilities decode chuỗi JSON mảng tên tiện ích
func parseFacilities(raw string) ([]string, bool) {
	var facilities []string
	if err := json.Unmarshal([]byte(raw), &facilities); err != nil {
		return nil, false
	}
	return facilities, true
}

// handleRoomError map lỗi domain sang HTTP status, lỗi lạ chỉ log và
// trả 500 chung chung, không leak nguyên nhân ra ngoài
func (ctl *RoomController) handleRoomError(c *gin.Context, err error) {
	if appErr := errors.GetAppError(err); appErr != nil {
		switch appErr.Code {
		case errors.ErrCodeRoomNotFound:
			response.NotFound(c)
		case errors.ErrCodeInvalidRoomID, errors.ErrCodeRoomTitleExists, errors.ErrCodeInvalidFormat:
			response.BadRequest(c, appErr.Message)
		case errors.ErrCodeRequiredField:
			response.UnprocessableEntity(c, appErr.Message)
		default:
			log.Printf("Lỗi xử lý phòng: %v", appErr)
			response.ServerError(c)
		}
		return
	}

	log.Printf("Lỗi không xác định: %v", err)
	response.ServerError(c)
}

// invalidateRoomCache xóa cache chi tiết phòng sau mỗi lần ghi
func (ctl *RoomController) invalidateRoomCache(roomID string) {
	if ctl.rdb == nil {
		return
	}
	if err := services.DeleteFromRedis(config.Ctx, ctl.rdb, services.RoomDetailCacheKey(roomID)); err != nil {
		log.Printf("Lỗi khi xóa cache phòng %s: %v", roomID, err)
	}
}
