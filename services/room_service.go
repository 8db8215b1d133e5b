package services

import (
	stderrors "errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roomstay/constants"
	"roomstay/dto"
	"roomstay/errors"
	"roomstay/models"
	"roomstay/services/logger"
)

// RoomService điều phối CRUD phòng: phân trang, ràng buộc trùng tiêu
// đề, thay thế tiện ích và vòng đời file ảnh/PDF gắn với bản ghi
type RoomService struct {
	db        *gorm.DB
	logger    logger.Logger
	artifacts *ArtifactService
	renderer  RoomPDFRenderer
}

type RoomServiceOptions struct {
	DB        *gorm.DB
	Logger    logger.Logger
	Artifacts *ArtifactService
	Renderer  RoomPDFRenderer
}

func NewRoomService(opts RoomServiceOptions) *RoomService {
	l := opts.Logger
	if l == nil {
		l = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &RoomService{
		db:        opts.DB,
		logger:    l,
		artifacts: opts.Artifacts,
		renderer:  opts.Renderer,
	}
}

// ListRooms trả về một trang danh sách phòng. Luôn fetch size+1 bản
// ghi để biết còn trang sau hay không mà không cần COUNT.
// Offset/limit chỉ ổn định khi thứ tự cố định nên sort theo
// created_at rồi id.
func (s *RoomService) ListRooms(page, size int) (*dto.RoomListResponse, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = constants.DefaultPaginationSize
	}
	if size > constants.MaxPaginationLimit {
		size = constants.MaxPaginationLimit
	}

	var rooms []models.Room
	offset := (page - 1) * size
	err := s.db.Preload("Facilities").
		Order("created_at, id").
		Offset(offset).
		Limit(size + 1).
		Find(&rooms).Error
	if err != nil {
		s.logger.Error("Lỗi khi lấy danh sách phòng: %v", err)
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi khi lấy danh sách phòng", err)
	}

	hasNext := len(rooms) > size
	if hasNext {
		rooms = rooms[:size]
	}

	summaries := make([]dto.RoomSummary, 0, len(rooms))
	for i := range rooms {
		summaries = append(summaries, dto.NewRoomSummary(&rooms[i]))
	}

	resp := &dto.RoomListResponse{
		CurrentPage: page,
		PageSize:    size,
		Data:        summaries,
	}
	if hasNext {
		next := page + 1
		resp.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		resp.PrevPage = &prev
	}

	s.logger.Info("Đã lấy %d phòng cho trang %d size %d", len(summaries), page, size)
	return resp, nil
}

// GetRoomByID lấy một phòng kèm tiện ích. ID rỗng bị chặn trước khi
// truy vấn.
func (s *RoomService) GetRoomByID(id string) (*models.Room, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.NewAppError(errors.ErrCodeInvalidRoomID, "Room ID là bắt buộc", errors.ErrRoomIDRequired)
	}

	// ID không phải UUID chắc chắn không tồn tại, chặn trước khi
	// Postgres báo lỗi cast trên cột uuid
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeRoomNotFound, "Không tìm thấy phòng", errors.ErrRoomNotFound)
	}

	var room models.Room
	err := s.db.Preload("Facilities").Where("id = ?", id).First(&room).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeRoomNotFound, "Không tìm thấy phòng", errors.ErrRoomNotFound)
		}
		s.logger.Error("Lỗi khi lấy phòng %s: %v", id, err)
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi khi lấy phòng", err)
	}

	return &room, nil
}

// checkTitleExists kiểm tra trùng tiêu đề (so khớp chính xác sau khi
// trim). Đây chỉ là fast-path cho lỗi thân thiện, unique index trên
// cột title mới là ràng buộc thật khi hai request đua nhau.
func (s *RoomService) checkTitleExists(tx *gorm.DB, title, excludeID string) error {
	query := tx.Model(&models.Room{}).Where("title = ?", strings.TrimSpace(title))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "Lỗi khi kiểm tra tiêu đề", err)
	}
	if count > 0 {
		s.logger.Info("Tiêu đề '%s' đã tồn tại", title)
		return errors.NewAppError(errors.ErrCodeRoomTitleExists, "Phòng với tiêu đề '"+strings.TrimSpace(title)+"' đã tồn tại", errors.ErrTitleExists)
	}
	return nil
}

// CreateRoom lưu ảnh trước rồi mới ghi DB. Mọi lỗi sau khi ảnh đã
// nằm trên đĩa (trùng tiêu đề, lỗi ghi DB) phải xóa ảnh best-effort
// trước khi trả lỗi để không tích rác từ các lần tạo hỏng.
func (s *RoomService) CreateRoom(input dto.RoomCreateInput) (*models.Room, error) {
	imageName, err := s.artifacts.SaveUpload(input.Image)
	if err != nil {
		return nil, err
	}

	room, err := s.createRoomRecord(input, imageName)
	if err != nil {
		s.artifacts.SafeDelete(imageName)
		return nil, err
	}

	s.logger.Info("Đã tạo phòng %s", room.ID)
	return room, nil
}

func (s *RoomService) createRoomRecord(input dto.RoomCreateInput, imageName string) (*models.Room, error) {
	room := models.Room{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Image:       imageName,
	}
	for _, name := range input.Facilities {
		room.Facilities = append(room.Facilities, models.RoomFacility{
			FacilityName: strings.TrimSpace(name),
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.checkTitleExists(tx, room.Title, ""); err != nil {
			return err
		}
		if err := tx.Create(&room).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Không thể tạo phòng", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Lỗi khi tạo phòng: %v", err)
		return nil, err
	}

	return &room, nil
}

// UpdateRoom cập nhật toàn bộ phòng. Field chuỗi rỗng giữ nguyên giá
// trị cũ (chính sách "chỉ ghi đè giá trị khác rỗng"), tiện ích nếu có
// thì xóa hết tạo lại, không merge.
func (s *RoomService) UpdateRoom(id string, input dto.RoomUpdateInput) (*models.Room, error) {
	room, err := s.GetRoomByID(id)
	if err != nil {
		return nil, err
	}

	newImage := ""
	if input.Image != nil && input.Image.Filename != "" {
		newImage, err = s.artifacts.SaveUpload(input.Image)
		if err != nil {
			return nil, err
		}
	}

	if err := s.updateRoomRecord(room, input, newImage); err != nil {
		if newImage != "" {
			s.artifacts.SafeDelete(newImage)
		}
		return nil, err
	}

	s.logger.Info("Đã cập nhật phòng %s", room.ID)
	return room, nil
}

func (s *RoomService) updateRoomRecord(room *models.Room, input dto.RoomUpdateInput, newImage string) error {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		changed := false
		if title != "" {
			if err := s.checkTitleExists(tx, title, room.ID); err != nil {
				return err
			}
			room.Title = title
			changed = true
		}
		if description != "" {
			room.Description = description
			changed = true
		}
		if newImage != "" {
			room.Image = newImage
			changed = true
		}
		// Chỉ đánh dấu đã sửa khi thật sự có field bị ghi đè hoặc
		// danh sách tiện ích bị thay thế
		if changed || input.Facilities != nil {
			room.Touch()
		}

		if err := tx.Omit(clause.Associations).Save(room).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Không thể cập nhật phòng", err)
		}

		if input.Facilities != nil {
			if err := s.replaceFacilities(tx, room, *input.Facilities); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Lỗi khi cập nhật phòng %s: %v", room.ID, err)
	}
	return err
}

// replaceFacilities xóa toàn bộ tiện ích cũ và tạo lại từ danh sách mới
func (s *RoomService) replaceFacilities(tx *gorm.DB, room *models.Room, names []string) error {
	if err := tx.Where("room_id = ?", room.ID).Delete(&models.RoomFacility{}).Error; err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "Không thể xóa tiện ích cũ", err)
	}

	facilities := make([]models.RoomFacility, 0, len(names))
	for _, name := range names {
		facilities = append(facilities, models.RoomFacility{
			FacilityName: strings.TrimSpace(name),
			RoomID:       room.ID,
		})
	}
	if len(facilities) > 0 {
		if err := tx.Create(&facilities).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Không thể tạo tiện ích mới", err)
		}
	}

	room.Facilities = facilities
	return nil
}

// PartialUpdateRoom cập nhật từng phần, dùng nội bộ (gắn tên PDF sau
// khi render). Chỉ field khác nil và khác rỗng mới được áp, không
// kiểm tra lại trùng tiêu đề, không đụng tiện ích.
func (s *RoomService) PartialUpdateRoom(id string, patch dto.RoomPartialUpdate) (*models.Room, error) {
	room, err := s.GetRoomByID(id)
	if err != nil {
		return nil, err
	}

	changed := false
	apply := func(dst *string, src *string) {
		if src == nil {
			return
		}
		v := strings.TrimSpace(*src)
		if v == "" {
			return
		}
		*dst = v
		changed = true
	}

	apply(&room.Title, patch.Title)
	apply(&room.Description, patch.Description)
	apply(&room.Image, patch.Image)
	apply(&room.PDF, patch.PDF)

	if !changed {
		return room, nil
	}

	room.Touch()
	if err := s.db.Omit(clause.Associations).Save(room).Error; err != nil {
		s.logger.Error("Lỗi khi cập nhật từng phần phòng %s: %v", room.ID, err)
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không thể cập nhật phòng", err)
	}

	return room, nil
}

// DeleteRoom xóa phòng và toàn bộ tiện ích của nó trong một
// transaction. File ảnh/PDF đã sinh ra vẫn nằm lại trên đĩa.
func (s *RoomService) DeleteRoom(id string) error {
	room, err := s.GetRoomByID(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", room.ID).Delete(&models.RoomFacility{}).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Không thể xóa tiện ích", err)
		}
		if err := tx.Delete(&models.Room{}, "id = ?", room.ID).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Không thể xóa phòng", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Lỗi khi xóa phòng %s: %v", id, err)
		return err
	}

	s.logger.Info("Đã xóa phòng %s", id)
	return nil
}

// GenerateRoomPDF render PDF cho phòng rồi gắn tên file vào bản ghi
// qua partial update
func (s *RoomService) GenerateRoomPDF(id string) (*models.Room, error) {
	room, err := s.GetRoomByID(id)
	if err != nil {
		return nil, err
	}

	pdfName, err := s.renderer.RenderRoomPDF(room)
	if err != nil {
		s.logger.Error("Lỗi khi tạo PDF cho phòng %s: %v", id, err)
		return nil, err
	}
	if pdfName == "" {
		s.logger.Error("Renderer không trả về tên file PDF cho phòng %s", id)
		return nil, errors.NewAppError(errors.ErrCodePDFError, "Không tạo được PDF cho phòng", nil)
	}

	return s.PartialUpdateRoom(id, dto.RoomPartialUpdate{PDF: &pdfName})
}
