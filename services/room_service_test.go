package services

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"roomstay/dto"
	"roomstay/errors"
	"roomstay/models"
	"roomstay/services/logger"
)

type stubRenderer struct {
	name  string
	err   error
	calls int
}

func (s *stubRenderer) RenderRoomPDF(room *models.Room) (string, error) {
	s.calls++
	return s.name, s.err
}

// DB file tạm thay vì :memory: vì pool của GORM có thể mở nhiều
// connection, mỗi connection :memory: là một DB rỗng riêng
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Room{}, &models.RoomFacility{}))
	return db
}

func newTestService(t *testing.T, renderer RoomPDFRenderer) (*RoomService, *gorm.DB, string) {
	t.Helper()
	db := newTestDB(t)
	imageDir := t.TempDir()
	svc := NewRoomService(RoomServiceOptions{
		DB:        db,
		Logger:    logger.NewNopLogger(),
		Artifacts: NewArtifactService(imageDir, logger.NewNopLogger()),
		Renderer:  renderer,
	})
	return svc, db, imageDir
}

func newImageUpload(t *testing.T, filename string) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	header.Set("Content-Type", "image/jpeg")

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte{0xFF, 0xD8, 0xFF, 0xD9})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["image"][0]
}

func mustCreateRoom(t *testing.T, svc *RoomService, title string, facilities ...string) *models.Room {
	t.Helper()
	room, err := svc.CreateRoom(dto.RoomCreateInput{
		Title:       title,
		Description: "mô tả " + title,
		Image:       newImageUpload(t, "photo.jpg"),
		Facilities:  facilities,
	})
	require.NoError(t, err)
	return room
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestCreateRoomRoundTrip(t *testing.T) {
	svc, _, imageDir := newTestService(t, &stubRenderer{})

	created, err := svc.CreateRoom(dto.RoomCreateInput{
		Title:       "Ocean View",
		Description: "Sea-facing",
		Image:       newImageUpload(t, "ảnh phòng.jpg"),
		Facilities:  []string{"WiFi", "Balcony"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Nil(t, created.UpdatedAt, "updatedAt phải là nil khi vừa tạo")

	got, err := svc.GetRoomByID(created.ID)
	require.NoError(t, err)
	require.Equal(t, "Ocean View", got.Title)
	require.Equal(t, "Sea-facing", got.Description)
	require.Equal(t, []string{"WiFi", "Balcony"}, got.FacilityNames())
	require.NotEmpty(t, got.Image)

	// GORM không được tự gán updated_at lúc Create, cả trên cột đã
	// lưu lẫn trên struct trả về
	require.Nil(t, got.UpdatedAt)
	for _, f := range got.Facilities {
		require.Nil(t, f.UpdatedAt)
	}

	// File ảnh thật sự nằm trong thư mục, tên đã được làm sạch
	entries := dirEntries(t, imageDir)
	require.Len(t, entries, 1)
	require.Equal(t, got.Image, entries[0].Name())
	require.NotContains(t, got.Image, " ")
}

func TestCreateRoomDuplicateTitle(t *testing.T) {
	svc, db, imageDir := newTestService(t, &stubRenderer{})
	mustCreateRoom(t, svc, "Room A")

	// Trùng sau khi trim, bất kể khoảng trắng bao quanh
	_, err := svc.CreateRoom(dto.RoomCreateInput{
		Title:       "  Room A ",
		Description: "khác",
		Image:       newImageUpload(t, "other.jpg"),
		Facilities:  nil,
	})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	require.Equal(t, errors.ErrCodeRoomTitleExists, appErr.Code)

	// Ảnh của lần tạo hỏng phải bị dọn, chỉ còn ảnh của phòng đầu
	require.Len(t, dirEntries(t, imageDir), 1)

	var count int64
	require.NoError(t, db.Model(&models.Room{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreateRoomUploadFailure(t *testing.T) {
	svc, db, imageDir := newTestService(t, &stubRenderer{})

	_, err := svc.CreateRoom(dto.RoomCreateInput{
		Title:       "No Image",
		Description: "x",
		Image:       nil,
	})
	require.Error(t, err)

	// Không có bản ghi nào được tạo và không còn file rác
	var count int64
	require.NoError(t, db.Model(&models.Room{}).Where("title = ?", "No Image").Count(&count).Error)
	require.EqualValues(t, 0, count)
	require.Empty(t, dirEntries(t, imageDir))
}

func TestListRoomsPagination(t *testing.T) {
	svc, _, _ := newTestService(t, &stubRenderer{})
	for i := 0; i < 25; i++ {
		mustCreateRoom(t, svc, fmt.Sprintf("Room %02d", i), "WiFi")
	}

	page1, err := svc.ListRooms(1, 10)
	require.NoError(t, err)
	require.Len(t, page1.Data, 10)
	require.Equal(t, 1, page1.CurrentPage)
	require.Equal(t, 10, page1.PageSize)
	require.NotNil(t, page1.NextPage)
	require.Equal(t, 2, *page1.NextPage)
	require.Nil(t, page1.PrevPage)
	require.Equal(t, 1, page1.Data[0].FacilitiesCount)

	page3, err := svc.ListRooms(3, 10)
	require.NoError(t, err)
	require.Len(t, page3.Data, 5)
	require.Nil(t, page3.NextPage)
	require.NotNil(t, page3.PrevPage)
	require.Equal(t, 2, *page3.PrevPage)

	// Đúng size bản ghi thì không có trang sau
	page2, err := svc.ListRooms(2, 10)
	require.NoError(t, err)
	require.Len(t, page2.Data, 10)
	require.NotNil(t, page2.NextPage)

	empty, err := svc.ListRooms(4, 10)
	require.NoError(t, err)
	require.Empty(t, empty.Data)
	require.Nil(t, empty.NextPage)
}

func TestListRoomsClampSize(t *testing.T) {
	svc, _, _ := newTestService(t, &stubRenderer{})
	mustCreateRoom(t, svc, "Solo")

	resp, err := svc.ListRooms(0, 1000)
	require.NoError(t, err)
	require.Equal(t, 1, resp.CurrentPage)
	require.Equal(t, 100, resp.PageSize)

	resp, err = svc.ListRooms(1, 0)
	require.NoError(t, err)
	require.Equal(t, 20, resp.PageSize)
}

func TestGetRoomByID(t *testing.T) {
	svc, _, _ := newTestService(t, &stubRenderer{})

	_, err := svc.GetRoomByID("")
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	require.Equal(t, errors.ErrCodeInvalidRoomID, appErr.Code)

	_, err = svc.GetRoomByID(uuid.NewString())
	appErr = errors.GetAppError(err)
	require.NotNil(t, appErr)
	require.Equal(t, errors.ErrCodeRoomNotFound, appErr.Code)

	// ID không phải UUID cũng là not found, không phải lỗi server
	_, err = svc.GetRoomByID("abc")
	appErr = errors.GetAppError(err)
	require.NotNil(t, appErr)
	require.Equal(t, errors.ErrCodeRoomNotFound, appErr.Code)
}

func TestUpdateRoomEmptyFieldsKeepOldValues(t *testing.T) {
	svc, _, _ := newTestService(t, &stubRenderer{})
	room := mustCreateRoom(t, svc, "Keep Me", "WiFi")
	oldImage := room.Image

	facilities := []string{"Bếp", "Ban công"}
	updated, err := svc.UpdateRoom(room.ID, dto.RoomUpdateInput{
		Title:       "",
		Description: "",
		Facilities:  &facilities,
	})
	require.NoError(t, err)

	// Chuỗi rỗng không ghi đè, ảnh không gửi thì giữ nguyên
	require.Equal(t, "Keep Me", updated.Title)
	require.Equal(t, "mô tả Keep Me", updated.Description)
	require.Equal(t, oldImage, updated.Image)
	require.Equal(t, []string{"Bếp", "Ban công"}, updated.FacilityNames())
	require.NotNil(t, updated.UpdatedAt)
}

func TestUpdateRoomNoChangesKeepsUpdatedAtNil(t *testing.T) {
	svc, _, _ := newTestService(t, &stubRenderer{})
	room := mustCreateRoom(t, svc, "Untouched", "WiFi")

	// Mọi field rỗng và không đụng tiện ích thì updated_at giữ nguyên nil
	updated, err := svc.UpdateRoom(room.ID, dto.RoomUpdateInput{
		Title:       "",
		Description: "",
	})
	require.NoError(t, err)
	require.Nil(t, updated.UpdatedAt)

	got, err := svc.GetRoomByID(room.ID)
	require.NoError(t, err)
	require.Nil(t, got.UpdatedAt)
}

func TestUpdateRoomReplacesFacilities(t *testing.T) {
	svc, db, _ := newTestService(t, &stubRenderer{})
	room := mustCreateRoom(t, svc, "Replace", "WiFi", "TV", "Minibar")

	facilities := []string{"Hồ bơi"}
	updated, err := svc.UpdateRoom(room.ID, dto.RoomUpdateInput{
		Title:      "Replace",
		Facilities: &facilities,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Hồ bơi"}, updated.FacilityNames())

	// Tiện ích cũ bị xóa hẳn khỏi bảng chứ không chỉ bị tháo liên kết
	var count int64
	require.NoError(t, db.Model(&models.RoomFacility{}).Where("room_id = ?", room.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestUpdateRoomTitleConflict(t *testing.T) {
	svc, _, imageDir := newTestService(t, &stubRenderer{})
	mustCreateRoom(t, svc, "First")
	second := mustCreateRoom(t, svc, "Second")
	entriesBefore := len(dirEntries(t, imageDir))

	// Đặt trùng tiêu đề phòng khác là conflict
	_, err := svc.UpdateRoom(second.ID, dto.RoomUpdateInput{
		Title: "First",
		Image: newImageUpload(t, "new.jpg"),
	})
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	require.Equal(t, errors.ErrCodeRoomTitleExists, appErr.Code)

	// Ảnh mới upload cho lần update hỏng phải bị dọn
	require.Len(t, dirEntries(t, imageDir), entriesBefore)

	// Giữ nguyên tiêu đề của chính mình thì không conflict
	_, err = svc.UpdateRoom(second.ID, dto.RoomUpdateInput{Title: "Second"})
	require.NoError(t, err)
}

func TestPartialUpdateRoom(t *testing.T) {
	svc, _, _ := newTestService(t, &stubRenderer{})
	room := mustCreateRoom(t, svc, "Partial", "WiFi")

	pdfName := "abc123_partial.pdf"
	empty := ""
	updated, err := svc.PartialUpdateRoom(room.ID, dto.RoomPartialUpdate{
		PDF:         &pdfName,
		Description: &empty,
	})
	require.NoError(t, err)
	require.Equal(t, pdfName, updated.PDF)
	require.Equal(t, "mô tả Partial", updated.Description)
	require.NotNil(t, updated.UpdatedAt)
	require.Equal(t, []string{"WiFi"}, updated.FacilityNames())

	// Patch toàn field rỗng thì không đụng gì tới bản ghi
	past := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, svc.db.Model(&models.Room{}).Where("id = ?", room.ID).Update("updated_at", past).Error)
	again, err := svc.PartialUpdateRoom(room.ID, dto.RoomPartialUpdate{Description: &empty})
	require.NoError(t, err)
	require.NotNil(t, again.UpdatedAt)
	require.WithinDuration(t, past, *again.UpdatedAt, time.Second)
}

func TestDeleteRoomCascadesFacilities(t *testing.T) {
	svc, db, _ := newTestService(t, &stubRenderer{})
	room := mustCreateRoom(t, svc, "Doomed", "WiFi", "TV")

	require.NoError(t, svc.DeleteRoom(room.ID))

	var count int64
	require.NoError(t, db.Model(&models.RoomFacility{}).Where("room_id = ?", room.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)

	_, err := svc.GetRoomByID(room.ID)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	require.Equal(t, errors.ErrCodeRoomNotFound, appErr.Code)

	err = svc.DeleteRoom(room.ID)
	appErr = errors.GetAppError(err)
	require.NotNil(t, appErr)
	require.Equal(t, errors.ErrCodeRoomNotFound, appErr.Code)
}

func TestGenerateRoomPDF(t *testing.T) {
	renderer := &stubRenderer{name: "tok_ocean-view.pdf"}
	svc, _, _ := newTestService(t, renderer)
	room := mustCreateRoom(t, svc, "Ocean View", "WiFi")

	updated, err := svc.GenerateRoomPDF(room.ID)
	require.NoError(t, err)
	require.Equal(t, 1, renderer.calls)
	require.Equal(t, "tok_ocean-view.pdf", updated.PDF)
	require.NotNil(t, updated.UpdatedAt)
}

func TestGenerateRoomPDFNotFound(t *testing.T) {
	renderer := &stubRenderer{name: "x.pdf"}
	svc, _, _ := newTestService(t, renderer)

	_, err := svc.GenerateRoomPDF(uuid.NewString())
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	require.Equal(t, errors.ErrCodeRoomNotFound, appErr.Code)
	require.Equal(t, 0, renderer.calls, "renderer không được gọi khi phòng không tồn tại")
}

func TestGenerateRoomPDFEmptyName(t *testing.T) {
	renderer := &stubRenderer{name: ""}
	svc, _, _ := newTestService(t, renderer)
	room := mustCreateRoom(t, svc, "No PDF Name")

	_, err := svc.GenerateRoomPDF(room.ID)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	require.Equal(t, errors.ErrCodePDFError, appErr.Code)
}
