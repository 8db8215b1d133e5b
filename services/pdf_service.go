package services

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/jung-kurt/gofpdf"

	"roomstay/errors"
	"roomstay/models"
	"roomstay/services/logger"
)

// RoomPDFRenderer sinh file PDF giới thiệu phòng, trả về tên file
type RoomPDFRenderer interface {
	RenderRoomPDF(room *models.Room) (string, error)
}

// PDFService render PDF bằng gofpdf vào thư mục pdfDir, ảnh phòng
// được nhúng từ imageDir nếu file còn trên đĩa
type PDFService struct {
	pdfDir   string
	imageDir string
	logger   logger.Logger
}

func NewPDFService(pdfDir, imageDir string, l logger.Logger) *PDFService {
	if l == nil {
		l = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &PDFService{pdfDir: pdfDir, imageDir: imageDir, logger: l}
}

// RenderRoomPDF dựng PDF từ tiêu đề, mô tả, ảnh, danh sách tiện ích,
// ngày tạo và năm hiện tại của phòng
func (s *PDFService) RenderRoomPDF(room *models.Room) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.MultiCell(0, 10, unidecode.Unidecode(room.Title), "", "C", false)
	pdf.Ln(4)

	// Ảnh phòng là best-effort: file mất hoặc hỏng thì bỏ qua chứ
	// không làm hỏng cả bản PDF
	if room.Image != "" {
		imagePath := filepath.Join(s.imageDir, room.Image)
		if imageUsable(imagePath) {
			pdf.ImageOptions(imagePath, 55, pdf.GetY(), 100, 0, true,
				gofpdf.ImageOptions{ReadDpi: true}, 0, "")
			pdf.Ln(6)
		} else {
			s.logger.Debug("Bỏ qua ảnh %s của phòng %s", room.Image, room.ID)
		}
	}

	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 6, unidecode.Unidecode(room.Description), "", "L", false)
	pdf.Ln(4)

	if len(room.Facilities) > 0 {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, "Facilities", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		for _, name := range room.FacilityNames() {
			pdf.CellFormat(0, 6, "- "+unidecode.Unidecode(name), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 6, "Created: "+room.CreatedAtStr(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("(c) %d", time.Now().Year()), "", 1, "L", false, 0, "")

	if err := os.MkdirAll(s.pdfDir, 0755); err != nil {
		return "", errors.NewAppError(errors.ErrCodeFileError, "Không tạo được thư mục PDF", err)
	}

	name := newArtifactToken() + "_" + slugifyTitle(room.Title) + ".pdf"
	if err := pdf.OutputFileAndClose(filepath.Join(s.pdfDir, name)); err != nil {
		return "", errors.NewAppError(errors.ErrCodePDFError, "Không ghi được file PDF", err)
	}

	s.logger.Info("Đã tạo PDF %s cho phòng %s", name, room.ID)
	return name, nil
}

// imageUsable kiểm tra file có decode được như ảnh không, lỗi của
// gofpdf là sticky nên phải chặn ảnh hỏng trước khi nhúng
func imageUsable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	_, _, err = image.DecodeConfig(f)
	return err == nil
}

// slugifyTitle chuyển tiêu đề phòng thành slug ASCII cho tên file PDF
func slugifyTitle(title string) string {
	slug := strings.ToLower(unidecode.Unidecode(title))

	var b strings.Builder
	lastDash := false
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "room"
	}
	return out
}
