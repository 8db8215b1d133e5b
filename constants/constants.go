package constants

// Phân trang
const (
	DefaultPaginationSize = 20
	MaxPaginationLimit    = 100
)

// Định dạng ngày trả về cho client
const DateOutputFormat = "02/01/2006"

// Thư mục chứa file tĩnh
const (
	ImageDir = "images"
	PDFDir   = "pdfs"
)

// Prefix URL cho file tĩnh
const (
	ImageURLPrefix = "/images"
	PDFURLPrefix   = "/pdfs"
)
