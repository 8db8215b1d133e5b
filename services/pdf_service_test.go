package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"roomstay/models"
	"roomstay/services/logger"
)

func TestRenderRoomPDF(t *testing.T) {
	pdfDir := t.TempDir()
	imageDir := t.TempDir()
	svc := NewPDFService(pdfDir, imageDir, logger.NewNopLogger())

	room := &models.Room{
		ID:          "room-1",
		Title:       "Phòng Hướng Biển",
		Description: "Phòng rộng, nhìn thẳng ra biển.",
		Image:       "khong-con-tren-dia.jpg",
		CreatedAt:   time.Date(2024, 11, 2, 9, 15, 0, 0, time.UTC),
		Facilities: []models.RoomFacility{
			{FacilityName: "WiFi"},
			{FacilityName: "Ban công"},
		},
	}

	name, err := svc.RenderRoomPDF(room)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(name, ".pdf"))

	// Tên file là token + slug ASCII của tiêu đề
	require.Contains(t, name, "_phong-huong-bien.pdf")

	data, err := os.ReadFile(filepath.Join(pdfDir, name))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "%PDF"), "file phải là PDF thật")
}

func TestRenderRoomPDFMinimalRoom(t *testing.T) {
	svc := NewPDFService(t.TempDir(), t.TempDir(), logger.NewNopLogger())

	room := &models.Room{
		ID:        "room-2",
		Title:     "!!!",
		CreatedAt: time.Now(),
	}

	// Tiêu đề không còn ký tự hợp lệ thì fallback về slug mặc định
	name, err := svc.RenderRoomPDF(room)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(name, "_room.pdf"))
}

func TestSlugifyTitle(t *testing.T) {
	cases := map[string]string{
		"Ocean View":        "ocean-view",
		"Phòng Hướng Biển":  "phong-huong-bien",
		"  A  B  ":          "a-b",
		"Căn hộ 2N1K - 75m": "can-ho-2n1k-75m",
	}
	for in, want := range cases {
		require.Equal(t, want, slugifyTitle(in), "input %q", in)
	}
}
