package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"roomstay/errors"
	"roomstay/services/logger"
)

func TestSaveUploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	svc := NewArtifactService(dir, logger.NewNopLogger())

	name, err := svc.SaveUpload(newImageUpload(t, "phòng đẹp.jpg"))
	require.NoError(t, err)
	require.True(t, svc.Exists(name))

	// token 8 ký tự + tên gốc đã chuyển về ASCII
	parts := strings.SplitN(name, "_", 2)
	require.Len(t, parts, 2)
	require.Len(t, parts[0], 8)
	require.Equal(t, "phong_dep.jpg", parts[1])

	data, err := os.ReadFile(svc.Path(name))
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xD9}, data)

	require.NoError(t, svc.Delete(name))
	require.False(t, svc.Exists(name))
}

func TestSaveUploadUniqueNames(t *testing.T) {
	svc := NewArtifactService(t.TempDir(), logger.NewNopLogger())

	first, err := svc.SaveUpload(newImageUpload(t, "same.jpg"))
	require.NoError(t, err)
	second, err := svc.SaveUpload(newImageUpload(t, "same.jpg"))
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestSaveUploadMissingFile(t *testing.T) {
	svc := NewArtifactService(t.TempDir(), logger.NewNopLogger())

	_, err := svc.SaveUpload(nil)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	require.Equal(t, errors.ErrCodeRequiredField, appErr.Code)
}

func TestSafeDeleteNeverPropagates(t *testing.T) {
	svc := NewArtifactService(t.TempDir(), logger.NewNopLogger())

	// File không tồn tại và tên rỗng đều không panic, không lỗi
	svc.SafeDelete("khong-ton-tai.jpg")
	svc.SafeDelete("")
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":          "photo.jpg",
		"ảnh chụp.PNG":       "anh_chup.PNG",
		"../../etc/passwd":   "passwd",
		"weird  name!!.jpeg": "weird__name__.jpeg",
		"":                   "file",
	}
	for in, want := range cases {
		require.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func TestPathJoinsDir(t *testing.T) {
	dir := t.TempDir()
	svc := NewArtifactService(dir, logger.NewNopLogger())
	require.Equal(t, filepath.Join(dir, "a.jpg"), svc.Path("a.jpg"))
}
