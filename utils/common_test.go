package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConvertStringToDatetime(t *testing.T) {
	got, err := ConvertStringToDatetime("2024-11-02 09:15:30.123456")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 11, 2, 9, 15, 30, 123456000, time.UTC), got)

	// Fallback khi thiếu micro giây
	got, err = ConvertStringToDatetime("2024-11-02 09:15:30")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 11, 2, 9, 15, 30, 0, time.UTC), got)

	_, err = ConvertStringToDatetime("02/11/2024")
	require.Error(t, err)
}
