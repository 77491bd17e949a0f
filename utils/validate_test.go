package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("budi@kampus.ac.id"))
	assert.True(t, ValidateEmail("a.b+c@example.com"))
	assert.False(t, ValidateEmail("budi@kampus"))
	assert.False(t, ValidateEmail("budi kampus@example.com"))
	assert.False(t, ValidateEmail(""))
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("081234567890"))
	assert.True(t, ValidatePhone("0812345678"))
	assert.False(t, ValidatePhone("+6281234567890"))
	assert.False(t, ValidatePhone("0712345678"))
	assert.False(t, ValidatePhone("08123"))
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(-6.2, 106.8))
	assert.True(t, ValidateCoordinates(90, 180))
	assert.True(t, ValidateCoordinates(-90, -180))
	assert.False(t, ValidateCoordinates(90.1, 0))
	assert.False(t, ValidateCoordinates(0, -180.1))
}

func TestDayRange(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 一天中任意时刻都归档到同一个本地日
	at := time.Date(2026, 8, 29, 23, 59, 59, 0, loc)
	start, end := DayRange(at, loc)
	assert.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, loc), end)

	// UTC 时刻换算到业务时区后再归档
	utc := time.Date(2026, 8, 29, 18, 0, 0, 0, time.UTC) // 雅加达时间 8/30 01:00
	start, _ = DayRange(utc, loc)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, loc), start)
}

func TestParseDate(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	parsed, err := ParseDate("2026-08-29", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, loc), parsed)

	_, err = ParseDate("29-08-2026", loc)
	assert.Error(t, err)

	_, err = ParseDate("", loc)
	assert.Error(t, err)
}
