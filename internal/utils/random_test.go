package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 20; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		require.Regexp(t, regexp.MustCompile(`^\d{6}$`), otp)
	}
}

func TestGenerateRandomPassword(t *testing.T) {
	password, err := GenerateRandomPassword(12)
	require.NoError(t, err)
	require.Len(t, password, 12)
}

func TestGenerateUsernameFromChineseName(t *testing.T) {
	username := GenerateUsernameFromChineseName("王伟")
	require.Regexp(t, regexp.MustCompile(`^[a-z]+\d{1,3}$`), username)
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2026-03-02")
	require.NoError(t, err)
	require.Equal(t, 2026, date.Year())
	require.Equal(t, "2026-03-02", FormatDate(date))

	_, err = ParseDate("03/02/2026")
	require.Error(t, err)
}
