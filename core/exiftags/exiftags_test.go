package exiftags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	require.Equal(t, "Make", Name(0x010F))
	require.Equal(t, "DateTimeOriginal", Name(0x9003))
	require.Equal(t, "ISOSpeedRatings", Name(0x8827))
	require.Equal(t, GPSInfoName, Name(GPSInfo))
	require.Equal(t, "65278", Name(0xFEFE))
}

func TestGPSName(t *testing.T) {
	require.Equal(t, "GPSLatitudeRef", GPSName(0x01))
	require.Equal(t, "GPSDateStamp", GPSName(0x1D))
	require.Equal(t, "200", GPSName(200))
}

func TestKnown(t *testing.T) {
	require.True(t, Known(ExifOffset))
	require.False(t, Known(0xFEFE))
}
