package core

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// FormatID enumerates every recognised image container.
type FormatID string

const (
	FmtJPEG FormatID = "jpeg"
	FmtPNG  FormatID = "png"
	FmtGIF  FormatID = "gif"
	FmtWebP FormatID = "webp"
	FmtTIFF FormatID = "tiff"
	FmtBMP  FormatID = "bmp"

	FmtUnknown FormatID = "unknown"
)

// SupportedExtensions is the allow-list checked before reading a file.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp", ".gif"}

// IsSupportedExtension reports whether path ends in one of SupportedExtensions,
// ignoring case.
func IsSupportedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// HeaderLen is the number of leading bytes returned by Sniff. It covers the
// PNG IHDR colour type and the BMP bit depth.
const HeaderLen = 32

// Sniff identifies the container from the leading bytes of r and returns
// them. r is rewound before and after reading.
func Sniff(r io.ReadSeeker) (FormatID, []byte, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return FmtUnknown, nil, err
	}
	header := make([]byte, HeaderLen)
	n, err := io.ReadFull(r, header)
	if err != nil && n == 0 {
		return FmtUnknown, nil, err
	}
	header = header[:n]
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return FmtUnknown, nil, err
	}
	return DetectMagic(header), header, nil
}

// DetectMagic identifies an image container from its leading bytes.
func DetectMagic(b []byte) FormatID {
	if len(b) < 4 {
		return FmtUnknown
	}
	switch {
	// JPEG: FF D8 FF
	case b[0] == 0xFF && b[1] == 0xD8 && b[2] == 0xFF:
		return FmtJPEG
	// PNG: 89 50 4E 47 0D 0A 1A 0A
	case bytes.HasPrefix(b, pngSignature):
		return FmtPNG
	// GIF: GIF87a or GIF89a
	case bytes.HasPrefix(b, []byte("GIF87a")) || bytes.HasPrefix(b, []byte("GIF89a")):
		return FmtGIF
	// WebP: RIFF????WEBP
	case len(b) >= 12 && bytes.Equal(b[0:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WEBP")):
		return FmtWebP
	// TIFF: 49 49 2A 00 (little-endian) or 4D 4D 00 2A (big-endian)
	case bytes.HasPrefix(b, []byte{0x49, 0x49, 0x2A, 0x00}) ||
		bytes.HasPrefix(b, []byte{0x4D, 0x4D, 0x00, 0x2A}):
		return FmtTIFF
	// BMP: 42 4D
	case b[0] == 0x42 && b[1] == 0x4D:
		return FmtBMP
	}
	return FmtUnknown
}

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
