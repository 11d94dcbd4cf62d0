package image

import (
	"encoding/binary"
	"image/color"
	"io"

	"github.com/rwcarlsen/goexif/tiff"

	"github.com/ankit-chaubey/image-metadata-viewer/core"
	"github.com/ankit-chaubey/image-metadata-viewer/core/exiftags"
)

// ColorMode names the color model reported by the image decoder.
//
// The PNG, BMP and TIFF decoders report opaque truecolor images as RGBA
// too; View settles those with hasAlpha.
func ColorMode(m color.Model) string {
	if _, ok := m.(color.Palette); ok {
		return "Indexed"
	}
	switch m {
	case color.YCbCrModel:
		return "RGB"
	case color.RGBAModel, color.NRGBAModel, color.RGBA64Model, color.NRGBA64Model, color.NYCbCrAModel:
		return "RGBA"
	case color.CMYKModel:
		return "CMYK"
	case color.GrayModel:
		return "Grayscale"
	case color.Gray16Model:
		return "Grayscale16"
	case color.AlphaModel, color.Alpha16Model:
		return "Alpha"
	}
	return "Unknown"
}

// tiffFile is what goexif needs to decode a directory in place.
type tiffFile interface {
	io.ReadSeeker
	io.ReaderAt
}

// hasAlpha reports whether a truecolor image stores an alpha channel,
// judged from the container header. Unknown cases count as alpha.
func hasAlpha(r tiffFile, id core.FormatID, header []byte) bool {
	switch id {
	case core.FmtPNG:
		// IHDR colour type: 2 truecolor, 4 gray+alpha, 6 truecolor+alpha.
		if len(header) > 25 {
			return header[25]&4 != 0
		}
	case core.FmtBMP:
		// Only 32-bit bitmaps with a header past BITMAPINFOHEADER carry alpha.
		if len(header) >= 30 {
			infoLen := binary.LittleEndian.Uint32(header[14:18])
			bpp := binary.LittleEndian.Uint16(header[28:30])
			return bpp == 32 && infoLen > 40
		}
	case core.FmtTIFF:
		return tiffHasAlpha(r, header)
	}
	return true
}

// tiffHasAlpha looks for ExtraSamples in IFD0. r is rewound afterwards.
func tiffHasAlpha(r tiffFile, header []byte) bool {
	if len(header) < 8 {
		return true
	}
	defer r.Seek(0, io.SeekStart)

	var order binary.ByteOrder = binary.BigEndian
	if header[0] == 'I' {
		order = binary.LittleEndian
	}
	if _, err := r.Seek(int64(order.Uint32(header[4:8])), io.SeekStart); err != nil {
		return true
	}
	dir, _, err := tiff.DecodeDir(r, order)
	if err != nil {
		return true
	}
	for _, tag := range dir.Tags {
		if tag.Id == exiftags.ExtraSamples {
			return true
		}
	}
	return false
}
