package image

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	goimage "image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var be = binary.BigEndian

// TIFF field types used by the fixtures.
const (
	typeByte      = 1
	typeASCII     = 2
	typeShort     = 3
	typeLong      = 4
	typeRational  = 5
	typeUndefined = 7
)

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

func asciiEntry(tag uint16, s string) ifdEntry {
	b := append([]byte(s), 0)
	return ifdEntry{tag: tag, typ: typeASCII, count: uint32(len(b)), data: b}
}

func byteEntry(tag uint16, vals ...byte) ifdEntry {
	return ifdEntry{tag: tag, typ: typeByte, count: uint32(len(vals)), data: vals}
}

func shortEntry(tag uint16, v uint16) ifdEntry {
	b := make([]byte, 2)
	be.PutUint16(b, v)
	return ifdEntry{tag: tag, typ: typeShort, count: 1, data: b}
}

func shortsEntry(tag uint16, vals ...uint16) ifdEntry {
	b := make([]byte, 2*len(vals))
	for i, v := range vals {
		be.PutUint16(b[i*2:], v)
	}
	return ifdEntry{tag: tag, typ: typeShort, count: uint32(len(vals)), data: b}
}

func longEntry(tag uint16, v uint32) ifdEntry {
	b := make([]byte, 4)
	be.PutUint32(b, v)
	return ifdEntry{tag: tag, typ: typeLong, count: 1, data: b}
}

// ratEntry takes numerator/denominator pairs.
func ratEntry(tag uint16, pairs ...uint32) ifdEntry {
	b := make([]byte, 4*len(pairs))
	for i, v := range pairs {
		be.PutUint32(b[i*4:], v)
	}
	return ifdEntry{tag: tag, typ: typeRational, count: uint32(len(pairs) / 2), data: b}
}

func undefEntry(tag uint16, b []byte) ifdEntry {
	return ifdEntry{tag: tag, typ: typeUndefined, count: uint32(len(b)), data: b}
}

// encodeIFD lays out a big-endian directory starting at offset base, followed
// by the values that do not fit in the 4-byte entry field.
func encodeIFD(base uint32, entries []ifdEntry) []byte {
	dirLen := uint32(2 + 12*len(entries) + 4)
	var dir, extra bytes.Buffer
	binary.Write(&dir, be, uint16(len(entries)))
	for _, e := range entries {
		binary.Write(&dir, be, e.tag)
		binary.Write(&dir, be, e.typ)
		binary.Write(&dir, be, e.count)
		if len(e.data) <= 4 {
			var v [4]byte
			copy(v[:], e.data)
			dir.Write(v[:])
			continue
		}
		binary.Write(&dir, be, base+dirLen+uint32(extra.Len()))
		extra.Write(e.data)
		if extra.Len()%2 == 1 {
			extra.WriteByte(0)
		}
	}
	binary.Write(&dir, be, uint32(0)) // no next IFD
	return append(dir.Bytes(), extra.Bytes()...)
}

// buildTIFF returns a TIFF blob with IFD0 followed by the Exif and GPS
// sub-IFDs. ifd0 must not contain the pointer tags; they are appended here.
func buildTIFF(ifd0, exifIFD, gpsIFD []ifdEntry) []byte {
	const headerLen = 8
	withPointers := func(exifOff, gpsOff uint32) []ifdEntry {
		out := append([]ifdEntry{}, ifd0...)
		return append(out, longEntry(0x8769, exifOff), longEntry(0x8825, gpsOff))
	}

	// Pointer values live inline, so IFD0's size does not depend on them.
	ifd0Len := uint32(len(encodeIFD(headerLen, withPointers(0, 0))))
	exifOff := headerLen + ifd0Len
	exifBlock := encodeIFD(exifOff, exifIFD)
	gpsOff := exifOff + uint32(len(exifBlock))
	gpsBlock := encodeIFD(gpsOff, gpsIFD)

	var b bytes.Buffer
	b.WriteString("MM\x00\x2A")
	binary.Write(&b, be, uint32(headerLen))
	b.Write(encodeIFD(headerLen, withPointers(exifOff, gpsOff)))
	b.Write(exifBlock)
	b.Write(gpsBlock)
	return b.Bytes()
}

// sampleIFDs returns the directories of the EXIF block used by the
// extraction tests.
func sampleIFDs() (ifd0, exifIFD, gpsIFD []ifdEntry) {
	ifd0 = []ifdEntry{
		asciiEntry(0x010F, "Canon"),
		asciiEntry(0x0110, "Canon EOS 5D"),
		shortEntry(0x0112, 1),
		ratEntry(0x011A, 72, 1),
		asciiEntry(0x0132, "2023:05:17 14:30:00"),
	}
	exifIFD = []ifdEntry{
		ratEntry(0x829A, 1, 200),
		ratEntry(0x829D, 28, 10),
		shortEntry(0x8827, 400),
		undefEntry(0x9000, []byte("0230")),
		asciiEntry(0x9003, "2023:05:17 14:30:00"),
		asciiEntry(0x9004, "not a date"),
		ratEntry(0x920A, 500, 10),
		shortEntry(0xA403, 0),
		shortEntry(0xFEFE, 7),
	}
	gpsIFD = []ifdEntry{
		byteEntry(0x00, 2, 2, 0, 0),
		asciiEntry(0x01, "N"),
		ratEntry(0x02, 41, 1, 0, 1, 30, 1),
		asciiEntry(0x1D, "2023:05:17"),
	}
	return ifd0, exifIFD, gpsIFD
}

func sampleTIFF() []byte {
	return buildTIFF(sampleIFDs())
}

// canonTIFF is sampleTIFF plus a Canon maker note in the Exif IFD. The note
// is a bare IFD holding CameraSettings and a FocalLength of its own; all
// values are inline, so the note does not depend on where it is placed.
func canonTIFF() []byte {
	ifd0, exifIFD, gpsIFD := sampleIFDs()
	note := encodeIFD(0, []ifdEntry{
		shortsEntry(0x0001, 1, 2),
		shortEntry(0x0002, 35),
	})
	exifIFD = append(exifIFD, undefEntry(0x927C, note))
	return buildTIFF(ifd0, exifIFD, gpsIFD)
}

// shortMakerNoteTIFF is a Nikon block whose maker note is two bytes long,
// shorter than the vendor header the Nikon parser slices off unchecked.
func shortMakerNoteTIFF() []byte {
	ifd0, exifIFD, gpsIFD := sampleIFDs()
	ifd0[0] = asciiEntry(0x010F, "Nikon")
	exifIFD = append(exifIFD, undefEntry(0x927C, []byte{1, 2}))
	return buildTIFF(ifd0, exifIFD, gpsIFD)
}

func testImage(w, h int) *goimage.RGBA {
	img := goimage.NewRGBA(goimage.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	return img
}

// jpegWithEXIF encodes a w×h JPEG and inserts an APP1 Exif segment after SOI.
func jpegWithEXIF(t *testing.T, w, h int, tiff []byte) []byte {
	t.Helper()
	var enc bytes.Buffer
	require.NoError(t, jpeg.Encode(&enc, testImage(w, h), nil))
	data := enc.Bytes()
	if tiff == nil {
		return data
	}

	payload := append([]byte("Exif\x00\x00"), tiff...)
	seg := []byte{0xFF, 0xE1, 0, 0}
	be.PutUint16(seg[2:], uint16(len(payload)+2))
	seg = append(seg, payload...)

	out := append([]byte{}, data[:2]...)
	out = append(out, seg...)
	return append(out, data[2:]...)
}

func encodePNG(t *testing.T, img goimage.Image) []byte {
	t.Helper()
	var enc bytes.Buffer
	require.NoError(t, png.Encode(&enc, img))
	return enc.Bytes()
}

// pngChunkBytes frames data as a PNG chunk with its CRC.
func pngChunkBytes(typ string, data []byte) []byte {
	var chunk bytes.Buffer
	binary.Write(&chunk, be, uint32(len(data)))
	typed := append([]byte(typ), data...)
	chunk.Write(typed)
	binary.Write(&chunk, be, crc32.ChecksumIEEE(typed))
	return chunk.Bytes()
}

// pngIHDREnd is the offset just past the IHDR chunk.
const pngIHDREnd = 8 + 4 + 4 + 13 + 4

// insertPNGChunks places chunks right after IHDR.
func insertPNGChunks(data []byte, chunks ...[]byte) []byte {
	out := append([]byte{}, data[:pngIHDREnd]...)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return append(out, data[pngIHDREnd:]...)
}

// pngWithEXIF encodes img and inserts an eXIf chunk after IHDR.
func pngWithEXIF(t *testing.T, img goimage.Image, tiff []byte) []byte {
	t.Helper()
	data := encodePNG(t, img)
	if tiff == nil {
		return data
	}
	return insertPNGChunks(data, pngChunkBytes("eXIf", tiff))
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
