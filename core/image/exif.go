package image

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ankit-chaubey/image-metadata-viewer/core"
	"github.com/ankit-chaubey/image-metadata-viewer/core/exiftags"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/rwcarlsen/goexif/tiff"
)

// readTags finds the EXIF block for the given container and resolves it.
// size is the file size and bounds the chunk lengths trusted.
func (h *Handler) readTags(r io.ReadSeeker, size int64, id core.FormatID) *core.Tags {
	var src io.Reader
	switch id {
	case core.FmtJPEG, core.FmtTIFF:
		src = r
	case core.FmtPNG:
		data, err := findPNGChunk(r, size, "eXIf")
		if err != nil {
			h.log.Warn("Failed to read PNG chunks", "error", err)
			return core.NewTags()
		}
		if data != nil {
			src = bytes.NewReader(data)
		}
	case core.FmtWebP:
		if data := findRIFFChunk(r, "EXIF"); data != nil {
			src = bytes.NewReader(data)
		}
	}
	if src == nil {
		h.log.Debug("No EXIF source for container", "container", id)
		return core.NewTags()
	}

	x, err := exif.Decode(src)
	if err != nil {
		if x == nil || exif.IsCriticalError(err) {
			h.log.Debug("No EXIF data decoded", "error", err)
			return core.NewTags()
		}
		h.log.Warn("EXIF decoded with errors", "error", err)
	}
	return h.collect(x)
}

// collect resolves IFD0 and the Exif sub-IFD into one mapping, with the GPS
// sub-IFD nested under core.GPSKey.
func (h *Handler) collect(x *exif.Exif) *core.Tags {
	tags := core.NewTags()
	if x.Tiff == nil || len(x.Tiff.Dirs) == 0 {
		return tags
	}
	raw := bytes.NewReader(x.Raw)
	h.addDir(tags, x.Tiff.Dirs[0], raw, x.Tiff.Order, true)

	if h.makerNotes {
		h.parseMakerNotes(x)
		w := &makerNoteWalker{fields: make(map[string]*tiff.Tag)}
		x.Walk(w)
		names := make([]string, 0, len(w.fields))
		for name := range w.fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			tags.Add(name, tagValue(w.fields[name]))
		}
	}
	return tags
}

// parseMakerNotes runs goexif's Canon and Nikon parsers on x. They slice
// tag values without bounds checks, so a panic only drops the maker-note
// fields.
func (h *Handler) parseMakerNotes(x *exif.Exif) {
	for _, p := range mknote.All {
		func() {
			defer func() {
				if r := recover(); r != nil {
					h.log.Warn("Maker note parser panicked", "panic", r)
				}
			}()
			if err := p.Parse(x); err != nil {
				h.log.Warn("Failed to parse maker note", "error", err)
			}
		}()
	}
}

func (h *Handler) addDir(tags *core.Tags, dir *tiff.Dir, raw *bytes.Reader, order binary.ByteOrder, top bool) {
	for _, tag := range dir.Tags {
		name := exiftags.Name(tag.Id)
		switch {
		case top && tag.Id == exiftags.GPSInfo:
			sub, err := subDir(raw, order, tag)
			if err != nil {
				h.log.Warn("Failed to read GPS IFD", "error", err)
				tags.Set(name, tagValue(tag))
				continue
			}
			gps := core.NewTags()
			for _, t := range sub.Tags {
				gps.Set(exiftags.GPSName(t.Id), tagValue(t))
			}
			tags.Set(core.GPSKey, gps)
			continue
		case top && tag.Id == exiftags.ExifOffset:
			tags.Set(name, tagValue(tag))
			sub, err := subDir(raw, order, tag)
			if err != nil {
				h.log.Warn("Failed to read Exif IFD", "error", err)
				continue
			}
			h.addDir(tags, sub, raw, order, false)
			continue
		}

		if !exiftags.Known(tag.Id) {
			h.log.Debug("Unresolved EXIF tag", "id", tag.Id)
		}
		v := tagValue(tag)
		if s, ok := v.(string); ok && strings.Contains(name, "DateTime") {
			v = ReformatDateTime(s)
		}
		tags.Set(name, v)
	}
}

// subDir decodes the IFD that a pointer tag refers to. Offsets are relative
// to the start of the raw EXIF (TIFF) data.
func subDir(raw *bytes.Reader, order binary.ByteOrder, ptr *tiff.Tag) (*tiff.Dir, error) {
	offset, err := ptr.Int64(0)
	if err != nil {
		return nil, err
	}
	if offset <= 0 || offset >= raw.Size() {
		return nil, fmt.Errorf("sub-IFD offset %d out of range", offset)
	}
	if _, err := raw.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to sub-IFD: %w", err)
	}
	dir, _, err := tiff.DecodeDir(raw, order)
	if err != nil {
		return nil, fmt.Errorf("decode sub-IFD: %w", err)
	}
	return dir, nil
}

// tagValue converts a decoded tag into one of the core.Tags value types.
// Single values are returned as scalars, multiple values as slices.
func tagValue(tag *tiff.Tag) any {
	switch tag.Format() {
	case tiff.StringVal:
		s, _ := tag.StringVal()
		return s
	case tiff.IntVal:
		vals := make([]int64, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			v, err := tag.Int64(i)
			if err != nil {
				break
			}
			vals = append(vals, v)
		}
		if len(vals) == 1 {
			return vals[0]
		}
		return vals
	case tiff.RatVal:
		vals := make([]core.Rational, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			num, den, err := tag.Rat2(i)
			if err != nil {
				break
			}
			vals = append(vals, core.Rational{Num: num, Den: den})
		}
		if len(vals) == 1 {
			return vals[0]
		}
		return vals
	case tiff.FloatVal:
		vals := make([]float64, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			v, err := tag.Float(i)
			if err != nil {
				break
			}
			vals = append(vals, v)
		}
		if len(vals) == 1 {
			return vals[0]
		}
		return vals
	}
	val := make([]byte, len(tag.Val))
	copy(val, tag.Val)
	return val
}

// makerNoteWalker picks the maker-note fields out of goexif's field map.
// goexif names them with a vendor prefix, e.g. "Canon.CameraSettings".
type makerNoteWalker struct {
	fields map[string]*tiff.Tag
}

func (w *makerNoteWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if strings.Contains(string(name), ".") {
		w.fields[string(name)] = tag
	}
	return nil
}

// findPNGChunk returns the data of the first chunk of type typ, or nil if
// the stream ends first. Chunks claiming more bytes than the size of the
// file are rejected before anything is allocated.
func findPNGChunk(r io.Reader, size int64, typ string) ([]byte, error) {
	sig := make([]byte, 8)
	if _, err := io.ReadFull(r, sig); err != nil {
		return nil, err
	}
	if core.DetectMagic(sig) != core.FmtPNG {
		return nil, fmt.Errorf("not a valid PNG")
	}

	pos := int64(len(sig))
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, nil
		}
		pos += int64(len(hdr))
		length := int64(binary.BigEndian.Uint32(hdr[0:4]))
		name := string(hdr[4:8])
		if length+4 > size-pos {
			return nil, fmt.Errorf("%s chunk length %d exceeds file size %d", name, length, size)
		}

		if name == typ {
			data := make([]byte, length)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, err
			}
			return data, nil
		}
		if name == "IEND" {
			return nil, nil
		}
		// data and CRC
		if _, err := io.CopyN(io.Discard, r, length+4); err != nil {
			return nil, nil
		}
		pos += length + 4
	}
}

// findRIFFChunk returns the payload of the first WebP RIFF chunk with the
// given id, or nil.
func findRIFFChunk(r io.Reader, id string) []byte {
	data, err := io.ReadAll(r)
	if err != nil || len(data) < 12 {
		return nil
	}

	offset := 12 // skip RIFF header
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		offset += 8
		if chunkSize < 0 || offset+chunkSize > len(data) {
			break
		}
		if chunkID == id {
			return data[offset : offset+chunkSize]
		}
		offset += chunkSize
		if chunkSize%2 != 0 {
			offset++ // padding
		}
	}
	return nil
}
