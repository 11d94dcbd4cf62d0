// Package image extracts basic attributes and EXIF tags from a single image
// file: JPEG, PNG, GIF, TIFF, BMP and WebP.
package image

import (
	"fmt"
	goimage "image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ankit-chaubey/image-metadata-viewer/core"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Handler reads metadata from image files.
type Handler struct {
	makerNotes bool
	log        *slog.Logger
}

// New returns a Handler. With makerNotes set, Canon and Nikon maker-note
// fields are decoded and appended to the tags.
func New(makerNotes bool, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{makerNotes: makerNotes, log: log}
}

// View opens the image at path and returns its basic info and tag mapping.
// Any failure to open or identify the image is wrapped in core.ErrExtraction;
// a missing or unreadable EXIF block only leaves the tags empty.
func (h *Handler) View(path string) (core.BasicInfo, *core.Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", core.ErrExtraction, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", core.ErrExtraction, err)
	}

	cfg, format, err := goimage.DecodeConfig(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: cannot identify image file %q: %v", core.ErrExtraction, path, err)
	}

	id, header, err := core.Sniff(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", core.ErrExtraction, err)
	}

	mode := ColorMode(cfg.ColorModel)
	if mode == "RGBA" && !hasAlpha(f, id, header) {
		mode = "RGB"
	}

	basic := core.BasicInfo{
		{Key: core.KeyFileName, Value: filepath.Base(path)},
		{Key: core.KeyFileSize, Value: fmt.Sprintf("%.2f KB", float64(st.Size())/1024)},
		{Key: core.KeyImageSize, Value: fmt.Sprintf("%d x %d", cfg.Width, cfg.Height)},
		{Key: core.KeyFormat, Value: strings.ToUpper(format)},
		{Key: core.KeyMode, Value: mode},
	}

	tags := h.readTags(f, st.Size(), id)
	h.log.Debug("Metadata read", "path", path, "container", id, "format", format, "mode", mode, "tags", tags.Len())
	return basic, tags, nil
}
