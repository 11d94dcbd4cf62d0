package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"

	"github.com/ankit-chaubey/image-metadata-viewer/core"
	"github.com/ankit-chaubey/image-metadata-viewer/core/config"
)

// viewer is the extraction step; *image.Handler satisfies it.
type viewer interface {
	View(path string) (core.BasicInfo, *core.Tags, error)
}

// session drives one interactive run: ask for a path, print the report,
// optionally save it.
type session struct {
	in      *bufio.Reader
	printer *core.Printer
	cfg     *config.Config
	viewer  viewer
	fold    cases.Caser
}

func newSession(in io.Reader, out io.Writer, cfg *config.Config, v viewer) *session {
	return &session{
		in:      bufio.NewReader(in),
		printer: core.NewPrinter(out),
		cfg:     cfg,
		viewer:  v,
		fold:    cases.Fold(),
	}
}

func (s *session) run() {
	s.printer.PrintInfo("Image Metadata Viewer")
	s.printer.PrintInfo(strings.Repeat("=", 30))

	path := cleanPath(s.prompt("Enter the image file path: "))
	if err := checkExists(path); err != nil {
		slog.Debug("Input rejected", "path", path, "error", err)
		s.printer.PrintError(fmt.Sprintf("Error: '%s' not found!", path))
		return
	}

	if !core.IsSupportedExtension(path) {
		s.printer.PrintWarning("this file may not be in a supported image format.")
	}

	s.printer.PrintInfo("\n📖 Reading metadata...")
	basic, tags, err := s.viewer.View(path)
	if err != nil {
		slog.Error("Failed to read metadata", "path", path, "error", err)
		s.printer.PrintError("Error: " + err.Error())
		return
	}

	s.printer.PrintReport(basic, tags)

	answer := s.prompt(fmt.Sprintf("\nSave the results to a file? (%s/n): ", s.cfg.SaveToken))
	if !s.confirmed(answer) {
		return
	}

	out, err := core.SaveReport(s.cfg.OutputDir, path, core.ReportFormat(s.cfg.SaveFormat), basic, tags)
	if err != nil {
		slog.Error("Failed to save report", "path", path, "error", err)
		s.printer.PrintError("Error: could not save results: " + err.Error())
		return
	}

	msg := fmt.Sprintf("Results saved to '%s'.", out)
	if st, err := os.Stat(out); err == nil {
		msg = fmt.Sprintf("Results saved to '%s' (%s).", out, humanize.Bytes(uint64(st.Size())))
	}
	slog.Info("Report saved", "path", out, "format", s.cfg.SaveFormat)
	s.printer.PrintSuccess(msg)
}

// prompt prints msg and reads one line without its line ending. EOF reads
// as whatever was typed before it.
func (s *session) prompt(msg string) string {
	fmt.Fprint(s.printer.Writer, msg)
	line, _ := s.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

// confirmed reports whether answer is the affirmative token, compared
// case-insensitively.
func (s *session) confirmed(answer string) bool {
	return s.fold.String(answer) == s.fold.String(s.cfg.SaveToken)
}

// cleanPath strips surrounding whitespace and quote characters, as left by
// drag-and-drop or "copy as path".
func cleanPath(p string) string {
	return strings.Trim(strings.TrimSpace(p), `"'`)
}

func checkExists(path string) error {
	if path == "" {
		return core.ErrMissingFile
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %v", core.ErrMissingFile, err)
	}
	return nil
}
