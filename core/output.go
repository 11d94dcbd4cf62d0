package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReportFormat selects how a saved report is encoded.
type ReportFormat string

const (
	ReportText ReportFormat = "text"
	ReportJSON ReportFormat = "json"
	ReportYAML ReportFormat = "yaml"
)

var reportExt = map[ReportFormat]string{
	ReportText: ".txt",
	ReportJSON: ".json",
	ReportYAML: ".yaml",
}

// Printer handles all console output for the CLI.
type Printer struct {
	Writer io.Writer
}

// NewPrinter creates a Printer writing to w, or to stdout when w is nil.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{Writer: w}
}

// PrintReport renders the decorated console report.
func (p *Printer) PrintReport(basic BasicInfo, tags *Tags) {
	var b strings.Builder
	renderReport(&b, basic, tags, true)
	fmt.Fprint(p.Writer, b.String())
}

// PrintSuccess prints a success message.
func (p *Printer) PrintSuccess(msg string) {
	fmt.Fprintln(p.Writer, "✅ "+msg)
}

// PrintWarning prints a warning that does not stop the run.
func (p *Printer) PrintWarning(msg string) {
	fmt.Fprintln(p.Writer, "⚠️  Warning: "+msg)
}

// PrintError prints an error message.
func (p *Printer) PrintError(msg string) {
	fmt.Fprintln(p.Writer, "❌ "+msg)
}

// PrintInfo prints an info line.
func (p *Printer) PrintInfo(msg string) {
	fmt.Fprintln(p.Writer, msg)
}

// WriteReport writes the plain report: same sections as the console report,
// without banners or emoji.
func WriteReport(w io.Writer, basic BasicInfo, tags *Tags) error {
	var b strings.Builder
	renderReport(&b, basic, tags, false)
	_, err := io.WriteString(w, b.String())
	return err
}

func renderReport(b *strings.Builder, basic BasicInfo, tags *Tags, decorated bool) {
	banner := strings.Repeat("=", 60)
	heading := func(emoji, title string, rule int) {
		b.WriteString("\n")
		if decorated {
			b.WriteString(emoji + " ")
		}
		b.WriteString(title + "\n")
		b.WriteString(strings.Repeat("-", rule) + "\n")
	}

	if decorated {
		b.WriteString(banner + "\nIMAGE METADATA\n" + banner + "\n")
	} else {
		b.WriteString("IMAGE METADATA\n")
	}

	heading("📋", "BASIC INFO:", 30)
	for _, f := range basic {
		fmt.Fprintf(b, "%-15s: %s\n", f.Key, f.Value)
	}

	if tags.Len() > 0 {
		heading("📸", fmt.Sprintf("EXIF DATA (%d entries):", tags.Len()), 40)
		for _, name := range ImportantTags {
			if v, ok := tags.Get(name); ok {
				fmt.Fprintf(b, "%-20s: %s\n", name, FormatImportant(name, v))
			}
		}

		if gps, ok := tags.GPS(); ok {
			if decorated {
				heading("🌍", "GPS INFO:", 20)
				for _, k := range gps.Keys() {
					v, _ := gps.Get(k)
					fmt.Fprintf(b, "%-20s: %s\n", k, FormatValue(v))
				}
			} else {
				b.WriteString("\n" + GPSKey + ":\n")
				for _, k := range gps.Keys() {
					v, _ := gps.Get(k)
					fmt.Fprintf(b, "  %s: %s\n", k, FormatValue(v))
				}
			}
		}

		heading("📊", "OTHER EXIF DATA:", 25)
		for _, name := range tags.Keys() {
			if IsImportant(name) || name == GPSKey {
				continue
			}
			v, _ := tags.Get(name)
			fmt.Fprintf(b, "%-20s: %s\n", name, FormatOther(v))
		}
	}

	if decorated {
		b.WriteString("\n" + banner + "\n")
	}
}

// Document is the structured form of a report used for JSON and YAML output.
type Document struct {
	BasicInfo map[string]string `json:"basic_info" yaml:"basic_info"`
	EXIF      map[string]string `json:"exif,omitempty" yaml:"exif,omitempty"`
	GPS       map[string]string `json:"gps,omitempty" yaml:"gps,omitempty"`
}

// NewDocument collects the displayed values of a report. Strings are not
// truncated.
func NewDocument(basic BasicInfo, tags *Tags) Document {
	doc := Document{BasicInfo: make(map[string]string, len(basic))}
	for _, f := range basic {
		doc.BasicInfo[f.Key] = f.Value
	}
	for _, name := range tags.Keys() {
		v, _ := tags.Get(name)
		if gps, ok := v.(*Tags); ok && name == GPSKey {
			doc.GPS = make(map[string]string, gps.Len())
			for _, k := range gps.Keys() {
				sub, _ := gps.Get(k)
				doc.GPS[k] = FormatValue(sub)
			}
			continue
		}
		if doc.EXIF == nil {
			doc.EXIF = make(map[string]string)
		}
		if IsImportant(name) {
			doc.EXIF[name] = FormatImportant(name, v)
		} else {
			doc.EXIF[name] = FormatValue(v)
		}
	}
	return doc
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteYAML writes doc as YAML.
func WriteYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// ReportFileName returns "<stem>_metadata<ext>" for the image at src.
func ReportFileName(src string, format ReportFormat) string {
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	ext, ok := reportExt[format]
	if !ok {
		ext = reportExt[ReportText]
	}
	return stem + "_metadata" + ext
}

// SaveReport writes the report for src into dir, overwriting any existing
// file, and returns the written path.
func SaveReport(dir, src string, format ReportFormat, basic BasicInfo, tags *Tags) (string, error) {
	out := filepath.Join(dir, ReportFileName(src, format))
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	switch format {
	case ReportJSON:
		err = WriteJSON(f, NewDocument(basic, tags))
	case ReportYAML:
		err = WriteYAML(f, NewDocument(basic, tags))
	default:
		err = WriteReport(f, basic, tags)
	}
	if err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	return out, nil
}
