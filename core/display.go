package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ImportantTags lists the tags shown first, in display order.
var ImportantTags = []string{
	"Make", "Model", "DateTime", "DateTimeOriginal",
	"ExposureTime", "FNumber", "ISOSpeedRatings", "FocalLength",
	"Flash", "WhiteBalance", "ColorSpace",
}

var importantSet = func() map[string]bool {
	m := make(map[string]bool, len(ImportantTags))
	for _, name := range ImportantTags {
		m[name] = true
	}
	return m
}()

// IsImportant reports whether name belongs to ImportantTags.
func IsImportant(name string) bool { return importantSet[name] }

// maxOtherLen is the longest string shown untruncated in the "other" section.
const maxOtherLen = 100

// FormatValue returns the default display form of a tag value.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case []int64:
		parts := make([]string, len(val))
		for i, n := range val {
			parts[i] = strconv.FormatInt(n, 10)
		}
		return tuple(parts)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case []float64:
		parts := make([]string, len(val))
		for i, f := range val {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return tuple(parts)
	case Rational:
		return val.String()
	case []Rational:
		parts := make([]string, len(val))
		for i, r := range val {
			parts[i] = r.String()
		}
		return tuple(parts)
	case []byte:
		return BinaryLabel(len(val))
	case *Tags:
		parts := make([]string, 0, val.Len())
		for _, k := range val.Keys() {
			sub, _ := val.Get(k)
			parts = append(parts, k+": "+FormatValue(sub))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(val)
	}
}

func tuple(parts []string) string {
	return "(" + strings.Join(parts, ", ") + ")"
}

// BinaryLabel is the placeholder shown instead of raw byte sequences.
func BinaryLabel(n int) string {
	return fmt.Sprintf("<Binary data, %d bytes>", n)
}

// FormatImportant applies the unit-specific transform for one of the
// ImportantTags. Values that are not a usable ratio fall back to FormatValue.
func FormatImportant(name string, v any) string {
	r, ok := v.(Rational)
	if !ok {
		return FormatValue(v)
	}
	switch name {
	case "ExposureTime":
		return formatExposureTime(r)
	case "FNumber":
		if r.Den == 0 {
			return r.String()
		}
		return fmt.Sprintf("f/%.1f", float64(r.Num)/float64(r.Den))
	case "FocalLength":
		if r.Den == 0 {
			return r.String()
		}
		return fmt.Sprintf("%.1fmm", float64(r.Num)/float64(r.Den))
	}
	return r.String()
}

// formatExposureTime renders 1/N with N the reciprocal rounded down.
// Exposures of a second or longer have no such N and are shown in seconds.
func formatExposureTime(r Rational) string {
	if r.Den == 0 || r.Num == 0 {
		return r.String()
	}
	n := int64(math.Floor(float64(r.Den) / float64(r.Num)))
	if n < 1 {
		return fmt.Sprintf("%.1fs", float64(r.Num)/float64(r.Den))
	}
	return fmt.Sprintf("1/%d", n)
}

// FormatOther renders a value for the "other" section: byte sequences become
// a size label and long strings are truncated.
func FormatOther(v any) string {
	switch val := v.(type) {
	case []byte:
		return BinaryLabel(len(val))
	case string:
		return Truncate(val, maxOtherLen)
	}
	return FormatValue(v)
}

// Truncate returns s truncated to max characters with "..." suffix.
func Truncate(s string, max int) string {
	if max < 3 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}
