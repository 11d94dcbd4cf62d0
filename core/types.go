// Package core defines the shared types, format sniffing and report output
// for the image metadata viewer.
package core

import "fmt"

// GPSKey is the reserved Tags key holding the nested GPS sub-mapping.
const GPSKey = "GPS Info"

// Basic info keys, in display order.
const (
	KeyFileName  = "File Name"
	KeyFileSize  = "File Size"
	KeyImageSize = "Image Size"
	KeyFormat    = "Format"
	KeyMode      = "Mode"
)

// MetaField represents a single basic-info key/value pair.
type MetaField struct {
	Key   string // One of the Key* constants
	Value string // Display string
}

// BasicInfo holds the file and image attributes of one image, in display order.
type BasicInfo []MetaField

// Get returns the value stored under key.
func (b BasicInfo) Get(key string) (string, bool) {
	for _, f := range b {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Rational is an EXIF numerator/denominator pair.
type Rational struct {
	Num int64
	Den int64
}

// String renders the raw tuple form, e.g. "(28, 10)".
func (r Rational) String() string {
	return fmt.Sprintf("(%d, %d)", r.Num, r.Den)
}

// Tags is an insertion-ordered mapping of tag name to value.
//
// Values are string, int64, []int64, float64, []float64, Rational,
// []Rational, []byte, or *Tags for the GPS sub-mapping stored under GPSKey.
type Tags struct {
	keys   []string
	values map[string]any
}

// NewTags returns an empty mapping.
func NewTags() *Tags {
	return &Tags{values: make(map[string]any)}
}

// Set stores v under name. An existing key keeps its position.
func (t *Tags) Set(name string, v any) {
	if _, ok := t.values[name]; !ok {
		t.keys = append(t.keys, name)
	}
	t.values[name] = v
}

// Add stores v under name only if name is not present yet.
func (t *Tags) Add(name string, v any) bool {
	if _, ok := t.values[name]; ok {
		return false
	}
	t.Set(name, v)
	return true
}

// Get returns the value stored under name.
func (t *Tags) Get(name string) (any, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.values[name]
	return v, ok
}

// Has reports whether name is present.
func (t *Tags) Has(name string) bool {
	_, ok := t.Get(name)
	return ok
}

// Len returns the number of top-level entries. A nil mapping is empty.
func (t *Tags) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the tag names in insertion order.
func (t *Tags) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// GPS returns the GPS sub-mapping, if any.
func (t *Tags) GPS() (*Tags, bool) {
	v, ok := t.Get(GPSKey)
	if !ok {
		return nil, false
	}
	gps, ok := v.(*Tags)
	return gps, ok
}
