package image

import "time"

const (
	exifDateLayout    = "2006:01:02 15:04:05"
	displayDateLayout = "02.01.2006 15:04:05"
)

// ReformatDateTime turns an EXIF "YYYY:MM:DD HH:MM:SS" timestamp into
// "DD.MM.YYYY HH:MM:SS". Anything else is returned unchanged.
func ReformatDateTime(s string) string {
	t, err := time.Parse(exifDateLayout, s)
	if err != nil {
		return s
	}
	return t.Format(displayDateLayout)
}
