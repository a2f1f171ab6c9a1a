package models

import "time"

const timestampLayout = "2006-01-02 15:04"

// FormatTimestamp renders t in local time; the zero time renders as "".
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timestampLayout)
}
