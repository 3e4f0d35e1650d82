package entrylog

import (
	"strings"
	"time"
)

// TimestampLayout is the single locale format used for entry headers
const TimestampLayout = "2006/1/2 15:04:05"

// Timestamp renders t in loc using TimestampLayout. A nil loc means UTC.
func Timestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimestampLayout)
}

// Initial returns the log text stored when a record is first created.
// The first entry is deliberately unattributed: it is the trimmed fragment only.
func Initial(fragment string) string {
	return strings.TrimSpace(fragment)
}

// Header renders the attribution line of an entry, without the trailing newline
func Header(timestamp, author string) string {
	return string(headerOpen) + timestamp + HeaderSeparator + author + string(headerClose)
}

// Append adds fragment to the end of existing as a new attributed entry.
// A blank fragment leaves existing untouched; existing bytes are never modified.
func Append(existing, fragment, author, timestamp string) string {
	body := strings.TrimSpace(fragment)
	if body == "" {
		return existing
	}

	entry := Header(timestamp, author) + "\n" + body
	if existing == "" {
		return entry
	}
	return existing + Separator + entry
}
