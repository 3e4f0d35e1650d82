// Package entrylog implements the append-only annotation format used for player
// notes and tells.
//
// A log is a single text blob holding entries oldest first. Entries after the first
// are written as
//
//	[<timestamp> - <author>]
//	<body>
//
// and separated from the preceding text by a blank line. Text that does not carry such
// a header (the first entry of a log, or anything written before attribution existed)
// is read back as a Legacy entry.
package entrylog

const (
	// Separator joins consecutive entries in a log
	Separator = "\n\n"
	// HeaderSeparator joins timestamp and author inside a header
	HeaderSeparator = " - "

	headerOpen  = '['
	headerClose = ']'
)

// Entry is one logical unit of a log: either Attributed or Legacy
type Entry interface {
	// Text returns the entry body
	Text() string
	isEntry()
}

// Attributed is an entry with a recoverable author and timestamp
type Attributed struct {
	Timestamp string
	Author    string
	Body      string
}

// Legacy is an entry without attribution, rendered as body only
type Legacy struct {
	Body string
}

func (a Attributed) Text() string { return a.Body }
func (l Legacy) Text() string     { return l.Body }

func (Attributed) isEntry() {}
func (Legacy) isEntry()     {}
