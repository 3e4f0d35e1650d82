package entrylog

import "strings"

// Parse splits a log into its entries, oldest first.
// It never fails: anything that does not look like an attributed entry becomes Legacy.
func Parse(log string) []Entry {
	entries := []Entry{}
	if log == "" {
		return entries
	}

	for _, chunk := range split(log) {
		entries = append(entries, parseChunk(chunk))
	}
	return entries
}

// split cuts log at every blank line that is directly followed by a header marker.
// The marker stays with the chunk that follows it.
func split(log string) []string {
	var chunks []string
	start := 0
	for i := 0; i+len(Separator) < len(log); {
		if log[i:i+len(Separator)] == Separator && log[i+len(Separator)] == headerOpen {
			chunks = append(chunks, log[start:i])
			i += len(Separator)
			start = i
			continue
		}
		i++
	}
	return append(chunks, log[start:])
}

func parseChunk(chunk string) Entry {
	header, body, ok := cutHeader(chunk)
	if !ok {
		return Legacy{Body: chunk}
	}

	timestamp, author, ok := splitHeader(header)
	if !ok {
		return Legacy{Body: chunk}
	}

	return Attributed{Timestamp: timestamp, Author: author, Body: body}
}

// cutHeader extracts "[header]\n" from the front of chunk
func cutHeader(chunk string) (header, body string, ok bool) {
	if len(chunk) == 0 || chunk[0] != headerOpen {
		return "", "", false
	}

	end := strings.IndexByte(chunk, headerClose)
	if end <= 1 || end+1 >= len(chunk) || chunk[end+1] != '\n' {
		return "", "", false
	}

	header = chunk[1:end]
	if strings.ContainsAny(header, "\r\n") {
		return "", "", false
	}
	return header, chunk[end+2:], true
}

// splitHeader separates "timestamp - author" at the last separator.
// Either side may be empty, so an entry written with a blank author still parses.
func splitHeader(header string) (timestamp, author string, ok bool) {
	idx := strings.LastIndex(header, HeaderSeparator)
	if idx < 0 {
		return "", "", false
	}
	return header[:idx], header[idx+len(HeaderSeparator):], true
}
