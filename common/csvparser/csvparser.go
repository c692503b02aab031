// Package csvparser turns raw CSV text into header-keyed records.
//
// The dialect is deliberately narrow: comma separated, one record per
// physical line, double quotes only switch the "inside quotes" state and are
// never part of a value. Both functions are total: any input produces a
// result and nothing here returns an error.
package csvparser

import (
	"strings"
)

// Record is one parsed data line keyed by header name. Every value is text;
// missing trailing values are the empty string.
type Record map[string]string

// Document is the result of parsing a full CSV text.
type Document struct {
	// Headers in the order they appear on the header line. Duplicates are kept.
	Headers []string
	Records []Record
}

// Len returns the number of data records.
func (d Document) Len() int {
	return len(d.Records)
}

// SplitLine splits a single physical line into trimmed fields.
//
// Every '"' flips the quote state, so an escaped quote ("") inside a quoted
// field is dropped rather than unescaped: `a,"b""c",d` yields [a bc d].
// An empty line yields one empty field.
func SplitLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	return append(fields, strings.TrimSpace(current.String()))
}

// ParseDocument parses text into headers and records. Lines are separated by
// '\n' and blank lines are ignored; the first remaining line is the header.
func ParseDocument(text string) Document {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return Document{}
	}

	headers := SplitLine(lines[0])
	records := make([]Record, 0, len(lines)-1)

	for _, line := range lines[1:] {
		values := SplitLine(line)
		record := make(Record, len(headers))
		for i, header := range headers {
			if i < len(values) {
				record[header] = values[i]
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}

	return Document{Headers: headers, Records: records}
}

// Parse parses text and returns the records with their count.
func Parse(text string) ([]Record, int) {
	doc := ParseDocument(text)
	return doc.Records, doc.Len()
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
