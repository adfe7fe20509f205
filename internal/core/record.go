package core

import "strings"

// Split cuts line at every occurrence of d. No quoting or escaping is
// interpreted. An empty line yields a single empty field.
func Split(line string, d Delimiter) []string {
	return strings.Split(line, d.String())
}

// Join concatenates fields with d between consecutive elements.
func Join(fields []string, d Delimiter) string {
	return strings.Join(fields, d.String())
}

// dropField returns a copy of fields without the element at idx.
// fields is returned as a copy unchanged when idx is out of range.
func dropField(fields []string, idx int) []string {
	out := make([]string, 0, len(fields))
	for i, f := range fields {
		if i != idx {
			out = append(out, f)
		}
	}
	return out
}

// insertField returns fields with value spliced in at idx. An idx past the
// end appends.
func insertField(fields []string, idx int, value string) []string {
	if idx > len(fields) {
		idx = len(fields)
	}
	out := make([]string, 0, len(fields)+1)
	out = append(out, fields[:idx]...)
	out = append(out, value)
	return append(out, fields[idx:]...)
}
