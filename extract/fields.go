package extract

import "strings"

// fieldKind declares how a matched section's content should be parsed into
// an indexed_fields value.
type fieldKind int

const (
	fieldText fieldKind = iota
	fieldTable
	fieldBullets
)

// fieldRule maps a set of lowercased section-heading keywords to an
// indexed-field name and the shape its content should take.
type fieldRule struct {
	headings  []string
	fieldName string
	kind      fieldKind
}

// matchesHeading reports whether a section's lowercased, trimmed heading is
// one of the given keywords.
func matchesHeading(heading string, keywords []string) bool {
	heading = strings.ToLower(strings.TrimSpace(heading))
	for _, k := range keywords {
		if heading == k {
			return true
		}
	}
	return false
}

func parseField(content string, kind fieldKind) any {
	switch kind {
	case fieldTable:
		return parseTableRows(content)
	case fieldBullets:
		return parseBullets(content)
	default:
		return strings.TrimSpace(content)
	}
}

// parseTableRows splits a Markdown table on `|`, dropping separator rows
// made entirely of dashes/colons/pipes/whitespace.
func parseTableRows(content string) []any {
	var rows []any
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !strings.Contains(trimmed, "|") {
			continue
		}
		if isSeparatorRow(trimmed) {
			continue
		}
		cells := strings.Split(trimmed, "|")
		// Drop a leading/trailing empty cell produced by a `| a | b |` line.
		if len(cells) > 0 && strings.TrimSpace(cells[0]) == "" {
			cells = cells[1:]
		}
		if len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
			cells = cells[:len(cells)-1]
		}
		row := make([]any, 0, len(cells))
		for _, c := range cells {
			row = append(row, strings.TrimSpace(c))
		}
		rows = append(rows, row)
	}
	return rows
}

func isSeparatorRow(line string) bool {
	for _, r := range line {
		switch r {
		case '-', ':', '|', ' ', '\t':
		default:
			return false
		}
	}
	return strings.ContainsRune(line, '-')
}

// parseBullets collects lines starting with `-` or `*` as list items.
func parseBullets(content string) []any {
	var items []any
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			items = append(items, strings.TrimSpace(trimmed[2:]))
		} else if trimmed == "-" || trimmed == "*" {
			items = append(items, "")
		}
	}
	return items
}
