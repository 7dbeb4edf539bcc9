package parser

import (
	"regexp"
	"strings"
)

var wikiLinkPattern = regexp.MustCompile(`\[\[([^\]]+)\]\]`)

// WikiLink is a parsed `[[target]]`, `[[domain::target]]`, or
// `[[target|alias]]` reference.
type WikiLink struct {
	Domain string
	Target string
	Alias  string
}

// ParseWikiLinks finds every `[[...]]` match in text. Each match is split on
// the first `::` to recover an optional domain, then the remainder is split
// on the first `|` to recover an optional display alias; the residue is the
// target. Targets that are empty after trimming are dropped.
func ParseWikiLinks(text string) []WikiLink {
	matches := wikiLinkPattern.FindAllStringSubmatch(text, -1)
	links := make([]WikiLink, 0, len(matches))
	for _, m := range matches {
		inner := m[1]

		var domain string
		rest := inner
		if idx := strings.Index(inner, "::"); idx >= 0 {
			domain = strings.TrimSpace(inner[:idx])
			rest = inner[idx+2:]
		}

		var alias string
		target := rest
		if idx := strings.Index(rest, "|"); idx >= 0 {
			target = rest[:idx]
			alias = strings.TrimSpace(rest[idx+1:])
		}

		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}

		links = append(links, WikiLink{Domain: domain, Target: target, Alias: alias})
	}
	return links
}
