package parser

import (
	"strings"

	"github.com/c360studio/kdd-engine/domain"
)

// BuildDocument assembles a domain.Document from a file's raw bytes and its
// repo-relative source path. It does not perform kind routing — callers run
// the Kind Router first and only build a Document once routing succeeds.
func BuildDocument(kind domain.KDDKind, id, sourcePath string, content []byte, frontMatter map[string]any, body string) domain.Document {
	layer, _ := domain.LayerFromPath(sourcePath)

	parsedSections := ParseSections(body)
	sections := make([]domain.Section, 0, len(parsedSections))
	for _, s := range parsedSections {
		sections = append(sections, domain.Section{
			Heading: s.Heading,
			Level:   s.Level,
			Content: s.Content,
			Path:    s.Path,
		})
	}

	var wikiLinks []domain.WikiLink
	for _, s := range parsedSections {
		heading := strings.ToLower(strings.TrimSpace(s.Heading))
		for _, link := range ParseWikiLinks(s.Content) {
			wikiLinks = append(wikiLinks, domain.WikiLink{
				Domain:  link.Domain,
				Target:  link.Target,
				Alias:   link.Alias,
				Section: heading,
			})
		}
	}
	// Also catch wiki-links in any preamble text not captured by a section
	// (content before the first heading).
	for _, link := range ParseWikiLinks(preamble(body)) {
		wikiLinks = append(wikiLinks, domain.WikiLink{
			Domain: link.Domain,
			Target: link.Target,
			Alias:  link.Alias,
		})
	}

	domainTag, _ := frontMatter["domain"].(string)

	return domain.Document{
		ID:          id,
		Kind:        kind,
		SourcePath:  sourcePath,
		SourceHash:  ContentHash(content),
		Layer:       layer,
		FrontMatter: frontMatter,
		Sections:    sections,
		WikiLinks:   wikiLinks,
		Domain:      domainTag,
	}
}

// preamble returns the portion of body preceding the first heading line, so
// its wiki-links are not silently dropped.
func preamble(body string) string {
	lines := strings.Split(body, "\n")
	var out []string
	for _, line := range lines {
		if headingLevel(line) > 0 {
			break
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
