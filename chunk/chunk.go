// Package chunk turns a Document's embeddable sections into context-enriched
// text chunks ready for an embedding model, using paragraph accumulation
// with sentence-boundary splitting for oversized paragraphs, gated per
// section by per-kind rules.
package chunk

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/c360studio/kdd-engine/domain"
)

// Config controls chunk sizing. Defaults match the reference algorithm.
type Config struct {
	MaxChars        int // default 1500
	OverlapChars    int // default 200, applied between accumulated paragraphs
	MinWords        int // default 20, paragraphs below this merge forward
}

// DefaultConfig returns the reference chunking thresholds.
func DefaultConfig() Config {
	return Config{MaxChars: 1500, OverlapChars: 200, MinWords: 20}
}

// Chunk is one ordered segment of an embeddable section, ready for encoding.
type Chunk struct {
	SectionPath string
	SectionName string
	ChunkIndex  int
	RawText     string
	ContextText string
}

var sentenceBoundary = regexp.MustCompile(`[.?!]\s+`)

// ChunkDocument determines the embeddable-section set for the document's
// kind via the Embeddable Sections rule, then chunks every section whose
// lowercased heading is in that set. Event-kind documents always produce
// zero chunks.
func ChunkDocument(doc domain.Document, cfg Config) []Chunk {
	embeddable := domain.EmbeddableSections(doc.Kind)
	if len(embeddable) == 0 {
		return nil
	}

	var chunks []Chunk
	for _, section := range doc.Sections {
		heading := strings.ToLower(strings.TrimSpace(section.Heading))
		if !embeddable[heading] {
			continue
		}
		for i, text := range chunkSection(section.Content, cfg) {
			chunks = append(chunks, Chunk{
				SectionPath: section.Path,
				SectionName: section.Heading,
				ChunkIndex:  len(chunks),
				RawText:     text,
				ContextText: buildContextText(doc, section, text, i),
			})
		}
	}
	return chunks
}

func buildContextText(doc domain.Document, section domain.Section, text string, _ int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\n", doc.ID)
	fmt.Fprintf(&b, "Kind: %s\n", doc.Kind)
	fmt.Fprintf(&b, "Layer: %s\n", doc.Layer)
	fmt.Fprintf(&b, "Section: %s\n\n", section.Heading)
	b.WriteString(text)
	return b.String()
}

// chunkSection implements the per-section chunking steps: paragraph
// splitting, minimum-word merging, sentence-boundary splitting of
// oversized paragraphs, and max-char accumulation with paragraph-level
// overlap.
func chunkSection(content string, cfg Config) []string {
	paragraphs := splitParagraphs(content)
	paragraphs = mergeShortParagraphs(paragraphs, cfg.MinWords)

	var normalized []string
	for _, p := range paragraphs {
		if len(p) <= cfg.MaxChars {
			normalized = append(normalized, p)
			continue
		}
		normalized = append(normalized, splitBySentences(p, cfg.MaxChars)...)
	}

	return accumulate(normalized, cfg)
}

var blankLineRun = regexp.MustCompile(`\n\s*\n+`)

func splitParagraphs(content string) []string {
	parts := blankLineRun.Split(strings.TrimSpace(content), -1)
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func mergeShortParagraphs(paragraphs []string, minWords int) []string {
	if minWords <= 0 || len(paragraphs) == 0 {
		return paragraphs
	}
	var merged []string
	for _, p := range paragraphs {
		if len(merged) > 0 && wordCount(merged[len(merged)-1]) < minWords {
			merged[len(merged)-1] = merged[len(merged)-1] + "\n\n" + p
			continue
		}
		merged = append(merged, p)
	}
	// A trailing short paragraph merges into the previous one.
	if len(merged) > 1 && wordCount(merged[len(merged)-1]) < minWords {
		last := merged[len(merged)-1]
		merged = merged[:len(merged)-1]
		merged[len(merged)-1] = merged[len(merged)-1] + "\n\n" + last
	}
	return merged
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// splitBySentences splits an oversized paragraph at sentence boundaries
// (period/question/exclamation followed by whitespace), falling back to a
// hard character split when no sentence boundary brings a segment under the
// limit (e.g. one very long sentence).
func splitBySentences(paragraph string, maxChars int) []string {
	idxs := sentenceBoundary.FindAllStringIndex(paragraph, -1)
	if len(idxs) == 0 {
		return hardSplit(paragraph, maxChars)
	}

	var segments []string
	start := 0
	for _, loc := range idxs {
		end := loc[1]
		segments = append(segments, paragraph[start:end])
		start = end
	}
	if start < len(paragraph) {
		segments = append(segments, paragraph[start:])
	}

	var out []string
	var current strings.Builder
	for _, seg := range segments {
		if current.Len()+len(seg) > maxChars && current.Len() > 0 {
			out = append(out, strings.TrimSpace(current.String()))
			current.Reset()
		}
		if len(seg) > maxChars {
			out = append(out, hardSplit(seg, maxChars)...)
			continue
		}
		current.WriteString(seg)
	}
	if current.Len() > 0 {
		out = append(out, strings.TrimSpace(current.String()))
	}
	return out
}

// hardSplit is the last-resort split when no sentence boundary exists,
// cutting at maxChars boundaries.
func hardSplit(s string, maxChars int) []string {
	var out []string
	for len(s) > maxChars {
		out = append(out, strings.TrimSpace(s[:maxChars]))
		s = s[maxChars:]
	}
	if strings.TrimSpace(s) != "" {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

// accumulate packs normalized paragraphs into chunks targeting MaxChars,
// carrying the trailing OverlapChars of one chunk's text into the start of
// the next.
func accumulate(paragraphs []string, cfg Config) []string {
	if len(paragraphs) == 0 {
		return nil
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		text := strings.TrimSpace(current.String())
		if text != "" {
			chunks = append(chunks, text)
		}
		current.Reset()
	}

	for _, p := range paragraphs {
		if current.Len() > 0 && current.Len()+len(p)+2 > cfg.MaxChars {
			flush()
			if cfg.OverlapChars > 0 && len(chunks) > 0 {
				prev := chunks[len(chunks)-1]
				overlap := prev
				if len(overlap) > cfg.OverlapChars {
					overlap = overlap[len(overlap)-cfg.OverlapChars:]
				}
				current.WriteString(overlap)
				current.WriteString("\n\n")
			}
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	flush()

	return chunks
}
