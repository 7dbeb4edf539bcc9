// Package parser extracts structure from spec Markdown: front-matter,
// heading-hierarchy sections, and wiki-links.
package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"gopkg.in/yaml.v3"
)

// ContentHash returns the SHA-256 hex digest of the full file content.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// ExtractFrontMatter splits a YAML front-matter block delimited by `---` at
// file start from the remaining body. Parse errors yield an empty map and
// the full content as body — no information is lost beyond the malformed
// YAML itself.
func ExtractFrontMatter(content []byte) (map[string]any, string) {
	str := string(content)
	if !strings.HasPrefix(str, "---\n") && !strings.HasPrefix(str, "---\r\n") {
		return map[string]any{}, str
	}

	const delimiter = "---"
	start := len(delimiter)
	if start < len(str) && str[start] == '\r' {
		start++
	}
	if start < len(str) && str[start] == '\n' {
		start++
	}

	closeIdx := strings.Index(str[start:], "\n"+delimiter)
	if closeIdx == -1 {
		closeIdx = strings.Index(str[start:], "\r\n"+delimiter)
	}
	if closeIdx == -1 {
		return map[string]any{}, str
	}

	yamlContent := str[start : start+closeIdx]
	bodyStart := start + closeIdx + 1 + len(delimiter)
	for bodyStart < len(str) && (str[bodyStart] == '\n' || str[bodyStart] == '\r') {
		bodyStart++
	}
	body := ""
	if bodyStart < len(str) {
		body = str[bodyStart:]
	}

	var frontMatter map[string]any
	if err := yaml.Unmarshal([]byte(yamlContent), &frontMatter); err != nil {
		return map[string]any{}, str
	}
	if frontMatter == nil {
		frontMatter = map[string]any{}
	}
	return frontMatter, body
}
