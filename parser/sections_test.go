package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "descripcion", Slugify("Descripción"))
	assert.Equal(t, "flujo-principal", Slugify("Flujo Principal"))
}

func TestParseSectionsNesting(t *testing.T) {
	body := "# Descripción\n" +
		"An order entity.\n" +
		"## Atributos\n" +
		"| id | uuid | primary key |\n" +
		"# Relaciones\n" +
		"[[Customer]]\n"

	sections := ParseSections(body)
	require.Len(t, sections, 3)

	assert.Equal(t, "descripcion", sections[0].Path)
	assert.Contains(t, sections[0].Content, "An order entity.")

	assert.Equal(t, "descripcion.atributos", sections[1].Path)
	assert.Contains(t, sections[1].Content, "primary key")

	// A level-1 heading closes the prior level-1 and level-2 ancestors.
	assert.Equal(t, "relaciones", sections[2].Path)
}

func TestParseSectionsIgnoresFencedHeadings(t *testing.T) {
	body := "# Title\n```\n# not a heading\n```\nafter fence\n"
	sections := ParseSections(body)
	require.Len(t, sections, 1)
	assert.Contains(t, sections[0].Content, "# not a heading")
	assert.Contains(t, sections[0].Content, "after fence")
}

func TestParseWikiLinks(t *testing.T) {
	links := ParseWikiLinks("See [[BR-DOCUMENT-001]] and [[sales::Customer|the customer]] and [[ ]]")
	require.Len(t, links, 2)
	assert.Equal(t, "BR-DOCUMENT-001", links[0].Target)
	assert.Empty(t, links[0].Domain)

	assert.Equal(t, "sales", links[1].Domain)
	assert.Equal(t, "Customer", links[1].Target)
	assert.Equal(t, "the customer", links[1].Alias)
}

func TestExtractFrontMatter(t *testing.T) {
	content := "---\nkind: entity\nid: Order\n---\n# Descripción\nbody\n"
	fm, body := ExtractFrontMatter([]byte(content))
	assert.Equal(t, "entity", fm["kind"])
	assert.Equal(t, "Order", fm["id"])
	assert.Contains(t, body, "# Descripción")
}

func TestExtractFrontMatterMalformedFallsBackToFullBody(t *testing.T) {
	content := "---\nkind: [unterminated\n# Descripción\nbody\n"
	fm, body := ExtractFrontMatter([]byte(content))
	assert.Empty(t, fm)
	assert.Equal(t, content, body)
}

func TestContentHashStability(t *testing.T) {
	a := ContentHash([]byte("hello"))
	b := ContentHash([]byte("hello"))
	c := ContentHash([]byte("hellp"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
