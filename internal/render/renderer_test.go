package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer() *Renderer {
	md := NewMarkdown(false)
	registry := NewRegistry()
	structured := NewStructured(registry, md, nil)

	return NewRenderer(md, registry, structured, nil)
}

func TestRenderer_Post_PlainMarkdown(t *testing.T) {
	r := newTestRenderer()

	out := r.Post("# Title\n\nSome *text*.")
	assert.Contains(t, out, ">Title</h1>")
	assert.Contains(t, out, "<em>text</em>")
}

func TestRenderer_Post_MixedContent(t *testing.T) {
	r := newTestRenderer()

	out := r.Post(`Before <Image src="a.png" /> after`)

	// Three fragments in encounter order: markdown, component, markdown.
	assert.Contains(t, out, "Before")
	assert.Contains(t, out, `src="a.png"`)
	assert.Contains(t, out, "after")

	beforeIdx := indexOf(t, out, "Before")
	imgIdx := indexOf(t, out, `src="a.png"`)
	afterIdx := indexOf(t, out, "after")
	assert.Less(t, beforeIdx, imgIdx)
	assert.Less(t, imgIdx, afterIdx)
}

func TestRenderer_Post_Idempotent(t *testing.T) {
	r := newTestRenderer()
	content := `# Doc

<Hero title="Welcome">intro *text*</Hero>

Trailing <Image src="b.png" /> words.`

	first := r.Post(content)
	second := r.Post(content)
	assert.Equal(t, first, second)
}

func TestRenderer_Post_StructuredDocumentDelegation(t *testing.T) {
	r := newTestRenderer()

	out := r.Post(`  <Document>
# Inside

<Divider />
</Document>`)
	assert.Contains(t, out, ">Inside</h1>")
	assert.Contains(t, out, "content-divider")
}

func TestRenderer_Post_StructuredDocumentFailure(t *testing.T) {
	r := newTestRenderer()

	// Image without src fails inside the document; the whole delegation
	// collapses to the fixed placeholder.
	out := r.Post(`<Document><Image /></Document>`)
	assert.Equal(t, documentErrorHTML, out)
}

func TestRenderer_Post_BlockSegment(t *testing.T) {
	r := newTestRenderer()

	out := r.Post(`text before

<Gallery>inner *caption*</Gallery>

text after`)
	assert.Contains(t, out, "text before")
	assert.Contains(t, out, `doc-gallery`)
	assert.Contains(t, out, "<em>caption</em>")
	assert.Contains(t, out, "text after")
}

func TestRenderer_Post_UnknownTagRendersEmpty(t *testing.T) {
	r := newTestRenderer()

	out := r.Post(`before <Mystery thing="x" /> after`)
	assert.Contains(t, out, "before")
	assert.Contains(t, out, "after")
	assert.NotContains(t, out, "Mystery")
	assert.NotContains(t, out, "render-error")
}

func TestRenderer_Post_ComponentFailureIsolated(t *testing.T) {
	md := NewMarkdown(false)
	registry := NewRegistry()
	registry.Register("Video", func(map[string]string) (string, error) {
		return "", fmt.Errorf("upstream transcoder offline")
	})
	structured := NewStructured(registry, md, nil)
	r := NewRenderer(md, registry, structured, nil)

	out := r.Post(`Some *markdown* then <Video src="clip.mp4" /> then more.`)
	assert.Contains(t, out, "<em>markdown</em>")
	assert.Contains(t, out, `<div class="render-error">video rendering error</div>`)
	assert.Contains(t, out, "then more.")
}

func TestRenderer_Post_SelfClosingBeforeAdjacentBlock(t *testing.T) {
	r := newTestRenderer()

	out := r.Post(`<Divider /><Hero title="T">body</Hero>`)

	dividerIdx := indexOf(t, out, "content-divider")
	heroIdx := indexOf(t, out, "doc-hero")
	assert.Less(t, dividerIdx, heroIdx)
}

func TestRenderer_Post_DuplicateAttrLastWins(t *testing.T) {
	r := newTestRenderer()

	out := r.Post(`<Image src="first.png" src="second.png" />`)
	assert.Contains(t, out, `src="second.png"`)
	assert.NotContains(t, out, "first.png")
}

func TestRenderer_Markdown(t *testing.T) {
	r := newTestRenderer()

	out, err := r.Markdown("**bold**")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>bold</strong>")
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()

	idx := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, idx, 0, "%q not found in %q", needle, haystack)

	return idx
}
