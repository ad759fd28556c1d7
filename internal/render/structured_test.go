package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStructured() *Structured {
	md := NewMarkdown(false)
	return NewStructured(NewRegistry(), md, nil)
}

func TestStructured_Render_DocumentUnwrap(t *testing.T) {
	s := newTestStructured()

	out, err := s.Render(`<Document>
# Heading

<Divider />
</Document>`)
	require.NoError(t, err)
	assert.Contains(t, out, ">Heading</h1>")
	assert.Contains(t, out, "content-divider")
	assert.NotContains(t, out, "Document")
}

func TestStructured_Render_BlockBecomesSection(t *testing.T) {
	s := newTestStructured()

	out, err := s.Render(`<Gallery>some *caption*</Gallery>`)
	require.NoError(t, err)
	assert.Contains(t, out, `<section class="doc-section doc-gallery">`)
	assert.Contains(t, out, "<em>caption</em>")
}

func TestStructured_Render_NestedBlocks(t *testing.T) {
	s := newTestStructured()

	out, err := s.Render(`<Document><Row><Image src="a.png" /></Row></Document>`)
	require.NoError(t, err)
	assert.Contains(t, out, `doc-row`)
	assert.Contains(t, out, `src="a.png"`)
}

func TestStructured_Render_NoOpeningTag(t *testing.T) {
	s := newTestStructured()

	_, err := s.Render("just some text")
	assert.Error(t, err)

	_, err = s.Render("")
	assert.Error(t, err)
}

func TestStructured_Render_ComponentErrorPropagates(t *testing.T) {
	s := newTestStructured()

	_, err := s.Render(`<Document><Image /></Document>`)
	assert.Error(t, err)
}
