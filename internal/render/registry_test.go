package render

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RenderBuiltins(t *testing.T) {
	r := NewRegistry()

	out, known, err := r.Render("Image", map[string]string{"src": "a.png", "alt": "An image"})
	require.NoError(t, err)
	require.True(t, known)
	assert.Contains(t, out, `src="a.png"`)
	assert.Contains(t, out, `alt="An image"`)

	out, known, err = r.Render("Divider", nil)
	require.NoError(t, err)
	require.True(t, known)
	assert.Contains(t, out, "content-divider")
}

func TestRegistry_RenderEscapesAttributes(t *testing.T) {
	r := NewRegistry()

	out, known, err := r.Render("Image", map[string]string{
		"src": `a.png" onerror="alert(1)`,
		"alt": "<script>",
	})
	require.NoError(t, err)
	require.True(t, known)
	assert.NotContains(t, out, `onerror="alert(1)"`)
	assert.NotContains(t, out, "<script>")
}

func TestRegistry_UnknownTag(t *testing.T) {
	r := NewRegistry()

	out, known, err := r.Render("Nonsense", nil)
	require.NoError(t, err)
	assert.False(t, known)
	assert.Empty(t, out)
}

func TestRegistry_MissingRequiredAttr(t *testing.T) {
	r := NewRegistry()

	_, known, err := r.Render("Video", map[string]string{})
	require.True(t, known)
	assert.Error(t, err)
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register("Image", func(attrs map[string]string) (string, error) {
		return fmt.Sprintf("custom:%s", attrs["src"]), nil
	})

	out, known, err := r.Render("Image", map[string]string{"src": "x"})
	require.NoError(t, err)
	require.True(t, known)
	assert.Equal(t, "custom:x", out)
}
