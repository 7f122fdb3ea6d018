package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderSafe_BasicMarkdown(t *testing.T) {
	t.Parallel()

	out := RenderSafe("# Title\n\nsome **bold** text")
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestRenderSafe_StripsScripts(t *testing.T) {
	t.Parallel()

	out := RenderSafe(`hello <script>alert(1)</script> <img src="x" onerror="alert(1)">`)
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "onerror")
	assert.NotContains(t, out, "alert(1)")
}

func TestRenderSafe_KeepsWhitelistedImages(t *testing.T) {
	t.Parallel()

	out := RenderSafe(`![alt text](https://example.com/cat.png "a cat")`)
	assert.Contains(t, out, "<img")
	assert.Contains(t, out, `alt="alt text"`)
}

func TestRenderSafe_Tables(t *testing.T) {
	t.Parallel()

	out := RenderSafe("| a | b |\n|---|---|\n| 1 | 2 |")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>1</td>")
}
