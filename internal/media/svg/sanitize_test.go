package svg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeStripsScripts(t *testing.T) {
	input := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script><rect width="1"/></svg>`)

	clean, err := Sanitize(input)
	require.NoError(t, err)

	assert.NotContains(t, string(clean), "<script")
	assert.Contains(t, string(clean), "<rect")
}

func TestSanitizeStripsEventHandlers(t *testing.T) {
	input := []byte(`<svg onload="evil()"><circle r="5" onclick="evil()"/></svg>`)

	clean, err := Sanitize(input)
	require.NoError(t, err)

	assert.NotContains(t, string(clean), "onload")
	assert.NotContains(t, string(clean), "onclick")
	assert.Contains(t, string(clean), "<circle")
}

func TestSanitizeStripsScriptHrefs(t *testing.T) {
	input := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><a xlink:href="javascript:evil()">x</a><a href='javascript:evil()'>y</a><a href="/cats/1">ok</a></svg>`)

	clean, err := Sanitize(input)
	require.NoError(t, err)

	assert.NotContains(t, string(clean), "javascript:")
	assert.Contains(t, string(clean), `href="/cats/1"`)
}

func TestSanitizeStripsSingleQuotedEventHandlers(t *testing.T) {
	input := []byte(`<svg><circle r="5" onmouseover='evil()'/></svg>`)

	clean, err := Sanitize(input)
	require.NoError(t, err)

	assert.NotContains(t, string(clean), "onmouseover")
	assert.Contains(t, string(clean), `r="5"`)
}

func TestSanitizeRejectsNonSVG(t *testing.T) {
	_, err := Sanitize([]byte(`<html><body>hi</body></html>`))
	assert.Error(t, err)
}
