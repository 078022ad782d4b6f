package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLPage(t *testing.T) {
	cat, res := testGraphInput(t)
	g := Build(cat, res, Options{IncludePotential: true})

	var buf bytes.Buffer
	require.NoError(t, HTML(g, &buf))
	out := buf.String()

	assert.Contains(t, out, "<title>Azure Resource Graph - abcdef0123...</title>")
	assert.Contains(t, out, "d3js.org/d3.v7.min.js")

	// Subscription root, group nodes, and resource nodes are all inlined.
	assert.Contains(t, out, `"display":"Subscription"`)
	assert.Contains(t, out, `"display":"Resource Group"`)
	assert.Contains(t, out, `"name":"web-frontend"`)
	assert.Contains(t, out, `"name":"stdata01"`)

	// Both edge categories survive into the link data.
	assert.Contains(t, out, `"type":"contains"`)
	assert.Contains(t, out, `"type":"depends"`)
	assert.Contains(t, out, `"type":"potential"`)

	assert.Contains(t, out, "toggle-potential")
}

func TestHTMLWithoutPotential(t *testing.T) {
	cat, res := testGraphInput(t)
	g := Build(cat, res, Options{IncludePotential: false})

	var buf bytes.Buffer
	require.NoError(t, HTML(g, &buf))
	assert.NotContains(t, buf.String(), `"type":"potential"`)
}

func TestHTMLDeterministic(t *testing.T) {
	cat, res := testGraphInput(t)

	render := func() string {
		var buf bytes.Buffer
		require.NoError(t, HTML(Build(cat, res, Options{IncludePotential: true}), &buf))
		return buf.String()
	}
	first := render()
	for i := 0; i < 5; i++ {
		require.True(t, strings.Contains(first, "</html>"))
		require.Equal(t, first, render())
	}
}
