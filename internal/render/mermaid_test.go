package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMermaidStructure(t *testing.T) {
	cat, res := testGraphInput(t)
	g := Build(cat, res, Options{IncludePotential: true})
	out := Mermaid(g, "LR")

	assert.True(t, strings.HasPrefix(out, "flowchart LR\n"))
	assert.Contains(t, out, `root["Subscription<br/>abcdef0123..."]`)

	// One subgraph cluster per resource group, attached to the root.
	assert.Contains(t, out, `subgraph rg_rg_app["rg-app"]`)
	assert.Contains(t, out, `subgraph rg_rg_data["rg-data"]`)
	assert.Contains(t, out, "root --> rg_rg_app")

	// Confirmed edges are solid, potential edges dotted.
	assert.Contains(t, out, "%% Confirmed dependencies")
	assert.Contains(t, out, "%% Potential dependencies")
	assert.Contains(t, out, "-.->")

	// Hosting plan renders with the stadium shape from its style.
	assert.Contains(t, out, `(["<b>App Service Plan</b><br/>plan-app"])`)
	// Web sites suppress the kind suffix in the label.
	assert.NotContains(t, out, "(app,linux)")
	// Storage kind is informative and kept.
	assert.Contains(t, out, "<i>(StorageV2)</i>")

	assert.Contains(t, out, "classDef class_microsoft_web_sites fill:#96CEB4")
}

func TestMermaidWithoutPotential(t *testing.T) {
	cat, res := testGraphInput(t)
	g := Build(cat, res, Options{IncludePotential: false})
	out := Mermaid(g, "TD")

	assert.Contains(t, out, "%% Confirmed dependencies")
	assert.NotContains(t, out, "%% Potential dependencies")
	assert.NotContains(t, out, "-.->")
}

func TestMermaidDeterministic(t *testing.T) {
	cat, res := testGraphInput(t)

	first := Mermaid(Build(cat, res, Options{IncludePotential: true}), "TD")
	for i := 0; i < 10; i++ {
		again := Mermaid(Build(cat, res, Options{IncludePotential: true}), "TD")
		require.Equal(t, first, again, "render %d differs", i)
	}
}

func TestMermaidDirectionFallback(t *testing.T) {
	cat, res := testGraphInput(t)
	g := Build(cat, res, Options{})

	assert.True(t, strings.HasPrefix(Mermaid(g, "sideways"), "flowchart TD\n"))
	assert.True(t, strings.HasPrefix(Mermaid(g, "bt"), "flowchart BT\n"))
}

func TestValidDirection(t *testing.T) {
	for _, dir := range []string{"TD", "TB", "BT", "LR", "RL", "lr"} {
		assert.True(t, ValidDirection(dir), dir)
	}
	assert.False(t, ValidDirection("XX"))
	assert.False(t, ValidDirection(""))
}

func TestEscapeMermaid(t *testing.T) {
	assert.Equal(t, "say &quot;hi&quot;", escapeMermaid(`say "hi"`))
	assert.Equal(t, "two lines", escapeMermaid("two\nlines"))
}
