package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownReport(t *testing.T) {
	cat, res := testGraphInput(t)
	g := Build(cat, res, Options{IncludePotential: true})
	out := MarkdownReport(cat, res, g, "TD", true)

	assert.True(t, strings.HasPrefix(out, "# Azure Resource Dependency Report\n"))
	assert.Contains(t, out, "**Subscription:** abcdef0123...")
	assert.Contains(t, out, "- **Total Resources:** 4")
	assert.Contains(t, out, "- **Confirmed Dependencies:** 1")
	assert.Contains(t, out, "- **Potential Dependencies:**")

	// Resources are grouped into named categories.
	assert.Contains(t, out, "### Web & App Services")
	assert.Contains(t, out, "### Storage")
	assert.Contains(t, out, "### Other Services")

	assert.Contains(t, out, "#### web-frontend (sites)")
	assert.Contains(t, out, "**Confirmed:**")
	assert.Contains(t, out, "- plan-app (serverfarms)")

	// The diagram is embedded as a fenced mermaid block.
	assert.Contains(t, out, "```mermaid\nflowchart TD\n")
	assert.True(t, strings.HasSuffix(out, "```\n"))
}

func TestMarkdownReportConfirmedOnly(t *testing.T) {
	cat, res := testGraphInput(t)
	g := Build(cat, res, Options{IncludePotential: false})
	out := MarkdownReport(cat, res, g, "TD", false)

	assert.NotContains(t, out, "- **Potential Dependencies:**")
	assert.NotContains(t, out, "**Potential:**")
	assert.NotContains(t, out, "-.->")
}

func TestMarkdownReportDeterministic(t *testing.T) {
	cat, res := testGraphInput(t)

	first := MarkdownReport(cat, res, Build(cat, res, Options{IncludePotential: true}), "TD", true)
	for i := 0; i < 10; i++ {
		g := Build(cat, res, Options{IncludePotential: true})
		require.Equal(t, first, MarkdownReport(cat, res, g, "TD", true))
	}
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, "Web & App Services", categorize("microsoft.web/sites"))
	assert.Equal(t, "Databases", categorize("microsoft.dbforpostgresql/flexibleservers"))
	assert.Equal(t, "Storage", categorize("microsoft.storage/storageaccounts"))
	assert.Equal(t, "Other Services", categorize("custom.provider/widgets"))
}
