package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"azure-graph/internal/snapshot"
)

func TestStyleForUnknownType(t *testing.T) {
	styles := DefaultStyles()

	s := styles.For("custom.provider/widgets")
	assert.Equal(t, "Widgets", s.Display)
	assert.Equal(t, "box", s.Shape)
	assert.Equal(t, "#DDDDDD", s.Color)

	// Case-insensitive lookup of known types.
	s = styles.For("Microsoft.Web/Sites")
	assert.Equal(t, "Web App", s.Display)
}

func TestDisplayNameKinds(t *testing.T) {
	styles := DefaultStyles()
	cases := []struct {
		typ, kind, want string
	}{
		{"microsoft.web/sites", "functionapp,linux", "Function App"},
		{"microsoft.web/sites", "app,linux", "Linux Web App"},
		{"microsoft.web/sites", "app", "Web App"},
		{"microsoft.storage/storageaccounts", "BlobStorage", "Blob Storage"},
		{"microsoft.storage/storageaccounts", "StorageV2", "Storage Account v2"},
		{"microsoft.documentdb/databaseaccounts", "MongoDB", "Cosmos DB (MongoDB)"},
		{"microsoft.documentdb/databaseaccounts", "", "Cosmos DB"},
		{"microsoft.keyvault/vaults", "whatever", "Key Vault"},
	}
	for _, c := range cases {
		r := &snapshot.Resource{Type: c.typ, Kind: c.kind}
		assert.Equal(t, c.want, styles.DisplayName(r), "%s kind=%s", c.typ, c.kind)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.yaml")
	doc := `
default:
  color: "#EEEEEE"
types:
  Microsoft.Web/sites:
    color: "#123456"
  custom.provider/widgets:
    display: Widget Service
    shape: hexagon
    color: "#654321"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	styles := DefaultStyles()
	require.NoError(t, styles.LoadOverrides(path))

	// Partial override keeps untouched fields.
	site := styles.For("microsoft.web/sites")
	assert.Equal(t, "#123456", site.Color)
	assert.Equal(t, "Web App", site.Display)
	assert.Equal(t, "rounded", site.Shape)

	widget := styles.For("custom.provider/widgets")
	assert.Equal(t, "Widget Service", widget.Display)
	assert.Equal(t, "hexagon", widget.Shape)

	assert.Equal(t, "#EEEEEE", styles.Default.Color)
	assert.Equal(t, "Resource", styles.Default.Display)
}

func TestLoadOverridesErrors(t *testing.T) {
	styles := DefaultStyles()
	assert.Error(t, styles.LoadOverrides(filepath.Join(t.TempDir(), "missing.yaml")))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("types: [not, a, map]"), 0o644))
	assert.Error(t, styles.LoadOverrides(bad))
}
