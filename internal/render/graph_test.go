package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"azure-graph/internal/inference"
	"azure-graph/internal/snapshot"
)

const testSnapshot = `{
  "subscription_id": "abcdef0123456789",
  "resources": [
    {
      "id": "/subscriptions/sub-1/resourceGroups/rg-app/providers/Microsoft.Web/sites/web-frontend",
      "name": "web-frontend",
      "type": "microsoft.web/sites",
      "kind": "app,linux",
      "location": "westeurope",
      "properties": {"serverFarmId": "/subscriptions/sub-1/resourceGroups/rg-app/providers/Microsoft.Web/serverfarms/plan-app"}
    },
    {
      "id": "/subscriptions/sub-1/resourceGroups/rg-app/providers/Microsoft.Web/serverfarms/plan-app",
      "name": "plan-app",
      "type": "microsoft.web/serverfarms",
      "location": "westeurope"
    },
    {
      "id": "/subscriptions/sub-1/resourceGroups/rg-data/providers/Microsoft.Storage/storageAccounts/stdata01",
      "name": "stdata01",
      "type": "microsoft.storage/storageaccounts",
      "kind": "StorageV2",
      "location": "westeurope"
    },
    {
      "id": "/subscriptions/sub-1/resourceGroups/rg-data/providers/Custom.Provider/widgets/widget-1",
      "name": "widget-1",
      "type": "custom.provider/widgets",
      "location": "westeurope"
    }
  ]
}`

// testGraphInput loads the shared fixture and runs inference over it.
func testGraphInput(t *testing.T) (*snapshot.Catalog, *inference.Result) {
	t.Helper()
	cat, err := snapshot.Load(strings.NewReader(testSnapshot))
	require.NoError(t, err)
	return cat, inference.New().Infer(cat)
}

func TestBuildGraph(t *testing.T) {
	cat, res := testGraphInput(t)
	g := Build(cat, res, Options{IncludePotential: true})

	assert.Equal(t, "abcdef0123456789", g.SubscriptionID)

	// Groups sorted by name, nodes sorted by resource ID.
	require.Len(t, g.Groups, 2)
	assert.Equal(t, "rg-app", g.Groups[0].Name)
	assert.Equal(t, "rg-data", g.Groups[1].Name)

	require.Len(t, g.Nodes, 4)
	for i := 1; i < len(g.Nodes); i++ {
		assert.Less(t, g.Nodes[i-1].ID, g.Nodes[i].ID)
	}

	// Every edge endpoint resolves to a node token.
	tokens := map[string]bool{}
	for _, n := range g.Nodes {
		tokens[n.Token] = true
	}
	require.NotEmpty(t, g.Edges)
	for _, e := range g.Edges {
		assert.True(t, tokens[e.SourceToken], "edge source %s has a node", e.Source)
		assert.True(t, tokens[e.TargetToken], "edge target %s has a node", e.Target)
	}

	web, ok := g.Node("/subscriptions/sub-1/resourceGroups/rg-app/providers/Microsoft.Web/sites/web-frontend")
	require.True(t, ok)
	assert.Equal(t, "Linux Web App", web.Display)
	assert.Equal(t, "rg-app", web.Group)

	assert.Len(t, g.NodesInGroup("rg-app"), 2)
	assert.Empty(t, g.NodesInGroup("rg-missing"))
}

func TestBuildExcludesPotential(t *testing.T) {
	cat, res := testGraphInput(t)

	with := Build(cat, res, Options{IncludePotential: true})
	without := Build(cat, res, Options{IncludePotential: false})

	confirmed := 0
	for _, e := range with.Edges {
		if e.Category == inference.CategoryConfirmed {
			confirmed++
		}
	}
	assert.Greater(t, len(with.Edges), confirmed, "fixture produces potential edges")

	require.Len(t, without.Edges, confirmed)
	for _, e := range without.Edges {
		assert.Equal(t, inference.CategoryConfirmed, e.Category)
	}
}

func TestUnknownTypeGetsDefaultStyle(t *testing.T) {
	cat, res := testGraphInput(t)
	g := Build(cat, res, Options{})

	widget, ok := g.Node("/subscriptions/sub-1/resourceGroups/rg-data/providers/Custom.Provider/widgets/widget-1")
	require.True(t, ok)
	assert.Equal(t, "box", widget.Style.Shape)
	assert.Equal(t, "#DDDDDD", widget.Style.Color)
	assert.Equal(t, "Widgets", widget.Display)
}

func TestTruncateSubscription(t *testing.T) {
	assert.Equal(t, "short", truncateSubscription("short"))
	assert.Equal(t, "exactly-10", truncateSubscription("exactly-10"))
	assert.Equal(t, "abcdef0123...", truncateSubscription("abcdef0123456789"))
}
