// Package render converts a loaded catalog plus inferred edges into textual
// diagram notations: Mermaid markup, an interactive HTML page, and a
// narrative markdown report. Graphs are built fresh per render call and
// iterate in sorted-by-identity order so identical input produces
// byte-identical output.
package render

import (
	"sort"

	"azure-graph/internal/inference"
	"azure-graph/internal/snapshot"
)

// Node is a renderer-ready resource node.
type Node struct {
	ID      string // Full resource ID
	Token   string // Sanitized diagram token
	Name    string
	Type    string
	Kind    string
	Display string // Kind-sensitive display name
	Group   string // Resource group name
	Style   Style
}

// GroupNode is a renderer-ready resource group cluster.
type GroupNode struct {
	ID    string
	Token string
	Name  string
}

// Edge is a renderer-ready directed edge between two resource tokens.
type Edge struct {
	Source      string
	Target      string
	SourceToken string
	TargetToken string
	Category    inference.Category
	Rule        string
}

// Graph is the derived, read-only view handed to the output writers.
type Graph struct {
	SubscriptionID string
	Groups         []GroupNode
	Nodes          []Node
	Edges          []Edge

	nodeByID map[string]*Node
}

// Options configures graph construction.
type Options struct {
	IncludePotential bool
	Styles           *StyleTable // nil means DefaultStyles()
}

// Build assembles the render graph: groups sorted by name, nodes sorted by
// resource ID, tokens assigned in that order, then edges restricted to nodes
// present in the graph.
func Build(cat *snapshot.Catalog, result *inference.Result, opts Options) *Graph {
	styles := opts.Styles
	if styles == nil {
		styles = DefaultStyles()
	}

	g := &Graph{SubscriptionID: cat.SubscriptionID}
	tokens := newTokenTable()

	groups := make([]snapshot.ResourceGroup, len(cat.Groups))
	copy(groups, cat.Groups)
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	for _, rg := range groups {
		g.Groups = append(g.Groups, GroupNode{
			ID:    rg.ID,
			Token: tokens.assign("rg/" + rg.Name),
			Name:  rg.Name,
		})
	}

	resources := make([]*snapshot.Resource, len(cat.Resources))
	copy(resources, cat.Resources)
	sort.Slice(resources, func(i, j int) bool { return resources[i].ID < resources[j].ID })
	for _, r := range resources {
		g.Nodes = append(g.Nodes, Node{
			ID:      r.ID,
			Token:   tokens.assign(r.ID),
			Name:    r.Name,
			Type:    r.Type,
			Kind:    r.Kind,
			Display: styles.DisplayName(r),
			Group:   r.ResourceGroup,
			Style:   styles.For(r.Type),
		})
	}
	g.nodeByID = make(map[string]*Node, len(g.Nodes))
	for i := range g.Nodes {
		g.nodeByID[g.Nodes[i].ID] = &g.Nodes[i]
	}

	for _, e := range result.Edges(opts.IncludePotential) {
		srcToken, ok := tokens.lookup(e.Source)
		if !ok {
			continue
		}
		dstToken, ok := tokens.lookup(e.Target)
		if !ok {
			continue
		}
		g.Edges = append(g.Edges, Edge{
			Source:      e.Source,
			Target:      e.Target,
			SourceToken: srcToken,
			TargetToken: dstToken,
			Category:    e.Category,
			Rule:        e.Rule,
		})
	}
	return g
}

// Node returns the graph node for a resource ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodeByID[id]
	return n, ok
}

// NodesInGroup returns the graph's nodes belonging to the named group, in
// graph (sorted) order.
func (g *Graph) NodesInGroup(group string) []*Node {
	var out []*Node
	for i := range g.Nodes {
		if g.Nodes[i].Group == group {
			out = append(out, &g.Nodes[i])
		}
	}
	return out
}

// truncateSubscription shortens a subscription ID for display to its first
// ten characters plus an ellipsis.
func truncateSubscription(id string) string {
	if len(id) <= 10 {
		return id
	}
	return id[:10] + "..."
}
