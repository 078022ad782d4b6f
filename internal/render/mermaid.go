package render

import (
	"fmt"
	"sort"
	"strings"

	"azure-graph/internal/inference"
)

// Directions accepted by the Mermaid writer.
var mermaidDirections = map[string]bool{
	"TD": true, "TB": true, "BT": true, "LR": true, "RL": true,
}

// ValidDirection reports whether dir is a supported layout direction.
func ValidDirection(dir string) bool {
	return mermaidDirections[strings.ToUpper(dir)]
}

// Mermaid renders the graph as a Mermaid flowchart. Resource groups become
// subgraph clusters hanging off a subscription root; solid arrows are
// confirmed dependencies and dotted arrows potential ones. Unknown
// directions fall back to TD.
func Mermaid(g *Graph, direction string) string {
	direction = strings.ToUpper(direction)
	if !mermaidDirections[direction] {
		direction = "TD"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "flowchart %s\n", direction)
	fmt.Fprintf(&b, "    root[\"Subscription<br/>%s\"]\n", truncateSubscription(g.SubscriptionID))

	for _, rg := range g.Groups {
		b.WriteString("\n")
		fmt.Fprintf(&b, "    subgraph %s[\"%s\"]\n", rg.Token, escapeMermaid(rg.Name))
		for _, n := range g.NodesInGroup(rg.Name) {
			open, close := shapeBrackets(n.Style.Shape)
			fmt.Fprintf(&b, "        %s%s\"%s\"%s\n", n.Token, open, nodeLabel(n), close)
		}
		b.WriteString("    end\n")
		fmt.Fprintf(&b, "    root --> %s\n", rg.Token)
	}

	// Nodes with no resolvable group still render, outside any cluster.
	orphans := g.NodesInGroup("")
	if len(orphans) > 0 {
		b.WriteString("\n")
		for _, n := range orphans {
			open, close := shapeBrackets(n.Style.Shape)
			fmt.Fprintf(&b, "    %s%s\"%s\"%s\n", n.Token, open, nodeLabel(n), close)
			fmt.Fprintf(&b, "    root --> %s\n", n.Token)
		}
	}

	b.WriteString("\n    %% Confirmed dependencies\n")
	for _, e := range g.Edges {
		if e.Category == inference.CategoryConfirmed {
			fmt.Fprintf(&b, "    %s --> %s\n", e.SourceToken, e.TargetToken)
		}
	}

	hasPotential := false
	for _, e := range g.Edges {
		if e.Category == inference.CategoryPotential {
			hasPotential = true
			break
		}
	}
	if hasPotential {
		b.WriteString("\n    %% Potential dependencies\n")
		for _, e := range g.Edges {
			if e.Category == inference.CategoryPotential {
				fmt.Fprintf(&b, "    %s -.-> %s\n", e.SourceToken, e.TargetToken)
			}
		}
	}

	writeClassDefs(&b, g)
	return b.String()
}

// writeClassDefs emits one classDef per resource type present in the graph,
// in sorted type order, and assigns that type's nodes to it.
func writeClassDefs(b *strings.Builder, g *Graph) {
	byType := make(map[string][]string)
	colors := make(map[string]string)
	for _, n := range g.Nodes {
		byType[n.Type] = append(byType[n.Type], n.Token)
		colors[n.Type] = n.Style.Color
	}
	if len(byType) == 0 {
		return
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	b.WriteString("\n    %% Styling\n")
	for _, t := range types {
		class := sanitizeToken("class_" + t)
		fmt.Fprintf(b, "    classDef %s fill:%s,stroke:#333,stroke-width:2px;\n", class, colors[t])
		fmt.Fprintf(b, "    class %s %s;\n", strings.Join(byType[t], ","), class)
	}
}

// nodeLabel builds the display label: bold display type, resource name, and
// the kind in italics when it adds information.
func nodeLabel(n *Node) string {
	label := fmt.Sprintf("<b>%s</b><br/>%s", escapeMermaid(n.Display), escapeMermaid(n.Name))
	if n.Kind != "" && n.Type != "microsoft.web/sites" {
		label += fmt.Sprintf("<br/><i>(%s)</i>", escapeMermaid(n.Kind))
	}
	return label
}

// shapeBrackets maps a style shape keyword to Mermaid node delimiters.
func shapeBrackets(shape string) (open, close string) {
	switch shape {
	case "rounded":
		return "(", ")"
	case "circle":
		return "((", "))"
	case "stadium":
		return "([", "])"
	case "cylinder":
		return "[(", ")]"
	case "hexagon":
		return "{{", "}}"
	case "rhombus":
		return "{", "}"
	default:
		return "[", "]"
	}
}

// escapeMermaid strips characters that would break quoted Mermaid labels.
func escapeMermaid(s string) string {
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
