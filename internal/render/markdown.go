package render

import (
	"fmt"
	"sort"
	"strings"

	"azure-graph/internal/inference"
	"azure-graph/internal/report"
	"azure-graph/internal/snapshot"
)

// categorize buckets a resource type under a human heading for the
// narrative report's overview section.
func categorize(resourceType string) string {
	t := strings.ToLower(resourceType)
	switch {
	case strings.Contains(t, "compute") || strings.Contains(t, "virtualmachines"):
		return "Compute"
	case strings.Contains(t, "app/") && strings.Contains(t, "container"):
		return "Container Apps"
	case strings.Contains(t, "web") || strings.Contains(t, "sites") || strings.Contains(t, "serverfarms"):
		return "Web & App Services"
	case strings.Contains(t, "storage"):
		return "Storage"
	case strings.Contains(t, "sql") || strings.Contains(t, "database") ||
		strings.Contains(t, "documentdb") || strings.Contains(t, "postgresql") ||
		strings.Contains(t, "mysql") || strings.Contains(t, "cache/redis"):
		return "Databases"
	case strings.Contains(t, "keyvault"):
		return "Security"
	case strings.Contains(t, "insights") || strings.Contains(t, "operationalinsights"):
		return "Monitoring"
	case strings.Contains(t, "network") || strings.Contains(t, "publicip") || strings.Contains(t, "loadbalancer"):
		return "Networking"
	case strings.Contains(t, "apimanagement"):
		return "API Management"
	case strings.Contains(t, "containerregistry"):
		return "Container Registry"
	case strings.Contains(t, "signalr") || strings.Contains(t, "webpubsub"):
		return "Real-time Communication"
	case strings.Contains(t, "servicebus") || strings.Contains(t, "eventhub") || strings.Contains(t, "eventgrid"):
		return "Messaging"
	case strings.Contains(t, "logic"):
		return "Logic Apps"
	default:
		return "Other Services"
	}
}

// MarkdownReport renders the narrative dependency report: executive summary,
// per-category resource overview, dependency details for every resource with
// non-zero degree, per-group analysis, and the Mermaid diagram. Output
// carries no wall-clock timestamp so repeated runs over one snapshot are
// byte-identical.
func MarkdownReport(cat *snapshot.Catalog, result *inference.Result, g *Graph, direction string, includePotential bool) string {
	sum := report.Build(cat, result, includePotential)

	var b strings.Builder
	b.WriteString("# Azure Resource Dependency Report\n\n")
	fmt.Fprintf(&b, "**Subscription:** %s\n\n", truncateSubscription(cat.SubscriptionID))

	b.WriteString("## Executive Summary\n\n")
	fmt.Fprintf(&b, "- **Total Resources:** %d\n", sum.TotalResources)
	fmt.Fprintf(&b, "- **Resource Groups:** %d\n", sum.TotalGroups)
	fmt.Fprintf(&b, "- **Confirmed Dependencies:** %d\n", sum.ConfirmedEdges)
	if includePotential {
		fmt.Fprintf(&b, "- **Potential Dependencies:** %d\n", sum.PotentialEdges)
	}
	b.WriteString("\n")

	writeOverview(&b, cat, result, includePotential)
	writeDependencyDetail(&b, cat, result, sum, includePotential)
	writeGroupAnalysis(&b, cat, sum)

	b.WriteString("## Dependency Diagram\n\n")
	b.WriteString("Solid lines are confirmed dependencies")
	if includePotential {
		b.WriteString("; dotted lines are potential dependencies inferred from common patterns")
	}
	b.WriteString(".\n\n```mermaid\n")
	b.WriteString(Mermaid(g, direction))
	b.WriteString("```\n")
	return b.String()
}

func writeOverview(b *strings.Builder, cat *snapshot.Catalog, result *inference.Result, includePotential bool) {
	byCategory := make(map[string][]*snapshot.Resource)
	for _, r := range cat.Resources {
		c := categorize(r.Type)
		byCategory[c] = append(byCategory[c], r)
	}
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	b.WriteString("## Resource Overview by Type\n\n")
	for _, c := range categories {
		fmt.Fprintf(b, "### %s\n\n", c)
		resources := byCategory[c]
		sort.Slice(resources, func(i, j int) bool {
			if resources[i].Name != resources[j].Name {
				return resources[i].Name < resources[j].Name
			}
			return resources[i].ID < resources[j].ID
		})
		for _, r := range resources {
			fmt.Fprintf(b, "- **%s (%s)**\n", r.Name, r.ShortType())
			if r.Location != "" {
				fmt.Fprintf(b, "  - Location: %s\n", r.Location)
			}
			fmt.Fprintf(b, "  - Resource Group: %s\n", r.ResourceGroup)
			confirmed := len(result.ConfirmedTargets(r.ID))
			potential := 0
			if includePotential {
				potential = len(result.PotentialTargets(r.ID))
			}
			if confirmed > 0 || potential > 0 {
				fmt.Fprintf(b, "  - Dependencies: %d confirmed, %d potential\n", confirmed, potential)
			}
		}
		b.WriteString("\n")
	}
}

func writeDependencyDetail(b *strings.Builder, cat *snapshot.Catalog, result *inference.Result, sum *report.Summary, includePotential bool) {
	b.WriteString("## Dependency Analysis\n\n")

	if len(sum.TopConnected) > 0 {
		b.WriteString("### Most Connected Resources\n\n")
		top := sum.TopConnected
		if len(top) > 10 {
			top = top[:10]
		}
		for _, d := range top {
			fmt.Fprintf(b, "- **%s (%s)**: %d confirmed + %d potential, %d incident edges\n",
				d.Name, shortType(d.Type), d.Confirmed, d.Potential, d.Degree)
		}
		b.WriteString("\n")
	}

	b.WriteString("### Detailed Dependencies\n\n")
	wrote := false
	for _, r := range cat.Resources {
		confirmed := result.ConfirmedTargets(r.ID)
		var potential []string
		if includePotential {
			potential = result.PotentialTargets(r.ID)
		}
		if len(confirmed) == 0 && len(potential) == 0 {
			continue
		}
		wrote = true
		fmt.Fprintf(b, "#### %s (%s)\n\n", r.Name, r.ShortType())
		if len(confirmed) > 0 {
			b.WriteString("**Confirmed:**\n\n")
			writeTargetList(b, cat, confirmed)
			b.WriteString("\n")
		}
		if len(potential) > 0 {
			b.WriteString("**Potential:**\n\n")
			writeTargetList(b, cat, potential)
			b.WriteString("\n")
		}
	}
	if !wrote {
		b.WriteString("No dependencies detected.\n\n")
	}
}

func writeTargetList(b *strings.Builder, cat *snapshot.Catalog, targets []string) {
	for _, id := range targets {
		if dep, ok := cat.ByID(id); ok {
			fmt.Fprintf(b, "- %s (%s)\n", dep.Name, dep.ShortType())
		}
	}
}

func writeGroupAnalysis(b *strings.Builder, cat *snapshot.Catalog, sum *report.Summary) {
	b.WriteString("## Resource Groups\n\n")
	for _, gc := range sum.ByGroup {
		name := gc.Group
		if name == "" {
			name = "(ungrouped)"
		}
		fmt.Fprintf(b, "### %s\n\n", name)
		fmt.Fprintf(b, "**Resources:** %d\n\n", gc.Resources)
		if gc.Internal > 0 || gc.External > 0 {
			b.WriteString("**Dependencies:**\n\n")
			fmt.Fprintf(b, "- Internal (within group): %d\n", gc.Internal)
			fmt.Fprintf(b, "- External (cross-group): %d\n\n", gc.External)
		}
		typeCounts := make(map[string]int)
		for _, r := range cat.MembersOf(gc.Group) {
			typeCounts[shortType(r.Type)]++
		}
		if len(typeCounts) > 0 {
			types := make([]string, 0, len(typeCounts))
			for t := range typeCounts {
				types = append(types, t)
			}
			sort.Strings(types)
			b.WriteString("**Resource Types:**\n\n")
			for _, t := range types {
				fmt.Fprintf(b, "- %s: %d\n", t, typeCounts[t])
			}
			b.WriteString("\n")
		}
	}
}

func shortType(resourceType string) string {
	if i := strings.LastIndex(resourceType, "/"); i >= 0 {
		return resourceType[i+1:]
	}
	return resourceType
}
