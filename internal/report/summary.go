// Package report aggregates catalog and edge data into summaries and the
// graph JSON export. Pure aggregation, no side effects beyond writing the
// requested output.
package report

import (
	"fmt"
	"io"
	"sort"

	"azure-graph/internal/inference"
	"azure-graph/internal/snapshot"
)

// TypeCount is the number of resources of one type.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// GroupCount is the per-group resource and dependency tally.
type GroupCount struct {
	Group     string `json:"group"`
	Resources int    `json:"resources"`
	Internal  int    `json:"internal_dependencies"` // Both ends inside the group
	External  int    `json:"external_dependencies"` // Target in another group
}

// ResourceDegree ranks a resource by its total incident edges.
type ResourceDegree struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Confirmed int    `json:"confirmed"`
	Potential int    `json:"potential"`
	Degree    int    `json:"degree"` // Incident edges, both directions
}

// Summary is the aggregated view of one inference run.
type Summary struct {
	TotalResources int `json:"total_resources"`
	TotalGroups    int `json:"total_groups"`
	ConfirmedEdges int `json:"confirmed_dependencies"`
	PotentialEdges int `json:"potential_dependencies"`
	IntraGroup     int `json:"intra_group_dependencies"`
	CrossGroup     int `json:"cross_group_dependencies"`

	ByType       []TypeCount      `json:"resources_by_type"`
	ByGroup      []GroupCount     `json:"groups"`
	TopConnected []ResourceDegree `json:"top_connected"`
}

// Build aggregates the catalog and edges. Edge counts honor
// includePotential; ranking ties break by resource ID ascending so output
// is deterministic.
func Build(cat *snapshot.Catalog, result *inference.Result, includePotential bool) *Summary {
	s := &Summary{
		TotalResources: len(cat.Resources),
		TotalGroups:    len(cat.Groups),
		ConfirmedEdges: result.ConfirmedCount(),
	}
	if includePotential {
		s.PotentialEdges = result.PotentialCount()
	}

	typeCounts := make(map[string]int)
	for _, r := range cat.Resources {
		typeCounts[r.Type]++
	}
	for t, n := range typeCounts {
		s.ByType = append(s.ByType, TypeCount{Type: t, Count: n})
	}
	sort.Slice(s.ByType, func(i, j int) bool { return s.ByType[i].Type < s.ByType[j].Type })

	edges := result.Edges(includePotential)

	groupStats := make(map[string]*GroupCount)
	for _, r := range cat.Resources {
		gc := groupStats[r.ResourceGroup]
		if gc == nil {
			gc = &GroupCount{Group: r.ResourceGroup}
			groupStats[r.ResourceGroup] = gc
		}
		gc.Resources++
	}
	degree := make(map[string]*ResourceDegree)
	for _, r := range cat.Resources {
		degree[r.ID] = &ResourceDegree{ID: r.ID, Name: r.Name, Type: r.Type}
	}
	for _, e := range edges {
		src, okSrc := cat.ByID(e.Source)
		dst, okDst := cat.ByID(e.Target)
		if !okSrc || !okDst {
			continue
		}
		if src.ResourceGroup == dst.ResourceGroup {
			s.IntraGroup++
			if gc := groupStats[src.ResourceGroup]; gc != nil {
				gc.Internal++
			}
		} else {
			s.CrossGroup++
			if gc := groupStats[src.ResourceGroup]; gc != nil {
				gc.External++
			}
		}
		degree[e.Source].Degree++
		degree[e.Target].Degree++
		if e.Category == inference.CategoryConfirmed {
			degree[e.Source].Confirmed++
		} else {
			degree[e.Source].Potential++
		}
	}
	for _, gc := range groupStats {
		s.ByGroup = append(s.ByGroup, *gc)
	}
	sort.Slice(s.ByGroup, func(i, j int) bool { return s.ByGroup[i].Group < s.ByGroup[j].Group })

	for _, d := range degree {
		if d.Degree > 0 {
			s.TopConnected = append(s.TopConnected, *d)
		}
	}
	sort.Slice(s.TopConnected, func(i, j int) bool {
		if s.TopConnected[i].Degree != s.TopConnected[j].Degree {
			return s.TopConnected[i].Degree > s.TopConnected[j].Degree
		}
		return s.TopConnected[i].ID < s.TopConnected[j].ID
	})
	return s
}

// WriteText renders the summary for terminal output.
func (s *Summary) WriteText(w io.Writer) {
	fmt.Fprintln(w, "=== Resource Dependency Summary ===")
	fmt.Fprintf(w, "Resources:              %d\n", s.TotalResources)
	fmt.Fprintf(w, "Resource groups:        %d\n", s.TotalGroups)
	fmt.Fprintf(w, "Confirmed dependencies: %d\n", s.ConfirmedEdges)
	fmt.Fprintf(w, "Potential dependencies: %d\n", s.PotentialEdges)
	fmt.Fprintf(w, "Intra-group edges:      %d\n", s.IntraGroup)
	fmt.Fprintf(w, "Cross-group edges:      %d\n", s.CrossGroup)

	fmt.Fprintln(w, "\n=== Resources by Type ===")
	for _, tc := range s.ByType {
		fmt.Fprintf(w, "  %s: %d\n", tc.Type, tc.Count)
	}

	fmt.Fprintln(w, "\n=== Resource Groups ===")
	for _, gc := range s.ByGroup {
		name := gc.Group
		if name == "" {
			name = "(ungrouped)"
		}
		fmt.Fprintf(w, "  %s: %d resources, %d internal / %d external deps\n",
			name, gc.Resources, gc.Internal, gc.External)
	}

	if len(s.TopConnected) > 0 {
		fmt.Fprintln(w, "\n=== Most Connected Resources ===")
		top := s.TopConnected
		if len(top) > 10 {
			top = top[:10]
		}
		for _, d := range top {
			fmt.Fprintf(w, "  %s (%s): %d incident edges\n", d.Name, d.Type, d.Degree)
		}
	}
}
