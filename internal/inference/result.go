package inference

import "sort"

// Category tags how much evidence backs an edge.
type Category string

const (
	// CategoryConfirmed marks edges justified by an explicit reference:
	// a resource ID, a well-known field, or a matched endpoint.
	CategoryConfirmed Category = "confirmed"
	// CategoryPotential marks edges inferred purely from type co-location
	// heuristics, with no direct evidence.
	CategoryPotential Category = "potential"
)

// Edge is a directed dependency between two catalog resources.
type Edge struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Category Category `json:"category"`
	Rule     string   `json:"rule,omitempty"` // Which inference rule produced it
}

// Result holds the inferred dependency sets, keyed source ID -> target ID.
// Both source and target always resolve to catalog resources.
type Result struct {
	confirmed map[string]map[string]string // source -> target -> rule
	potential map[string]map[string]string
}

func newResult() *Result {
	return &Result{
		confirmed: make(map[string]map[string]string),
		potential: make(map[string]map[string]string),
	}
}

func (r *Result) addConfirmed(source, target, rule string) {
	if r.confirmed[source] == nil {
		r.confirmed[source] = make(map[string]string)
	}
	if _, exists := r.confirmed[source][target]; !exists {
		r.confirmed[source][target] = rule
	}
}

func (r *Result) addPotential(source, target, rule string) {
	if r.HasConfirmed(source, target) {
		return
	}
	if r.potential[source] == nil {
		r.potential[source] = make(map[string]string)
	}
	if _, exists := r.potential[source][target]; !exists {
		r.potential[source][target] = rule
	}
}

// HasConfirmed reports whether a confirmed edge source->target exists.
func (r *Result) HasConfirmed(source, target string) bool {
	_, ok := r.confirmed[source][target]
	return ok
}

// ConfirmedCount returns the total number of confirmed edges.
func (r *Result) ConfirmedCount() int { return countEdges(r.confirmed) }

// PotentialCount returns the total number of potential edges.
func (r *Result) PotentialCount() int { return countEdges(r.potential) }

// Confirmed returns the confirmed adjacency as sorted target slices.
func (r *Result) Confirmed() map[string][]string { return flatten(r.confirmed) }

// Potential returns the potential adjacency as sorted target slices.
func (r *Result) Potential() map[string][]string { return flatten(r.potential) }

// ConfirmedTargets returns the confirmed targets of source, sorted ascending.
func (r *Result) ConfirmedTargets(source string) []string {
	return sortedKeys(r.confirmed[source])
}

// PotentialTargets returns the potential targets of source, sorted ascending.
func (r *Result) PotentialTargets(source string) []string {
	return sortedKeys(r.potential[source])
}

// Edges flattens the result into a slice sorted by (source, target, category)
// so callers get deterministic output regardless of map iteration order.
// Confirmed edges sort before potential ones for the same pair.
func (r *Result) Edges(includePotential bool) []Edge {
	var edges []Edge
	for source, targets := range r.confirmed {
		for target, rule := range targets {
			edges = append(edges, Edge{Source: source, Target: target, Category: CategoryConfirmed, Rule: rule})
		}
	}
	if includePotential {
		for source, targets := range r.potential {
			for target, rule := range targets {
				edges = append(edges, Edge{Source: source, Target: target, Category: CategoryPotential, Rule: rule})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		if edges[i].Target != edges[j].Target {
			return edges[i].Target < edges[j].Target
		}
		return edges[i].Category == CategoryConfirmed && edges[j].Category == CategoryPotential
	})
	return edges
}

func countEdges(adj map[string]map[string]string) int {
	n := 0
	for _, targets := range adj {
		n += len(targets)
	}
	return n
}

func flatten(adj map[string]map[string]string) map[string][]string {
	out := make(map[string][]string, len(adj))
	for source, targets := range adj {
		if len(targets) == 0 {
			continue
		}
		out[source] = sortedKeys(targets)
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
