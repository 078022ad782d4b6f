// Package inference derives dependency edges between catalog resources.
//
// Edges come from four tiers of rules applied in a fixed order: a generic
// resource-ID scan, type-specific field rules, endpoint/name matching, and
// finally type co-location heuristics. The first three tiers produce
// confirmed edges; the last produces potential edges and skips any pair a
// confirmed edge already covers.
package inference

import (
	"strings"

	"github.com/rs/zerolog/log"

	"azure-graph/internal/snapshot"
)

// Rule tags attached to emitted edges.
const (
	RuleIDReference   = "id-reference"
	RuleEndpointMatch = "endpoint-match"
	RuleCoLocation    = "co-location"
)

// minNameMatchLen guards the name-substring scans against trivially short
// resource names matching everything.
const minNameMatchLen = 4

// Engine applies the inference rule tiers to a catalog.
type Engine struct {
	keepSelfEdges bool
	typeRules     map[string]ruleFunc
	pairRules     []pairRule
}

// Option configures an Engine.
type Option func(*Engine)

// KeepSelfEdges retains self-referential edges instead of dropping them.
// Matches the legacy output where a resource could depend on itself.
func KeepSelfEdges() Option {
	return func(e *Engine) { e.keepSelfEdges = true }
}

// New creates an Engine with the built-in rule tables.
func New(opts ...Option) *Engine {
	e := &Engine{
		typeRules: builtinTypeRules(),
		pairRules: builtinPairRules(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// index holds per-run lookup tables so rules do not rescan the resource list.
type index struct {
	catalog *snapshot.Catalog
	byType  map[string][]*snapshot.Resource
	docs    map[string]string // resource ID -> serialized detail bags
}

func buildIndex(cat *snapshot.Catalog) *index {
	ix := &index{
		catalog: cat,
		byType:  make(map[string][]*snapshot.Resource),
		docs:    make(map[string]string, len(cat.Resources)),
	}
	for _, r := range cat.Resources {
		ix.byType[r.Type] = append(ix.byType[r.Type], r)
		ix.docs[r.ID] = r.ScanText()
	}
	return ix
}

func (ix *index) ofType(types ...string) []*snapshot.Resource {
	var out []*snapshot.Resource
	for _, t := range types {
		out = append(out, ix.byType[t]...)
	}
	return out
}

// Infer runs every rule tier over the catalog and returns the edge sets.
// Deterministic given a deterministic catalog ordering; rules never reach
// out to a live catalog and degrade to "no edge" on missing data.
func (e *Engine) Infer(cat *snapshot.Catalog) *Result {
	ix := buildIndex(cat)
	res := newResult()

	e.scanIDReferences(ix, res)
	e.applyTypeRules(ix, res)
	e.matchEndpoints(ix, res)
	e.applyPairRules(ix, res)

	log.Debug().
		Int("resources", len(cat.Resources)).
		Int("confirmed", res.ConfirmedCount()).
		Int("potential", res.PotentialCount()).
		Msg("dependency inference complete")
	return res
}

// scanIDReferences emits a confirmed edge A->B whenever B's full resource ID
// appears verbatim in A's serialized detail bags. O(N^2 * P) substring
// search; fine for subscription-sized catalogs, not beyond.
func (e *Engine) scanIDReferences(ix *index, res *Result) {
	for _, src := range ix.catalog.Resources {
		doc := ix.docs[src.ID]
		if doc == "" {
			continue
		}
		for _, dst := range ix.catalog.Resources {
			if strings.Contains(doc, dst.ID) {
				e.emitConfirmed(ix, res, src.ID, dst.ID, RuleIDReference)
			}
		}
	}
}

// applyTypeRules dispatches each resource to its type's rule, if any.
func (e *Engine) applyTypeRules(ix *index, res *Result) {
	for _, src := range ix.catalog.Resources {
		rule, ok := e.typeRules[src.Type]
		if !ok {
			continue
		}
		for _, ref := range rule(src, ix) {
			e.emitConfirmed(ix, res, src.ID, ref.target, ref.rule)
		}
	}
}

// matchEndpoints scans each resource's environment-variable, network, and
// configuration text for the names of other known resources. Case-sensitive
// substring containment; every candidate whose name matches produces an edge.
func (e *Engine) matchEndpoints(ix *index, res *Result) {
	for _, src := range ix.catalog.Resources {
		doc := endpointScanText(src)
		if doc == "" {
			continue
		}
		for _, dst := range ix.catalog.Resources {
			if dst.ID == src.ID || len(dst.Name) < minNameMatchLen {
				continue
			}
			if strings.Contains(doc, dst.Name) {
				e.emitConfirmed(ix, res, src.ID, dst.ID, RuleEndpointMatch)
			}
		}
	}
}

// endpointScanText concatenates the detail bags that carry endpoint-shaped
// text: environment variables, network details, and service configuration.
// Properties are covered by the ID scan and the type rules.
func endpointScanText(r *snapshot.Resource) string {
	var b strings.Builder
	for _, bag := range []map[string]any{r.EnvironmentVariables, r.NetworkInfo, r.SpecificConfiguration} {
		if len(bag) == 0 {
			continue
		}
		b.WriteString(marshalBag(bag))
	}
	return b.String()
}

// applyPairRules emits potential edges for "commonly co-located" type pairs:
// every resource of a source type to every resource of each candidate target
// type, unless a confirmed edge already covers that pair. A cross product,
// not evidence.
func (e *Engine) applyPairRules(ix *index, res *Result) {
	for _, pr := range e.pairRules {
		sources := ix.ofType(pr.sourceTypes...)
		targets := ix.ofType(pr.targetTypes...)
		for _, src := range sources {
			for _, dst := range targets {
				if dst.ID == src.ID {
					continue
				}
				res.addPotential(src.ID, dst.ID, RuleCoLocation)
			}
		}
	}
}

// emitConfirmed applies the shared edge invariants: the target must resolve
// to a known resource (dangling references are dropped, not errored) and
// self-edges are dropped unless configured otherwise.
func (e *Engine) emitConfirmed(ix *index, res *Result, source, target, rule string) {
	if target == "" {
		return
	}
	if _, ok := ix.catalog.ByID(target); !ok {
		return
	}
	if source == target && !e.keepSelfEdges {
		return
	}
	res.addConfirmed(source, target, rule)
}
