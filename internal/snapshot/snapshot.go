// Package snapshot provides loading of captured Azure resource snapshots
// This is the entry point for the graph pipeline - all inputs flow through here
package snapshot

import (
	"encoding/json"
	"sort"
	"strings"
)

// Resource represents a single discovered Azure resource.
type Resource struct {
	// Identity
	ID   string `json:"id"`   // Full Azure resource ID path
	Name string `json:"name"` // Resource name
	Type string `json:"type"` // e.g. microsoft.web/sites (lowercased at load)
	Kind string `json:"kind,omitempty"`

	// Placement
	Location      string `json:"location,omitempty"`
	ResourceGroup string `json:"resourceGroup,omitempty"`

	// Captured detail bags (arbitrary nesting, immutable after load)
	Tags                  map[string]string `json:"tags,omitempty"`
	Properties            map[string]any    `json:"properties,omitempty"`
	NetworkInfo           map[string]any    `json:"networkInfo,omitempty"`
	EnvironmentVariables  map[string]any    `json:"environmentVariables,omitempty"`
	SpecificConfiguration map[string]any    `json:"specificConfiguration,omitempty"`
}

// ShortType returns the last path segment of the resource type,
// e.g. "sites" for microsoft.web/sites.
func (r *Resource) ShortType() string {
	if i := strings.LastIndex(r.Type, "/"); i >= 0 {
		return r.Type[i+1:]
	}
	return r.Type
}

// ScanText returns the serialized detail bags of the resource, used by the
// inference engine's substring scans. Returns "" when nothing serializes.
func (r *Resource) ScanText() string {
	doc := map[string]any{
		"properties":            r.Properties,
		"environmentVariables":  r.EnvironmentVariables,
		"networkInfo":           r.NetworkInfo,
		"specificConfiguration": r.SpecificConfiguration,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	return string(raw)
}

// ResourceGroup is a named container of resources.
type ResourceGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Catalog is the loaded, normalized view of a snapshot document.
// Resources keep document order; Groups keep document order with discovered
// groups appended in first-seen order.
type Catalog struct {
	SubscriptionID string
	Resources      []*Resource
	Groups         []ResourceGroup

	byID    map[string]*Resource
	byGroup map[string][]*Resource
}

// ByID resolves a resource by its full ID.
func (c *Catalog) ByID(id string) (*Resource, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// MembersOf returns the resources belonging to the named group, in load order.
func (c *Catalog) MembersOf(group string) []*Resource {
	return c.byGroup[group]
}

// GroupNames returns the known group names sorted ascending.
func (c *Catalog) GroupNames() []string {
	names := make([]string, 0, len(c.byGroup))
	for name := range c.byGroup {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Filter returns a reduced catalog containing only resources whose type is in
// types and whose resource group is in groups. Empty selectors match all.
// Matching is case-insensitive. Groups no longer holding any resource are
// dropped from the result.
func (c *Catalog) Filter(types, groups []string) *Catalog {
	typeSet := lowerSet(types)
	groupSet := lowerSet(groups)

	out := &Catalog{SubscriptionID: c.SubscriptionID}
	for _, r := range c.Resources {
		if len(typeSet) > 0 && !typeSet[strings.ToLower(r.Type)] {
			continue
		}
		if len(groupSet) > 0 && !groupSet[strings.ToLower(r.ResourceGroup)] {
			continue
		}
		out.Resources = append(out.Resources, r)
	}
	kept := make(map[string]bool, len(out.Resources))
	for _, r := range out.Resources {
		kept[strings.ToLower(r.ResourceGroup)] = true
	}
	for _, g := range c.Groups {
		if kept[strings.ToLower(g.Name)] {
			out.Groups = append(out.Groups, g)
		}
	}
	out.reindex()
	return out
}

// reindex rebuilds the lookup maps from Resources and Groups.
func (c *Catalog) reindex() {
	c.byID = make(map[string]*Resource, len(c.Resources))
	c.byGroup = make(map[string][]*Resource)
	for _, r := range c.Resources {
		c.byID[r.ID] = r
		c.byGroup[r.ResourceGroup] = append(c.byGroup[r.ResourceGroup], r)
	}
}

func lowerSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}
