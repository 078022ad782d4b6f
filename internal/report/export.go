package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"azure-graph/internal/inference"
	"azure-graph/internal/snapshot"
)

// Export is the machine-readable graph document written by `azgraph export`.
// Adjacency values are sorted so the payload is stable apart from the run
// metadata.
type Export struct {
	RunID          string                   `json:"run_id"`
	GeneratedAt    time.Time                `json:"generated_at"`
	SubscriptionID string                   `json:"subscription_id"`
	Resources      []*snapshot.Resource     `json:"resources"`
	Groups         []snapshot.ResourceGroup `json:"resource_groups"`
	Confirmed      map[string][]string      `json:"confirmed_dependencies"`
	Potential      map[string][]string      `json:"potential_dependencies,omitempty"`
	Summary        *Summary                 `json:"summary"`
}

// NewExport assembles the export document for one run.
func NewExport(cat *snapshot.Catalog, result *inference.Result, includePotential bool) *Export {
	e := &Export{
		RunID:          uuid.NewString(),
		GeneratedAt:    time.Now().UTC(),
		SubscriptionID: cat.SubscriptionID,
		Resources:      cat.Resources,
		Groups:         cat.Groups,
		Confirmed:      result.Confirmed(),
		Summary:        Build(cat, result, includePotential),
	}
	if includePotential {
		e.Potential = result.Potential()
	}
	return e
}

// Write serializes the export document as indented JSON.
func (e *Export) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}
