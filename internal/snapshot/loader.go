package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// Structural snapshot errors. Anything else recoverable per entry is skipped
// with a warning instead.
var (
	ErrNotObject   = errors.New("snapshot root is not a JSON object")
	ErrNoResources = errors.New("snapshot has no \"resources\" array")
)

// document mirrors the captured snapshot file layout. Resources stays raw so
// a single malformed entry cannot abort the whole load.
type document struct {
	SubscriptionID string            `json:"subscription_id"`
	Resources      []json.RawMessage `json:"resources"`
	ResourceGroups []ResourceGroup   `json:"resource_groups"`
}

// LoadFile reads and parses the snapshot at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	cat, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return cat, nil
}

// Load parses a snapshot document into a Catalog.
//
// The load fails only on structural problems: unreadable input, a root that
// is not an object, or a missing resources array. Individual entries that do
// not decode or lack an identity are skipped and logged.
func Load(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "" {
			return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
		}
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if doc.Resources == nil {
		return nil, ErrNoResources
	}

	cat := &Catalog{SubscriptionID: doc.SubscriptionID}
	// Group names compare case-insensitively; the first-seen spelling is
	// canonical and every member resource is rewritten to it so the
	// membership index stays whole.
	seenGroup := make(map[string]string)
	for _, g := range doc.ResourceGroups {
		if g.Name == "" {
			continue
		}
		if _, ok := seenGroup[strings.ToLower(g.Name)]; ok {
			continue
		}
		cat.Groups = append(cat.Groups, g)
		seenGroup[strings.ToLower(g.Name)] = g.Name
	}

	seenID := make(map[string]bool)
	for i, entry := range doc.Resources {
		res, err := decodeResource(entry)
		if err != nil {
			log.Warn().Int("index", i).Err(err).Msg("skipping malformed resource entry")
			continue
		}
		if seenID[res.ID] {
			log.Warn().Str("id", res.ID).Msg("skipping duplicate resource entry")
			continue
		}
		seenID[res.ID] = true
		cat.Resources = append(cat.Resources, res)

		if res.ResourceGroup != "" {
			key := strings.ToLower(res.ResourceGroup)
			if canonical, ok := seenGroup[key]; ok {
				res.ResourceGroup = canonical
			} else {
				seenGroup[key] = res.ResourceGroup
				cat.Groups = append(cat.Groups, ResourceGroup{
					ID:   groupID(res.ID),
					Name: res.ResourceGroup,
				})
			}
		}
	}
	cat.reindex()
	return cat, nil
}

func decodeResource(raw json.RawMessage) (*Resource, error) {
	var res Resource
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode resource: %w", err)
	}
	if res.ID == "" {
		return nil, errors.New("resource has no id")
	}
	if res.Type == "" {
		return nil, errors.New("resource has no type")
	}
	res.Type = strings.ToLower(res.Type)
	if res.ResourceGroup == "" {
		res.ResourceGroup = groupFromID(res.ID)
	}
	return &res, nil
}

// groupFromID extracts the resource group segment from an Azure resource ID,
// e.g. /subscriptions/<sub>/resourceGroups/<rg>/providers/...
func groupFromID(id string) string {
	segments := strings.Split(id, "/")
	for i := 0; i < len(segments)-1; i++ {
		if strings.EqualFold(segments[i], "resourceGroups") {
			return segments[i+1]
		}
	}
	return ""
}

// groupID truncates a resource ID to its resource group prefix. Falls back to
// the full ID when no group segment is present.
func groupID(resourceID string) string {
	segments := strings.Split(resourceID, "/")
	for i := 0; i < len(segments)-1; i++ {
		if strings.EqualFold(segments[i], "resourceGroups") {
			return strings.Join(segments[:i+2], "/")
		}
	}
	return resourceID
}
