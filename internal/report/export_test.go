package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExport(t *testing.T) {
	cat, res := testInput(t)
	e := NewExport(cat, res, true)

	_, err := uuid.Parse(e.RunID)
	require.NoError(t, err, "run IDs are UUIDs")
	assert.False(t, e.GeneratedAt.IsZero())
	assert.Equal(t, "sub-1", e.SubscriptionID)
	assert.Len(t, e.Resources, 4)
	assert.Len(t, e.Groups, 2)
	assert.NotEmpty(t, e.Confirmed)
	assert.NotEmpty(t, e.Potential)

	// Distinct runs over the same input differ only in run metadata.
	again := NewExport(cat, res, true)
	assert.NotEqual(t, e.RunID, again.RunID)
	assert.Equal(t, e.Confirmed, again.Confirmed)
	assert.Equal(t, e.Summary, again.Summary)
}

func TestExportWrite(t *testing.T) {
	cat, res := testInput(t)

	var buf bytes.Buffer
	require.NoError(t, NewExport(cat, res, true).Write(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "run_id")
	assert.Contains(t, decoded, "confirmed_dependencies")
	assert.Contains(t, decoded, "potential_dependencies")
	assert.Contains(t, decoded, "summary")
}

func TestExportOmitsPotential(t *testing.T) {
	cat, res := testInput(t)

	var buf bytes.Buffer
	require.NoError(t, NewExport(cat, res, false).Write(&buf))
	assert.NotContains(t, buf.String(), "potential_dependencies")
}
