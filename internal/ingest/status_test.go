package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/lead-intake/internal/model"
)

func TestResolveStatus_Direct(t *testing.T) {
	res := ResolveStatus("sold")
	assert.Equal(t, model.StatusSold, res.Resolved)
	assert.Equal(t, model.StatusReasonDirect, res.Reason)
	assert.Equal(t, "sold", res.Raw)
}

func TestResolveStatus_DirectCaseInsensitive(t *testing.T) {
	res := ResolveStatus("  SOLD ")
	assert.Equal(t, model.StatusSold, res.Resolved)
	assert.Equal(t, model.StatusReasonDirect, res.Reason)
	assert.Equal(t, "  SOLD ", res.Raw)
	assert.Equal(t, "sold", res.Normalized)
}

func TestResolveStatus_HotMapsToEngaged(t *testing.T) {
	for _, raw := range []string{"hot", "HOT", "Hot"} {
		res := ResolveStatus(raw)
		assert.Equal(t, model.StatusEngaged, res.Resolved, "raw=%q", raw)
		assert.Equal(t, model.StatusReasonSynonym, res.Reason)
	}
}

func TestResolveStatus_TemperatureSynonyms(t *testing.T) {
	assert.Equal(t, model.StatusFollowUp, ResolveStatus("warm").Resolved)
	assert.Equal(t, model.StatusPaused, ResolveStatus("cold").Resolved)
	assert.Equal(t, model.StatusBad, ResolveStatus("dead").Resolved)
}

func TestResolveStatus_ConversionSynonyms(t *testing.T) {
	assert.Equal(t, model.StatusClosed, ResolveStatus("complete").Resolved)
	assert.Equal(t, model.StatusClosed, ResolveStatus("completed").Resolved)
	assert.Equal(t, model.StatusClosed, ResolveStatus("converted").Resolved)
	assert.Equal(t, model.StatusSold, ResolveStatus("Purchased").Resolved)
}

func TestResolveStatus_UnknownDefaultsToNew(t *testing.T) {
	res := ResolveStatus("Unicorn")
	assert.Equal(t, model.StatusNew, res.Resolved)
	assert.Equal(t, model.StatusReasonDefault, res.Reason)
	// The original text survives canonicalization for audit.
	assert.Equal(t, "Unicorn", res.Raw)
	assert.Equal(t, "unicorn", res.Normalized)
}

func TestResolveStatus_EmptyDefaultsToNew(t *testing.T) {
	res := ResolveStatus("")
	assert.Equal(t, model.StatusNew, res.Resolved)
	assert.Equal(t, model.StatusReasonDefault, res.Reason)
	assert.Empty(t, res.Normalized)
}

func TestResolveStatus_AllCanonicalNamesDirect(t *testing.T) {
	for _, s := range []model.Status{
		model.StatusNew, model.StatusActive, model.StatusEngaged, model.StatusContacted,
		model.StatusFollowUp, model.StatusNotInterested, model.StatusPaused, model.StatusClosed,
		model.StatusLost, model.StatusSold, model.StatusBad, model.StatusPending,
	} {
		res := ResolveStatus(string(s))
		assert.Equal(t, s, res.Resolved, "status=%q", s)
		assert.Equal(t, model.StatusReasonDirect, res.Reason, "status=%q", s)
	}
}
