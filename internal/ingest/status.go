package ingest

import (
	"strings"

	"github.com/sells-group/lead-intake/internal/model"
)

// statusSynonyms resolves free-text status vocabularies into the canonical
// set. Direct canonical names map to themselves; dealership shorthand maps
// by temperature (hot leads are engaged, warm leads need follow-up, cold
// leads are paused, dead leads are bad).
var statusSynonyms = map[string]model.Status{
	// Direct entries.
	"new":            model.StatusNew,
	"active":         model.StatusActive,
	"engaged":        model.StatusEngaged,
	"contacted":      model.StatusContacted,
	"follow_up":      model.StatusFollowUp,
	"not_interested": model.StatusNotInterested,
	"paused":         model.StatusPaused,
	"closed":         model.StatusClosed,
	"lost":           model.StatusLost,
	"sold":           model.StatusSold,
	"bad":            model.StatusBad,
	"pending":        model.StatusPending,

	// Synonyms.
	"hot":            model.StatusEngaged,
	"interested":     model.StatusEngaged,
	"warm":           model.StatusFollowUp,
	"follow up":      model.StatusFollowUp,
	"followup":       model.StatusFollowUp,
	"callback":       model.StatusFollowUp,
	"call back":      model.StatusFollowUp,
	"cold":           model.StatusPaused,
	"on hold":        model.StatusPaused,
	"hold":           model.StatusPaused,
	"inactive":       model.StatusPaused,
	"dead":           model.StatusBad,
	"invalid":        model.StatusBad,
	"bogus":          model.StatusBad,
	"complete":       model.StatusClosed,
	"completed":      model.StatusClosed,
	"converted":      model.StatusClosed,
	"won":            model.StatusClosed,
	"working":        model.StatusActive,
	"in progress":    model.StatusActive,
	"open":           model.StatusActive,
	"reached":        model.StatusContacted,
	"spoke":          model.StatusContacted,
	"left message":   model.StatusContacted,
	"voicemail":      model.StatusContacted,
	"not interested": model.StatusNotInterested,
	"no interest":    model.StatusNotInterested,
	"declined":       model.StatusNotInterested,
	"purchased":      model.StatusSold,
	"delivered":      model.StatusSold,
	"bought":         model.StatusSold,
	"customer":       model.StatusSold,
	"do not contact": model.StatusBad,
	"wrong number":   model.StatusBad,
	"unresponsive":   model.StatusLost,
	"no response":    model.StatusLost,
	"gone":           model.StatusLost,
	"waiting":        model.StatusPending,
	"in review":      model.StatusPending,
}

// ResolveStatus maps a raw status string into the canonical vocabulary and
// returns the full audit record. Unmatched non-empty input and empty input
// both default to "new"; the source text is always retained.
func ResolveStatus(raw string) model.StatusResolution {
	normalized := strings.ToLower(strings.TrimSpace(raw))

	res := model.StatusResolution{
		Raw:        raw,
		Normalized: normalized,
		Resolved:   model.StatusNew,
		Reason:     model.StatusReasonDefault,
	}

	if normalized == "" {
		return res
	}

	if status, ok := statusSynonyms[normalized]; ok {
		res.Resolved = status
		if string(status) == normalized {
			res.Reason = model.StatusReasonDirect
		} else {
			res.Reason = model.StatusReasonSynonym
		}
	}
	return res
}
