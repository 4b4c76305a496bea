package ingest

import (
	"strings"

	"github.com/sells-group/lead-intake/internal/model"
)

// Match is the outcome of a duplicate check.
type Match struct {
	IsDuplicate bool
	Type        model.DuplicateType
	Conflict    *model.Lead
}

// Resolver detects in-batch duplicates against the records accepted so
// far. Checks run in strict priority order (phone, then email, then full
// name) and the earliest accepted occurrence of a colliding identity
// always survives; later rows are flagged against it, never against each
// other. Three hash indexes keep the check O(1) amortized per row without
// changing that observable behavior.
//
// Not safe for concurrent use; a Resolver belongs to one batch.
type Resolver struct {
	byPhone map[string]*model.Lead
	byEmail map[string]*model.Lead
	byName  map[string]*model.Lead
}

// NewResolver returns an empty per-batch resolver.
func NewResolver() *Resolver {
	return &Resolver{
		byPhone: make(map[string]*model.Lead),
		byEmail: make(map[string]*model.Lead),
		byName:  make(map[string]*model.Lead),
	}
}

// Check tests a candidate against the accepted set. It does not mutate the
// indexes; accepted candidates must be added with Accept.
func (r *Resolver) Check(candidate model.Lead) Match {
	if candidate.PrimaryPhone != "" {
		if prior, ok := r.byPhone[candidate.PrimaryPhone]; ok {
			return Match{IsDuplicate: true, Type: model.DuplicatePhone, Conflict: prior}
		}
	}
	if candidate.Email != "" {
		if prior, ok := r.byEmail[strings.ToLower(candidate.Email)]; ok {
			return Match{IsDuplicate: true, Type: model.DuplicateEmail, Conflict: prior}
		}
	}
	if candidate.FirstName != "" && candidate.LastName != "" {
		if prior, ok := r.byName[candidate.IdentityKey()]; ok {
			return Match{IsDuplicate: true, Type: model.DuplicateName, Conflict: prior}
		}
	}
	return Match{Type: model.DuplicateNone}
}

// Accept registers an accepted lead under every identity it carries. First
// registration wins; an identity already present is never overwritten, so
// the earliest record stays the conflict target for the rest of the batch.
func (r *Resolver) Accept(lead *model.Lead) {
	if lead.PrimaryPhone != "" {
		if _, ok := r.byPhone[lead.PrimaryPhone]; !ok {
			r.byPhone[lead.PrimaryPhone] = lead
		}
	}
	if lead.Email != "" {
		key := strings.ToLower(lead.Email)
		if _, ok := r.byEmail[key]; !ok {
			r.byEmail[key] = lead
		}
	}
	if lead.FirstName != "" && lead.LastName != "" {
		key := lead.IdentityKey()
		if _, ok := r.byName[key]; !ok {
			r.byName[key] = lead
		}
	}
}

// CheckAgainst runs the same prioritized cascade as Resolver.Check over a
// plain slice, for callers that hold accepted records without a Resolver.
// Linear in the accepted set.
func CheckAgainst(candidate model.Lead, accepted []model.Lead) Match {
	if candidate.PrimaryPhone != "" {
		for i := range accepted {
			if accepted[i].PrimaryPhone == candidate.PrimaryPhone {
				return Match{IsDuplicate: true, Type: model.DuplicatePhone, Conflict: &accepted[i]}
			}
		}
	}
	if candidate.Email != "" {
		for i := range accepted {
			if accepted[i].Email != "" && strings.EqualFold(accepted[i].Email, candidate.Email) {
				return Match{IsDuplicate: true, Type: model.DuplicateEmail, Conflict: &accepted[i]}
			}
		}
	}
	if candidate.FirstName != "" && candidate.LastName != "" {
		key := candidate.IdentityKey()
		for i := range accepted {
			if accepted[i].IdentityKey() == key {
				return Match{IsDuplicate: true, Type: model.DuplicateName, Conflict: &accepted[i]}
			}
		}
	}
	return Match{Type: model.DuplicateNone}
}
