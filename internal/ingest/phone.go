package ingest

import (
	"strings"

	"github.com/sells-group/lead-intake/internal/model"
)

// DefaultMinPhoneDigits is the minimum digits-only length a phone value
// must have to count as a valid contact method.
const DefaultMinPhoneDigits = 10

// phoneSlot pairs a canonical phone column with its precedence rank.
// Precedence is fixed: cell > day > evening.
var phoneSlots = []struct {
	field  model.Field
	source model.PhoneSource
	rank   int
}{
	{model.FieldCellphone, model.PhoneSourceCell, 1},
	{model.FieldDayPhone, model.PhoneSourceDay, 2},
	{model.FieldEveningPhone, model.PhoneSourceEvening, 3},
}

// NormalizePhone strips every non-digit character, preserving digit order.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// collectPhones gathers raw values from the mapped phone columns in
// precedence order, normalizes each to digits-only, drops any shorter than
// minDigits, and marks the first survivor primary.
func collectPhones(mapping model.FieldMapping, row map[string]string, minDigits int) []model.PhoneNumber {
	if minDigits <= 0 {
		minDigits = DefaultMinPhoneDigits
	}

	var phones []model.PhoneNumber
	for _, slot := range phoneSlots {
		header := mapping.Header(slot.field)
		if header == "" {
			continue
		}
		num := NormalizePhone(row[header])
		if len(num) < minDigits {
			continue
		}
		phones = append(phones, model.PhoneNumber{
			Number:  num,
			Source:  slot.source,
			Rank:    slot.rank,
			Primary: len(phones) == 0,
		})
	}
	return phones
}
