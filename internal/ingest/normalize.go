package ingest

import (
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/lead-intake/internal/model"
)

// SplitNameFunc tokenizes a combined-name column value into first, middle,
// and last names. The rule is injectable because "Last, First" orderings
// and multi-part surnames are locale conventions this core cannot guess.
type SplitNameFunc func(combined string) (first, middle, last string)

// Options configures row normalization. The zero value uses the defaults.
type Options struct {
	// MinPhoneDigits is the minimum digits-only length for a valid phone.
	// Zero means DefaultMinPhoneDigits.
	MinPhoneDigits int

	// SplitName overrides the combined-name tokenizer. Nil means
	// SplitNameSimple.
	SplitName SplitNameFunc
}

// SplitNameSimple is the default combined-name tokenizer: split on
// whitespace, first token is the first name, last token is the last name,
// interior tokens become the middle name.
func SplitNameSimple(combined string) (first, middle, last string) {
	tokens := strings.Fields(combined)
	switch len(tokens) {
	case 0:
		return "", "", ""
	case 1:
		return tokens[0], "", ""
	default:
		return tokens[0], strings.Join(tokens[1:len(tokens)-1], " "), tokens[len(tokens)-1]
	}
}

// truthyTokens is the fixed set of values treated as true for the privacy
// flags. Everything else, including empty, is false.
var truthyTokens = map[string]bool{
	"true": true,
	"yes":  true,
	"y":    true,
	"1":    true,
	"x":    true,
	"on":   true,
}

var nameCaser = cases.Title(language.English, cases.NoLower)

// NormalizeRow converts one raw row into a canonical Lead using the given
// mapping. A row lacking both name fields, or lacking every contact
// method, returns an error; the caller records it and moves on. The
// function itself never panics and never aborts a batch.
func NormalizeRow(mapping model.FieldMapping, row map[string]string, rowIndex int, opts Options) (model.Lead, error) {
	lead := model.Lead{
		RowIndex: rowIndex,
		RawRow:   row,
	}

	first, middle, last := extractName(mapping, row, opts)
	if first == "" && last == "" {
		return model.Lead{}, eris.New("ingest: missing customer name")
	}
	lead.FirstName = first
	lead.MiddleName = middle
	lead.LastName = last

	lead.Phones = collectPhones(mapping, row, opts.MinPhoneDigits)
	if len(lead.Phones) > 0 {
		lead.PrimaryPhone = lead.Phones[0].Number
	}
	lead.Email = normalizeEmail(value(mapping, row, model.FieldEmail))
	lead.EmailAlt = normalizeEmail(value(mapping, row, model.FieldEmailAlt))

	if lead.PrimaryPhone == "" && lead.Email == "" {
		return model.Lead{}, eris.New("ingest: no valid contact method (phone or email)")
	}

	lead.Address = value(mapping, row, model.FieldAddress)
	lead.City = value(mapping, row, model.FieldCity)
	lead.State = strings.ToUpper(value(mapping, row, model.FieldState))
	lead.Zip = value(mapping, row, model.FieldZip)

	lead.VehicleInterest = vehicleInterest(mapping, row)
	lead.VehicleVIN = strings.ToUpper(value(mapping, row, model.FieldVehicleVIN))

	lead.Source = value(mapping, row, model.FieldSource)
	lead.SalesPerson = cleanName(value(mapping, row, model.FieldSalesPerson))

	lead.DoNotCall = isTruthy(value(mapping, row, model.FieldDoNotCall))
	lead.DoNotEmail = isTruthy(value(mapping, row, model.FieldDoNotEmail))
	lead.DoNotMail = isTruthy(value(mapping, row, model.FieldDoNotMail))

	lead.StatusResolution = ResolveStatus(row[mapping.Header(model.FieldStatus)])
	lead.Status = lead.StatusResolution.Resolved

	return lead, nil
}

// extractName prefers explicit first/last columns and falls back to
// splitting a mapped combined-name column.
func extractName(mapping model.FieldMapping, row map[string]string, opts Options) (first, middle, last string) {
	first = cleanName(value(mapping, row, model.FieldFirstName))
	middle = cleanName(value(mapping, row, model.FieldMiddleName))
	last = cleanName(value(mapping, row, model.FieldLastName))

	if first != "" || last != "" {
		return first, middle, last
	}

	combined := value(mapping, row, model.FieldCombinedName)
	if combined == "" {
		return "", "", ""
	}
	split := opts.SplitName
	if split == nil {
		split = SplitNameSimple
	}
	f, m, l := split(combined)
	return cleanName(f), cleanName(m), cleanName(l)
}

// cleanName trims and title-cases a name token, leaving already-cased
// interiors (McAllister, DeSoto) alone.
func cleanName(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if raw == strings.ToLower(raw) || raw == strings.ToUpper(raw) {
		return nameCaser.String(strings.ToLower(raw))
	}
	return raw
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func isTruthy(raw string) bool {
	return truthyTokens[strings.ToLower(strings.TrimSpace(raw))]
}

// vehicleInterest joins the non-empty year, make, and model tokens with
// single spaces, falling back to the documented sentinel so consumers
// always have a printable value.
func vehicleInterest(mapping model.FieldMapping, row map[string]string) string {
	var parts []string
	for _, f := range []model.Field{model.FieldVehicleYear, model.FieldVehicleMake, model.FieldVehicleModel} {
		if v := value(mapping, row, f); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return model.VehicleInterestNone
	}
	return strings.Join(parts, " ")
}

// value reads the row cell bound to a canonical field, trimmed. Unmapped
// fields read as empty.
func value(mapping model.FieldMapping, row map[string]string, f model.Field) string {
	h := mapping.Header(f)
	if h == "" {
		return ""
	}
	return strings.TrimSpace(row[h])
}
