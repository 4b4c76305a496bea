// Package ingest turns schema-less spreadsheet rows into canonical,
// deduplicated lead records: header classification, field normalization,
// in-batch duplicate resolution, and the orchestrating pipeline.
package ingest

import (
	"regexp"
	"strings"

	"github.com/sells-group/lead-intake/internal/model"
)

// fieldAliases drives header classification. For each canonical field, in a
// fixed evaluation order, exact patterns are tried against every normalized
// header before partial (substring) patterns. Order within a list is
// specificity order; the first qualifying header wins and is bound.
type fieldAliases struct {
	field   model.Field
	exact   []string
	partial []string
}

var aliasTable = []fieldAliases{
	{
		field:   model.FieldFirstName,
		exact:   []string{"first name", "firstname", "fname", "first"},
		partial: []string{"first name", "firstname", "fname"},
	},
	{
		field:   model.FieldLastName,
		exact:   []string{"last name", "lastname", "lname", "last", "surname"},
		partial: []string{"last name", "lastname", "lname", "surname"},
	},
	{
		field:   model.FieldMiddleName,
		exact:   []string{"middle name", "middlename", "mname", "middle"},
		partial: []string{"middle name", "middlename"},
	},
	{
		field:   model.FieldCellphone,
		exact:   []string{"cell phone", "cellphone", "cell", "mobile phone", "mobile", "mobilephone"},
		partial: []string{"cell phone", "cellphone", "mobile"},
	},
	{
		field:   model.FieldDayPhone,
		exact:   []string{"day phone", "dayphone", "daytime phone", "work phone", "workphone"},
		partial: []string{"day phone", "dayphone", "daytime", "work phone"},
	},
	{
		field:   model.FieldEveningPhone,
		exact:   []string{"evening phone", "eveningphone", "night phone", "home phone", "homephone"},
		partial: []string{"evening phone", "eveningphone", "night phone", "home phone"},
	},
	{
		field:   model.FieldContactPhone,
		exact:   []string{"phone", "phone number", "phonenumber", "contact phone", "telephone", "tel"},
		partial: []string{"phone", "telephone"},
	},
	{
		field:   model.FieldEmail,
		exact:   []string{"email", "email address", "emailaddress", "e mail"},
		partial: []string{"email", "e mail"},
	},
	{
		field:   model.FieldEmailAlt,
		exact:   []string{"email 2", "email2", "alt email", "alternate email", "secondary email"},
		partial: []string{"email 2", "email2", "alternate email", "secondary email"},
	},
	{
		field:   model.FieldAddress,
		exact:   []string{"address", "street address", "street", "address 1", "address1"},
		partial: []string{"address", "street"},
	},
	{
		field:   model.FieldCity,
		exact:   []string{"city", "town"},
		partial: []string{"city"},
	},
	{
		field:   model.FieldState,
		exact:   []string{"state", "province", "region"},
		partial: []string{"state", "province"},
	},
	{
		field:   model.FieldZip,
		exact:   []string{"zip", "zip code", "zipcode", "postal code", "postalcode", "postal"},
		partial: []string{"zip", "postal"},
	},
	{
		field:   model.FieldVehicleYear,
		exact:   []string{"year", "vehicle year", "model year", "yr"},
		partial: []string{"vehicle year", "model year"},
	},
	{
		field:   model.FieldVehicleMake,
		exact:   []string{"make", "vehicle make", "brand"},
		partial: []string{"vehicle make", "make"},
	},
	{
		field:   model.FieldVehicleModel,
		exact:   []string{"model", "vehicle model"},
		partial: []string{"vehicle model", "model"},
	},
	{
		field:   model.FieldVehicleVIN,
		exact:   []string{"vin", "vin number", "vehicle vin", "vehicle id"},
		partial: []string{"vin"},
	},
	{
		field:   model.FieldSource,
		exact:   []string{"source", "lead source", "leadsource", "origin", "campaign"},
		partial: []string{"lead source", "source", "campaign"},
	},
	{
		field:   model.FieldSalesPerson,
		exact:   []string{"salesperson", "sales person", "sales rep", "salesrep", "rep", "agent", "assigned to"},
		partial: []string{"salesperson", "sales person", "sales rep", "agent"},
	},
	{
		field:   model.FieldStatus,
		exact:   []string{"status", "lead status", "leadstatus", "stage", "disposition"},
		partial: []string{"status", "stage", "disposition"},
	},
	{
		field:   model.FieldDoNotCall,
		exact:   []string{"do not call", "donotcall", "dnc", "no call"},
		partial: []string{"do not call", "donotcall"},
	},
	{
		field:   model.FieldDoNotEmail,
		exact:   []string{"do not email", "donotemail", "no email"},
		partial: []string{"do not email", "donotemail"},
	},
	{
		field:   model.FieldDoNotMail,
		exact:   []string{"do not mail", "donotmail", "no mail"},
		partial: []string{"do not mail", "donotmail"},
	},
}

// combinedNameHints mark headers that can serve as a combined-name column
// when no explicit first/last columns resolved.
var combinedNameHints = []string{"name", "client", "customer"}

var headerJunkRe = regexp.MustCompile(`[^a-z0-9 ]+`)

// normalizeHeader lowercases a raw header, strips everything other than
// letters, digits, and spaces, and collapses the result.
func normalizeHeader(h string) string {
	h = strings.ToLower(h)
	h = headerJunkRe.ReplaceAllString(h, " ")
	return strings.Join(strings.Fields(h), " ")
}

// ClassifyHeaders maps raw header strings to a best-effort FieldMapping.
// Deterministic for a fixed header list: fields are evaluated in table
// order, headers in file order. Unresolved fields are simply absent from
// the mapping; validation happens downstream.
func ClassifyHeaders(headers []string) model.FieldMapping {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	mapping := make(model.FieldMapping, len(aliasTable))
	claimed := make(map[int]bool, len(headers))

	for _, fa := range aliasTable {
		idx := matchField(normalized, claimed, fa)
		if idx < 0 {
			continue
		}
		// A salesperson column must never masquerade as the customer name.
		if (fa.field == model.FieldFirstName || fa.field == model.FieldLastName) &&
			strings.Contains(normalized[idx], "salesperson") {
			continue
		}
		mapping[fa.field] = headers[idx]
		claimed[idx] = true
	}

	applyCombinedNameFallback(headers, normalized, claimed, mapping)
	applyContactPhoneFallback(mapping)

	return mapping
}

// matchField scans all headers for an exact pattern match first, then for a
// partial match (pattern contained in header or header contained in
// pattern). Returns the index of the first qualifying unclaimed header.
func matchField(normalized []string, claimed map[int]bool, fa fieldAliases) int {
	for _, pat := range fa.exact {
		for i, h := range normalized {
			if claimed[i] || h == "" {
				continue
			}
			if h == pat {
				return i
			}
		}
	}
	for _, pat := range fa.partial {
		for i, h := range normalized {
			if claimed[i] || h == "" {
				continue
			}
			if strings.Contains(h, pat) || strings.Contains(pat, h) {
				return i
			}
		}
	}
	return -1
}

// applyCombinedNameFallback binds a "name"-ish header as a combined-name
// column when neither explicit name field resolved, so the normalizer can
// split it later.
func applyCombinedNameFallback(headers, normalized []string, claimed map[int]bool, mapping model.FieldMapping) {
	if mapping.Has(model.FieldFirstName) || mapping.Has(model.FieldLastName) || mapping.Has(model.FieldCombinedName) {
		return
	}
	for i, h := range normalized {
		if claimed[i] || h == "" || strings.Contains(h, "salesperson") {
			continue
		}
		for _, hint := range combinedNameHints {
			if strings.Contains(h, hint) {
				mapping[model.FieldCombinedName] = headers[i]
				claimed[i] = true
				return
			}
		}
	}
}

// applyContactPhoneFallback routes a generic contact-phone column into the
// cellphone slot when no specific phone column resolved.
func applyContactPhoneFallback(mapping model.FieldMapping) {
	if mapping.Has(model.FieldCellphone) || mapping.Has(model.FieldDayPhone) || mapping.Has(model.FieldEveningPhone) {
		return
	}
	if h := mapping.Header(model.FieldContactPhone); h != "" {
		mapping[model.FieldCellphone] = h
	}
}
