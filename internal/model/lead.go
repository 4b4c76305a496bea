// Package model defines the canonical lead schema that all mapped
// spreadsheet columns ultimately feed into.
package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Field is a canonical field key. Header classification binds raw column
// names to these keys; normalization reads row values through them.
type Field string

const (
	FieldFirstName    Field = "firstName"
	FieldMiddleName   Field = "middleName"
	FieldLastName     Field = "lastName"
	FieldCombinedName Field = "combinedName"
	FieldCellphone    Field = "cellphone"
	FieldDayPhone     Field = "dayPhone"
	FieldEveningPhone Field = "eveningPhone"
	FieldContactPhone Field = "contactPhone"
	FieldEmail        Field = "email"
	FieldEmailAlt     Field = "emailAlt"
	FieldAddress      Field = "address"
	FieldCity         Field = "city"
	FieldState        Field = "state"
	FieldZip          Field = "zip"
	FieldVehicleYear  Field = "vehicleYear"
	FieldVehicleMake  Field = "vehicleMake"
	FieldVehicleModel Field = "vehicleModel"
	FieldVehicleVIN   Field = "vehicleVIN"
	FieldSource       Field = "source"
	FieldSalesPerson  Field = "salesPerson"
	FieldStatus       Field = "status"
	FieldDoNotCall    Field = "doNotCall"
	FieldDoNotEmail   Field = "doNotEmail"
	FieldDoNotMail    Field = "doNotMail"
)

// FieldMapping binds canonical fields to the literal header strings chosen
// for them in the current file. Built once per batch (auto-detected or
// operator-overridden) and treated as immutable afterward.
type FieldMapping map[Field]string

// Header returns the bound header for a field, or "" if unresolved.
func (m FieldMapping) Header(f Field) string {
	return m[f]
}

// Has reports whether a field resolved to a header.
func (m FieldMapping) Has(f Field) bool {
	return m[f] != ""
}

// Validate enforces the caller contract before any row is processed: the
// mapping must exist and must bind at least one name source (explicit
// first/last columns or a combined-name column).
func (m FieldMapping) Validate() error {
	if len(m) == 0 {
		return eris.New("model: field mapping is empty")
	}
	if !m.Has(FieldFirstName) && !m.Has(FieldLastName) && !m.Has(FieldCombinedName) {
		return eris.New("model: field mapping binds no name column (firstName, lastName, or combinedName)")
	}
	return nil
}

// PhoneSource identifies which column family a phone number came from.
type PhoneSource string

const (
	PhoneSourceCell    PhoneSource = "cell"
	PhoneSourceDay     PhoneSource = "day"
	PhoneSourceEvening PhoneSource = "evening"
)

// PhoneNumber is a normalized, digits-only phone with its precedence rank.
// Rank follows the cell > day > evening precedence order; the first valid
// number in that order is marked primary.
type PhoneNumber struct {
	Number  string      `json:"number"`
	Source  PhoneSource `json:"source"`
	Rank    int         `json:"rank"`
	Primary bool        `json:"primary"`
}

// Status is a canonical lead state. All free-text status inputs resolve
// into this vocabulary.
type Status string

const (
	StatusNew           Status = "new"
	StatusActive        Status = "active"
	StatusEngaged       Status = "engaged"
	StatusContacted     Status = "contacted"
	StatusFollowUp      Status = "follow_up"
	StatusNotInterested Status = "not_interested"
	StatusPaused        Status = "paused"
	StatusClosed        Status = "closed"
	StatusLost          Status = "lost"
	StatusSold          Status = "sold"
	StatusBad           Status = "bad"
	StatusPending       Status = "pending"
)

// StatusReason records how a raw status string resolved.
type StatusReason string

const (
	StatusReasonDirect  StatusReason = "direct"
	StatusReasonSynonym StatusReason = "synonym"
	StatusReasonDefault StatusReason = "default"
)

// StatusResolution is the audit record kept alongside every canonical
// status. Canonicalization never discards the source text.
type StatusResolution struct {
	Raw        string       `json:"raw"`
	Normalized string       `json:"normalized"`
	Resolved   Status       `json:"resolved"`
	Reason     StatusReason `json:"reason"`
}

// VehicleInterestNone is the sentinel used when year, make, and model are
// all empty, so downstream consumers always have a printable value.
const VehicleInterestNone = "not specified"

// Lead is a fully normalized, canonical lead record.
//
// Invariant: PrimaryPhone != "" || Email != "". A row failing both is
// rejected as a row-level error before a Lead is ever constructed.
type Lead struct {
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name"`

	Phones       []PhoneNumber `json:"phones,omitempty"`
	PrimaryPhone string        `json:"primary_phone,omitempty"`
	Email        string        `json:"email,omitempty"`
	EmailAlt     string        `json:"email_alt,omitempty"`

	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`

	VehicleInterest string `json:"vehicle_interest"`
	VehicleVIN      string `json:"vehicle_vin,omitempty"`

	Source      string `json:"source,omitempty"`
	SalesPerson string `json:"sales_person,omitempty"`

	DoNotCall  bool `json:"do_not_call"`
	DoNotEmail bool `json:"do_not_email"`
	DoNotMail  bool `json:"do_not_mail"`

	Status           Status           `json:"status"`
	StatusResolution StatusResolution `json:"status_resolution"`

	// Audit trail back to the source file.
	RowIndex int               `json:"row_index"`
	RawRow   map[string]string `json:"raw_row,omitempty"`
}

// FullName returns "First Last" with single spacing, tolerating a missing half.
func (l Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// IdentityKey returns the lowercased "first last" concatenation used for
// name-based duplicate matching.
func (l Lead) IdentityKey() string {
	return strings.ToLower(l.FullName())
}

// DuplicateType names which identity matched during duplicate detection,
// in priority order: phone before email before name.
type DuplicateType string

const (
	DuplicatePhone DuplicateType = "phone"
	DuplicateEmail DuplicateType = "email"
	DuplicateName  DuplicateType = "name"
	DuplicateNone  DuplicateType = "none"
)

// Duplicate pairs a rejected candidate with the earlier accepted record it
// collided with.
type Duplicate struct {
	Lead          Lead          `json:"lead"`
	Type          DuplicateType `json:"type"`
	ConflictsWith *Lead         `json:"conflicts_with"`
}

// RowError is a recovered row-level failure, traceable back to the source
// file via the 1-based data row index.
type RowError struct {
	RowIndex int    `json:"row_index"`
	Message  string `json:"message"`
}

// Result aggregates one ingestion run. Built once per batch and immutable
// once returned. Every input row lands in exactly one of Leads, Duplicates,
// or Errors; SoldCustomers is a non-exclusive subset of Leads.
type Result struct {
	BatchID            string      `json:"batch_id"`
	Leads              []Lead      `json:"leads"`
	Duplicates         []Duplicate `json:"duplicates"`
	Errors             []RowError  `json:"errors"`
	SoldCustomers      []Lead      `json:"sold_customers"`
	SoldCustomersCount int         `json:"sold_customers_count"`
}

// RowsProcessed returns the total number of input rows accounted for.
func (r Result) RowsProcessed() int {
	return len(r.Leads) + len(r.Duplicates) + len(r.Errors)
}
