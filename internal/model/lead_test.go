package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldMapping_Validate(t *testing.T) {
	assert.Error(t, FieldMapping{}.Validate())
	assert.Error(t, FieldMapping(nil).Validate())
	assert.Error(t, FieldMapping{FieldCellphone: "phone"}.Validate())

	assert.NoError(t, FieldMapping{FieldFirstName: "first"}.Validate())
	assert.NoError(t, FieldMapping{FieldLastName: "last"}.Validate())
	assert.NoError(t, FieldMapping{FieldCombinedName: "customer"}.Validate())
}

func TestFieldMapping_HeaderAndHas(t *testing.T) {
	m := FieldMapping{FieldEmail: "E-Mail"}

	assert.Equal(t, "E-Mail", m.Header(FieldEmail))
	assert.True(t, m.Has(FieldEmail))
	assert.Equal(t, "", m.Header(FieldStatus))
	assert.False(t, m.Has(FieldStatus))
}

func TestLead_FullName(t *testing.T) {
	assert.Equal(t, "Ann Lee", Lead{FirstName: "Ann", LastName: "Lee"}.FullName())
	assert.Equal(t, "Ann", Lead{FirstName: "Ann"}.FullName())
	assert.Equal(t, "Lee", Lead{LastName: "Lee"}.FullName())
	assert.Equal(t, "", Lead{}.FullName())
}

func TestLead_IdentityKey(t *testing.T) {
	a := Lead{FirstName: "Ann", LastName: "Lee"}
	b := Lead{FirstName: "ANN", LastName: "lee"}
	assert.Equal(t, a.IdentityKey(), b.IdentityKey())
}

func TestResult_RowsProcessed(t *testing.T) {
	r := Result{
		Leads:      make([]Lead, 3),
		Duplicates: make([]Duplicate, 2),
		Errors:     make([]RowError, 1),
	}
	assert.Equal(t, 6, r.RowsProcessed())
}

func TestVehicleInterestSentinelNotEmpty(t *testing.T) {
	require.NotEmpty(t, VehicleInterestNone)
}
