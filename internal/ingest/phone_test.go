package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-intake/internal/model"
)

func TestNormalizePhone_StripsNonDigits(t *testing.T) {
	assert.Equal(t, "2135551212", NormalizePhone("(213) 555-1212"))
	assert.Equal(t, "12135551212", NormalizePhone("+1 213.555.1212"))
	assert.Equal(t, "2135551212", NormalizePhone("213 555 1212 ext"))
	assert.Equal(t, "", NormalizePhone("n/a"))
	assert.Equal(t, "", NormalizePhone(""))
}

func TestNormalizePhone_PreservesDigitOrder(t *testing.T) {
	assert.Equal(t, "123456789012", NormalizePhone("1a2b3c4d5e6f7g8h9i0j1k2"))
}

func TestCollectPhones_PrecedenceOrder(t *testing.T) {
	mapping := model.FieldMapping{
		model.FieldCellphone:    "cell",
		model.FieldDayPhone:     "day",
		model.FieldEveningPhone: "evening",
	}
	row := map[string]string{
		"cell":    "2135551111",
		"day":     "2135552222",
		"evening": "2135553333",
	}

	phones := collectPhones(mapping, row, 0)
	require.Len(t, phones, 3)
	assert.Equal(t, model.PhoneSourceCell, phones[0].Source)
	assert.True(t, phones[0].Primary)
	assert.Equal(t, model.PhoneSourceDay, phones[1].Source)
	assert.False(t, phones[1].Primary)
	assert.Equal(t, model.PhoneSourceEvening, phones[2].Source)
}

func TestCollectPhones_DayBecomesPrimaryWhenCellEmpty(t *testing.T) {
	mapping := model.FieldMapping{
		model.FieldCellphone:    "cell",
		model.FieldDayPhone:     "day",
		model.FieldEveningPhone: "evening",
	}
	row := map[string]string{
		"cell":    "",
		"day":     "2135551212",
		"evening": "2135559999",
	}

	phones := collectPhones(mapping, row, 0)
	require.Len(t, phones, 2)
	assert.Equal(t, "2135551212", phones[0].Number)
	assert.Equal(t, model.PhoneSourceDay, phones[0].Source)
	assert.True(t, phones[0].Primary)
}

func TestCollectPhones_DiscardsShortNumbers(t *testing.T) {
	mapping := model.FieldMapping{model.FieldCellphone: "cell"}
	row := map[string]string{"cell": "555-1212"}

	phones := collectPhones(mapping, row, 0)
	assert.Empty(t, phones)
}

func TestCollectPhones_ConfigurableMinimum(t *testing.T) {
	mapping := model.FieldMapping{model.FieldCellphone: "cell"}
	row := map[string]string{"cell": "555-1212"}

	phones := collectPhones(mapping, row, 7)
	require.Len(t, phones, 1)
	assert.Equal(t, "5551212", phones[0].Number)
}

func TestCollectPhones_UnmappedColumns(t *testing.T) {
	phones := collectPhones(model.FieldMapping{}, map[string]string{"cell": "2135551212"}, 0)
	assert.Empty(t, phones)
}
