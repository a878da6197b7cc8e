package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewUoM_Validation(t *testing.T) {
	unit := UoMCategory{ID: 1, Name: "Unit"}

	_, err := NewUoM(1, "Units", unit, UoMReference, d("1"), d("1"))
	require.NoError(t, err)

	testCases := []struct {
		name        string
		uomName     string
		uomType     UoMType
		ratio       string
		rounding    string
		expectError string
	}{
		{"empty name", "", UoMReference, "1", "1", "unit of measure name cannot be empty"},
		{"zero ratio", "Dozens", UoMBigger, "0", "1", "unit of measure Dozens: ratio must be positive, got 0"},
		{"negative rounding", "Dozens", UoMBigger, "12", "-1", "unit of measure Dozens: rounding cannot be negative, got -1"},
		{"reference with ratio", "Units", UoMReference, "2", "1", "unit of measure Units: reference unit must have ratio 1, got 2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUoM(2, tc.uomName, unit, tc.uomType, d(tc.ratio), d(tc.rounding))
			require.Error(t, err)
			assert.Equal(t, tc.expectError, err.Error())
		})
	}
}

func TestUoM_ComputeQuantity(t *testing.T) {
	unitCat := UoMCategory{ID: 1, Name: "Unit"}
	weightCat := UoMCategory{ID: 2, Name: "Weight"}

	units := &UoM{ID: 1, Name: "Units", Category: unitCat, Type: UoMReference, Ratio: d("1"), Rounding: d("1")}
	dozens := &UoM{ID: 2, Name: "Dozens", Category: unitCat, Type: UoMBigger, Ratio: d("12"), Rounding: d("0.001")}
	kg := &UoM{ID: 3, Name: "kg", Category: weightCat, Type: UoMReference, Ratio: d("1"), Rounding: d("0.001")}
	grams := &UoM{ID: 4, Name: "g", Category: weightCat, Type: UoMSmaller, Ratio: d("0.001"), Rounding: d("1")}

	tests := []struct {
		name string
		from *UoM
		to   *UoM
		qty  string
		want string
	}{
		{"same unit", units, units, "3", "3"},
		{"same unit rounds up", units, units, "2.2", "3"},
		{"dozens to units", dozens, units, "1.5", "18"},
		{"units to dozens", units, dozens, "6", "0.5"},
		{"units to dozens rounds up", units, dozens, "1", "0.084"},
		{"kg to grams", kg, grams, "1.2345", "1235"},
		{"grams to kg", grams, kg, "250", "0.25"},
		{"zero stays zero", dozens, units, "0", "0"},
		{"missing target", dozens, nil, "2", "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.ComputeQuantity(d(tt.qty), tt.to)
			require.NoError(t, err)
			assert.Equal(t, d(tt.want).String(), got.String())
		})
	}

	_, err := units.ComputeQuantity(d("1"), kg)
	assert.ErrorIs(t, err, ErrUoMCategoryMismatch)
}

func TestRoundUp(t *testing.T) {
	tests := []struct {
		qty, precision, want string
	}{
		{"3.33", "1", "4"},
		{"3", "1", "3"},
		{"3.001", "0.01", "3.01"},
		{"3.33", "0.5", "3.5"},
		{"0", "1", "0"},
		{"-1.2", "1", "-2"},
		{"1.234", "0", "1.234"},
	}

	for _, tt := range tests {
		t.Run(tt.qty+"/"+tt.precision, func(t *testing.T) {
			assert.Equal(t, d(tt.want).String(), RoundUp(d(tt.qty), d(tt.precision)).String())
		})
	}
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, "3", RoundHalfUp(d("3.33"), d("1")).String())
	assert.Equal(t, "4", RoundHalfUp(d("3.5"), d("1")).String())
	assert.Equal(t, "0.25", RoundHalfUp(d("0.2549"), d("0.05")).String())
	assert.Equal(t, "1.234", RoundHalfUp(d("1.234"), decimal.Zero).String())
}
