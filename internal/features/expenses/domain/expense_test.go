package domain

import (
	"encoding/json"
	"testing"

	"fleet-admin/internal/core/validation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_Display(t *testing.T) {
	assert.Equal(t, "Toll / Road Tax", CategoryToll.Display())
	assert.Equal(t, "Driver Salary", CategorySalary.Display())
	assert.False(t, Category("bribes").Valid())
}

func TestInput_ValidateCreate(t *testing.T) {
	cat := CategoryToll
	desc := "NH48 toll plaza"
	amount := decimal.NewFromInt(250)
	assert.NoError(t, Input{Category: &cat, Description: &desc, Amount: &amount}.ValidateCreate())

	bad := Category("bribes")
	negative := decimal.NewFromInt(-1)
	blank := "  "
	fields, ok := validation.FieldsOf(Input{Category: &bad, Description: &blank, Amount: &negative}.ValidateCreate())
	require.True(t, ok)
	assert.Equal(t, []string{`"bribes" is not a valid choice.`}, fields["category"])
	assert.Equal(t, []string{"Expense amount cannot be negative."}, fields["amount"])
	assert.Equal(t, []string{"This field may not be blank."}, fields["description"])
}

func TestInput_ZeroAmountAllowed(t *testing.T) {
	zero := decimal.Zero
	assert.NoError(t, Input{Amount: &zero}.ValidateUpdate())
}

func TestExpense_DecodeWithoutVehicle(t *testing.T) {
	var e Expense
	err := json.Unmarshal([]byte(`{"id":4,"vehicle":null,"trip":null,"category":"insurance",
		"category_display":"Insurance","description":"Fleet policy","amount":"18000.00","date":"2026-10-01"}`), &e)
	require.NoError(t, err)
	assert.Nil(t, e.Vehicle)
	assert.Equal(t, CategoryInsurance, e.Category)
	assert.Equal(t, "18000.00", e.Amount.StringFixed(2))
}
