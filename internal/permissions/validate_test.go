package permissions

import (
	"testing"

	"mferp/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsKnownKeys(t *testing.T) {
	raw := RawMatrix{
		ModuleSales: {
			"myCustomers": {ActionView: true, ActionEdit: true},
		},
		ModuleCustomers: {
			ModuleAccessFeature: {ActionView: true},
		},
	}

	assert.NoError(t, Validate(raw))
}

func TestValidateRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name    string
		raw     RawMatrix
		wantKey string
	}{
		{
			"未知模块",
			RawMatrix{"reporting": {"summary": {ActionView: true}}},
			"reporting",
		},
		{
			"未知功能",
			RawMatrix{ModuleSales: {"myReports": {ActionView: true}}},
			"sales.myReports",
		},
		{
			"未知操作",
			RawMatrix{ModuleSales: {"myOrders": {"execute": true}}},
			"sales.myOrders.execute",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.raw)
			require.Error(t, err)
			require.True(t, errors.IsValidationError(err))

			verr := err.(*errors.ValidationError)
			assert.Equal(t, tt.wantKey, verr.Key)
		})
	}
}

func TestFromRawFillsMissingKeys(t *testing.T) {
	raw := RawMatrix{
		ModuleUnitManager: {
			"salesApproval": {ActionView: true, ActionEdit: true},
		},
	}

	m, err := FromRaw(raw)
	require.NoError(t, err)

	assert.Equal(t, ActionSet{View: true, Edit: true}, m[ModuleUnitManager]["salesApproval"])

	// 未提交的键补为false，键保持完整
	assert.Equal(t, ActionSet{}, m[ModuleUnitManager]["productionApproval"])
	assert.Equal(t, ActionSet{}, m[ModuleSales]["myCustomers"])
	for _, mod := range Catalog() {
		require.Contains(t, m, mod.Code)
	}
}

func TestFromRawRejectsInvalid(t *testing.T) {
	raw := RawMatrix{
		"legacyModule": {"anything": {ActionView: true}},
	}

	m, err := FromRaw(raw)
	assert.Error(t, err)
	assert.Nil(t, m)
}
