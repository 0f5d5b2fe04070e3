package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridtie/btpower/field"
)

func TestPlan_mergesAdjacentFields(t *testing.T) {
	fields := []field.Field{
		field.NewUInt(field.BatterySOC, 10),
		field.NewUInt(field.ACInputPower, 11),
		field.NewUInt(field.ACOutputPower, 12),
	}
	ranges := Plan(fields, DefaultPlannerConfig())
	require.Len(t, ranges, 1)
	assert.Equal(t, uint16(10), ranges[0].StartAddress)
	assert.Equal(t, uint16(3), ranges[0].Quantity)
}

func TestPlan_splitsOnWideGap(t *testing.T) {
	fields := []field.Field{
		field.NewUInt(field.BatterySOC, 10),
		field.NewUInt(field.ACInputPower, 200),
	}
	ranges := Plan(fields, PlannerConfig{MaxRegisters: 64, MaxGap: 4})
	require.Len(t, ranges, 2)
	assert.Equal(t, uint16(10), ranges[0].StartAddress)
	assert.Equal(t, uint16(200), ranges[1].StartAddress)
}

func TestPlan_splitsOnMaxRegisters(t *testing.T) {
	fields := []field.Field{
		field.NewUInt(field.BatterySOC, 10),
		field.NewUInt(field.ACInputPower, 11),
	}
	ranges := Plan(fields, PlannerConfig{MaxRegisters: 1, MaxGap: 4})
	require.Len(t, ranges, 2)
}

func TestPlan_smallGapMerges(t *testing.T) {
	fields := []field.Field{
		field.NewUInt(field.BatterySOC, 10),
		field.NewUInt(field.ACInputPower, 13),
	}
	ranges := Plan(fields, PlannerConfig{MaxRegisters: 64, MaxGap: 4})
	require.Len(t, ranges, 1)
	assert.Equal(t, uint16(4), ranges[0].Quantity)
}

func TestDeviceSchema_validateNoOverlap(t *testing.T) {
	s := DeviceSchema{
		Fields: []field.Field{
			field.NewVersion(field.VerARM, 23),
			field.NewUInt(field.VerDSP, 24),
		},
	}
	err := s.ValidateNoOverlap()
	assert.Error(t, err)
}

func TestDeviceSchema_byNameAndWritable(t *testing.T) {
	s := DeviceSchema{
		Fields: []field.Field{
			field.NewUInt(field.BatterySOC, 43),
			field.NewSwitch(field.CtrlAC, 100),
		},
	}
	f, ok := s.ByName(field.CtrlAC)
	require.True(t, ok)
	assert.True(t, f.Writable())

	writable := s.WritableFields()
	require.Len(t, writable, 1)
	assert.Equal(t, field.CtrlAC, writable[0].FieldName())
}
