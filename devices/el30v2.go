package devices

import (
	"github.com/gridtie/btpower/field"
	"github.com/gridtie/btpower/schema"
)

// EL30V2 is the catalogued schema for the EL30 V2 power station, an IoT v2
// device whose control surface is almost entirely ctrl_* select/switch
// registers rather than telemetry triplets.
func EL30V2() schema.DeviceSchema {
	return schema.DeviceSchema{
		IoT:          schema.IoTVersionV2,
		TypeAddress:  110,
		TypeRegCount: 6,
		Fields: []field.Field{
			field.NewString(field.DeviceType, 110, 6),
			field.NewSerialNumber(field.DeviceSN, 116),

			// 104 is the upstream library's TIME_REMAINING register; its
			// original decode spans 4 registers with an undocumented cap,
			// simplified here to a single-register scale-0 decimal (see
			// DESIGN.md).
			field.NewDecimalField(field.TimeRemaining, 104, 0),

			field.NewUInt(field.DCOutputPower, 140),
			field.NewUInt(field.ACOutputPower, 142),
			field.NewUInt(field.DCInputPower, 144),
			field.NewUInt(field.ACInputPower, 146),
			field.NewDecimalField(field.ACInputVoltage, 1314, 1),

			field.NewSwitch(field.CtrlAC, 2011),
			field.NewSwitch(field.CtrlDC, 2012),
			field.NewSwitch(field.CtrlEcoDC, 2014),
			field.NewSelect(field.CtrlEcoTimeModeDC, 2015, ecoModeLabels),
			field.NewUInt(field.CtrlEcoMinPowerDC, 2016),
			field.NewSwitch(field.CtrlEcoAC, 2017),
			field.NewSelect(field.CtrlEcoTimeModeAC, 2018, ecoModeLabels),
			field.NewUInt(field.CtrlEcoMinPowerAC, 2019),
			field.NewSelect(field.CtrlChargingMode, 2020, chargingModeLabels),
			field.NewSwitch(field.CtrlPowerLifting, 2021),
		},
	}
}
