package devices

import (
	"github.com/gridtie/btpower/field"
	"github.com/gridtie/btpower/schema"
)

// EP600 is the catalogued schema for the EP600 split-phase power station:
// per-phase PV, grid (SM) and AC telemetry triplets, plus the control and
// limit registers a caller would poll alongside them.
func EP600() schema.DeviceSchema {
	return schema.DeviceSchema{
		IoT:          schema.IoTVersionV2,
		TypeAddress:  110,
		TypeRegCount: 6,
		Fields: []field.Field{
			field.NewString(field.DeviceType, 110, 6),
			field.NewSerialNumber(field.DeviceSN, 116),

			field.NewDecimalField(field.PowerGeneration, 1202, 1),

			field.NewUInt(field.PVS1Power, 1212),
			field.NewDecimalField(field.PVS1Voltage, 1213, 1),
			field.NewDecimalField(field.PVS1Current, 1214, 1),
			field.NewUInt(field.PVS2Power, 1220),
			field.NewDecimalField(field.PVS2Voltage, 1221, 1),
			field.NewDecimalField(field.PVS2Current, 1222, 1),

			field.NewUInt(field.SMP1Power, 1228),
			field.NewUInt(field.SMP1Voltage, 1229),
			field.NewUInt(field.SMP1Current, 1230),
			field.NewUInt(field.SMP2Power, 1236),
			field.NewUInt(field.SMP2Voltage, 1237),
			field.NewUInt(field.SMP2Current, 1238),
			field.NewUInt(field.SMP3Power, 1244),
			field.NewUInt(field.SMP3Voltage, 1245),
			field.NewUInt(field.SMP3Current, 1246),

			field.NewDecimalField(field.GridFrequency, 1300, 1),

			field.NewUInt(field.GridP1Power, 1313),
			field.NewUInt(field.GridP1Voltage, 1314),
			field.NewUInt(field.GridP1Current, 1315),
			field.NewUInt(field.GridP2Power, 1319),
			field.NewUInt(field.GridP2Voltage, 1320),
			field.NewUInt(field.GridP2Current, 1321),
			field.NewUInt(field.GridP3Power, 1325),
			field.NewUInt(field.GridP3Voltage, 1326),
			field.NewUInt(field.GridP3Current, 1327),

			field.NewDecimalField(field.ACOutputFrequency, 1500, 1),

			field.NewUInt(field.ACP1Power, 1510),
			field.NewUInt(field.ACP1Voltage, 1511),
			field.NewUInt(field.ACP1Current, 1512),
			field.NewUInt(field.ACP2Power, 1517),
			field.NewUInt(field.ACP2Voltage, 1518),
			field.NewUInt(field.ACP2Current, 1519),
			field.NewUInt(field.ACP3Power, 1524),
			field.NewUInt(field.ACP3Voltage, 1525),
			field.NewUInt(field.ACP3Current, 1526),

			field.NewSwitch(field.CtrlAC, 2011),

			field.NewUInt(field.BatterySOCRangeStart, 2022),
			field.NewUInt(field.BatterySOCRangeEnd, 2023),

			field.NewSwitch(field.CtrlGenerator, 2246),

			field.NewDecimalField(field.GridVoltMinVal, 2435, 1),
			field.NewDecimalField(field.GridVoltMaxVal, 2436, 1),
			field.NewDecimalField(field.GridFreqMinValue, 2437, 2),
			field.NewDecimalField(field.GridFreqMaxValue, 2438, 2),

			field.NewString(field.WifiName, 12002, 16),
		},
	}
}
