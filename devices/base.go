// Package devices is the catalogue of concrete DeviceSchema constructors:
// the generic type-only schemas the recognizer probes with, plus the
// per-model schemas (AC300, EP600, EL30V2) a caller builds once a device's
// advertised name is known.
package devices

import (
	"github.com/gridtie/btpower/field"
	"github.com/gridtie/btpower/schema"
)

// BaseDeviceV1 is the generic schema the recognizer reads against an IoT
// v1 (unencrypted-only) device before its concrete model is known. It
// mirrors AC300's register layout, which is the common ground every v1
// device shares for identity and headline telemetry.
func BaseDeviceV1() schema.DeviceSchema {
	return schema.DeviceSchema{
		IoT:          schema.IoTVersionV1,
		TypeAddress:  10,
		TypeRegCount: 6,
		Fields: []field.Field{
			field.NewString(field.DeviceType, 10, 6),
			field.NewSerialNumber(field.DeviceSN, 17),
			field.NewUInt(field.BatterySOC, 43),
			field.NewUInt(field.DCInputPower, 36),
			field.NewUInt(field.ACInputPower, 37),
			field.NewUInt(field.ACOutputPower, 38),
			field.NewUInt(field.DCOutputPower, 39),
		},
	}
}

// BaseDeviceV2 is the generic schema for IoT v2 (encryption-capable)
// devices. Its register window differs from v1's: device_type starts at
// 110, serial at 116, battery SOC at 102.
func BaseDeviceV2() schema.DeviceSchema {
	return schema.DeviceSchema{
		IoT:          schema.IoTVersionV2,
		TypeAddress:  110,
		TypeRegCount: 6,
		Fields: []field.Field{
			field.NewString(field.DeviceType, 110, 6),
			field.NewSerialNumber(field.DeviceSN, 116),
			field.NewUInt(field.BatterySOC, 102),
		},
	}
}

// DeviceTypeOnly returns a copy of ds with its Fields narrowed to just the
// device-type string field, for the recognizer's cheap identity probe
// (get_device_type_registers in the source library).
func DeviceTypeOnly(ds schema.DeviceSchema) schema.DeviceSchema {
	ds.Fields = []field.Field{field.NewString(field.DeviceType, ds.TypeAddress, ds.TypeRegCount)}
	return ds
}
