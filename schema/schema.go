package schema

import (
	"fmt"

	"github.com/gridtie/btpower/field"
)

// IoTVersion distinguishes the two generations of the BLE transport
// protocol: v1 runs MODBUS RTU frames directly over the GATT
// characteristics, v2 adds the optional RSA/AES crypto session in front.
type IoTVersion uint8

const (
	IoTVersionUnknown IoTVersion = 0
	IoTVersionV1      IoTVersion = 1
	IoTVersionV2      IoTVersion = 2
)

// DeviceSchema is the declarative description of one device family: its
// ordered fields, which IoT protocol version it speaks, and the register
// window the recognizer reads to confirm a device's type string.
type DeviceSchema struct {
	Fields       []field.Field
	IoT          IoTVersion
	TypeAddress  uint16
	TypeRegCount uint16
}

// ByName finds a schema's field by Name for field-level lookups such as
// Write, scanning Fields in order. A scan per call is cheap relative to a
// BLE round trip, and it keeps DeviceSchema itself an immutable value.
func (s DeviceSchema) ByName(name field.Name) (field.Field, bool) {
	for _, f := range s.Fields {
		if f.FieldName() == name {
			return f, true
		}
	}
	return nil, false
}

// WritableFields returns only the fields this schema allows writing to.
func (s DeviceSchema) WritableFields() []field.Field {
	var out []field.Field
	for _, f := range s.Fields {
		if f.Writable() {
			out = append(out, f)
		}
	}
	return out
}

// Plan groups this schema's fields into read ranges using cfg.
func (s DeviceSchema) Plan(cfg PlannerConfig) []Range {
	return Plan(s.Fields, cfg)
}

// ValidateNoOverlap reports an error if two fields in the schema claim
// overlapping register addresses, a configuration mistake that would
// otherwise surface later as silently wrong decoded values.
func (s DeviceSchema) ValidateNoOverlap() error {
	type span struct {
		start, end uint16
		name       field.Name
	}
	var spans []span
	for _, f := range s.Fields {
		spans = append(spans, span{f.Address(), f.Address() + f.RegisterCount(), f.FieldName()})
	}
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			a, b := spans[i], spans[j]
			if a.start < b.end && b.start < a.end {
				return fmt.Errorf("schema: field %s overlaps field %s", a.name, b.name)
			}
		}
	}
	return nil
}
