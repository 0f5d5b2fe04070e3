package devices

import (
	"github.com/gridtie/btpower/field"
	"github.com/gridtie/btpower/schema"
)

// AC300 is the catalogued schema for the AC300 power station family. It is
// register-identical to BaseDeviceV1 in this sample: the AC300's full
// telemetry table beyond device identity and headline power rails isn't
// recoverable from the retrieved source, so the concrete scenario's seven
// fields are what's catalogued.
func AC300() schema.DeviceSchema {
	return BaseDeviceV1()
}
