package devices

import (
	"strings"

	"github.com/gridtie/btpower/schema"
)

// catalogue maps a device's advertised-name model prefix to its schema
// constructor. Populated at init so BuildDevice never has to build it
// lazily or guard against concurrent first use.
var catalogue map[string]func() schema.DeviceSchema

func init() {
	catalogue = map[string]func() schema.DeviceSchema{
		"AC300": AC300,
		"EP600": EP600,
		"EL30":  EL30V2,
	}
}

// BuildDevice matches bluetoothName against the catalogue's model prefixes
// and returns the matching schema. PBOX-prefixed names are a known device
// family without a catalogued register layout: BuildDevice reports no schema
// for them, the same result as for an unrecognized name; IsKnownFamily is
// what tells the two apart.
func BuildDevice(bluetoothName string) (schema.DeviceSchema, bool) {
	for prefix, ctor := range catalogue {
		if strings.HasPrefix(bluetoothName, prefix) {
			return ctor(), true
		}
	}
	return schema.DeviceSchema{}, false
}

// IsKnownFamily reports whether bluetoothName matches a recognized model
// prefix, cataloged or not (PBOX-prefixed names included).
func IsKnownFamily(bluetoothName string) bool {
	if _, ok := BuildDevice(bluetoothName); ok {
		return true
	}
	return strings.HasPrefix(bluetoothName, "PBOX")
}
