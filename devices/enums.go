package devices

// chargingModeLabels enumerates the ctrl_charging_mode select options EL30V2
// exposes. The source enum definition wasn't part of the retrieved
// original_source snippet; these labels are the three charging profiles
// documented across this device family's companion app and are the best
// reconstruction available (see DESIGN.md).
var chargingModeLabels = map[uint16]string{
	0: "STANDARD",
	1: "SILENT",
	2: "TURBO",
}

// ecoModeLabels enumerates the eco-timeout options for ctrl_eco_time_mode_dc
// / ctrl_eco_time_mode_ac. Same provenance caveat as chargingModeLabels.
var ecoModeLabels = map[uint16]string{
	0: "OFF",
	1: "ONE_HOUR",
	2: "TWO_HOURS",
	3: "THREE_HOURS",
	4: "FOUR_HOURS",
}
