// Package field implements the declarative on-device register model: typed
// Field variants that decode (and optionally encode) a fixed-size slice of
// register bytes into a domain Value.
package field

// Name is a closed, stable string identifier for a decoded value. It is
// the key used in decoded output maps; raw-mode start-address keys are not
// Names - only the decoded path uses Name.Key().
type Name string

// Key returns the stable string form used as a map key in decoded reads.
func (n Name) Key() string { return string(n) }

// Catalogue of known field names. Not every catalogued device uses every
// name; the set spans BaseDeviceV1/V2, AC300, EP600 and EL30V2.
const (
	DeviceType Name = "device_type"
	DeviceSN   Name = "device_sn"

	BatterySOC Name = "total_battery_percent"

	ACInputPower   Name = "ac_input_power"
	ACInputVoltage Name = "ac_input_voltage"
	ACOutputPower  Name = "ac_output_power"
	ACOutputMode   Name = "ac_output_mode"
	DCInputPower   Name = "dc_input_power"
	DCOutputPower  Name = "dc_output_power"

	CtrlAC               Name = "ctrl_ac"
	CtrlDC               Name = "ctrl_dc"
	CtrlEcoDC            Name = "ctrl_eco_dc"
	CtrlEcoTimeModeDC    Name = "ctrl_eco_time_mode_dc"
	CtrlEcoMinPowerDC    Name = "ctrl_eco_min_power_dc"
	CtrlEcoAC            Name = "ctrl_eco_ac"
	CtrlEcoTimeModeAC    Name = "ctrl_eco_time_mode_ac"
	CtrlEcoMinPowerAC    Name = "ctrl_eco_min_power_ac"
	CtrlChargingMode     Name = "ctrl_charging_mode"
	CtrlPowerLifting     Name = "ctrl_power_lifting"
	CtrlGenerator        Name = "ctrl_generator"
	TimeRemaining        Name = "time_remaining"
	VerARM               Name = "ver_arm"
	VerDSP               Name = "ver_dsp"
	BatterySOCRangeStart Name = "battery_soc_range_start"
	BatterySOCRangeEnd   Name = "battery_soc_range_end"

	PowerGeneration Name = "power_generation"

	PVS1Power   Name = "pv_s1_power"
	PVS1Voltage Name = "pv_s1_voltage"
	PVS1Current Name = "pv_s1_current"
	PVS2Power   Name = "pv_s2_power"
	PVS2Voltage Name = "pv_s2_voltage"
	PVS2Current Name = "pv_s2_current"

	SMP1Power   Name = "sm_p1_power"
	SMP1Voltage Name = "sm_p1_voltage"
	SMP1Current Name = "sm_p1_current"
	SMP2Power   Name = "sm_p2_power"
	SMP2Voltage Name = "sm_p2_voltage"
	SMP2Current Name = "sm_p2_current"
	SMP3Power   Name = "sm_p3_power"
	SMP3Voltage Name = "sm_p3_voltage"
	SMP3Current Name = "sm_p3_current"

	GridFrequency Name = "grid_frequency"
	GridP1Power   Name = "grid_p1_power"
	GridP1Voltage Name = "grid_p1_voltage"
	GridP1Current Name = "grid_p1_current"
	GridP2Power   Name = "grid_p2_power"
	GridP2Voltage Name = "grid_p2_voltage"
	GridP2Current Name = "grid_p2_current"
	GridP3Power   Name = "grid_p3_power"
	GridP3Voltage Name = "grid_p3_voltage"
	GridP3Current Name = "grid_p3_current"

	GridVoltMinVal     Name = "grid_volt_min_val"
	GridVoltMaxVal     Name = "grid_volt_max_val"
	GridFreqMinValue   Name = "grid_freq_min_value"
	GridFreqMaxValue   Name = "grid_freq_max_value"
	ACOutputFrequency  Name = "ac_output_frequency"

	ACP1Power   Name = "ac_p1_power"
	ACP1Voltage Name = "ac_p1_voltage"
	ACP1Current Name = "ac_p1_current"
	ACP2Power   Name = "ac_p2_power"
	ACP2Voltage Name = "ac_p2_voltage"
	ACP2Current Name = "ac_p2_current"
	ACP3Power   Name = "ac_p3_power"
	ACP3Voltage Name = "ac_p3_voltage"
	ACP3Current Name = "ac_p3_current"

	WifiName Name = "wifi_name"
)
