package btpower

import (
	"context"
	"time"

	"github.com/gridtie/btpower/devices"
	"github.com/gridtie/btpower/field"
	"github.com/gridtie/btpower/schema"
	"github.com/gridtie/btpower/transport"
)

// RecognizerResult is what Recognize reports once it has confirmed a
// device's identity string: the raw advertised device_type string, which
// IoT protocol generation answered, and whether that answer came over an
// encrypted session.
type RecognizerResult struct {
	Name       string
	IoTVersion schema.IoTVersion
	Encrypted  bool
}

// recognizerAttempt pairs a base schema with the encryption/timeout combo
// to probe it with, mirroring device_recognizer.py's DeviceReaderConfig
// pairs for each IoT generation.
type recognizerAttempt struct {
	schema    schema.DeviceSchema
	timeout   time.Duration
	encrypted bool
}

// Recognize drives t through BaseDeviceV2/BaseDeviceV1's device-type
// register window, trying v2-encrypted (8s), v2-unencrypted (3s),
// v1-encrypted (8s, a no-op since v1 never negotiates a session), then
// v1-unencrypted (3s), in that order. The first attempt that yields a
// non-empty device_type string wins. An empty string and a connection or
// protocol error are both treated as "try the next attempt", per spec:
// an absent type string is not itself an error.
func Recognize(ctx context.Context, t transport.Transport) (RecognizerResult, bool) {
	attempts := []recognizerAttempt{
		{schema: devices.DeviceTypeOnly(devices.BaseDeviceV2()), timeout: 8 * time.Second, encrypted: true},
		{schema: devices.DeviceTypeOnly(devices.BaseDeviceV2()), timeout: 3 * time.Second, encrypted: false},
		{schema: devices.DeviceTypeOnly(devices.BaseDeviceV1()), timeout: 8 * time.Second, encrypted: true},
		{schema: devices.DeviceTypeOnly(devices.BaseDeviceV1()), timeout: 3 * time.Second, encrypted: false},
	}

	for _, a := range attempts {
		cfg := DefaultReaderConfig()
		cfg.EncryptionEnabled = a.encrypted
		cfg.AllowUnencryptedFallback = false
		cfg.ConnectTimeout = Duration(a.timeout)
		cfg.ReadTimeout = Duration(a.timeout)
		cfg.HandshakeTimeout = Duration(a.timeout)

		r := NewReader(t, a.schema, cfg)
		attemptCtx, cancel := context.WithTimeout(ctx, a.timeout)
		data, err := r.Read(attemptCtx, nil, false)
		cancel()
		if err != nil {
			continue
		}
		name, _ := data[field.DeviceType.Key()].(string)
		if name == "" {
			continue
		}
		return RecognizerResult{Name: name, IoTVersion: a.schema.IoT, Encrypted: a.encrypted && r.encrypted}, true
	}
	return RecognizerResult{}, false
}
