// Package transport abstracts the BLE GATT link a device speaks its
// MODBUS-over-BLE protocol on: one fixed service exposing a
// write-without-response characteristic and a notify characteristic.
package transport

import "context"

// Fixed GATT UUIDs every catalogued device exposes its protocol on.
const (
	ServiceUUID        = "0000ff00-0000-1000-8000-00805f9b34fb"
	WriteCharUUID      = "0000ff02-0000-1000-8000-00805f9b34fb"
	NotifyCharUUID     = "0000ff01-0000-1000-8000-00805f9b34fb"
)

// Transport is the minimal BLE surface the rest of this module needs.
// Implementations deliver raw notification payloads on the channel
// returned by Notifications in the order received; reassembling those
// MTU-bounded chunks into complete RTU frames is the caller's job, not
// the transport's, since only the caller knows how long a frame should be.
type Transport interface {
	// Connect opens the GATT connection, discovers the fixed service and
	// characteristics, and enables notifications. How much of that ctx
	// bounds is up to the implementation (see BLE.Connect).
	Connect(ctx context.Context) error
	// WriteWithoutResponse sends data on the write characteristic. Callers
	// are responsible for chunking to the negotiated MTU if data exceeds it.
	WriteWithoutResponse(data []byte) error
	// Notifications returns the channel notification payloads arrive on.
	// An implementation may close the channel when it disconnects (BLE
	// does); the Reader treats a closed channel as a connection error.
	Notifications() <-chan []byte
	// MTU returns the attribute MTU that writes and notifications are
	// chunked to. The implementations in this module report their default
	// (at least 23) from construction, before Connect.
	MTU() int
	// Disconnect tears down the GATT connection. Safe to call more than
	// once and safe to call without a prior successful Connect.
	Disconnect() error
}
