package btpower

import (
	"fmt"

	"github.com/gridtie/btpower/rtu"
)

// ConnectionError indicates a GATT connect attempt failed or an
// established link dropped mid-read. Read retries failed connect attempts
// up to the configured connect budget before giving up; a link that drops
// mid-read fails that Read at once, without a retry.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string { return fmt.Sprintf("btpower: connection error: %s", e.Err) }
func (e *ConnectionError) Unwrap() error { return e.Err }

// TimeoutError indicates a range's expected response length was never
// reached within the read timeout. It aborts the whole read; it is never
// retried within a single Read call.
type TimeoutError struct {
	Address     uint16
	ExpectedLen int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("btpower: timeout waiting for %d-byte response starting at address %d", e.ExpectedLen, e.Address)
}

// ProtocolError wraps a decoded MODBUS exception response, identifying the
// range it occurred on alongside the taxonomy code itself.
type ProtocolError struct {
	Address uint16
	Exc     *rtu.Exception
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("btpower: protocol error at address %d: %s", e.Address, e.Exc)
}
func (e *ProtocolError) Unwrap() error { return e.Exc }

// WriteRejectedError indicates a Write call was refused before any bytes
// were sent: either the field isn't writable, or the value falls outside
// the field's declared domain.
type WriteRejectedError struct {
	Reason string
}

func (e *WriteRejectedError) Error() string { return fmt.Sprintf("btpower: write rejected: %s", e.Reason) }
