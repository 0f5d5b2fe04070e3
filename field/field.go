package field

import "fmt"

// Field describes how to decode (and, for writable fields, encode) the
// register window backing a single named value. Field variants are a
// closed set (see types.go); callers dispatch over them through this
// interface's methods, which keeps DeviceSchema and the range planner
// decoupled from the concrete variants.
type Field interface {
	// FieldName is the stable output key this field decodes into.
	FieldName() Name
	// Address is the first register address this field reads from.
	Address() uint16
	// RegisterCount is how many consecutive registers this field spans.
	RegisterCount() uint16
	// Decode converts exactly RegisterCount() registers of raw big-endian
	// register bytes into a Value. regs has length 2*RegisterCount().
	// A decode failure (wrong length, out-of-range value in strict mode)
	// returns a non-nil error and no determinate Value.
	Decode(regs []byte) (Value, error)
	// Writable reports whether Encode is supported. Most telemetry fields
	// are read-only; ctrl_* fields are writable.
	Writable() bool
	// Encode converts a Value back into RegisterCount() registers of raw
	// big-endian register bytes. Returns an error if the field is not
	// writable or the Value's Kind doesn't match what this field expects.
	Encode(v Value) ([]byte, error)
}

// base holds the fields common to every variant: name, start address and
// register span. Variants embed it and add their own Decode/Encode/Writable.
type base struct {
	name  Name
	addr  uint16
	count uint16
}

func (b base) FieldName() Name        { return b.name }
func (b base) Address() uint16        { return b.addr }
func (b base) RegisterCount() uint16  { return b.count }

// errWrongLength is the shared guard every Decode implementation opens
// with: the caller must hand over exactly 2*RegisterCount() bytes.
func (b base) errWrongLength(got int) error {
	want := 2 * int(b.count)
	return fmt.Errorf("field %s: expected %d register bytes, got %d", b.name, want, got)
}

// notWritable is embedded by read-only variants: it supplies Writable
// (always false) and the shared error each variant's Encode returns.
type notWritable struct{}

func (notWritable) Writable() bool { return false }

func (n notWritable) encodeErr(name Name) error {
	return fmt.Errorf("field %s: not writable", name)
}

// registerFromU16 renders a single register value as its 2 big-endian bytes.
func registerFromU16(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

// u16At reads register i (0-based) out of a raw register-bytes slice.
func u16At(regs []byte, i int) uint16 {
	return uint16(regs[2*i])<<8 | uint16(regs[2*i+1])
}
