package field

import "fmt"

// ErrUnknownValue is returned by Enum/Select decode when the raw register
// value isn't in the field's known set. Callers treat this as "omit this
// key from the decoded result" rather than aborting the whole read, since
// one unrecognized enum code shouldn't poison an otherwise good response.
type ErrUnknownValue struct {
	Name Name
	Raw  uint16
}

func (e ErrUnknownValue) Error() string {
	return fmt.Sprintf("field %s: unknown value %d", e.Name, e.Raw)
}

// RangeChecker is implemented by field variants that can validate a
// decoded Value against a configured bound. Most variants accept anything
// that decodes cleanly; UInt is the one that restricts further.
type RangeChecker interface {
	InRange(v Value) bool
}

// UInt decodes a single register as a plain unsigned integer, optionally
// bounded by Min/Max. Out-of-bounds values still decode (InRange reports
// false rather than Decode failing), matching the catalogue convention
// that range is advisory metadata, not a hard parse error.
type UInt struct {
	base
	notWritable
	hasMin, hasMax bool
	min, max       uint16
}

func NewUInt(name Name, address uint16) *UInt {
	return &UInt{base: base{name: name, addr: address, count: 1}}
}

// WithMin and WithMax configure InRange bounds; both return the receiver
// so they can be chained onto NewUInt.
func (f *UInt) WithMin(min uint16) *UInt { f.hasMin, f.min = true, min; return f }
func (f *UInt) WithMax(max uint16) *UInt { f.hasMax, f.max = true, max; return f }

func (f *UInt) Decode(regs []byte) (Value, error) {
	if len(regs) != 2 {
		return Value{}, f.errWrongLength(len(regs))
	}
	return U16Value(u16At(regs, 0)), nil
}

func (f *UInt) Encode(Value) ([]byte, error) { return nil, f.encodeErr(f.name) }

func (f *UInt) InRange(v Value) bool {
	raw, ok := v.Uint16()
	if !ok {
		return false
	}
	if f.hasMin && raw < f.min {
		return false
	}
	if f.hasMax && raw > f.max {
		return false
	}
	return true
}

// Decimal decodes a single register as raw/10^scale, preserving exact
// fixed-point precision (no float rounding).
type Decimal struct {
	base
	notWritable
	scale uint8
}

// NewDecimalField builds a Decimal field with the given scale. Scale 1
// matches the catalogue default for unscaled telemetry registers.
func NewDecimalField(name Name, address uint16, scale uint8) *Decimal {
	return &Decimal{base: base{name: name, addr: address, count: 1}, scale: scale}
}

func (f *Decimal) Decode(regs []byte) (Value, error) {
	if len(regs) != 2 {
		return Value{}, f.errWrongLength(len(regs))
	}
	return DecimalValue(NewDecimal(int64(u16At(regs, 0)), f.scale)), nil
}

func (f *Decimal) Encode(Value) ([]byte, error) { return nil, f.encodeErr(f.name) }

// Bool decodes a single register strictly: 0 -> false, 1 -> true, any
// other raw value is a decode failure (the register doesn't mean what
// this field thinks it means).
type Bool struct {
	base
	notWritable
}

func NewBool(name Name, address uint16) *Bool {
	return &Bool{base: base{name: name, addr: address, count: 1}}
}

func (f *Bool) Decode(regs []byte) (Value, error) {
	if len(regs) != 2 {
		return Value{}, f.errWrongLength(len(regs))
	}
	switch u16At(regs, 0) {
	case 0:
		return BoolValue(false), nil
	case 1:
		return BoolValue(true), nil
	default:
		return Value{}, fmt.Errorf("field %s: not a strict bool register", f.name)
	}
}

func (f *Bool) Encode(Value) ([]byte, error) { return nil, f.encodeErr(f.name) }

// Switch is a writable Bool: same strict 0/1 decode, but Encode accepts a
// BoolValue and round-trips it to the register.
type Switch struct {
	Bool
}

func NewSwitch(name Name, address uint16) *Switch {
	return &Switch{Bool: Bool{base: base{name: name, addr: address, count: 1}}}
}

func (f *Switch) Writable() bool { return true }

func (f *Switch) Encode(v Value) ([]byte, error) {
	b, ok := v.Bool()
	if !ok {
		return nil, fmt.Errorf("field %s: expected bool value", f.name)
	}
	if b {
		return registerFromU16(1), nil
	}
	return registerFromU16(0), nil
}

// BoolFieldNonZero treats any non-zero register value as true. Some
// control registers echo back non-standard "on" values (observed: 1 and
// 3 both mean on) and this field tolerates that instead of hard-failing.
type BoolFieldNonZero struct {
	base
	notWritable
}

func NewBoolFieldNonZero(name Name, address uint16) *BoolFieldNonZero {
	return &BoolFieldNonZero{base: base{name: name, addr: address, count: 1}}
}

func (f *BoolFieldNonZero) Decode(regs []byte) (Value, error) {
	if len(regs) != 2 {
		return Value{}, f.errWrongLength(len(regs))
	}
	return BoolValue(u16At(regs, 0) != 0), nil
}

func (f *BoolFieldNonZero) Encode(Value) ([]byte, error) { return nil, f.encodeErr(f.name) }

// Enum decodes a single register to one of a fixed set of named codes.
// A raw value outside the set is reported as ErrUnknownValue, which the
// reader treats as "omit this key" rather than a read failure.
type Enum struct {
	base
	notWritable
	labels map[uint16]string
}

func NewEnum(name Name, address uint16, labels map[uint16]string) *Enum {
	return &Enum{base: base{name: name, addr: address, count: 1}, labels: labels}
}

func (f *Enum) Decode(regs []byte) (Value, error) {
	if len(regs) != 2 {
		return Value{}, f.errWrongLength(len(regs))
	}
	raw := u16At(regs, 0)
	if _, ok := f.labels[raw]; !ok {
		return Value{}, ErrUnknownValue{Name: f.name, Raw: raw}
	}
	return EnumValue(raw), nil
}

func (f *Enum) Encode(Value) ([]byte, error) { return nil, f.encodeErr(f.name) }

// Label returns the symbolic name for a decoded Enum/Select value, or
// ("", false) if raw isn't one of this field's known codes.
func (f *Enum) Label(raw uint16) (string, bool) {
	l, ok := f.labels[raw]
	return l, ok
}

// Select is a writable Enum: same decode/label behavior, plus Encode for
// ctrl_* style registers that accept one of a closed set of codes.
type Select struct {
	Enum
}

func NewSelect(name Name, address uint16, labels map[uint16]string) *Select {
	return &Select{Enum: Enum{base: base{name: name, addr: address, count: 1}, labels: labels}}
}

func (f *Select) Writable() bool { return true }

func (f *Select) Encode(v Value) ([]byte, error) {
	raw, ok := v.Enum()
	if !ok {
		return nil, fmt.Errorf("field %s: expected enum value", f.name)
	}
	if _, known := f.labels[raw]; !known {
		return nil, fmt.Errorf("field %s: value %d not an allowed option", f.name, raw)
	}
	return registerFromU16(raw), nil
}

// String decodes count registers as ASCII text, trimming trailing NUL
// and space padding. Used for short human-readable fields such as
// wifi_name.
type String struct {
	base
	notWritable
}

func NewString(name Name, address, registerCount uint16) *String {
	return &String{base: base{name: name, addr: address, count: registerCount}}
}

func (f *String) Decode(regs []byte) (Value, error) {
	if len(regs) != 2*int(f.count) {
		return Value{}, f.errWrongLength(len(regs))
	}
	end := len(regs)
	for end > 0 && (regs[end-1] == 0 || regs[end-1] == ' ') {
		end--
	}
	return StringValue(string(regs[:end])), nil
}

func (f *String) Encode(Value) ([]byte, error) { return nil, f.encodeErr(f.name) }

// SerialNumber decodes a fixed 4-register block into a single integer by
// treating the registers as the 16-bit words of one little-register-first
// 64-bit integer: value = sum(reg[i] * 65536^i).
type SerialNumber struct {
	base
	notWritable
}

func NewSerialNumber(name Name, address uint16) *SerialNumber {
	return &SerialNumber{base: base{name: name, addr: address, count: 4}}
}

func (f *SerialNumber) Decode(regs []byte) (Value, error) {
	if len(regs) != 8 {
		return Value{}, f.errWrongLength(len(regs))
	}
	var v uint64
	for i := 0; i < 4; i++ {
		v |= uint64(u16At(regs, i)) << (16 * i)
	}
	return U64Value(v), nil
}

func (f *SerialNumber) Encode(Value) ([]byte, error) { return nil, f.encodeErr(f.name) }

// Version decodes two registers into a firmware version number. The low
// word is the first register, the high word the second; combined as
// hi*65536+lo and scaled by 100, e.g. registers (0x9196, 0x0001) decode
// to 1028.06.
type Version struct {
	base
	notWritable
}

func NewVersion(name Name, address uint16) *Version {
	return &Version{base: base{name: name, addr: address, count: 2}}
}

func (f *Version) Decode(regs []byte) (Value, error) {
	if len(regs) != 4 {
		return Value{}, f.errWrongLength(len(regs))
	}
	lo := uint32(u16At(regs, 0))
	hi := uint32(u16At(regs, 1))
	raw := hi<<16 | lo
	return VersionValue(NewDecimal(int64(raw), 2)), nil
}

func (f *Version) Encode(Value) ([]byte, error) { return nil, f.encodeErr(f.name) }
