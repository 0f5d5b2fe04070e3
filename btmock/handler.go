package btmock

import "github.com/gridtie/btpower/rtu"

// Handler computes the RTU response frame for a request frame against a
// RegisterMemory, applying any queued FailureInjector override first.
// It returns nil response bytes for FailureTimeout, meaning "never
// respond" to the caller.
type Handler struct {
	Memory    *RegisterMemory
	Failures  FailureInjector
}

// NewHandler builds a Handler over the given memory with an empty
// failure queue.
func NewHandler(memory *RegisterMemory) *Handler {
	return &Handler{Memory: memory}
}

// Handle parses one complete RTU request frame and returns the response
// frame that should be sent back, or nil if the request should be
// silently dropped (FailureTimeout).
func (h *Handler) Handle(request []byte) []byte {
	override := h.Failures.Next()
	switch override.Mode {
	case FailureTimeout:
		return nil
	case FailureConnection:
		// Connection-level failures are surfaced by MockTransport.Connect,
		// not here; treat as a no-op override for request handling.
	case FailureNone:
		if override.Response != nil {
			return override.Response
		}
	}

	if len(request) < 8 {
		return nil
	}
	want := rtu.CRC16(request[:len(request)-2])
	got := uint16(request[len(request)-1])<<8 | uint16(request[len(request)-2])
	if want != got {
		return exceptionFrame(request[1], rtu.ExceptionOther)
	}
	fn := request[1]
	resp := h.handleByFunction(request, fn)
	if override.Mode == FailureCRC {
		return corruptCRC(resp)
	}
	return resp
}

func (h *Handler) handleByFunction(request []byte, fn uint8) []byte {
	switch fn {
	case rtu.FunctionReadHoldingRegisters:
		addr := u16(request[2], request[3])
		qty := u16(request[4], request[5])
		if !h.Memory.ReadableRange(addr, qty) {
			return exceptionFrame(fn, rtu.ExceptionIllegalAddress)
		}
		data := make([]byte, 0, 2*int(qty))
		for a := addr; a < addr+qty; a++ {
			v := h.Memory.Get(a)
			data = append(data, byte(v>>8), byte(v))
		}
		frame := append([]byte{rtu.UnitID, fn, byte(len(data))}, data...)
		return appendCRC(frame)

	case rtu.FunctionWriteSingleRegister:
		addr := u16(request[2], request[3])
		value := u16(request[4], request[5])
		if !h.Memory.WritableRange(addr, 1) {
			return exceptionFrame(fn, rtu.ExceptionIllegalAddress)
		}
		h.Memory.Set(addr, value)
		return append([]byte{}, request...) // echo

	case rtu.FunctionWriteMultipleRegisters:
		addr := u16(request[2], request[3])
		qty := u16(request[4], request[5])
		if !h.Memory.WritableRange(addr, qty) {
			return exceptionFrame(fn, rtu.ExceptionIllegalAddress)
		}
		byteCount := request[6]
		values := request[7 : 7+byteCount]
		for i := uint16(0); i < qty; i++ {
			h.Memory.Set(addr+i, u16(values[2*i], values[2*i+1]))
		}
		frame := []byte{rtu.UnitID, fn, byte(addr >> 8), byte(addr), byte(qty >> 8), byte(qty)}
		return appendCRC(frame)

	default:
		return exceptionFrame(fn, rtu.ExceptionIllegalFunction)
	}
}

func exceptionFrame(fn uint8, code rtu.ExceptionCode) []byte {
	frame := []byte{rtu.UnitID, fn | 0x80, byte(code)}
	return appendCRC(frame)
}

func appendCRC(frame []byte) []byte {
	crc := rtu.CRC16(frame)
	return append(frame, byte(crc), byte(crc>>8))
}

func corruptCRC(frame []byte) []byte {
	if len(frame) < 2 {
		return frame
	}
	corrupted := append([]byte(nil), frame...)
	corrupted[len(corrupted)-1] ^= 0xFF
	return corrupted
}

func u16(hi, lo byte) uint16 { return uint16(hi)<<8 | uint16(lo) }
