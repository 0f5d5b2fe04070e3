package btpower

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gridtie/btpower/field"
	"github.com/gridtie/btpower/rtu"
	"github.com/gridtie/btpower/schema"
	"github.com/gridtie/btpower/session"
	"github.com/gridtie/btpower/transport"
)

// State is a Reader's position in its connection lifecycle.
type State uint8

const (
	StateDisconnected State = iota
	StateConnecting
	StateHandshaking
	StateIdle
	StateInFlight
	StateFailed
)

// Reader drives one BLE connection to a single device against a declared
// schema. A Reader's public operations (Read, Write) are serialized; use
// one Reader per connection, and one connection per physical device.
type Reader struct {
	transport transport.Transport
	schema    schema.DeviceSchema
	cfg       ReaderConfig
	logger    *slog.Logger
	sess      *session.Session

	mu        sync.Mutex
	state     State
	encrypted bool
}

// NewReader builds a Reader for schema over t. The Reader does not connect
// until the first Read or Write call.
func NewReader(t transport.Transport, ds schema.DeviceSchema, cfg ReaderConfig) *Reader {
	cfg = cfg.withDefaults()
	return &Reader{
		transport: t,
		schema:    ds,
		cfg:       cfg,
		logger:    cfg.Logger,
		sess:      session.New(t, cfg.CipherMode),
		state:     StateDisconnected,
	}
}

// Read fetches the named fields (or every field in the schema, if names is
// empty) and decodes them. If raw is true, decoding is skipped and the
// result is keyed by each planned range's starting register address
// instead of field name, holding that range's raw payload bytes.
//
// A nil map with a non-nil error signals the read failed outright: the
// connect retry budget was exhausted, a range timed out, or a response
// failed its CRC check. Partial decode failures and MODBUS exceptions on
// individual ranges never fail the read as a whole; affected fields are
// simply absent from the result, and in raw mode a range that drew a MODBUS
// exception maps its starting address to an empty byte slice.
func (r *Reader) Read(ctx context.Context, names []field.Name, raw bool) (map[string]any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.connectAndHandshakeLocked(ctx); err != nil {
		return nil, err
	}

	fields := r.selectFields(names)
	ranges := schema.Plan(fields, r.cfg.Planner)

	result := make(map[string]any, len(fields))
	for _, rng := range ranges {
		r.state = StateInFlight
		payload, err := r.readRangeLocked(ctx, rng)
		r.state = StateIdle
		if err != nil {
			var protoErr *ProtocolError
			if errors.As(err, &protoErr) {
				if raw {
					result[strconv.Itoa(int(rng.StartAddress))] = []byte{}
				}
				continue
			}
			return nil, err
		}

		if raw {
			result[strconv.Itoa(int(rng.StartAddress))] = payload
			continue
		}
		for _, f := range rng.Fields {
			start := int(f.Address()-rng.StartAddress) * 2
			end := start + int(f.RegisterCount())*2
			if start < 0 || end > len(payload) {
				continue
			}
			v, err := f.Decode(payload[start:end])
			if err != nil {
				continue // decode miss: silently omitted, per spec.
			}
			result[f.FieldName().Key()] = v.Raw()
		}
	}
	return result, nil
}

// Write encodes value and sends it to field via FC06 (single register
// fields) or FC10 (multi-register fields). Non-writable fields and values
// outside the field's declared domain are rejected before any transport
// call.
func (r *Reader) Write(ctx context.Context, name field.Name, value field.Value) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.schema.ByName(name)
	if !ok {
		return &WriteRejectedError{Reason: fmt.Sprintf("unknown field %q", name)}
	}
	if !f.Writable() {
		return &WriteRejectedError{Reason: fmt.Sprintf("field %q is not writable", name)}
	}
	if rc, ok := f.(field.RangeChecker); ok && !rc.InRange(value) {
		return &WriteRejectedError{Reason: fmt.Sprintf("value out of range for field %q", name)}
	}
	regBytes, err := f.Encode(value)
	if err != nil {
		return &WriteRejectedError{Reason: err.Error()}
	}

	if err := r.connectAndHandshakeLocked(ctx); err != nil {
		return err
	}

	var frame []byte
	var expectedLen int
	if f.RegisterCount() == 1 {
		v := uint16(regBytes[0])<<8 | uint16(regBytes[1])
		frame = rtu.BuildWriteSingleRegister(f.Address(), v)
		expectedLen = rtu.ExpectedResponseLen(rtu.FunctionWriteSingleRegister, 0)
	} else {
		values := make([]uint16, f.RegisterCount())
		for i := range values {
			values[i] = uint16(regBytes[2*i])<<8 | uint16(regBytes[2*i+1])
		}
		frame, err = rtu.BuildWriteMultipleRegisters(f.Address(), values)
		if err != nil {
			return &WriteRejectedError{Reason: err.Error()}
		}
		expectedLen = rtu.ExpectedResponseLen(rtu.FunctionWriteMultipleRegisters, 0)
	}

	r.state = StateInFlight
	_, err = r.sendAndAccumulateLocked(ctx, frame, expectedLen, f.Address())
	r.state = StateIdle
	return err
}

func (r *Reader) selectFields(names []field.Name) []field.Field {
	if len(names) == 0 {
		return r.schema.Fields
	}
	want := make(map[field.Name]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []field.Field
	for _, f := range r.schema.Fields {
		if want[f.FieldName()] {
			out = append(out, f)
		}
	}
	return out
}

// connectAndHandshakeLocked brings the connection up to Idle if it isn't
// already. Callers must hold r.mu.
func (r *Reader) connectAndHandshakeLocked(ctx context.Context) error {
	if r.state != StateDisconnected && r.state != StateFailed {
		return nil
	}

	r.state = StateConnecting
	var lastErr error
	for attempt := 0; attempt < r.cfg.ConnectRetryBudget; attempt++ {
		connectCtx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.ConnectTimeout))
		err := r.transport.Connect(connectCtx)
		cancel()
		if err == nil {
			lastErr = nil
			break
		}
		lastErr = err
	}
	if lastErr != nil {
		r.state = StateFailed
		r.logger.Warn("Timeout", "reason", "connect retry budget exhausted", "attempts", r.cfg.ConnectRetryBudget)
		return &ConnectionError{Err: lastErr}
	}

	r.encrypted = false
	if r.schema.IoT >= schema.IoTVersionV2 && r.cfg.EncryptionEnabled {
		r.state = StateHandshaking
		if err := r.sess.Handshake(ctx, time.Duration(r.cfg.HandshakeTimeout)); err != nil {
			if !r.cfg.AllowUnencryptedFallback {
				r.state = StateFailed
				return &ConnectionError{Err: fmt.Errorf("handshake: %w", err)}
			}
			r.logger.Warn("crypto handshake failed, falling back to unencrypted", "error", err)
		} else {
			r.encrypted = true
		}
	}

	r.state = StateIdle
	return nil
}

// readRangeLocked performs one read-holding-registers round trip for rng
// and returns its raw payload bytes, or a *ProtocolError for a decoded
// MODBUS exception. Any other error is fatal to the whole Read call, per
// the taxonomy in §7: timeouts and CRC failures abort the read rather than
// retrying the individual range.
func (r *Reader) readRangeLocked(ctx context.Context, rng schema.Range) ([]byte, error) {
	frame, err := rtu.BuildReadHoldingRegisters(rng.StartAddress, rng.Quantity)
	if err != nil {
		return nil, err
	}
	expectedLen := rtu.ExpectedResponseLen(rtu.FunctionReadHoldingRegisters, rng.Quantity)

	resp, err := r.sendAndAccumulateLocked(ctx, frame, expectedLen, rng.StartAddress)
	if err != nil {
		return nil, err
	}
	payload, err := rtu.ParseResponse(resp, rtu.FunctionReadHoldingRegisters, rng.Quantity)
	if err != nil {
		var exc *rtu.Exception
		if errors.As(err, &exc) {
			return nil, &ProtocolError{Address: rng.StartAddress, Exc: exc}
		}
		if errors.Is(err, rtu.ErrCRC{}) {
			r.logger.Error("CRC error", "address", rng.StartAddress)
		}
		return nil, err
	}
	return payload, nil
}

// sendAndAccumulateLocked drains any stale notification bytes left over
// from a previously abandoned request, writes frame, and waits for a
// complete response. For unencrypted connections it watches for an
// exception header to cut the wait short; encrypted connections wait for
// the full expected ciphertext length (see DESIGN.md for the tradeoff this
// implies for encrypted exception responses).
func (r *Reader) sendAndAccumulateLocked(ctx context.Context, frame []byte, expectedLen int, addr uint16) ([]byte, error) {
	r.drainStaleNotifications()

	if r.encrypted {
		resp, err := r.sess.Do(ctx, time.Duration(r.cfg.ReadTimeout), frame, expectedLen)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || isTimeoutLike(err) {
				r.logger.Warn("Timeout", "address", addr)
				return nil, &TimeoutError{Address: addr, ExpectedLen: expectedLen}
			}
			return nil, &ConnectionError{Err: err}
		}
		return resp, nil
	}

	if err := transport.ChunkAndWrite(r.transport.WriteWithoutResponse, frame, r.transport.MTU()); err != nil {
		return nil, &ConnectionError{Err: err}
	}
	return r.accumulatePlaintext(ctx, frame[1], expectedLen, addr)
}

func (r *Reader) accumulatePlaintext(ctx context.Context, fn byte, expectedLen int, addr uint16) ([]byte, error) {
	var buf []byte
	deadline := time.After(time.Duration(r.cfg.ReadTimeout))
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			r.logger.Warn("Timeout", "address", addr)
			return nil, &TimeoutError{Address: addr, ExpectedLen: expectedLen}
		case chunk, ok := <-r.transport.Notifications():
			if !ok {
				return nil, &ConnectionError{Err: fmt.Errorf("notification channel closed")}
			}
			buf = append(buf, chunk...)
			if rtu.IsExceptionHeader(fn, buf) && len(buf) >= rtu.ExceptionLen {
				return buf[:rtu.ExceptionLen], nil
			}
			if len(buf) >= expectedLen {
				return buf[:expectedLen], nil
			}
		}
	}
}

// drainStaleNotifications discards any notification bytes left sitting in
// the transport's channel from a request this Reader is no longer waiting
// on (e.g. a prior timed-out range). Late chunks must never be attributed
// to the next request.
func (r *Reader) drainStaleNotifications() {
	for {
		select {
		case <-r.transport.Notifications():
		default:
			return
		}
	}
}

func isTimeoutLike(err error) bool {
	return err != nil && (errors.Is(err, context.DeadlineExceeded))
}
