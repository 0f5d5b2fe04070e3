// Package session implements the optional RSA/AES crypto session that
// IoT-v2 devices wrap their MODBUS frames in. It presents the same
// write/read-a-complete-frame surface as talking to the transport
// directly, so the reader that drives it doesn't need to know whether a
// given connection is encrypted.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/gridtie/btpower/transport"
)

// Session wraps a transport.Transport with AES encryption negotiated via
// an RSA handshake. Until Handshake succeeds, Do operates in passthrough
// mode (no encryption) so callers can use the same type for both
// encrypted and plaintext IoT-v2 connections.
type Session struct {
	transport transport.Transport
	mode      Mode

	key, iv []byte
}

// New builds a Session over t using the given cipher mode, not yet
// handshaken.
func New(t transport.Transport, mode Mode) *Session {
	return &Session{transport: t, mode: mode}
}

// Encrypted reports whether Handshake has completed successfully.
func (s *Session) Encrypted() bool { return s.key != nil }

// Do writes one MODBUS frame, optionally encrypting it first, and reads
// back exactly one frame of wantPlainLen bytes, decrypting if needed.
// Decrypted frames are not separately CRC-checked here; the caller (the
// codec's ParseResponse) performs that check uniformly for both
// encrypted and plaintext connections, per the design note that a failed
// CRC after decryption is just a transport corruption event like any
// other.
func (s *Session) Do(ctx context.Context, timeout time.Duration, frame []byte, wantPlainLen int) ([]byte, error) {
	if !s.Encrypted() {
		if err := transport.ChunkAndWrite(s.transport.WriteWithoutResponse, frame, s.transport.MTU()); err != nil {
			return nil, fmt.Errorf("session: write: %w", err)
		}
		return transport.Reassemble(ctx, s.transport.Notifications(), wantPlainLen, timeout)
	}

	ciphertext, err := wrap(s.mode, s.key, s.iv, frame)
	if err != nil {
		return nil, err
	}
	if err := transport.ChunkAndWrite(s.transport.WriteWithoutResponse, ciphertext, s.transport.MTU()); err != nil {
		return nil, fmt.Errorf("session: write: %w", err)
	}

	wantCipherLen := cipherLen(s.mode, wantPlainLen)
	raw, err := transport.Reassemble(ctx, s.transport.Notifications(), wantCipherLen, timeout)
	if err != nil {
		return nil, err
	}
	return unwrap(s.mode, s.key, s.iv, raw, wantPlainLen)
}
