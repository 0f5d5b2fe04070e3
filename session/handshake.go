package session

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/gridtie/btpower/transport"
)

// helloFrame requests the device's RSA public key. It carries no payload
// beyond the single opcode byte the device's crypto bootstrap expects.
var helloFrame = []byte{0x00}

// rsaPublicExponent is the exponent every catalogued device's public key
// uses; only the modulus is transmitted over the air.
const rsaPublicExponent = 65537

const quietPeriod = 200 * time.Millisecond

// Handshake runs the two-phase RSA/AES bootstrap described for IoT v2
// devices: request the device's public key, generate a random AES
// key+IV, and send them back RSA-encrypted. On success the Session is
// ready to wrap/unwrap MODBUS frames.
func (s *Session) Handshake(ctx context.Context, timeout time.Duration) error {
	if err := s.transport.WriteWithoutResponse(helloFrame); err != nil {
		return fmt.Errorf("session: write hello: %w", err)
	}

	raw, err := collectUntilQuiet(ctx, s.transport.Notifications(), timeout, quietPeriod)
	if err != nil {
		return fmt.Errorf("session: read public key: %w", err)
	}
	if len(raw) != 128 && len(raw) != 256 {
		return fmt.Errorf("session: unexpected public key length %d", len(raw))
	}

	pub := &rsa.PublicKey{N: new(big.Int).SetBytes(raw), E: rsaPublicExponent}

	key := make([]byte, blockSize)
	iv := make([]byte, blockSize)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("session: generate key: %w", err)
	}
	if _, err := rand.Read(iv); err != nil {
		return fmt.Errorf("session: generate iv: %w", err)
	}

	payload := append(append([]byte{}, key...), iv...)
	encrypted, err := rsa.EncryptPKCS1v15(rand.Reader, pub, payload)
	if err != nil {
		return fmt.Errorf("session: rsa encrypt: %w", err)
	}

	if err := transport.ChunkAndWrite(s.transport.WriteWithoutResponse, encrypted, s.transport.MTU()); err != nil {
		return fmt.Errorf("session: send key exchange: %w", err)
	}

	s.key = key
	s.iv = iv
	return nil
}

// collectUntilQuiet accumulates notification chunks until no new chunk
// arrives for quiet, or the overall timeout elapses. Used only for the
// handshake's variable-length public key response; ordinary MODBUS frame
// reads always know their expected length up front and use
// transport.Reassemble instead.
func collectUntilQuiet(ctx context.Context, notifications <-chan []byte, timeout, quiet time.Duration) ([]byte, error) {
	var buf []byte
	overall := time.After(timeout)
	idle := time.NewTimer(quiet)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-overall:
			if len(buf) == 0 {
				return nil, errors.New("timed out waiting for device response")
			}
			return buf, nil
		case <-idle.C:
			if len(buf) == 0 {
				idle.Reset(quiet)
				continue
			}
			return buf, nil
		case chunk, ok := <-notifications:
			if !ok {
				return nil, errors.New("notification channel closed")
			}
			buf = append(buf, chunk...)
			if !idle.Stop() {
				<-idle.C
			}
			idle.Reset(quiet)
		}
	}
}
