package session

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// Mode selects which block cipher mode wraps MODBUS frames once a
// session's keys are established. The mode is chosen by the caller
// (btpower.ReaderConfig.CipherMode); DeviceSchema carries no cipher mode.
type Mode uint8

const (
	ModeCTR Mode = iota + 1
	ModeCBCFixedIV
)

const blockSize = 16 // AES block size; also this session's key and IV length.

// cipherLen returns the wire length produced by wrapping a plaintext of
// plainLen bytes under mode. CTR is a stream cipher and preserves length;
// CBC requires padding plaintext up to a block boundary.
func cipherLen(mode Mode, plainLen int) int {
	if mode == ModeCTR {
		return plainLen
	}
	if plainLen%blockSize == 0 {
		return plainLen
	}
	return (plainLen/blockSize + 1) * blockSize
}

// wrap encrypts an already-CRC'd MODBUS frame under the session's key/iv.
func wrap(mode Mode, key, iv, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("session: aes cipher: %w", err)
	}
	switch mode {
	case ModeCTR:
		out := make([]byte, len(plaintext))
		cipher.NewCTR(block, iv).XORKeyStream(out, plaintext)
		return out, nil
	case ModeCBCFixedIV:
		padded := zeroPad(plaintext, blockSize)
		out := make([]byte, len(padded))
		cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
		return out, nil
	default:
		return nil, fmt.Errorf("session: unknown cipher mode %d", mode)
	}
}

// unwrap decrypts ciphertext back to a plainLen-byte MODBUS frame.
func unwrap(mode Mode, key, iv, ciphertext []byte, plainLen int) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("session: aes cipher: %w", err)
	}
	switch mode {
	case ModeCTR:
		out := make([]byte, len(ciphertext))
		cipher.NewCTR(block, iv).XORKeyStream(out, ciphertext)
		return out[:plainLen], nil
	case ModeCBCFixedIV:
		if len(ciphertext)%blockSize != 0 {
			return nil, fmt.Errorf("session: ciphertext not block-aligned")
		}
		out := make([]byte, len(ciphertext))
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
		return out[:plainLen], nil
	default:
		return nil, fmt.Errorf("session: unknown cipher mode %d", mode)
	}
}

func zeroPad(data []byte, multiple int) []byte {
	if len(data)%multiple == 0 {
		return data
	}
	padded := make([]byte, (len(data)/multiple+1)*multiple)
	copy(padded, data)
	return padded
}
