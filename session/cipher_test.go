package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyIV() ([]byte, []byte) {
	key := make([]byte, blockSize)
	iv := make([]byte, blockSize)
	for i := range key {
		key[i] = byte(i)
		iv[i] = byte(i + 1)
	}
	return key, iv
}

func TestWrapUnwrap_CTR_roundTrip(t *testing.T) {
	key, iv := testKeyIV()
	plaintext := []byte{0x01, 0x03, 0x00, 0x0A, 0x00, 0x03, 0x07, 0x8B}

	ciphertext, err := wrap(ModeCTR, key, iv, plaintext)
	require.NoError(t, err)
	assert.Equal(t, len(plaintext), len(ciphertext))
	assert.NotEqual(t, plaintext, ciphertext)

	decoded, err := unwrap(ModeCTR, key, iv, ciphertext, len(plaintext))
	require.NoError(t, err)
	assert.Equal(t, plaintext, decoded)
}

func TestWrapUnwrap_CBCFixedIV_roundTrip(t *testing.T) {
	key, iv := testKeyIV()
	plaintext := []byte{0x01, 0x03, 0x00, 0x0A, 0x00, 0x03, 0x07, 0x8B} // 8 bytes, not block-aligned

	ciphertext, err := wrap(ModeCBCFixedIV, key, iv, plaintext)
	require.NoError(t, err)
	assert.Equal(t, blockSize, len(ciphertext))

	decoded, err := unwrap(ModeCBCFixedIV, key, iv, ciphertext, len(plaintext))
	require.NoError(t, err)
	assert.Equal(t, plaintext, decoded)
}

func TestCipherLen(t *testing.T) {
	assert.Equal(t, 8, cipherLen(ModeCTR, 8))
	assert.Equal(t, 16, cipherLen(ModeCBCFixedIV, 8))
	assert.Equal(t, 16, cipherLen(ModeCBCFixedIV, 16))
	assert.Equal(t, 32, cipherLen(ModeCBCFixedIV, 17))
}
