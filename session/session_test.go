package session

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport is a minimal transport.Transport double that lets a test
// script canned notification chunks and inspect what was written.
type fakeTransport struct {
	mu      sync.Mutex
	written [][]byte
	notifs  chan []byte
	mtu     int
}

func newFakeTransport(mtu int) *fakeTransport {
	return &fakeTransport{notifs: make(chan []byte, 64), mtu: mtu}
}

func (f *fakeTransport) Connect(ctx context.Context) error { return nil }

func (f *fakeTransport) WriteWithoutResponse(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := append([]byte{}, data...)
	f.written = append(f.written, cp)
	return nil
}

func (f *fakeTransport) Notifications() <-chan []byte { return f.notifs }
func (f *fakeTransport) MTU() int                      { return f.mtu }
func (f *fakeTransport) Disconnect() error             { close(f.notifs); return nil }

func (f *fakeTransport) push(chunk []byte) { f.notifs <- chunk }

func (f *fakeTransport) allWritten() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []byte
	for _, w := range f.written {
		out = append(out, w...)
	}
	return out
}

func TestSession_Do_passthroughBeforeHandshake(t *testing.T) {
	ft := newFakeTransport(185)
	s := New(ft, ModeCTR)
	assert.False(t, s.Encrypted())

	frame := []byte{0x01, 0x03, 0x00, 0x0A, 0x00, 0x03, 0x07, 0x8B}
	go ft.push([]byte{0xAA, 0xBB, 0xCC})

	out, err := s.Do(context.Background(), time.Second, frame, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, out)
	assert.Equal(t, frame, ft.allWritten())
}

func TestSession_Do_encryptedRoundTrip(t *testing.T) {
	ft := newFakeTransport(185)
	s := New(ft, ModeCTR)
	key, iv := testKeyIV()
	s.key = key
	s.iv = iv

	plainResponse := []byte{0x01, 0x03, 0x02, 0x00, 0x64, 0xB9, 0x78}
	cipherResponse, err := wrap(ModeCTR, key, iv, plainResponse)
	require.NoError(t, err)

	go ft.push(cipherResponse)

	out, err := s.Do(context.Background(), time.Second, []byte{0x01, 0x03, 0x00, 0x0A}, len(plainResponse))
	require.NoError(t, err)
	assert.Equal(t, plainResponse, out)

	gotCipher, err := unwrap(ModeCTR, key, iv, ft.allWritten(), 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x03, 0x00, 0x0A}, gotCipher)
}

func TestSession_Handshake_success(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	modulus := priv.PublicKey.N.Bytes()
	require.Len(t, modulus, 128)

	ft := newFakeTransport(185)
	s := New(ft, ModeCTR)

	go ft.push(modulus)

	err = s.Handshake(context.Background(), time.Second)
	require.NoError(t, err)
	assert.True(t, s.Encrypted())
	assert.Len(t, s.key, blockSize)
	assert.Len(t, s.iv, blockSize)

	written := ft.allWritten()
	require.Len(t, written, 1+len(modulus))
	assert.Equal(t, helloFrame, written[:1])

	encryptedKeyExchange := written[1:]
	decrypted, err := rsa.DecryptPKCS1v15(rand.Reader, priv, encryptedKeyExchange)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte{}, s.key...), s.iv...), decrypted)
}

func TestSession_Handshake_rejectsBadKeyLength(t *testing.T) {
	ft := newFakeTransport(185)
	s := New(ft, ModeCTR)
	go ft.push([]byte{0x01, 0x02, 0x03})

	err := s.Handshake(context.Background(), 100*time.Millisecond)
	assert.Error(t, err)
	assert.False(t, s.Encrypted())
}
