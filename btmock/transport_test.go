package btmock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridtie/btpower/rtu"
)

func TestMockTransport_roundTrip(t *testing.T) {
	h := NewHandler(newTestMemory())
	tr := NewMockTransport(h, 23)

	require.NoError(t, tr.Connect(context.Background()))

	req, err := rtu.BuildReadHoldingRegisters(10, 3)
	require.NoError(t, err)
	require.NoError(t, tr.WriteWithoutResponse(req))

	var received []byte
	timeout := time.After(time.Second)
	for len(received) < 11 {
		select {
		case chunk := <-tr.Notifications():
			received = append(received, chunk...)
		case <-timeout:
			t.Fatal("timed out waiting for notifications")
		}
	}

	payload, err := rtu.ParseResponse(received, rtu.FunctionReadHoldingRegisters, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x64, 0x00, 0xC8, 0x01, 0x2C}, payload)
}

func TestMockTransport_connectFailureInjection(t *testing.T) {
	tr := NewMockTransport(NewHandler(newTestMemory()), 23)
	tr.QueueConnectFailure()

	err := tr.Connect(context.Background())
	assert.Error(t, err)
}

func TestMockTransport_chunksToMTU(t *testing.T) {
	h := NewHandler(newTestMemory())
	h.Memory.MarkReadable(0, 200)
	for a := uint16(0); a < 50; a++ {
		h.Memory.Set(a, a)
	}
	tr := NewMockTransport(h, 23) // mtu-3 == 20 bytes per notification

	require.NoError(t, tr.Connect(context.Background()))
	req, err := rtu.BuildReadHoldingRegisters(0, 50)
	require.NoError(t, err)
	require.NoError(t, tr.WriteWithoutResponse(req))

	first := <-tr.Notifications()
	assert.LessOrEqual(t, len(first), 20)
}
