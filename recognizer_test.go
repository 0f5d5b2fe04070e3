package btpower

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridtie/btpower/btmock"
	"github.com/gridtie/btpower/schema"
)

func TestRecognize_v1DeviceAnswersOnThirdAttempt(t *testing.T) {
	mem := btmock.NewRegisterMemory()
	mem.MarkReadable(0, 200)
	name := []byte("AC300\x00\x00\x00\x00\x00\x00\x00")
	for i := 0; i < 6; i++ {
		mem.Set(uint16(10+i), uint16(name[2*i])<<8|uint16(name[2*i+1]))
	}

	handler := btmock.NewHandler(mem)
	tr := btmock.NewMockTransport(handler, 185)

	result, ok := Recognize(context.Background(), tr)
	require.True(t, ok)
	assert.Equal(t, "AC300", result.Name)
	assert.Equal(t, schema.IoTVersionV1, result.IoTVersion)
	assert.False(t, result.Encrypted)
}

func TestRecognize_emptyDeviceTypeNeverMatches(t *testing.T) {
	mem := btmock.NewRegisterMemory()
	mem.MarkReadable(0, 200)

	handler := btmock.NewHandler(mem)
	tr := btmock.NewMockTransport(handler, 185)

	_, ok := Recognize(context.Background(), tr)
	assert.False(t, ok)
}
