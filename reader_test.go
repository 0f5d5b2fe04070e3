package btpower

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridtie/btpower/btmock"
	"github.com/gridtie/btpower/field"
	"github.com/gridtie/btpower/schema"
)

func ac300TestSchema() schema.DeviceSchema {
	return schema.DeviceSchema{
		IoT: schema.IoTVersionV1,
		Fields: []field.Field{
			field.NewString(field.DeviceType, 10, 6),
			field.NewSerialNumber(field.DeviceSN, 17),
			field.NewUInt(field.BatterySOC, 43),
			field.NewUInt(field.DCInputPower, 36),
			field.NewUInt(field.ACInputPower, 37),
			field.NewUInt(field.ACOutputPower, 38),
			field.NewUInt(field.DCOutputPower, 39),
		},
	}
}

func ac300TestMemory() *btmock.RegisterMemory {
	mem := btmock.NewRegisterMemory()
	mem.MarkReadable(0, 100)

	// "AC300\0\0\0\0\0\0\0" as 6 big-endian registers.
	name := []byte("AC300\x00\x00\x00\x00\x00\x00\x00")
	for i := 0; i < 6; i++ {
		mem.Set(uint16(10+i), uint16(name[2*i])<<8|uint16(name[2*i+1]))
	}
	// device_sn raw bytes \xdb;\x06\\\x01\xf2\x00\x00 -> 4 registers.
	sn := []byte{0xdb, ';', 0x06, '\\', 0x01, 0xf2, 0x00, 0x00}
	for i := 0; i < 4; i++ {
		mem.Set(uint16(17+i), uint16(sn[2*i])<<8|uint16(sn[2*i+1]))
	}
	mem.Set(43, 0x0063) // battery 99%
	mem.Set(36, 0)
	mem.Set(37, 0)
	mem.Set(38, 0)
	mem.Set(39, 0)
	return mem
}

func newTestReader(t *testing.T, ds schema.DeviceSchema, mem *btmock.RegisterMemory) (*Reader, *btmock.MockTransport) {
	t.Helper()
	handler := btmock.NewHandler(mem)
	tr := btmock.NewMockTransport(handler, 185)
	cfg := DefaultReaderConfig()
	cfg.EncryptionEnabled = false
	cfg.ReadTimeout = Duration(200 * time.Millisecond)
	cfg.ConnectTimeout = Duration(200 * time.Millisecond)
	return NewReader(tr, ds, cfg), tr
}

func TestReader_AC300Scenario(t *testing.T) {
	ds := ac300TestSchema()
	mem := ac300TestMemory()
	r, _ := newTestReader(t, ds, mem)

	result, err := r.Read(context.Background(), nil, false)
	require.NoError(t, err)

	assert.Equal(t, "AC300", result[field.DeviceType.Key()])
	assert.Equal(t, uint64(2139000462139), result[field.DeviceSN.Key()])
	assert.Equal(t, uint16(99), result[field.BatterySOC.Key()])
	assert.Equal(t, uint16(0), result[field.DCInputPower.Key()])
	assert.Equal(t, uint16(0), result[field.ACInputPower.Key()])
	assert.Equal(t, uint16(0), result[field.ACOutputPower.Key()])
	assert.Equal(t, uint16(0), result[field.DCOutputPower.Key()])
}

func TestReader_illegalAddressOmitsRange(t *testing.T) {
	mem := btmock.NewRegisterMemory()
	mem.MarkReadable(0, 20) // field lives outside readable window
	ds := schema.DeviceSchema{
		IoT:    schema.IoTVersionV1,
		Fields: []field.Field{field.NewUInt(field.BatterySOC, 99)},
	}
	r, _ := newTestReader(t, ds, mem)

	result, err := r.Read(context.Background(), nil, false)
	require.NoError(t, err)
	_, present := result[field.BatterySOC.Key()]
	assert.False(t, present)
}

func TestReader_connectionFailureBudgetExhausted(t *testing.T) {
	mem := btmock.NewRegisterMemory()
	mem.MarkReadable(0, 20)
	ds := schema.DeviceSchema{
		IoT:    schema.IoTVersionV1,
		Fields: []field.Field{field.NewUInt(field.BatterySOC, 10)},
	}
	handler := btmock.NewHandler(mem)
	tr := btmock.NewMockTransport(handler, 185)
	for i := 0; i < 10; i++ {
		tr.QueueConnectFailure()
	}

	cfg := DefaultReaderConfig()
	cfg.EncryptionEnabled = false
	cfg.ConnectRetryBudget = 10
	cfg.ConnectTimeout = Duration(50 * time.Millisecond)
	r := NewReader(tr, ds, cfg)

	result, err := r.Read(context.Background(), nil, false)
	assert.Nil(t, result)
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
}

func TestReader_write_thenReadBack(t *testing.T) {
	mem := btmock.NewRegisterMemory()
	mem.MarkReadable(0, 100)
	mem.MarkWritable(50, 60)
	ds := schema.DeviceSchema{
		IoT: schema.IoTVersionV1,
		Fields: []field.Field{
			field.NewSwitch(field.CtrlAC, 55),
		},
	}
	r, _ := newTestReader(t, ds, mem)

	err := r.Write(context.Background(), field.CtrlAC, field.BoolValue(true))
	require.NoError(t, err)

	result, err := r.Read(context.Background(), nil, false)
	require.NoError(t, err)
	assert.Equal(t, true, result[field.CtrlAC.Key()])
}

func TestReader_write_rejectsNonWritable(t *testing.T) {
	mem := btmock.NewRegisterMemory()
	mem.MarkReadable(0, 100)
	ds := schema.DeviceSchema{
		IoT:    schema.IoTVersionV1,
		Fields: []field.Field{field.NewUInt(field.BatterySOC, 43)},
	}
	r, _ := newTestReader(t, ds, mem)

	err := r.Write(context.Background(), field.BatterySOC, field.U16Value(1))
	var rejected *WriteRejectedError
	require.ErrorAs(t, err, &rejected)
}
