package transport

import (
	"context"
	"fmt"
	"sync"

	"tinygo.org/x/bluetooth"
)

// defaultATTMTU is the BLE-mandated minimum attribute MTU. Notification
// payloads are bounded to mtu-3 bytes until a larger MTU is negotiated.
const defaultATTMTU = 23

// BLE is the production Transport, backed by tinygo.org/x/bluetooth.
type BLE struct {
	adapter *bluetooth.Adapter
	address bluetooth.Address

	mu       sync.Mutex
	device   bluetooth.Device
	writeCh  bluetooth.DeviceCharacteristic
	notifyCh bluetooth.DeviceCharacteristic
	notifs   chan []byte
	mtu      int
	closed   bool
}

// NewBLE builds a transport targeting a single device address on the
// system's default Bluetooth adapter.
func NewBLE(address bluetooth.Address) *BLE {
	return &BLE{
		adapter: bluetooth.DefaultAdapter,
		address: address,
		notifs:  make(chan []byte, 32),
		mtu:     defaultATTMTU,
	}
}

// Connect connects to the target address, discovers the fixed service and
// characteristics, and enables notifications. ctx bounds only the radio
// connect; service and characteristic discovery and enabling notifications
// do not observe ctx.
func (b *BLE) Connect(ctx context.Context) error {
	if err := b.adapter.Enable(); err != nil {
		return fmt.Errorf("ble: enable adapter: %w", err)
	}

	type connResult struct {
		dev bluetooth.Device
		err error
	}
	done := make(chan connResult, 1)
	go func() {
		dev, err := b.adapter.Connect(b.address, bluetooth.ConnectionParams{})
		done <- connResult{dev, err}
	}()

	var dev bluetooth.Device
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-done:
		if res.err != nil {
			return fmt.Errorf("ble: connect: %w", res.err)
		}
		dev = res.dev
	}

	serviceUUID, err := bluetooth.ParseUUID(ServiceUUID)
	if err != nil {
		return fmt.Errorf("ble: parse service uuid: %w", err)
	}
	writeUUID, err := bluetooth.ParseUUID(WriteCharUUID)
	if err != nil {
		return fmt.Errorf("ble: parse write char uuid: %w", err)
	}
	notifyUUID, err := bluetooth.ParseUUID(NotifyCharUUID)
	if err != nil {
		return fmt.Errorf("ble: parse notify char uuid: %w", err)
	}

	services, err := dev.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil {
		_ = dev.Disconnect()
		return fmt.Errorf("ble: discover service: %w", err)
	}
	if len(services) == 0 {
		_ = dev.Disconnect()
		return fmt.Errorf("ble: device does not expose service %s", ServiceUUID)
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{writeUUID, notifyUUID})
	if err != nil {
		_ = dev.Disconnect()
		return fmt.Errorf("ble: discover characteristics: %w", err)
	}

	var writeChar, notifyChar bluetooth.DeviceCharacteristic
	var haveWrite, haveNotify bool
	for _, c := range chars {
		switch c.UUID() {
		case writeUUID:
			writeChar, haveWrite = c, true
		case notifyUUID:
			notifyChar, haveNotify = c, true
		}
	}
	if !haveWrite || !haveNotify {
		_ = dev.Disconnect()
		return fmt.Errorf("ble: missing required characteristic(s)")
	}

	b.mu.Lock()
	b.device = dev
	b.writeCh = writeChar
	b.notifyCh = notifyChar
	b.mu.Unlock()

	if err := notifyChar.EnableNotifications(b.onNotification); err != nil {
		_ = dev.Disconnect()
		return fmt.Errorf("ble: enable notifications: %w", err)
	}
	return nil
}

func (b *BLE) onNotification(buf []byte) {
	chunk := make([]byte, len(buf))
	copy(chunk, buf)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.notifs <- chunk:
	default:
		// Slow consumer: drop rather than block the BLE stack's callback.
	}
}

func (b *BLE) WriteWithoutResponse(data []byte) error {
	b.mu.Lock()
	writeChar := b.writeCh
	b.mu.Unlock()

	_, err := writeChar.WriteWithoutResponse(data)
	if err != nil {
		return fmt.Errorf("ble: write: %w", err)
	}
	return nil
}

func (b *BLE) Notifications() <-chan []byte { return b.notifs }

func (b *BLE) MTU() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mtu
}

func (b *BLE) Disconnect() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	dev := b.device
	b.mu.Unlock()

	close(b.notifs)
	return dev.Disconnect()
}
