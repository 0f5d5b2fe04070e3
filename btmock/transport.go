package btmock

import (
	"context"
	"errors"
	"sync"

	"github.com/gridtie/btpower/transport"
)

// MockTransport is a transport.Transport backed by a Handler, simulating
// the BLE link without any real radio. It chunks responses to MTU-3 bytes
// per notification, the same reassembly boundary a real GATT link imposes.
type MockTransport struct {
	handler  *Handler
	mtu      int
	failNext FailureInjector

	mu        sync.Mutex
	connected bool
	notifs    chan []byte
}

// NewMockTransport builds a mock transport serving requests from handler,
// simulating the given negotiated MTU (minimum 23, the BLE default).
func NewMockTransport(handler *Handler, mtu int) *MockTransport {
	if mtu < 23 {
		mtu = 23
	}
	return &MockTransport{handler: handler, mtu: mtu, notifs: make(chan []byte, 64)}
}

// QueueConnectFailure makes the next Connect call fail.
func (m *MockTransport) QueueConnectFailure() {
	m.failNext.Queue(Override{Mode: FailureConnection})
}

func (m *MockTransport) Connect(ctx context.Context) error {
	if m.failNext.Next().Mode == FailureConnection {
		return errors.New("btmock: injected connection failure")
	}
	m.mu.Lock()
	m.connected = true
	m.mu.Unlock()
	return nil
}

func (m *MockTransport) WriteWithoutResponse(data []byte) error {
	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return errors.New("btmock: not connected")
	}
	m.mu.Unlock()

	resp := m.handler.Handle(data)
	if resp == nil {
		return nil // simulated timeout: handler intentionally never answers
	}

	chunkSize := m.mtu - 3
	if chunkSize <= 0 {
		chunkSize = len(resp)
	}
	go func() {
		for start := 0; start < len(resp); start += chunkSize {
			end := start + chunkSize
			if end > len(resp) {
				end = len(resp)
			}
			chunk := append([]byte(nil), resp[start:end]...)
			m.mu.Lock()
			connected := m.connected
			m.mu.Unlock()
			if !connected {
				return
			}
			select {
			case m.notifs <- chunk:
			default:
			}
		}
	}()
	return nil
}

func (m *MockTransport) Notifications() <-chan []byte { return m.notifs }

func (m *MockTransport) MTU() int { return m.mtu }

func (m *MockTransport) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return nil
	}
	m.connected = false
	return nil
}

var _ transport.Transport = (*MockTransport)(nil)
