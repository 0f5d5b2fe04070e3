package transport

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Reassemble accumulates notification chunks from notifications until it
// has collected want bytes or timeout elapses, then returns exactly those
// bytes. This generalizes the teacher's accumulate-until-expected-length
// read loop (net.Conn.Read in a loop) to a channel of already-delivered
// chunks, since BLE notifications arrive as discrete MTU-bounded payloads
// rather than an open byte stream.
func Reassemble(ctx context.Context, notifications <-chan []byte, want int, timeout time.Duration) ([]byte, error) {
	if want <= 0 {
		return nil, errors.New("transport: want must be positive")
	}

	buf := make([]byte, 0, want)
	deadline := time.After(timeout)
	for len(buf) < want {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			return nil, fmt.Errorf("transport: timed out waiting for response: %w", context.DeadlineExceeded)
		case chunk, ok := <-notifications:
			if !ok {
				return nil, errors.New("transport: notification channel closed")
			}
			buf = append(buf, chunk...)
		}
	}
	return buf[:want], nil
}

// ChunkAndWrite splits data into mtu-3-sized pieces (the usable payload
// per BLE write, after the 3-byte ATT header) and writes each piece in
// order via write.
func ChunkAndWrite(write func([]byte) error, data []byte, mtu int) error {
	chunkSize := mtu - 3
	if chunkSize <= 0 {
		chunkSize = len(data)
	}
	if len(data) == 0 {
		return write(nil)
	}
	for start := 0; start < len(data); start += chunkSize {
		end := start + chunkSize
		if end > len(data) {
			end = len(data)
		}
		if err := write(data[start:end]); err != nil {
			return err
		}
	}
	return nil
}
