package transport

import (
	"context"
	"time"

	"tinygo.org/x/bluetooth"
)

// Advertisement is one observed BLE advertisement: the advertised local
// name (possibly empty) and the device's address.
type Advertisement struct {
	Name    string
	Address bluetooth.Address
}

// Scan runs a BLE discovery scan on the default adapter for duration,
// invoking onFound once per distinct address seen with a non-empty name.
// It returns when duration elapses or ctx is canceled, whichever comes
// first.
func Scan(ctx context.Context, duration time.Duration, onFound func(Advertisement)) error {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return err
	}

	seen := make(map[string]bool)
	done := make(chan error, 1)

	go func() {
		done <- adapter.Scan(func(a *bluetooth.Adapter, result bluetooth.ScanResult) {
			name := result.LocalName()
			if name == "" {
				return
			}
			key := result.Address.String()
			if seen[key] {
				return
			}
			seen[key] = true
			onFound(Advertisement{Name: name, Address: result.Address})
		})
	}()

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		_ = adapter.StopScan()
		<-done
		return ctx.Err()
	case <-timer.C:
		_ = adapter.StopScan()
		<-done
		return nil
	case err := <-done:
		return err
	}
}
