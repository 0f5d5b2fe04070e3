// Command btpoll connects to one known device over BLE and polls its
// declared fields on an interval, printing each poll result as one JSON
// line.
//
// Example config.json content to poll an EP600 over BLE:
//
//	{
//	  "address": "aa:bb:cc:dd:ee:ff",
//	  "device": "EP600",
//	  "interval": "5s",
//	  "reader": {"encryption_enabled": true}
//	}
//
// usage: ./btpoll -config=config.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/gridtie/btpower"
	"github.com/gridtie/btpower/devices"
	"github.com/gridtie/btpower/schema"
	"github.com/gridtie/btpower/transport"
)

// config is the on-disk shape read from -config. Struct tags carry both
// json and mapstructure, the same dual-tag convention the teacher's
// cli/modbus-poller config struct uses, preserving compatibility with a
// github.com/spf13/viper-based loader even though this command doesn't
// import viper itself.
type config struct {
	Address  string               `json:"address" mapstructure:"address"`
	Device   string               `json:"device" mapstructure:"device"`
	Interval btpower.Duration     `json:"interval" mapstructure:"interval"`
	Reader   btpower.ReaderConfig `json:"reader" mapstructure:"reader"`
}

func main() {
	var configLoc string
	flag.StringVar(&configLoc, "config", "config.json", "path to json configuration")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	rawConfig, err := os.ReadFile(configLoc)
	if err != nil {
		logger.Error("reading config.json failed", "err", err)
		os.Exit(1)
	}

	var conf config
	if err := json.Unmarshal(rawConfig, &conf); err != nil {
		logger.Error("config json unmarshalling failed", "err", err)
		os.Exit(1)
	}

	ds, addr, err := resolveTarget(conf)
	if err != nil {
		logger.Error("resolving poll target failed", "err", err)
		os.Exit(1)
	}

	cfg := conf.Reader
	cfg.Logger = logger
	r := btpower.NewReader(transport.NewBLE(addr), ds, cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	runPollLoop(ctx, r, pollInterval(conf), logger)
}

// resolveTarget turns the loaded config into the device schema and BLE
// address a Reader needs: conf.Device is looked up in the catalogue,
// conf.Address is parsed as a MAC.
func resolveTarget(conf config) (schema.DeviceSchema, bluetooth.Address, error) {
	ds, ok := devices.BuildDevice(conf.Device)
	if !ok {
		return schema.DeviceSchema{}, bluetooth.Address{}, fmt.Errorf("unrecognized device name %q", conf.Device)
	}
	mac, err := bluetooth.ParseMAC(conf.Address)
	if err != nil {
		return schema.DeviceSchema{}, bluetooth.Address{}, fmt.Errorf("invalid address %q: %w", conf.Address, err)
	}
	return ds, bluetooth.Address{MACAddress: bluetooth.MACAddress{MAC: mac}}, nil
}

// pollInterval returns conf.Interval, or a 5-second default when unset.
func pollInterval(conf config) time.Duration {
	interval := time.Duration(conf.Interval)
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return interval
}

func runPollLoop(ctx context.Context, r *btpower.Reader, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		values, err := r.Read(ctx, nil, false)
		if err != nil {
			logger.Error("poll failed", "err", err)
		} else {
			printResult(values, logger)
		}

		select {
		case <-ctx.Done():
			logger.Info("polling ended")
			return
		case <-ticker.C:
		}
	}
}

func printResult(values map[string]any, logger *slog.Logger) {
	raw, err := json.Marshal(struct {
		Time   time.Time      `json:"time"`
		Values map[string]any `json:"values"`
	}{Time: time.Now(), Values: values})
	if err != nil {
		logger.Error("failed to marshal result", "err", err)
		return
	}
	fmt.Printf("%s\n", raw)
}
