// Command btscan scans for nearby Bluetti-protocol power stations and
// prints each one found as [model-or-regex-match, mac_address].
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"time"

	"github.com/gridtie/btpower/devices"
	"github.com/gridtie/btpower/transport"
)

func main() {
	regexFlag := flag.String("regex", "", "custom regex to match device name")
	scanTime := flag.Int("scan-time", 5, "how long to scan for devices (seconds)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var matcher *regexp.Regexp
	if *regexFlag != "" {
		re, err := regexp.Compile(*regexFlag)
		if err != nil {
			logger.Error("invalid regex", "error", err)
			os.Exit(1)
		}
		matcher = re
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	fmt.Printf("Scanning for %d seconds (or until Ctrl+C)...\n", *scanTime)

	err := transport.Scan(ctx, time.Duration(*scanTime)*time.Second, func(adv transport.Advertisement) {
		match, ok := identify(adv.Name, matcher)
		if !ok {
			return
		}
		fmt.Printf("[%s, %s]\n", match, adv.Address.String())
	})
	if err != nil && err != context.Canceled {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}
}

// identify reports what to print for a discovered advertisement's name, and
// whether it should be printed at all. A custom regex takes priority over
// the catalogue; a bare PBOX-prefixed name is always reported even when it
// matches neither.
func identify(name string, matcher *regexp.Regexp) (string, bool) {
	if matcher != nil {
		m := matcher.FindString(name)
		if m != "" {
			return m, true
		}
	}
	if _, ok := devices.BuildDevice(name); ok {
		return name, true
	}
	if strings.HasPrefix(name, "PBOX") {
		return name, true
	}
	return "", false
}
