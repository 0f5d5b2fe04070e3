// Package schema describes a device's register layout: the ordered set of
// Fields it exposes and the planner that groups them into as few
// read-holding-registers requests as practical.
package schema

import (
	"sort"

	"github.com/gridtie/btpower/field"
)

// Range is one planned FC03 request: read Quantity registers starting at
// StartAddress, covering every Field in Fields (each Field's window lies
// entirely inside [StartAddress, StartAddress+Quantity)).
type Range struct {
	StartAddress uint16
	Quantity     uint16
	Fields       []field.Field
}

// End returns the address one past this range's last register.
func (r Range) End() uint16 { return r.StartAddress + r.Quantity }

// PlannerConfig tunes how aggressively adjacent fields get merged into one
// request. MaxRegisters bounds a single request's quantity (the device's
// read-response size limit, typically well under the MODBUS-wide 125-
// register cap for BLE-tunneled transfers). MaxGap is how many unused
// registers the planner will read-through to avoid a second round trip;
// a gap larger than MaxGap forces a new Range.
type PlannerConfig struct {
	MaxRegisters uint16 `json:"max_registers" mapstructure:"max_registers"`
	MaxGap       uint16 `json:"max_gap" mapstructure:"max_gap"`
}

// DefaultPlannerConfig matches the per-scenario defaults used across the
// catalogued devices: generous enough to merge typical field runs, bounded
// well under the protocol's response-size ceiling.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{MaxRegisters: 64, MaxGap: 4}
}

// Plan groups fields into Ranges for a single connection, single function
// code (FC03). This is a single-connection specialization of the
// group-then-batch approach: fields are sorted by address, then merged
// greedily into the current range as long as doing so doesn't exceed
// MaxRegisters or cross a gap wider than MaxGap; otherwise a new range
// starts at that field.
func Plan(fields []field.Field, cfg PlannerConfig) []Range {
	if len(fields) == 0 {
		return nil
	}

	sorted := append([]field.Field(nil), fields...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Address() < sorted[j].Address()
	})

	var ranges []Range
	cur := Range{
		StartAddress: sorted[0].Address(),
		Quantity:     sorted[0].RegisterCount(),
		Fields:       []field.Field{sorted[0]},
	}

	for _, f := range sorted[1:] {
		fEnd := f.Address() + f.RegisterCount()
		newEnd := cur.End()
		if fEnd > newEnd {
			newEnd = fEnd
		}
		gap := int(f.Address()) - int(cur.End())
		spans := newEnd - cur.StartAddress

		if gap > int(cfg.MaxGap) || spans > cfg.MaxRegisters {
			ranges = append(ranges, cur)
			cur = Range{
				StartAddress: f.Address(),
				Quantity:     f.RegisterCount(),
				Fields:       []field.Field{f},
			}
			continue
		}

		cur.Quantity = newEnd - cur.StartAddress
		cur.Fields = append(cur.Fields, f)
	}
	ranges = append(ranges, cur)
	return ranges
}
