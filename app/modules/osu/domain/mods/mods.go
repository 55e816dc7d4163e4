package mods

import "strings"

// NoMod is the textual form of an empty bitfield.
const NoMod = "No Mod"

// Mod bit values in the official encoding.
const (
	NoFail      = 1
	Easy        = 2
	TouchDevice = 4
	Hidden      = 8
	HardRock    = 16
	SuddenDeath = 32
	DoubleTime  = 64
	Relax       = 128
	HalfTime    = 256
	Nightcore   = 576
	Flashlight  = 1024
	Autoplay    = 2048
	SpunOut     = 4096
	Autopilot   = 8192
	Perfect     = 16416
	Key4        = 32768
	Key5        = 65536
	Key6        = 131072
	Key7        = 262144
	Key8        = 524288
	FadeIn      = 1048576
	Random      = 2097152
	Cinema      = 4194304
	Key9        = 16777216
	Coop        = 33554432
	Key1        = 67108864
	Key3        = 134217728
	Key2        = 268435456
	ScoreV2     = 536870912
	Mirror      = 1073741824
)

// Entry pairs an abbreviation with its bitfield value.
type Entry struct {
	Code  string
	Value int
}

// table is the decoding priority. Composite codes (PF, NC) sit ahead of the
// single bits they contain.
var table = []Entry{
	{"MI", Mirror},
	{"V2", ScoreV2},
	{"2K", Key2},
	{"3K", Key3},
	{"1K", Key1},
	{"CO", Coop},
	{"9K", Key9},
	{"CN", Cinema},
	{"RD", Random},
	{"FI", FadeIn},
	{"8K", Key8},
	{"7K", Key7},
	{"6K", Key6},
	{"5K", Key5},
	{"4K", Key4},
	{"PF", Perfect},
	{"AP", Autopilot},
	{"SO", SpunOut},
	{"AO", Autoplay},
	{"FL", Flashlight},
	{"NC", Nightcore},
	{"HT", HalfTime},
	{"RX", Relax},
	{"DT", DoubleTime},
	{"SD", SuddenDeath},
	{"HR", HardRock},
	{"HD", Hidden},
	{"TD", TouchDevice},
	{"EZ", Easy},
	{"NF", NoFail},
}

var byCode = func() map[string]int {
	m := make(map[string]int, len(table))
	for _, e := range table {
		m[e.Code] = e.Value
	}
	return m
}()

// Table returns a copy of the priority-ordered mod table.
func Table() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	return out
}

// ToValue sums the values of each two-character code in s, left to right.
// Unknown codes contribute nothing.
func ToValue(s string) int {
	s = strings.ReplaceAll(s, NoMod, "")
	s = strings.ToUpper(strings.TrimSpace(s))

	total := 0
	for i := 0; i+2 <= len(s); i += 2 {
		total += byCode[s[i:i+2]]
	}
	return total
}

// ToString rebuilds the canonical code string for a bitfield by peeling the
// first table entry that fits the residual and prepending its code.
func ToString(bitfield int) string {
	if bitfield <= 0 {
		return NoMod
	}

	var codes []string
	residual := bitfield
	// NF is 1, so every positive residual matches some entry.
	for residual > 0 {
		for _, e := range table {
			if e.Value <= residual {
				codes = append(codes, e.Code)
				residual -= e.Value
				break
			}
		}
	}

	var b strings.Builder
	for i := len(codes) - 1; i >= 0; i-- {
		b.WriteString(codes[i])
	}
	return b.String()
}

// Has reports whether every bit in mask is set in bitfield.
func Has(bitfield, mask int) bool {
	return bitfield&mask == mask
}

// DifficultyChanging keeps only the mods that alter beatmap difficulty
// attributes when requested from the official API.
func DifficultyChanging(bitfield int) int {
	out := 0
	for _, m := range []int{Easy, HardRock, DoubleTime, HalfTime} {
		if Has(bitfield, m) {
			out += m
		}
	}
	return out
}
