package mods

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingleModsRoundTrip(t *testing.T) {
	single := map[string]int{
		"MI": 1073741824, "V2": 536870912, "2K": 268435456, "3K": 134217728,
		"1K": 67108864, "CO": 33554432, "9K": 16777216, "CN": 4194304,
		"RD": 2097152, "FI": 1048576, "8K": 524288, "7K": 262144,
		"6K": 131072, "5K": 65536, "4K": 32768, "PF": 16416,
		"AP": 8192, "SO": 4096, "AO": 2048, "FL": 1024,
		"NC": 576, "HT": 256, "RX": 128, "DT": 64,
		"SD": 32, "HR": 16, "HD": 8, "TD": 4,
		"EZ": 2, "NF": 1,
	}

	for code, value := range single {
		t.Run(code, func(t *testing.T) {
			assert.Equal(t, value, ToValue(code))
			assert.Equal(t, code, ToString(value))
		})
	}
}

func TestToStringCombinations(t *testing.T) {
	tests := []struct {
		bitfield int
		want     string
	}{
		{88, "HDHRDT"},
		{536870912, "V2"},
		{536871939, "NFEZFLV2"},
		{32832, "DT4K"},
		{258, "EZHT"},
		{24, "HDHR"},
		{16424, "HDPF"},
		{0, "No Mod"},
		{1632, "SDNCFL"},
		{-1, "No Mod"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ToString(tt.bitfield))
		})
	}
}

func TestToValueCombinations(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"HDHRDT", 88},
		{"V2", 536870912},
		{"NFEZFLV2", 536871939},
		{"DT4K", 32832},
		{"EZHT", 258},
		{"HDHR", 24},
		{"HDPF", 16424},
		{"No Mod", 0},
		{"SDNCFL", 1632},
		{"hddt", 72},
		{"HDZZDT", 72},
		{"HDD", 8},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ToValue(tt.input))
		})
	}
}

func TestRoundTripForGreedySums(t *testing.T) {
	entries := Table()
	sums := []int{
		Hidden + HardRock + DoubleTime,
		Hidden + Perfect,
		Flashlight + Nightcore + SuddenDeath,
		NoFail + Easy + Flashlight + ScoreV2,
		Key4 + DoubleTime,
		Easy + HalfTime,
		Mirror + Key7 + Relax,
		entries[0].Value + entries[len(entries)-1].Value,
	}

	for _, b := range sums {
		assert.Equal(t, b, ToValue(ToString(b)), "bitfield %d (%s)", b, ToString(b))
	}
}

func TestHas(t *testing.T) {
	assert.True(t, Has(Hidden+DoubleTime, Hidden))
	assert.True(t, Has(Hidden+DoubleTime, Hidden+DoubleTime))
	assert.False(t, Has(Hidden, Hidden+DoubleTime))
	assert.True(t, Has(Nightcore, DoubleTime))
	assert.True(t, Has(0, 0))
}

func TestDifficultyChanging(t *testing.T) {
	assert.Equal(t, 0, DifficultyChanging(Hidden+Flashlight))
	assert.Equal(t, HardRock+DoubleTime, DifficultyChanging(Hidden+HardRock+Nightcore))
	assert.Equal(t, Easy+HalfTime, DifficultyChanging(Easy+HalfTime+NoFail))
}
