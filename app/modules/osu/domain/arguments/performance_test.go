package arguments

import (
	"testing"

	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/mods"
	"github.com/stretchr/testify/assert"
)

func TestParsePerformanceQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  PerformanceQuery
	}{
		{
			name:  "defaults",
			input: "",
			want:  PerformanceQuery{Accuracy: 100},
		},
		{
			name:  "every term",
			input: "95% 1200x 2m +HD",
			want:  PerformanceQuery{Mods: mods.Hidden, Accuracy: 95, Combo: 1200, Misses: 2},
		},
		{
			name:  "last term wins",
			input: "90% 98.5% 10x 20x",
			want:  PerformanceQuery{Accuracy: 98.5, Combo: 20},
		},
		{
			name:  "unknown and malformed terms are ignored",
			input: "hello abc% zzx 3m",
			want:  PerformanceQuery{Accuracy: 100, Misses: 3},
		},
		{
			name:  "mods pass through the codec",
			input: "+HDHRDT",
			want:  PerformanceQuery{Mods: 88, Accuracy: 100},
		},
		{
			name:  "plus prefix is checked before suffixes",
			input: "+HDx",
			want:  PerformanceQuery{Mods: mods.Hidden, Accuracy: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePerformanceQuery(tt.input))
		})
	}
}
