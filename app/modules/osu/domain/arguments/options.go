package arguments

import (
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/mods"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
)

// ModsFilter restricts plays by their mods. A Value of -1 disables the filter.
type ModsFilter struct {
	Negated bool `json:"negated"`
	Value   int  `json:"value"`
}

// Active reports whether the filter restricts anything.
func (f ModsFilter) Active() bool {
	return f.Value != -1
}

// Matches applies the filter to a play's bitfield. A negated filter keeps any
// play that contains the mods; a plain filter needs the exact combination.
func (f ModsFilter) Matches(bitfield int) bool {
	if !f.Active() {
		return true
	}
	if f.Negated {
		return mods.Has(bitfield, f.Value)
	}
	return mods.ToString(bitfield) == mods.ToString(f.Value)
}

// Options is the parsed result of one command invocation.
type Options struct {
	Previous   int           `json:"previous"`
	Mode       scores.Mode   `json:"mode"`
	Type       scores.Server `json:"type"`
	Relax      bool          `json:"relax"`
	Mods       ModsFilter    `json:"mods"`
	PassesOnly bool          `json:"passes_only"`
	Error      bool          `json:"error"`
}

// DefaultOptions returns a fully populated record with every default applied.
func DefaultOptions() Options {
	return Options{
		Previous:   0,
		Mode:       scores.Standard,
		Type:       scores.Official,
		Relax:      false,
		Mods:       ModsFilter{Negated: false, Value: -1},
		PassesOnly: false,
	}
}

// Override returns a modified copy of an Options value.
type Override func(Options) Options

// Build applies overrides, in order, to the defaults.
func Build(overrides ...Override) Options {
	opts := DefaultOptions()
	for _, o := range overrides {
		opts = o(opts)
	}
	return opts
}
