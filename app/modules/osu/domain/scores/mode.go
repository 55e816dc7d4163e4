package scores

import (
	"fmt"
	"strings"
)

// Mode is an osu! ruleset.
type Mode int

const (
	Standard Mode = iota
	Taiko
	Catch
	Mania
)

var modeNames = map[Mode]string{
	Standard: "Standard",
	Taiko:    "Taiko",
	Catch:    "Catch",
	Mania:    "Mania",
}

// modeAliases lists the words users may type to pick a ruleset. The first
// entry of each list is the canonical name.
var modeAliases = map[Mode][]string{
	Standard: {"standard", "std", "osu"},
	Taiko:    {"taiko"},
	Catch:    {"catch", "ctb", "catch the beat", "fruits"},
	Mania:    {"mania"},
}

// Valid reports whether m is one of the four rulesets.
func (m Mode) Valid() bool {
	return m >= Standard && m <= Mania
}

// String returns the ruleset display name.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Aliases returns the words that select m, canonical name first.
func (m Mode) Aliases() []string {
	in := modeAliases[m]
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// AllAliases returns every mode word across all rulesets.
func AllAliases() []string {
	var out []string
	for _, m := range []Mode{Standard, Taiko, Catch, Mania} {
		out = append(out, modeAliases[m]...)
	}
	return out
}

// ModeFromWord looks up a ruleset by any of its aliases.
func ModeFromWord(word string) (Mode, bool) {
	word = strings.ToLower(word)
	for m, aliases := range modeAliases {
		for _, a := range aliases {
			if a == word {
				return m, true
			}
		}
	}
	return Standard, false
}
