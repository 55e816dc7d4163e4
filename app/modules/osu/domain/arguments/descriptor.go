package arguments

import (
	"strconv"
	"strings"
)

// Variant is the behaviour attached to a descriptor. The set is closed:
// Switch, NoArgument and ValueFlag.
type Variant interface {
	variant()
}

// Switch takes no value and turns a boolean on.
type Switch struct {
	Set Override
}

// NoArgument takes no value but rewrites the whole record, e.g. mode words.
type NoArgument struct {
	Apply func(opts Options, raw string) Options
}

// ValueFlag consumes the following token.
type ValueFlag struct {
	Validate      func(raw string) bool
	ValidatorText string
	Apply         func(opts Options, raw string) Options
}

func (Switch) variant()     {}
func (NoArgument) variant() {}
func (ValueFlag) variant()  {}

// Allowed documents one accepted value of a flag for help output.
type Allowed struct {
	Value   string
	Meaning string
}

// Descriptor describes a recognised flag or positional modifier.
type Descriptor struct {
	Name        string
	Aliases     []string
	Description string
	// AllowedText is free-form help used when Allowed is empty.
	AllowedText string
	Allowed     []Allowed
	// NoPrefix marks free-form performance terms written without a dash.
	NoPrefix bool
	Variant  Variant
}

// Matches reports whether word selects this descriptor.
func (d Descriptor) Matches(word string) bool {
	word = strings.ToLower(word)
	if word == d.Name {
		return true
	}
	for _, a := range d.Aliases {
		if a == word {
			return true
		}
	}
	return false
}

// numeric mirrors loose numeric comparison: the token must parse as a number.
func numeric(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// oneOf builds a validator accepting any of the listed integers.
func oneOf(values ...int) func(string) bool {
	return func(raw string) bool {
		f, ok := numeric(raw)
		if !ok {
			return false
		}
		for _, v := range values {
			if f == float64(v) {
				return true
			}
		}
		return false
	}
}

// leadingInt parses the integer prefix of s; ok is false when there is none.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
